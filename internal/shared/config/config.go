package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"ride-entitlement/internal/shared/models"
)

func LoadConfig(filename string) (*models.Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := defaults()
	var section string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !strings.Contains(line, ":") {
			continue
		}

		if strings.HasSuffix(line, ":") {
			section = strings.TrimSuffix(line, ":")
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		val := expandEnv(strings.TrimSpace(parts[1]))

		switch section {
		case "database":
			switch key {
			case "host":
				cfg.Database.Host = val
			case "port":
				cfg.Database.Port = val
			case "user":
				cfg.Database.User = val
			case "password":
				cfg.Database.Password = val
			case "database":
				cfg.Database.Database = val
			}
		case "rabbitmq":
			switch key {
			case "host":
				cfg.RabbitMQ.Host = val
			case "port":
				cfg.RabbitMQ.Port = val
			case "user":
				cfg.RabbitMQ.User = val
			case "password":
				cfg.RabbitMQ.Password = val
			}
		case "http":
			if key == "port" {
				cfg.HTTP.Port = val
			}
		case "jwt":
			if key == "secret" {
				cfg.JWT.Secret = val
			}
		case "sweeps":
			switch key {
			case "offline_interval_seconds":
				cfg.Sweeps.OfflineIntervalSec = atoiOr(val, cfg.Sweeps.OfflineIntervalSec)
			case "offline_timeout_seconds":
				cfg.Sweeps.OfflineTimeoutSec = atoiOr(val, cfg.Sweeps.OfflineTimeoutSec)
			case "expiry_interval_seconds":
				cfg.Sweeps.ExpiryIntervalSec = atoiOr(val, cfg.Sweeps.ExpiryIntervalSec)
			case "mass_sync_interval_seconds":
				cfg.Sweeps.MassSyncIntervalSec = atoiOr(val, cfg.Sweeps.MassSyncIntervalSec)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *models.Config {
	cfg := &models.Config{}
	cfg.HTTP.Port = "3000"
	cfg.Sweeps.OfflineIntervalSec = 30
	cfg.Sweeps.OfflineTimeoutSec = 60
	cfg.Sweeps.ExpiryIntervalSec = 60
	cfg.Sweeps.MassSyncIntervalSec = 600
	return cfg
}

// expandEnv resolves ${VAR:-default} references the way docker-compose does.
func expandEnv(val string) string {
	if !strings.HasPrefix(val, "${") || !strings.HasSuffix(val, "}") {
		return val
	}

	inside := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
	parts := strings.SplitN(inside, ":-", 2)

	envVar := parts[0]
	defVal := ""
	if len(parts) == 2 {
		defVal = parts[1]
	}

	if v, ok := os.LookupEnv(envVar); ok {
		return v
	}
	return defVal
}

func atoiOr(val string, def int) int {
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
