package models

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type RabbitMQConfig struct {
	Host     string
	Port     string
	User     string
	Password string
}

type HTTPConfig struct {
	Port string
}

type JWTConfig struct {
	Secret string
}

// SweepsConfig holds the intervals (seconds) for the three background jobs
// and the heartbeat staleness timeout used by the offline sweep.
type SweepsConfig struct {
	OfflineIntervalSec  int
	OfflineTimeoutSec   int
	ExpiryIntervalSec   int
	MassSyncIntervalSec int
}

type Config struct {
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	HTTP     HTTPConfig
	JWT      JWTConfig
	Sweeps   SweepsConfig
}
