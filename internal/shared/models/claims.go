package models

import "github.com/golang-jwt/jwt/v5"

const (
	RoleDriver    = "driver"
	RolePassenger = "passenger"
	RoleAdmin     = "admin"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
