// internal/config/database.go
package config

import (
	"fmt"
)

// DSN builds the postgres connection string. Timestamps are stored and
// compared in São Paulo time, matching the BRL ledger.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=America/Sao_Paulo",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}
