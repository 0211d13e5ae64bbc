package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/programme-match-api/pkg/config"
)

func TestDSNPrefersURL(t *testing.T) {
	cfg := config.DatabaseConfig{URL: "postgres://u:p@db:5432/app?sslmode=disable", Host: "ignored"}
	assert.Equal(t, cfg.URL, DSN(cfg))
}

func TestDSNFromFields(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "app", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=app sslmode=require", DSN(cfg))
}

func TestURLFromFields(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", Name: "app", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/app?sslmode=disable", URL(cfg))

	cfg.URL = "postgres://override"
	assert.Equal(t, "postgres://override", URL(cfg))
}
