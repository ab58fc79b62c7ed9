package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ranznz/wage-survey/internal/app"
)

func TestConvertDatabaseConfigSQLiteDefault(t *testing.T) {
	cfg := &app.Config{}

	dbCfg := convertDatabaseConfig(cfg)
	require.Equal(t, "sqlite", dbCfg.Driver)
}

func TestConvertDatabaseConfigPostgresAlias(t *testing.T) {
	cfg := &app.Config{}
	cfg.Database.Driver = "PostgreSQL"
	cfg.Database.Postgres = app.DBAuthConfig{
		Host:     " db.internal ",
		Port:     5432,
		Database: "survey",
		Username: "survey",
		Password: "secret",
	}

	dbCfg := convertDatabaseConfig(cfg)
	require.Equal(t, "postgres", dbCfg.Driver)
	require.Equal(t, "db.internal", dbCfg.Host)
	require.Equal(t, 5432, dbCfg.Port)
	require.Equal(t, "survey", dbCfg.Name)
}

func TestConvertDatabaseConfigUnknownDriverPassesThrough(t *testing.T) {
	cfg := &app.Config{}
	cfg.Database.Driver = "oracle"

	dbCfg := convertDatabaseConfig(cfg)
	require.Equal(t, "oracle", dbCfg.Driver)
}
