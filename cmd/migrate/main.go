package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/noah-isme/programme-match-api/pkg/config"
	"github.com/noah-isme/programme-match-api/pkg/database"
	"github.com/noah-isme/programme-match-api/pkg/logger"
)

func main() {
	var dir string
	flag.StringVar(&dir, "path", "migrations", "directory holding migration files")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck
	sugar := logr.Sugar()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return
	}

	m, err := migrate.New("file://"+dir, database.URL(cfg.Database))
	if err != nil {
		sugar.Fatalw("migration init failed", "error", err)
	}
	defer m.Close()

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			sugar.Fatalw("migrate up failed", "error", err)
		}
		sugar.Infow("migrated up")
	case "down":
		if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			sugar.Fatalw("migrate down failed", "error", err)
		}
		sugar.Infow("migrated down one step")
	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			sugar.Fatalw("version lookup failed", "error", err)
		}
		sugar.Infow("schema version", "version", version, "dirty", dirty)
	case "force":
		if len(args) < 2 {
			sugar.Fatalw("force requires a version argument")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			sugar.Fatalw("invalid version", "value", args[1], "error", err)
		}
		if err := m.Force(v); err != nil {
			sugar.Fatalw("force failed", "error", err)
		}
		sugar.Infow("forced schema version", "version", v)
	default:
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Usage: migrate [flags] <command>")
	fmt.Println("Commands: up, down, version, force <version>")
	flag.PrintDefaults()
}
