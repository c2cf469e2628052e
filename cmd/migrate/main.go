package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"ms-booking/internal/config"
	"ms-booking/internal/database/migrations"
	"ms-booking/internal/logger"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	version := flag.Uint("version", 0, "migrate to this exact version instead (0 = ignore)")
	flag.Parse()

	log := logger.NewWithWriter(os.Stdout)

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}
	cfg := config.Load()

	opts := migrations.DefaultOptions()
	opts.MigrationsDir = cfg.Database.MigrationsDir
	runner := migrations.NewRunner(cfg.Database.DSN, opts, log)
	defer runner.Close()

	var err error
	switch {
	case *version > 0:
		err = runner.MigrateTo(*version)
	case *direction == "up":
		err = runner.MigrateUp()
	case *direction == "down":
		err = runner.MigrateDown()
	default:
		err = fmt.Errorf("unknown direction %q", *direction)
	}
	if err != nil {
		log.Error("MIGRATION", err.Error())
		runner.Close()
		os.Exit(1)
	}

	current, dirty, err := runner.Version()
	if err != nil {
		log.Error("MIGRATION", err.Error())
		runner.Close()
		os.Exit(1)
	}
	log.Info("MIGRATION", fmt.Sprintf("Migration complete: version %d (dirty=%t)", current, dirty))
}
