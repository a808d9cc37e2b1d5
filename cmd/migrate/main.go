package main

import (
	"database/sql"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"ms-event-setup/internal/config"
	launchdb "ms-event-setup/internal/launch/db"
)

// Standalone migration runner for the launch store. The service applies
// migrations on startup when AUTO_MIGRATE is set; this binary exists for
// running them by hand, including rollbacks.
func main() {
	down := flag.Bool("down", false, "roll back all migrations instead of applying them")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}
	cfg := config.Load()

	connector := pgdriver.NewConnector(pgdriver.WithDSN(cfg.Database.DSN()))
	sqldb := sql.OpenDB(connector)
	defer sqldb.Close()

	if err := sqldb.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	runner := launchdb.NewRunner(bunDB, launchdb.MigrateOptions{
		MigrationsDir: cfg.Launch.MigrationsDir,
	})
	defer runner.Close()

	if *down {
		log.Println("Rolling back migrations...")
		if err := runner.MigrateDown(); err != nil {
			log.Fatalf("Migration down failed: %v", err)
		}
	} else {
		log.Println("Applying migrations...")
		if err := runner.MigrateUp(); err != nil {
			log.Fatalf("Migration up failed: %v", err)
		}
	}

	log.Println("Done.")
}
