package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"sheetload/adapters/excel"
	"sheetload/adapters/graph"
	"sheetload/adapters/postgres"
	"sheetload/app"
	"sheetload/internal"
	"sheetload/internal/config"
)

func main() {
	checkOnly := flag.Bool("check", false, "verify remote files and store connectivity without importing")
	flag.Parse()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	bindings, err := config.LoadBindings(cfg.BindingsFile)
	if err != nil {
		log.Fatalf("Failed to load bindings: %v", err)
	}

	ctx := context.Background()
	logger := internal.NewDefaultLogger()

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	client := graph.NewClient(ctx, graph.Config{
		TenantID:     cfg.Graph.TenantID,
		ClientID:     cfg.Graph.ClientID,
		ClientSecret: cfg.Graph.ClientSecret,
		SiteID:       cfg.Graph.SiteID,
		DriveName:    cfg.Graph.DriveName,
	})

	importer := app.NewImportService(excel.NewParser(), postgres.NewTableStore(db), logger)
	runner := app.NewRunService(client, importer, logger)

	if *checkOnly {
		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("Store check failed: %v", err)
		}
		if err := runner.Check(ctx, client, bindings); err != nil {
			log.Fatalf("Preflight check failed: %v", err)
		}
		log.Println("Preflight check passed.")
		return
	}

	result := runner.Run(ctx, bindings)
	if !result.AllSucceeded() {
		os.Exit(1)
	}
}
