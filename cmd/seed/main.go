// Seed prepares a postgres backend: schema plus the default sector set for
// a given identity. The server seeds first sessions on its own; this
// command exists for provisioning shared environments up front.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"arquivo/internal/config"
	"arquivo/internal/repository/postgres"
	"arquivo/internal/store"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed sectors")
	userID := flag.String("user", "", "Identity to seed default sectors for")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := postgres.DropTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *userID == "" {
		log.Fatalf("--user is required when seeding sectors")
	}

	adapter := postgres.NewAdapter(pool, tables, logger)
	defer adapter.Close()

	existing, err := adapter.FetchSectors(ctx)
	if err != nil {
		log.Fatalf("Failed to read sectors: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("✅ Sectors already present (%d), nothing to seed", len(existing))
		return
	}

	defaults, err := store.DefaultSectors()
	if err != nil {
		log.Fatalf("Failed to load default sectors: %v", err)
	}

	now := time.Now().UTC()
	for i := range defaults {
		defaults[i].ID = uuid.NewString()
		defaults[i].CreatedAt = now
		defaults[i].CreatedBy = *userID
		if err := adapter.InsertSector(ctx, &defaults[i]); err != nil {
			log.Fatalf("Failed to insert sector %q: %v", defaults[i].Name, err)
		}
		log.Printf("📁 Seeded sector %q", defaults[i].Name)
	}

	log.Printf("✅ Seeded %d default sectors for %s", len(defaults), *userID)
}
