package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pseudocoder/relay/internal/config"
	"github.com/pseudocoder/relay/internal/database"
	"github.com/pseudocoder/relay/internal/eventbus"
	"go.uber.org/zap"
)

// Checks connectivity to every configured journal sink.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	if cfg.DatabaseURL == "" && cfg.RedisURL == "" && cfg.NATSURL == "" {
		fmt.Println("No journal sinks configured")
		return
	}

	if cfg.DatabaseURL != "" {
		checkPostgres(ctx, cfg.DatabaseURL)
	}

	if cfg.RedisURL != "" {
		fmt.Println("Connecting to redis...")
		rdb, err := database.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			fmt.Printf("Error connecting to redis: %v\n", err)
		} else {
			fmt.Println("Redis connection successful!")
			rdb.Close()
		}
	}

	if cfg.NATSURL != "" {
		fmt.Println("Connecting to NATS...")
		bus, err := eventbus.Connect(cfg.NATSURL, zap.NewNop())
		if err != nil {
			fmt.Printf("Error connecting to NATS: %v\n", err)
			return
		}
		defer bus.Close()
		if err := bus.Ping(5 * time.Second); err != nil {
			fmt.Printf("Error pinging NATS: %v\n", err)
			return
		}
		fmt.Println("NATS connection successful!")
	}
}

func checkPostgres(ctx context.Context, url string) {
	fmt.Println("Connecting to postgres...")

	db, err := database.NewPostgres(ctx, url)
	if err != nil {
		fmt.Printf("Error connecting to postgres: %v\n", err)
		return
	}
	defer db.Close()

	fmt.Println("Postgres connection successful!")

	var count int
	err = db.Pool().QueryRow(ctx, "SELECT COUNT(*) FROM exchanges").Scan(&count)
	if err != nil {
		fmt.Printf("Error querying exchanges (migrations applied?): %v\n", err)
		return
	}

	fmt.Printf("Journal rows: %d\n", count)
}
