package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pressly/goose/v3"

	"pet-alert-network/internal/adapters/storage/postgres"
)

func main() {
	var (
		dir = flag.String("dir", "migrations", "directorio de migraciones")
		cmd = flag.String("cmd", "up", "up | down | status")
	)
	flag.Parse()

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		fail("DATABASE_DSN is required")
	}

	db, err := postgres.Open(dsn)
	if err != nil {
		fail("open database: " + err.Error())
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(*dir))
	if err != nil {
		fail("goose provider: " + err.Error())
	}

	ctx := context.Background()

	switch *cmd {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			fail("goose up: " + err.Error())
		}
		for _, r := range results {
			fmt.Printf("applied %s\n", r.Source.Path)
		}
	case "down":
		result, err := provider.Down(ctx)
		if err != nil {
			fail("goose down: " + err.Error())
		}
		fmt.Printf("rolled back %s\n", result.Source.Path)
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			fail("goose status: " + err.Error())
		}
		for _, st := range statuses {
			state := "pending"
			if st.State == goose.StateApplied {
				state = "applied"
			}
			fmt.Printf("%-10s %s\n", state, st.Source.Path)
		}
	default:
		fail("unknown cmd: " + *cmd)
	}
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
