package main

import (
	"context"
	"log"
	"os"

	sqlstore "github.com/surebetlabs/surebet/internal/storage/sqlite"
)

func main() {
	ctx := context.Background()

	store, err := sqlstore.Open(os.Getenv("SQLITE_PATH"))
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	if err := store.CreateTables(ctx); err != nil {
		log.Fatalf("create tables: %v", err)
	}
	log.Printf("tables created in %s", store.Path())
}
