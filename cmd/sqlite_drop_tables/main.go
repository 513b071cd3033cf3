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

	if err := store.DropTables(ctx); err != nil {
		log.Fatalf("drop tables: %v", err)
	}
	log.Printf("tables dropped in %s", store.Path())
}
