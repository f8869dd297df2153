// Command dbcheck prints the schema and contents of the shop database to
// the console. Diagnostic tool, not part of the runtime system.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"techshop/internal/config"
	"techshop/internal/storage"
)

func main() {
	table := flag.String("table", "", "dump only this table (default: all)")
	limit := flag.Int("limit", 10, "max rows to print per table")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("database open error: %v", err)
	}

	tables := storage.KnownTables
	if *table != "" {
		if !storage.IsKnownTable(*table) {
			log.Fatalf("unknown table %q (known: %s)", *table, strings.Join(storage.KnownTables, ", "))
		}
		tables = []string{*table}
	}

	for _, t := range tables {
		count, err := storage.CountRows(db, t)
		if err != nil {
			fmt.Printf("- Table %s: MISSING (%v)\n\n", t, err)
			continue
		}

		cols, rows, err := storage.DumpTable(db, t, *limit)
		if err != nil {
			fmt.Printf("- Table %s: dump failed: %v\n\n", t, err)
			continue
		}

		fmt.Printf("==== %s ====\n", t)
		fmt.Printf("Rows: %d\n", count)
		fmt.Printf("Columns: %s\n", strings.Join(cols, ", "))
		for _, row := range rows {
			fmt.Println(strings.Join(row, " | "))
		}
		fmt.Println()
	}
}
