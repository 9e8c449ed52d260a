package main

import (
	"flag"
	"os"

	"github.com/erebor/erebor-backend/timetableservice"
)

func main() {
	// Optional database path override for local runs
	dbPath := flag.String("db", "", "Override EREBOR_DB_PATH")
	flag.Parse()

	if *dbPath != "" {
		_ = os.Setenv("EREBOR_DB_PATH", *dbPath)
	}

	if err := timetableservice.Run(); err != nil {
		os.Exit(1)
	}
}
