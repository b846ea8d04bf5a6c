package main

import (
	"context"
	_ "embed"
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/klabast/wb-services/countdown/internal/app"
	"github.com/klabast/wb-services/countdown/internal/clock"
	"github.com/klabast/wb-services/countdown/internal/commands"
	"github.com/klabast/wb-services/countdown/internal/countdown"
	"github.com/klabast/wb-services/countdown/internal/storage/sqlite"
)

//go:embed static/index.html
var indexHTML []byte

func main() {
	// Check for subcommands
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		commands.HashPassword(os.Args[2:])
		return
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := app.ParseEnv()
	if err != nil {
		log.Fatalf("Failed to parse configuration: %v", err)
	}

	// Flags override the environment
	listen := flag.String("listen", cfg.Listen, "Address to listen on")
	dataDir := flag.String("data", cfg.DataDir, "Directory holding the events database")
	flag.Parse()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to load timezone %q: %v", cfg.Timezone, err)
	}

	store, err := sqlite.Open(filepath.Join(*dataDir, app.DatabaseFile))
	if err != nil {
		log.Fatalf("Failed to open event store: %v", err)
	}
	defer store.Close()

	model := countdown.NewModel(store, loc)
	model.Load(context.Background())

	server := app.NewServer(model, clock.NewSystem(), indexHTML)
	if err := server.LoadAuthCredentials(cfg.AuthFile); err != nil {
		log.Fatalf("Failed to load auth credentials: %v", err)
	}

	mux := http.NewServeMux()
	server.Routes(mux)

	log.Printf("Starting Event Countdown on http://%s", *listen)
	log.Printf("Data directory: %s", *dataDir)
	if err := http.ListenAndServe(*listen, mux); err != nil {
		log.Fatal(err)
	}
}
