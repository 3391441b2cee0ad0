package main

import (
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/hailam/sage/internal/server"
	"github.com/hailam/sage/internal/storage"
)

var (
	addr     = flag.String("addr", ":3000", "listen address")
	dbDir    = flag.String("db", "", "game database directory (default: platform data dir)")
	noRecord = flag.Bool("no-record", false, "do not store finished games")
	origins  = flag.String("origins", "http://localhost:5173", "allowed CORS origins")
)

func main() {
	flag.Parse()

	var recorder server.Recorder
	if !*noRecord {
		store, err := openStorage(*dbDir)
		if err != nil {
			log.Fatalf("could not open game database: %v", err)
		}
		defer store.Close()
		recorder = store
	}

	srv := server.New(recorder, log.Default(),
		recover.New(),
		logger.New(),
		cors.New(cors.Config{
			AllowOrigins: *origins,
			AllowHeaders: "Origin, Content-Type, Accept",
			AllowMethods: "GET, POST, OPTIONS",
		}),
	)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		<-sig
		log.Printf("Shutting down")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	log.Printf("Listening on %s", *addr)
	if err := srv.Listen(*addr); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}

func openStorage(dir string) (*storage.Storage, error) {
	if dir == "" {
		return storage.NewStorage()
	}
	return storage.Open(dir)
}
