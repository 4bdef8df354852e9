package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/marblerace/config"
	"github.com/zucenko/marblerace/server"
	"github.com/zucenko/marblerace/store"
)

type Server struct {
	router     *way.Router
	GameServer *server.GameServer
	API        *server.API
}

func main() {
	cfg := config.Load()
	log.SetLevel(cfg.LogLevel)

	var db store.DB
	var recorder server.Recorder
	if cfg.DBPath != "" {
		sqlite, err := store.NewSQLiteDB(cfg.DBPath)
		if err != nil {
			log.Fatalf("race history: %v", err)
		}
		if err := sqlite.Migrate(); err != nil {
			log.Fatalf("race history: %v", err)
		}
		defer sqlite.Close()
		db, recorder = sqlite, sqlite
		log.Printf("Recording races to %s", cfg.DBPath)
	}

	Server := Server{
		GameServer: server.NewGameServer(server.NewSettings(cfg), recorder),
		API:        &server.API{DB: db},
	}
	go Server.GameServer.Loop()
	Server.routes()

	httpServer := &http.Server{Addr: ":" + cfg.Port, Handler: Server.handler()}
	go func() {
		log.Printf("Listening on port %s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalln(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Printf("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	Server.GameServer.Close()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Warnf("shutdown: %v", err)
	}
}
