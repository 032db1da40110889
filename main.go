package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nwah/naviwatch-bridge/gateway"
	"github.com/nwah/naviwatch-bridge/index"
	"github.com/nwah/naviwatch-bridge/nav"
	"github.com/nwah/naviwatch-bridge/watch"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the configuration file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Load configuration
	if err := LoadConfig(*configPath); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config := GetConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mapIndex, err := index.Open(ctx, config.Index)
	cancel()
	if err != nil {
		log.Fatalf("Failed to open map index: %v", err)
	}
	if mapIndex != nil {
		defer mapIndex.Close()
	}

	router := nav.NewRouter(config.Nav)
	navigator := nav.NewNavigator()
	hub := gateway.NewHub(config.Gateway)
	defer hub.Close()

	var spatial watch.SpatialIndex
	if mapIndex != nil {
		spatial = mapIndex
	}
	session, err := watch.NewSession(config.Watch, navigator, spatial, hub, watch.LogObserver{})
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	// The navigator must see a fix before the session asks it for the next
	// maneuver, so it subscribes first.
	feed := watch.NewLocationFeed()
	feed.Subscribe(navigator.UpdateLocation)
	session.Attach(feed)

	mux := http.NewServeMux()
	nav.NewHandlers(router, navigator, session, feed).Register(mux)
	mux.Handle("/watch/ws", hub)

	srv := &http.Server{
		Addr:    config.Port,
		Handler: mux,
	}

	go func() {
		log.Printf("Starting server on port %s", config.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
