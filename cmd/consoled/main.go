package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"escape-ops-console/config"
	"escape-ops-console/internal/api"
	"escape-ops-console/internal/db"
	"escape-ops-console/internal/escalate"
	"escape-ops-console/internal/escort"
	"escape-ops-console/internal/gameapi"
	"escape-ops-console/internal/journal"
	"escape-ops-console/internal/lifecycle"
	"escape-ops-console/internal/model"
	"escape-ops-console/internal/notification"
	"escape-ops-console/internal/poll"
	"escape-ops-console/internal/rankings"
	"escape-ops-console/internal/register"
	"escape-ops-console/internal/roomview"
)

func main() {
	logger := log.New(os.Stdout, "escape-console ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Backend.BaseURL == "" {
		logger.Fatalf("backend.base_url must be configured; the console does not guess the game backend's address")
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("journal database initialized")

	journalStore := journal.NewGormStore(gormDB)
	client := gameapi.NewClient(&cfg.Backend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Staff push channel. The pool runs even without VAPID keys
	// configured; it just has no subscribers it can reach.
	webpushOptions := &webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}
	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
	pool.Start(ctx)

	// Panels and workflow engines.
	board := roomview.NewView()
	alerts := escalate.NewEngine(client, journalStore, func(record gameapi.ErrorRecord) {
		pool.Dispatch(notification.Alert{
			Topic:   model.TopicErrors,
			Message: fmt.Sprintf("Error reported from %s: %s", record.FromWhere, record.Description),
		})
	})
	escortEngine := escort.NewEngine(client, journalStore, func(entry gameapi.QueueEntry) {
		pool.Dispatch(notification.Alert{
			Topic:   model.TopicEscort,
			Message: fmt.Sprintf("Room %s is free for group %s (queue %s)", entry.RoomID, entry.GroupName, entry.QueueNumber),
		})
	})
	registration := register.NewWorkflow(client, journalStore, cfg.Backend.DuplicateMarker)

	// Pollers. Each panel owns its own schedule; none share a timer.
	errorPoller := poll.New("errorcheck", client.UnresolvedErrors, cfg.Poll.Errors, alerts.Observe, nil)
	queuePoller := poll.New("queue-status", client.QueueStatus, cfg.Poll.Queue, escortEngine.Observe, nil)
	roomPoller := poll.New("rooms", client.ListRooms, cfg.Poll.Rooms, board.Replace, nil)

	var groupPoller *poll.Poller[[]gameapi.Group]
	groups := lifecycle.NewPanel(client, journalStore, func() { groupPoller.Kick() })
	groupPoller = poll.New("groups", client.ListGroups, cfg.Poll.Groups, groups.Replace, nil)

	rotator := rankings.NewRotator(client, cfg.Poll.Rankings)

	errorPoller.Start(ctx)
	queuePoller.Start(ctx)
	roomPoller.Start(ctx)
	groupPoller.Start(ctx)
	go rotator.Run(ctx)

	handler := api.NewHandler(client, board, alerts, escortEngine, registration, groups, rotator, journalStore, webpushOptions)
	router := api.NewRouter(handler, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("console API starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	errorPoller.Stop()
	queuePoller.Stop()
	roomPoller.Stop()
	groupPoller.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
