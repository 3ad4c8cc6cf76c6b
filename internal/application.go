package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/baduk-backend/internal/config"
	"github.com/rocketscienceinc/baduk-backend/internal/registry"
	"github.com/rocketscienceinc/baduk-backend/internal/repository"
	"github.com/rocketscienceinc/baduk-backend/internal/repository/storage"
	"github.com/rocketscienceinc/baduk-backend/internal/session"
	"github.com/rocketscienceinc/baduk-backend/transport/natsfeed"
	"github.com/rocketscienceinc/baduk-backend/transport/rest"
	"github.com/rocketscienceinc/baduk-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	hub := websocket.NewHub(logger)

	var broadcaster session.Broadcaster = hub

	if conf.NATS.URL != "" {
		conn, err := natsfeed.Connect(conf.NATS.URL, conf.NATS.Name)
		if err != nil {
			return fmt.Errorf("could not connect to nats: %w", err)
		}
		defer conn.Close()

		broadcaster = natsfeed.New(logger, hub, conn)
		log.Info("Publishing room events to NATS", "url", conf.NATS.URL)
	}

	opts := []registry.Option{registry.WithExpireHook(broadcaster.Disband)}

	if conf.Redis.Enabled {
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString, conf.Redis.DialTimeout)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		roomRepo := repository.NewRoomRepository(redisStorage.Connection, conf.Redis.SnapshotTTL)
		opts = append(opts, registry.WithSnapshotStore(roomRepo))
		log.Info("Mirroring room snapshots to Redis", "addr", redisAddrString)
	}

	rooms := registry.New(logger, opts...)
	defer rooms.Close()

	handler := session.New(logger, rooms, broadcaster, session.Timeouts{
		Waiting:  conf.Room.WaitingTTL,
		Finished: conf.Room.FinishedTTL,
	})

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		router := rest.NewRouter(rest.NewHandlers(logger, rooms, hub))
		if httpErr := rest.Start(ctx, conf.HTTPPort, router); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, hub, handler, websocket.RateLimit{
			PerSecond: conf.RateLimit.PerSecond,
			Burst:     conf.RateLimit.Burst,
		})
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err := <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
