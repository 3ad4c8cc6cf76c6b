package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/rocketscienceinc/baduk-backend/internal/pkg"
	"github.com/rocketscienceinc/baduk-backend/internal/session"
)

const shutdownTimeout = 5 * time.Second

type sessionHandler interface {
	Handle(ctx context.Context, connID string, msg session.Inbound)
	Reject(connID string, err error)
	Disconnect(ctx context.Context, connID string)
}

// RateLimit bounds the requests a single connection may send.
type RateLimit struct {
	PerSecond float64
	Burst     int
}

// limiter - a non-positive rate disables limiting.
func (that RateLimit) limiter() *rate.Limiter {
	if that.PerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}

	return rate.NewLimiter(rate.Limit(that.PerSecond), that.Burst)
}

type Server struct {
	logger   *slog.Logger
	hub      *Hub
	handler  sessionHandler
	limit    RateLimit
	upgrader websocket.Upgrader
	newID    func() string
}

func New(logger *slog.Logger, hub *Hub, handler sessionHandler, limit RateLimit) *Server {
	return &Server{
		logger:  logger.With("component", "websocket"),
		hub:     hub,
		handler: handler,
		limit:   limit,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients are served from other origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		newID: pkg.GenerateConnectionID,
	}
}

// Routes - returns the HTTP handler serving the WebSocket endpoint.
func (that *Server) Routes(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Routes(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS - upgrades the request and runs the connection until it closes.
func (that *Server) serveWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(that.newID(), conn, that.limit.limiter())
	log = log.With("connID", c.id)

	that.hub.register(c)
	log.Info("WebSocket connection established")

	go func() {
		if err := c.writePump(); err != nil {
			log.Debug("writer stopped", "error", err)
		}
	}()

	if err = c.readPump(ctx, that.handler); err != nil {
		log.Warn("connection closed unexpectedly", "error", err)
	}

	that.hub.unregister(c.id)
	that.handler.Disconnect(ctx, c.id)

	log.Info("WebSocket connection closed")
}
