package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"plexrr/internal/config"
	"plexrr/internal/logging"
)

// Server receives Plex webhook deliveries and dispatches configured
// commands.
type Server struct {
	bind     string
	events   map[string][]string
	lockPath string
	runner   CommandRunner
	logger   *slog.Logger

	listener net.Listener
	server   *http.Server
	lock     *flock.Flock
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// New constructs a webhook server from config.
func New(cfg config.Webhooks, runner CommandRunner, logger *slog.Logger) *Server {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	srv := &Server{
		bind:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		events:   cfg.Events,
		lockPath: cfg.LockFile,
		runner:   runner,
		logger:   logger.With(logging.FieldComponent, "webhook"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleDelivery)
	mux.HandleFunc("/healthz", srv.handleHealthz)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Start acquires the instance lock, binds the listener, and serves until
// the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if err := s.acquireLock(); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		s.releaseLock()
		return fmt.Errorf("webhook listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("webhook server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("webhook server listening", "address", listener.Addr().String())
	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waits for in-flight dispatches, and
// releases the instance lock. Safe to call more than once; the
// ctx-done goroutine in Start and the command layer may both reach it.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.server.Shutdown(shutdownCtx)
		}
		s.wg.Wait()
		s.releaseLock()
	})
}

func (s *Server) acquireLock() error {
	if s.lockPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(s.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire webhook lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another webhook listener holds %s", s.lockPath)
	}
	s.lock = lock
	return nil
}

func (s *Server) releaseLock() {
	if s.lock != nil {
		_ = s.lock.Unlock()
		s.lock = nil
	}
}

func (s *Server) handleDelivery(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	deliveryID := uuid.NewString()
	logger := s.logger.With(logging.FieldCorrelationID, deliveryID)

	payload, err := ParseRequest(r)
	if err != nil {
		logger.Warn("rejected delivery", "error", err)
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	eventKey := payload.EventKey()
	logger = logger.With(logging.FieldEvent, payload.Event)
	if eventKey == "" {
		logger.Debug("ignoring unmapped event")
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ignored", "delivery": deliveryID})
		return
	}

	templates := s.events[eventKey]
	if len(templates) == 0 {
		logger.Debug("no commands configured", "key", eventKey)
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ignored", "delivery": deliveryID})
		return
	}

	values := payload.Placeholders()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.dispatch(logger, eventKey, templates, values)
	}()

	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted", "delivery": deliveryID})
}

func (s *Server) dispatch(logger *slog.Logger, eventKey string, templates []string, values map[string]string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	for _, template := range templates {
		args := ExpandCommand(template, values)
		if len(args) == 0 {
			continue
		}
		logger.Info("dispatching command", "key", eventKey, "command", strings.Join(args, " "))
		if err := s.runner.Run(ctx, args); err != nil {
			logger.Error("command failed", "key", eventKey, "error", err)
			continue
		}
		logger.Info("command complete", "key", eventKey)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
