// Package server exposes a toast queue over HTTP and streams its events over
// a websocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/logging"
	"github.com/cristianoliveira/toastq/internal/search"
	"github.com/cristianoliveira/toastq/internal/toast"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	maxBodyBytes    = 64 << 10
	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Queue *toast.Queue
	// History serves GET /history. Nil disables the route.
	History *domain.HistoryService
	// Gatherer serves GET /metrics. Nil disables the route.
	Gatherer    prometheus.Gatherer
	Logger      logging.Logger
	Dismissible bool
}

// Server routes HTTP requests to the queue.
type Server struct {
	queue       *toast.Queue
	history     *domain.HistoryService
	gatherer    prometheus.Gatherer
	logger      logging.Logger
	dismissible bool
	hub         *Hub
	unsubscribe func()
}

// New creates a server and subscribes its websocket hub to the queue.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.With("component", "server")
	s := &Server{
		queue:       opts.Queue,
		history:     opts.History,
		gatherer:    opts.Gatherer,
		logger:      logger,
		dismissible: opts.Dismissible,
		hub:         NewHub(logger),
	}
	s.unsubscribe = opts.Queue.Subscribe(s.hub.Observe)
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/toasts", func(r chi.Router) {
		r.Get("/", s.listToasts)
		r.Post("/", s.enqueueToast)
		r.Delete("/", s.dismissAll)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getToast)
			r.Patch("/", s.updateToast)
			r.Delete("/", s.dismissToast)
			r.Post("/action", s.triggerAction)
			r.Post("/cancel", s.triggerCancel)
		})
	})
	if s.history != nil {
		r.Get("/history", s.listHistory)
	}
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/ws", s.hub.ServeHTTP)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
// ready, if non-nil, receives the bound address once listening.
func (s *Server) Run(ctx context.Context, addr string, ready chan<- string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("server listening", "addr", ln.Addr().String())
	if ready != nil {
		ready <- ln.Addr().String()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close detaches the server from the queue and disconnects websocket clients.
func (s *Server) Close() {
	s.unsubscribe()
	s.hub.Close()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) listToasts(w http.ResponseWriter, r *http.Request) {
	var toasts []toast.Toast
	if pos := r.URL.Query().Get("position"); pos != "" {
		p, err := domain.ParsePosition(pos)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		toasts = s.queue.Stack(p)
	} else {
		toasts = s.queue.Active()
	}
	out := make([]ToastJSON, len(toasts))
	for i, t := range toasts {
		out[i] = toToastJSON(t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getToast(w http.ResponseWriter, r *http.Request) {
	t, ok := s.queue.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("toast not found"))
		return
	}
	writeJSON(w, http.StatusOK, toToastJSON(t))
}

func (s *Server) enqueueToast(w http.ResponseWriter, r *http.Request) {
	var req EnqueueRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	t, err := req.toToast(s.dismissible)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id, err := s.queue.Enqueue(t)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	created, _ := s.queue.Get(id)
	if created.ID == "" {
		// already dismissed by an observer; report what was accepted
		t.ID = id
		created = t
	}
	writeJSON(w, http.StatusCreated, toToastJSON(created))
}

func (s *Server) updateToast(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !s.queue.Update(id, patch) {
		writeError(w, http.StatusNotFound, errors.New("toast not found"))
		return
	}
	t, _ := s.queue.Get(id)
	writeJSON(w, http.StatusOK, toToastJSON(t))
}

// dismissToast is idempotent: unknown ids also answer 204.
func (s *Server) dismissToast(w http.ResponseWriter, r *http.Request) {
	s.queue.Dismiss(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) dismissAll(w http.ResponseWriter, r *http.Request) {
	n := s.queue.DismissAll()
	writeJSON(w, http.StatusOK, map[string]int{"dismissed": n})
}

func (s *Server) triggerAction(w http.ResponseWriter, r *http.Request) {
	if !s.queue.TriggerAction(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, errors.New("toast or action not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) triggerCancel(w http.ResponseWriter, r *http.Request) {
	if !s.queue.TriggerCancel(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, errors.New("toast or cancel not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := domain.FilterOptions{
		Kind:     q.Get("kind"),
		Position: q.Get("position"),
		Reason:   q.Get("reason"),
	}
	if v := q.Get("since"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid since: %w", err))
			return
		}
		opts.Since = d
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit: %s", v))
			return
		}
		opts.Limit = n
	}

	query := q.Get("q")
	var provider search.Provider
	if query != "" {
		var err error
		provider, err = search.New(q.Get("mode"), search.WithCaseInsensitive(true))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	limit := opts.Limit
	if provider != nil {
		opts.Limit = 0
	}

	records, err := s.history.List(r.Context(), opts)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrStorageFailed) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, err)
		return
	}
	if provider != nil {
		records = search.Filter(records, provider, query)
		if limit > 0 && len(records) > limit {
			records = records[:limit]
		}
	}
	out := make([]HistoryRecordJSON, len(records))
	for i, rec := range records {
		out[i] = toHistoryJSON(rec)
	}
	writeJSON(w, http.StatusOK, out)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
