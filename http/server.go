package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/prospector"
)

// RunFunc executes a full report run. The server invokes it on a background
// goroutine after registering the run; errors are recorded on the run itself.
type RunFunc func(ctx context.Context, runID string, req prospector.RunRequest)

// Server exposes the run API: registering runs and checking their status.
// All heavy lifting happens in the background; handlers only touch the run
// store.
type Server struct {
	server     *http.Server
	runs       prospector.RunService
	run        RunFunc
	logger     *slog.Logger
	reportsDir string
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithReportsDir serves the contents of dir under /reports/, making
// generated report PDFs downloadable from the same server.
func WithReportsDir(dir string) ServerOption {
	return func(s *Server) {
		s.reportsDir = dir
	}
}

// NewServer creates a Server listening on addr.
func NewServer(addr string, runs prospector.RunService, run RunFunc, logger *slog.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		runs:   runs,
		run:    run,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/runs", s.handleCreateRun)
	mux.HandleFunc("GET /api/v1/runs/{id}", s.handleGetRun)
	if s.reportsDir != "" {
		mux.Handle("GET /reports/", http.StripPrefix("/reports/", http.FileServer(http.Dir(s.reportsDir))))
	}

	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the underlying HTTP handler, useful for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// ListenAndServe blocks serving requests until Shutdown is called.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("http server listening", "addr", ln.Addr().String())
	if err := s.server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type createRunResponse struct {
	RunID   string `json:"run_id"`
	Message string `json:"message"`
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req prospector.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.error(w, prospector.Errorf(prospector.EINVALID, "invalid JSON body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		s.error(w, err)
		return
	}

	runID, err := s.runs.CreateRun(r.Context(), req.Email, req.CompanyDescription, req.URL)
	if err != nil {
		s.error(w, err)
		return
	}

	// The run outlives the request, so it gets a fresh context.
	go s.run(context.Background(), runID, req)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(createRunResponse{
		RunID:   runID,
		Message: "run started",
	})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.FindRunByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// error writes an application error as a JSON response with a status code
// derived from the error code.
func (s *Server) error(w http.ResponseWriter, err error) {
	code := prospector.ErrorCode(err)
	status, ok := errorStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= 500 {
		s.logger.Error("http handler error", "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": prospector.ErrorMessage(err)})
}

var errorStatus = map[string]int{
	prospector.EINVALID:     http.StatusBadRequest,
	prospector.ENOTFOUND:    http.StatusNotFound,
	prospector.ECONFLICT:    http.StatusConflict,
	prospector.EUNAVAILABLE: http.StatusServiceUnavailable,
	prospector.EINTERNAL:    http.StatusInternalServerError,
}
