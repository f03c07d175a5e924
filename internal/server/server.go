// Package server provides the HTTP API for async publish operations.
//
// Endpoints:
//
//	POST /publishes        — enqueue a new publish batch; returns operation ID immediately
//	GET  /publishes/{id}   — poll operation status and retrieve stored artifact metadata
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tomasbasham/artifact-publish/internal/operation"
	"github.com/tomasbasham/artifact-publish/internal/upload"
)

// Server holds the dependencies shared across HTTP handlers.
type Server struct {
	store  operation.Store
	client *upload.Client
	logger *zap.SugaredLogger
	mux    *http.ServeMux
}

// New creates a Server wired to the given store and upload client. A nil
// logger disables logging.
func New(store operation.Store, client *upload.Client, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Server{
		store:  store,
		client: client,
		logger: logger,
	}

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("POST /publishes", s.handleCreatePublish)
	s.mux.HandleFunc("GET /publishes/{id}", s.handleGetPublish)

	return s
}

// Handler returns the server's HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return srv.ListenAndServe()
}

// createPublishRequest is the JSON body for POST /publishes.
type createPublishRequest struct {
	Destination string                  `json:"destination"`
	Artifacts   []createPublishArtifact `json:"artifacts"`
}

type createPublishArtifact struct {
	Filename  string `json:"filename"`
	LocalPath string `json:"local_path"`
}

// createPublishResponse is returned immediately from POST /publishes.
type createPublishResponse struct {
	OperationID string `json:"operation_id"`
	Status      string `json:"status"`
}

func (s *Server) handleCreatePublish(w http.ResponseWriter, r *http.Request) {
	var req createPublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Destination == "" {
		writeError(w, http.StatusBadRequest, "destination is required")
		return
	}
	if len(req.Artifacts) == 0 {
		writeError(w, http.StatusBadRequest, "at least one artifact is required")
		return
	}

	artifacts := make([]upload.Artifact, 0, len(req.Artifacts))
	for _, a := range req.Artifacts {
		if a.Filename == "" || a.LocalPath == "" {
			writeError(w, http.StatusBadRequest, "every artifact needs a filename and a local_path")
			return
		}
		artifacts = append(artifacts, upload.Artifact{Filename: a.Filename, LocalPath: a.LocalPath})
	}

	op, err := s.store.Create(req.Destination)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create operation: "+err.Error())
		return
	}

	s.logger.Infof("enqueued publish %s: %d artifacts to %s", op.ID, len(artifacts), req.Destination)

	// Run the publish in the background. The request context is intentionally
	// not used here — we do not want the uploads to be cancelled when the
	// HTTP connection closes.
	go operation.Run(context.Background(), operation.WorkerOptions{
		OperationID: op.ID,
		Store:       s.store,
		Client:      s.client,
		Destination: req.Destination,
		Artifacts:   artifacts,
	})

	writeJSON(w, http.StatusAccepted, createPublishResponse{
		OperationID: op.ID,
		Status:      string(operation.StatusPending),
	})
}

func (s *Server) handleGetPublish(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "operation id is required")
		return
	}

	op, err := s.store.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("operation %q not found", id))
		return
	}

	writeJSON(w, http.StatusOK, op)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
