// Package observer receives post sightings from the page-content
// observer and queues them for flagging.
package observer

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/openveritas/cybercourt/internal/logging"
)

// Intake stores observed posts.
type Intake interface {
	AddObservedPost(ctx context.Context, content, sourceURL string, observedAt time.Time) (int64, error)
}

// Server handles the one-way message channel from the page observer.
type Server struct {
	intake Intake
	log    zerolog.Logger
}

// NewServer creates the bridge server.
func NewServer(intake Intake) *Server {
	return &Server{intake: intake, log: logging.Component("observer")}
}

// Routes returns the bridge router.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /observe", s.handleObserve)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// observeRequest is the single event type on the channel.
type observeRequest struct {
	PostContent string `json:"postContent"`
	SourceURL   string `json:"sourceUrl"`
	Timestamp   string `json:"timestamp"`
}

// ack is the synchronous acknowledgement.
type ack struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleObserve(w http.ResponseWriter, r *http.Request) {
	var req observeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAck(w, http.StatusBadRequest, ack{Status: "error", Message: "invalid payload", Error: err.Error()})
		return
	}
	if strings.TrimSpace(req.PostContent) == "" {
		writeAck(w, http.StatusBadRequest, ack{Status: "error", Message: "postContent is required"})
		return
	}

	observedAt := time.Now()
	if req.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			observedAt = t
		}
	}

	id, err := s.intake.AddObservedPost(r.Context(), req.PostContent, req.SourceURL, observedAt)
	if err != nil {
		s.log.Error().Err(err).Msg("store observed post")
		writeAck(w, http.StatusInternalServerError, ack{Status: "error", Message: "failed to store post", Error: err.Error()})
		return
	}

	s.log.Info().Int64("id", id).Str("source", req.SourceURL).Msg("post observed")
	writeAck(w, http.StatusOK, ack{Status: "success", Message: "post queued for review"})
}

func writeAck(w http.ResponseWriter, code int, a ack) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(a)
}
