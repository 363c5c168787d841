package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"review_insights/internal/app"
	"review_insights/internal/domain"
)

type Handlers struct {
	Q *app.QueryService
	R app.Reloader
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type healthResponse struct {
	Status     string     `json:"status"`
	Datasets   []string   `json:"datasets"`
	SnapshotID string     `json:"snapshot_id,omitempty"`
	LoadedAt   *time.Time `json:"loaded_at,omitempty"`
}

type reloadResponse struct {
	Status     string   `json:"status"`
	Datasets   []string `json:"datasets"`
	SnapshotID string   `json:"snapshot_id"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Post("/reload", h.reload)
		r.Get("/buyer-insights", serve(func(*http.Request) (any, error) { return h.Q.BuyerInsights() }))
		r.Get("/supplier-insights", serve(func(*http.Request) (any, error) { return h.Q.SupplierInsights() }))
		r.Get("/filters", serve(func(*http.Request) (any, error) { return h.Q.Filters() }))
		r.Get("/model-advisor", serve(func(*http.Request) (any, error) { return h.Q.ModelAdvisor() }))
		r.Get("/reviews", serve(func(req *http.Request) (any, error) {
			return h.Q.Reviews(parseReviewFilters(req.URL.Query()))
		}))
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeErr maps service errors onto problem responses.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnavailable):
		writeProblem(w, http.StatusServiceUnavailable, "datasets_unavailable", "no dataset snapshot is loaded")
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body, nil
}

// writeJSON sends v with a weak ETag, answering 304 when the client has it.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body, err := calcETagAndBody(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "response encoding failed")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// serve adapts a snapshot read into a JSON handler.
func serve(fn func(*http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fn(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, r, http.StatusOK, out)
	}
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	snap := h.Q.Snapshot()
	resp := healthResponse{Status: "degraded", Datasets: []string{}}
	if snap != nil {
		at := snap.LoadedAt
		resp = healthResponse{Status: "ok", Datasets: snap.Names(), SnapshotID: snap.ID, LoadedAt: &at}
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (h *Handlers) reload(w http.ResponseWriter, r *http.Request) {
	snap, err := h.R.Reload(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "reload_failed", err.Error())
		return
	}
	if snap == nil {
		writeErr(w, domain.ErrUnavailable)
		return
	}
	writeJSON(w, r, http.StatusOK, reloadResponse{Status: "reloaded", Datasets: snap.Names(), SnapshotID: snap.ID})
}
