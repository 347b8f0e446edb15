// Package rest exposes the curation core over HTTP.
package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ewilliams-labs/woodshed/internal/core/ports"
	"github.com/ewilliams-labs/woodshed/internal/core/services"
)

// Handler manages the HTTP interface for the application.
type Handler struct {
	svc     *services.Collection
	catalog ports.CatalogProvider
	router  *http.ServeMux
	log     *logrus.Logger

	// fallbackIdentity serves single-tenant deployments with no auth in
	// front; requests without an X-User-Id header act as this identity.
	fallbackIdentity string
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Collection, catalog ports.CatalogProvider, fallbackIdentity string, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.New()
	}
	h := &Handler{
		svc:              svc,
		catalog:          catalog,
		router:           http.NewServeMux(),
		log:              log,
		fallbackIdentity: fallbackIdentity,
	}

	h.routes()

	return h
}

// ServeHTTP satisfies http.Handler: CORS, request logging, then routing.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-Id")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.router.ServeHTTP(rec, r)

	h.log.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"method":     r.Method,
		"path":       r.URL.Path,
		"status":     rec.status,
		"duration":   time.Since(start).String(),
	}).Info("request handled")
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.HealthCheck)

	h.router.HandleFunc("GET /api/search", h.Search)

	h.router.HandleFunc("GET /api/profiles", h.ListProfiles)
	h.router.HandleFunc("PUT /api/profiles/{profileID}", h.RenameProfile)

	h.router.HandleFunc("GET /api/profiles/{profileID}/songs", h.ListSongs)
	h.router.HandleFunc("POST /api/add-song-to-profile", h.AddSong)
	h.router.HandleFunc("PUT /api/profiles/{profileID}/songs/{profileSongID}", h.UpdateSong)
	h.router.HandleFunc("DELETE /api/profiles/{profileID}/songs/{profileSongID}", h.DeleteSong)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// identity resolves the caller's identity. Authentication proper lives
// upstream; here we only read what it resolved, or fall back.
func (h *Handler) identity(r *http.Request) string {
	if id := r.Header.Get("X-User-Id"); id != "" {
		return id
	}
	return h.fallbackIdentity
}

// pathID parses an integer path segment, returning ok=false on garbage.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
