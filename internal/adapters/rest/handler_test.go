package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ewilliams-labs/woodshed/internal/core/domain"
	"github.com/ewilliams-labs/woodshed/internal/core/services"
)

// The handler depends on the concrete *services.Collection, so these tests
// build a real service wired with mock repositories and a mock catalog.

// --- Mocks ---

type mockCatalog struct {
	tracks    []domain.Track
	searchErr error
	getErr    error
}

func (m *mockCatalog) SearchTracks(ctx context.Context, query string) ([]domain.Track, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.tracks, nil
}

func (m *mockCatalog) GetTrack(ctx context.Context, externalID string) (domain.Track, error) {
	if m.getErr != nil {
		return domain.Track{}, m.getErr
	}
	return domain.Track{ID: externalID, ArtworkURLs: []string{"big.jpg", "mid.jpg"}}, nil
}

type mockSongs struct {
	songID int64
}

func (m *mockSongs) EnsureSong(ctx context.Context, t domain.Track) (int64, error) {
	return m.songID, nil
}

type mockProfiles struct {
	profile domain.Profile
	getErr  error
}

func (m *mockProfiles) GetProfile(ctx context.Context, id int64) (domain.Profile, error) {
	if m.getErr != nil {
		return domain.Profile{}, m.getErr
	}
	return m.profile, nil
}

func (m *mockProfiles) ListProfiles(ctx context.Context, ownerID string) ([]domain.Profile, error) {
	return []domain.Profile{m.profile}, nil
}

func (m *mockProfiles) CreateProfile(ctx context.Context, ownerID string, name *string) (domain.Profile, error) {
	return m.profile, nil
}

func (m *mockProfiles) RenameProfile(ctx context.Context, id int64, name string) (domain.Profile, error) {
	p := m.profile
	p.Name = &name
	return p, nil
}

type mockMembers struct {
	rows   []domain.ProfileSongDetail
	row    domain.ProfileSongDetail
	getErr error
	exists bool
	count  int
}

func (m *mockMembers) ListByProfile(ctx context.Context, profileID int64) ([]domain.ProfileSongDetail, error) {
	return m.rows, nil
}

func (m *mockMembers) GetByID(ctx context.Context, id int64) (domain.ProfileSongDetail, error) {
	if m.getErr != nil {
		return domain.ProfileSongDetail{}, m.getErr
	}
	return m.row, nil
}

func (m *mockMembers) Exists(ctx context.Context, profileID, songID int64) (bool, error) {
	return m.exists, nil
}

func (m *mockMembers) CountByProfile(ctx context.Context, profileID int64) (int, error) {
	return m.count, nil
}

func (m *mockMembers) Insert(ctx context.Context, profileID, songID int64) (domain.ProfileSong, error) {
	return domain.ProfileSong{ID: 10, ProfileID: profileID, SongID: songID}, nil
}

func (m *mockMembers) Update(ctx context.Context, id int64, notes *string, resources map[string]string) error {
	return nil
}

func (m *mockMembers) Delete(ctx context.Context, id int64) error {
	return nil
}

type handlerDeps struct {
	catalog  *mockCatalog
	profiles *mockProfiles
	members  *mockMembers
}

func newTestHandler(deps handlerDeps) *Handler {
	if deps.catalog == nil {
		deps.catalog = &mockCatalog{}
	}
	if deps.profiles == nil {
		deps.profiles = &mockProfiles{profile: domain.Profile{ID: 1, OwnerID: "user-1"}}
	}
	if deps.members == nil {
		deps.members = &mockMembers{}
	}
	enricher := services.NewEnricher(deps.catalog, nil)
	svc := services.NewCollection(&mockSongs{songID: 7}, deps.profiles, deps.members, enricher, nil)
	return NewHandler(svc, deps.catalog, "", nil)
}

func doRequest(h *Handler, method, target, body, identity string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if identity != "" {
		req.Header.Set("X-User-Id", identity)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestHandler_Search(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		searchErr      error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "missing query",
			target:         "/api/search",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Missing query parameter",
		},
		{
			name:           "provider failure",
			target:         "/api/search?q=coltrane",
			searchErr:      errors.New("upstream down"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Something went wrong",
		},
		{
			name:           "success",
			target:         "/api/search?q=coltrane",
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"sp-1"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &mockCatalog{
				searchErr: tt.searchErr,
				tracks: []domain.Track{
					{ID: "sp-1", Name: "Giant Steps", Artists: []string{"John Coltrane"}, Album: "Giant Steps", ArtworkURLs: []string{"big.jpg"}},
				},
			}
			h := newTestHandler(handlerDeps{catalog: catalog})

			rec := doRequest(h, http.MethodGet, tt.target, "", "user-1")
			if rec.Code != tt.expectedStatus {
				t.Errorf("status: got %d, want %d, body: %s", rec.Code, tt.expectedStatus, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("body: got %q, want substring %q", rec.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestHandler_Search_WireShape(t *testing.T) {
	catalog := &mockCatalog{
		tracks: []domain.Track{
			{ID: "sp-1", Name: "Giant Steps", Artists: []string{"John Coltrane"}, Album: "Giant Steps", ArtworkURLs: []string{"big.jpg", "mid.jpg"}},
		},
	}
	h := newTestHandler(handlerDeps{catalog: catalog})

	rec := doRequest(h, http.MethodGet, "/api/search?q=coltrane", "", "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var body struct {
		Tracks struct {
			Items []struct {
				ID      string `json:"id"`
				Artists []struct {
					Name string `json:"name"`
				} `json:"artists"`
				Album struct {
					Name   string `json:"name"`
					Images []struct {
						URL string `json:"url"`
					} `json:"images"`
				} `json:"album"`
			} `json:"items"`
		} `json:"tracks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Tracks.Items) != 1 {
		t.Fatalf("items: got %d, want 1", len(body.Tracks.Items))
	}
	item := body.Tracks.Items[0]
	if item.ID != "sp-1" || len(item.Artists) != 1 || item.Artists[0].Name != "John Coltrane" {
		t.Fatalf("unexpected item: %+v", item)
	}
	if len(item.Album.Images) != 2 || item.Album.Images[0].URL != "big.jpg" {
		t.Fatalf("album images: %+v", item.Album.Images)
	}
}

func TestHandler_AddSong(t *testing.T) {
	validBody := `{"profileId": 1, "track": {"id": "sp-1", "name": "Giant Steps", "artists": [{"name": "John Coltrane"}], "album": {"name": "Giant Steps", "images": [{"url": "big.jpg"}]}}}`

	tests := []struct {
		name           string
		body           string
		identity       string
		noContentType  bool
		getErr         error
		owner          string
		exists         bool
		count          int
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			body:           validBody,
			identity:       "user-1",
			owner:          "user-1",
			expectedStatus: http.StatusCreated,
			expectedBody:   `"success":true`,
		},
		{
			name:           "missing content type",
			body:           validBody,
			identity:       "user-1",
			owner:          "user-1",
			noContentType:  true,
			expectedStatus: http.StatusUnsupportedMediaType,
			expectedBody:   "Content-Type must be application/json",
		},
		{
			name:           "malformed json",
			body:           `{invalid-json`,
			identity:       "user-1",
			owner:          "user-1",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid request body",
		},
		{
			name:           "missing track id",
			body:           `{"profileId": 1, "track": {"name": "no id"}}`,
			identity:       "user-1",
			owner:          "user-1",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Missing track id",
		},
		{
			name:           "invalid profile id",
			body:           `{"profileId": 0, "track": {"id": "sp-1"}}`,
			identity:       "user-1",
			owner:          "user-1",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid profile id",
		},
		{
			name:           "not the owner",
			body:           validBody,
			identity:       "intruder",
			owner:          "user-1",
			expectedStatus: http.StatusForbidden,
			expectedBody:   "You do not own this profile",
		},
		{
			name:           "profile missing",
			body:           validBody,
			identity:       "user-1",
			owner:          "user-1",
			getErr:         domain.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Not found",
		},
		{
			name:           "duplicate song",
			body:           validBody,
			identity:       "user-1",
			owner:          "user-1",
			exists:         true,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Song already exists in this profile",
		},
		{
			name:           "profile full",
			body:           validBody,
			identity:       "user-1",
			owner:          "user-1",
			count:          domain.MaxSongsPerProfile,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "8 songs maximum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := &mockProfiles{profile: domain.Profile{ID: 1, OwnerID: tt.owner}, getErr: tt.getErr}
			members := &mockMembers{exists: tt.exists, count: tt.count}
			h := newTestHandler(handlerDeps{profiles: profiles, members: members})

			req := httptest.NewRequest(http.MethodPost, "/api/add-song-to-profile", bytes.NewBufferString(tt.body))
			if !tt.noContentType {
				req.Header.Set("Content-Type", "application/json")
			}
			req.Header.Set("X-User-Id", tt.identity)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("status: got %d, want %d, body: %s", rec.Code, tt.expectedStatus, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("body: got %q, want substring %q", rec.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestHandler_ListSongs(t *testing.T) {
	members := &mockMembers{
		rows: []domain.ProfileSongDetail{
			{
				ProfileSong: domain.ProfileSong{ID: 10, ProfileID: 1, SongID: 7, Notes: "bridge"},
				Song:        domain.Song{ID: 7, ExternalID: "sp-1"},
			},
		},
	}
	h := newTestHandler(handlerDeps{members: members})

	tests := []struct {
		name           string
		target         string
		identity       string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success with artwork",
			target:         "/api/profiles/1/songs",
			identity:       "user-1",
			expectedStatus: http.StatusOK,
			expectedBody:   `"album_image_url":"mid.jpg"`,
		},
		{
			name:           "invalid profile id",
			target:         "/api/profiles/abc/songs",
			identity:       "user-1",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid profile id",
		},
		{
			name:           "missing identity",
			target:         "/api/profiles/1/songs",
			identity:       "",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Missing user identity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(h, http.MethodGet, tt.target, "", tt.identity)
			if rec.Code != tt.expectedStatus {
				t.Errorf("status: got %d, want %d, body: %s", rec.Code, tt.expectedStatus, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("body: got %q, want substring %q", rec.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestHandler_UpdateSong(t *testing.T) {
	row := domain.ProfileSongDetail{
		ProfileSong: domain.ProfileSong{ID: 10, ProfileID: 1, SongID: 7},
		Song:        domain.Song{ID: 7, ExternalID: "sp-1"},
	}

	tests := []struct {
		name           string
		target         string
		body           string
		getErr         error
		rowProfile     int64
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			target:         "/api/profiles/1/songs/10",
			body:           `{"notes": "work on the bridge"}`,
			rowProfile:     1,
			expectedStatus: http.StatusOK,
			expectedBody:   `"success":true`,
		},
		{
			name:           "membership missing",
			target:         "/api/profiles/1/songs/10",
			body:           `{"notes": "x"}`,
			getErr:         domain.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Not found",
		},
		{
			name:           "row in another profile",
			target:         "/api/profiles/1/songs/10",
			body:           `{"notes": "x"}`,
			rowProfile:     2,
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Not found",
		},
		{
			name:           "invalid song id",
			target:         "/api/profiles/1/songs/zero",
			body:           `{"notes": "x"}`,
			rowProfile:     1,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid profile song id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testRow := row
			testRow.ProfileID = tt.rowProfile
			members := &mockMembers{row: testRow, getErr: tt.getErr}
			h := newTestHandler(handlerDeps{members: members})

			rec := doRequest(h, http.MethodPut, tt.target, tt.body, "user-1")
			if rec.Code != tt.expectedStatus {
				t.Errorf("status: got %d, want %d, body: %s", rec.Code, tt.expectedStatus, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("body: got %q, want substring %q", rec.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestHandler_DeleteSong(t *testing.T) {
	row := domain.ProfileSongDetail{
		ProfileSong: domain.ProfileSong{ID: 10, ProfileID: 1, SongID: 7},
	}
	h := newTestHandler(handlerDeps{members: &mockMembers{row: row}})

	rec := doRequest(h, http.MethodDelete, "/api/profiles/1/songs/10", "", "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"deleted":true`) {
		t.Fatalf("body: got %q", rec.Body.String())
	}

	gone := newTestHandler(handlerDeps{members: &mockMembers{getErr: domain.ErrNotFound}})
	rec = doRequest(gone, http.MethodDelete, "/api/profiles/1/songs/10", "", "user-1")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandler_Profiles(t *testing.T) {
	h := newTestHandler(handlerDeps{})

	rec := doRequest(h, http.MethodGet, "/api/profiles", "", "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"owner_id":"user-1"`) {
		t.Fatalf("body: got %q", rec.Body.String())
	}

	// With no header and no fallback the request has no identity.
	rec = doRequest(h, http.MethodGet, "/api/profiles", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), "Missing user identity") {
		t.Fatalf("body: got %q", rec.Body.String())
	}
}

func TestHandler_RenameProfile(t *testing.T) {
	h := newTestHandler(handlerDeps{})

	rec := doRequest(h, http.MethodPut, "/api/profiles/1", `{"name": "Upright Bass"}`, "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"name":"Upright Bass"`) {
		t.Fatalf("body: got %q", rec.Body.String())
	}

	rec = doRequest(h, http.MethodPut, "/api/profiles/1", `{"name": ""}`, "user-1")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), "Profile name is required") {
		t.Fatalf("body: got %q", rec.Body.String())
	}
}

func TestHandler_FallbackIdentity(t *testing.T) {
	profiles := &mockProfiles{profile: domain.Profile{ID: 1, OwnerID: "fallback-user"}}
	enricher := services.NewEnricher(&mockCatalog{}, nil)
	svc := services.NewCollection(&mockSongs{songID: 7}, profiles, &mockMembers{}, enricher, nil)
	h := NewHandler(svc, &mockCatalog{}, "fallback-user", nil)

	// No X-User-Id header; the configured fallback owns the profile.
	rec := doRequest(h, http.MethodGet, "/api/profiles/1/songs", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", rec.Code, rec.Body.String())
	}
}

func TestHandler_HealthAndCORS(t *testing.T) {
	h := newTestHandler(handlerDeps{})

	rec := doRequest(h, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("health body: got %q", rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/profiles", nil)
	optRec := httptest.NewRecorder()
	h.ServeHTTP(optRec, req)
	if optRec.Code != http.StatusNoContent {
		t.Fatalf("preflight status: got %d, want %d", optRec.Code, http.StatusNoContent)
	}
	if got := optRec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin: got %q", got)
	}
}
