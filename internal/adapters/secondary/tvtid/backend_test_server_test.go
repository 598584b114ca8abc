package tvtid_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type stubProgram struct {
	ID    any    `json:"id"`
	Title string `json:"title"`
	Start int64  `json:"start"`
	Stop  int64  `json:"stop"`
	Desc  string `json:"desc,omitempty"`
}

type stubRequest struct {
	Path   string
	Query  map[string][]string
	Header http.Header
}

// backendTestServer emulates the tvtid backend. Handlers can be overridden per test.
type backendTestServer struct {
	t   *testing.T
	srv *httptest.Server

	mu       sync.Mutex
	requests []stubRequest
	channels []map[string]any
	programs map[string][]stubProgram

	// override, when set, answers every request instead of the default routes.
	override http.HandlerFunc
}

func newBackendTestServer(t *testing.T) *backendTestServer {
	t.Helper()

	b := &backendTestServer{
		t: t,
		channels: []map[string]any{
			{"id": 1, "title": "DR1", "icon": "dr1.png", "lang": "da"},
			{"id": "3", "title": "TV 2", "category": 7},
		},
		programs: map[string][]stubProgram{
			"1": {
				{ID: 101, Title: "TV Avisen", Start: unix(10, 0), Stop: unix(10, 30), Desc: "Nyheder"},
				{ID: "102", Title: "Vejret", Start: unix(10, 30), Stop: unix(10, 40)},
			},
			"3": {
				{ID: 301, Title: "Nyhederne", Start: unix(19, 0), Stop: unix(19, 30)},
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /channels", b.handleChannels)
	mux.HandleFunc("GET /dayviews/{date}", b.handleDayViews)
	mux.HandleFunc("GET /channels/{cid}/programs/{pid}", b.handleProgram)

	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, stubRequest{Path: r.URL.Path, Query: r.URL.Query(), Header: r.Header.Clone()})
		override := b.override
		b.mu.Unlock()

		if override != nil {
			override(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backendTestServer) URL() string { return b.srv.URL }

func (b *backendTestServer) Requests() []stubRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]stubRequest(nil), b.requests...)
}

func (b *backendTestServer) Override(h http.HandlerFunc) {
	b.mu.Lock()
	b.override = h
	b.mu.Unlock()
}

func (b *backendTestServer) handleChannels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, b.channels)
}

func (b *backendTestServer) handleDayViews(w http.ResponseWriter, r *http.Request) {
	if _, err := time.Parse("2006-01-02", r.PathValue("date")); err != nil {
		http.Error(w, "bad date", http.StatusBadRequest)
		return
	}

	views := []map[string]any{}
	for _, id := range r.URL.Query()["ch"] {
		programs, ok := b.programs[id]
		if !ok {
			continue
		}
		views = append(views, map[string]any{"id": id, "programs": programs})
	}
	writeJSON(w, views)
}

func (b *backendTestServer) handleProgram(w http.ResponseWriter, r *http.Request) {
	cid, pid := r.PathValue("cid"), r.PathValue("pid")
	for _, p := range b.programs[cid] {
		if fmt.Sprint(p.ID) == pid {
			writeJSON(w, p)
			return
		}
	}
	http.NotFound(w, r)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// unix returns the epoch seconds of the given UTC time on 2024-03-01.
func unix(hour, minute int) int64 {
	return time.Date(2024, 3, 1, hour, minute, 0, 0, time.UTC).Unix()
}
