package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type channel struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Icon     string `json:"icon"`
	Category string `json:"category"`
	Lang     string `json:"lang"`
}

type program struct {
	ID        string `json:"id"`
	ChannelID int    `json:"channelId"`
	Title     string `json:"title"`
	Start     int64  `json:"start"`
	Stop      int64  `json:"stop"`
	Category  string `json:"category,omitempty"`
	Desc      string `json:"desc,omitempty"`
}

type dayView struct {
	ID       int       `json:"id"`
	Programs []program `json:"programs"`
}

var channels = []channel{
	{ID: 1, Title: "DR1", Icon: "dr1.png", Category: "dk", Lang: "da"},
	{ID: 2, Title: "DR2", Icon: "dr2.png", Category: "dk", Lang: "da"},
	{ID: 3, Title: "TV 2", Icon: "tv2.png", Category: "dk", Lang: "da"},
	{ID: 10155, Title: "DR Ramasjang", Icon: "ramasjang.png", Category: "kids", Lang: "da"},
}

// slotsPerDay half hour slots cover a broadcast day from 06:00 to 06:00.
const slotsPerDay = 48

func main() {
	addr := getenv("STUB_ADDR", ":8080")
	prefix := strings.TrimRight(getenv("STUB_PREFIX", "/tvtid-app-backend"), "/")

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+prefix+"/channels", handleChannels)
	mux.HandleFunc("GET "+prefix+"/dayviews/{date}", handleDayViews)
	mux.HandleFunc("GET "+prefix+"/channels/{cid}/programs/{pid}", handleProgram)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           logRequests(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("tvtid backend stub listening on %s%s", addr, prefix)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("listen %s: %v", addr, err)
	}
}

func handleChannels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, channels)
}

func handleDayViews(w http.ResponseWriter, r *http.Request) {
	day, err := time.Parse("2006-01-02", r.PathValue("date"))
	if err != nil {
		http.Error(w, "bad date", http.StatusBadRequest)
		return
	}

	views := []dayView{}
	for _, raw := range r.URL.Query()["ch"] {
		id, err := strconv.Atoi(raw)
		if err != nil || !knownChannel(id) {
			continue
		}
		programs := make([]program, 0, slotsPerDay)
		for slot := 0; slot < slotsPerDay; slot++ {
			programs = append(programs, programAt(id, day, slot))
		}
		views = append(views, dayView{ID: id, Programs: programs})
	}
	writeJSON(w, views)
}

func handleProgram(w http.ResponseWriter, r *http.Request) {
	cid, err := strconv.Atoi(r.PathValue("cid"))
	if err != nil || !knownChannel(cid) {
		http.NotFound(w, r)
		return
	}

	// Program ids are "<YYYYMMDD>-<slot>".
	datePart, slotPart, ok := strings.Cut(r.PathValue("pid"), "-")
	if !ok {
		http.NotFound(w, r)
		return
	}
	day, err := time.Parse("20060102", datePart)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	slot, err := strconv.Atoi(slotPart)
	if err != nil || slot < 0 || slot >= slotsPerDay {
		http.NotFound(w, r)
		return
	}

	p := programAt(cid, day, slot)
	p.Desc = fmt.Sprintf("Udsendelse %d på kanal %d.", slot, cid)
	writeJSON(w, p)
}

func programAt(channelID int, day time.Time, slot int) program {
	start := day.Add(6*time.Hour + time.Duration(slot)*30*time.Minute)
	return program{
		ID:        fmt.Sprintf("%s-%d", day.Format("20060102"), slot),
		ChannelID: channelID,
		Title:     fmt.Sprintf("Program %02d:%02d", start.Hour(), start.Minute()),
		Start:     start.Unix(),
		Stop:      start.Add(30 * time.Minute).Unix(),
		Category:  "Underholdning",
	}
}

func knownChannel(id int) bool {
	for _, ch := range channels {
		if ch.ID == id {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode: %v", err)
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s", r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
