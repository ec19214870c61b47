package dashboard

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"
	"github.com/rs/cors"

	"github.com/atlasmode/migration-map/pkg/dataset"
	"github.com/atlasmode/migration-map/pkg/flows"
	"github.com/atlasmode/migration-map/pkg/geo"
)

//go:embed index.html
var indexHTML []byte

const (
	viewCacheDuration = 1 * time.Hour
	viewCleanupPeriod = 2 * time.Hour
)

// Server owns the loaded table, the atlas, the shared selection, and the
// websocket hub. The table and atlas are read-only; only the selection and
// its last valid view are guarded.
type Server struct {
	table *dataset.Table
	atlas *geo.Atlas
	topN  int

	views *cache.Cache
	hub   *Hub

	mu       sync.Mutex
	current  Selection
	lastView *View
}

func NewServer(table *dataset.Table, atlas *geo.Atlas, topN int) (*Server, error) {
	s := &Server{
		table: table,
		atlas: atlas,
		topN:  topN,
		views: cache.New(viewCacheDuration, viewCleanupPeriod),
		hub:   newHub(),
	}
	sel := DefaultSelection(table)
	view, err := s.cachedView(sel)
	if err != nil {
		return nil, fmt.Errorf("build initial view: %w", err)
	}
	s.current = sel
	s.lastView = view
	return s, nil
}

// Handler returns the full HTTP stack: router, CORS, request logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc("/ws", s.handleWS)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/meta", s.handleMeta).Methods("GET")
	api.HandleFunc("/view", s.handleView).Methods("GET")
	api.HandleFunc("/choropleth", s.handleChoropleth).Methods("GET")
	api.HandleFunc("/globe", s.handleGlobe).Methods("GET")
	api.HandleFunc("/sankey", s.handleSankey).Methods("GET")
	api.HandleFunc("/select", s.handleSelect).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	})
	return loggingMiddleware(c.Handler(r))
}

// Selection returns the current shared selection.
func (s *Server) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sel := s.current
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"years":     s.table.Years(),
		"countries": s.table.Countries(),
		"records":   s.table.Len(),
		"selection": sel,
		"top_n":     s.topN,
	})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	view := s.lastView
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleChoropleth(w http.ResponseWriter, r *http.Request) {
	year, ok := queryYear(w, r)
	if !ok {
		return
	}
	totals, err := flows.TotalsForYear(s.table, year)
	if err != nil {
		writeSelectionError(w, err)
		return
	}
	rows, dropped := s.atlas.Choropleth(totals)
	writeJSON(w, http.StatusOK, map[string]any{"year": year, "rows": rows, "dropped": dropped})
}

func (s *Server) handleGlobe(w http.ResponseWriter, r *http.Request) {
	year, ok := queryYear(w, r)
	if !ok {
		return
	}
	dest := r.URL.Query().Get("dest")
	edges, err := flows.FlowsToYear(s.table, dest, year)
	if err != nil {
		writeSelectionError(w, err)
		return
	}
	arcs, dropped := s.atlas.Arcs(edges)
	writeJSON(w, http.StatusOK, map[string]any{
		"year": year, "destination": dest, "arcs": arcs, "dropped": dropped,
	})
}

func (s *Server) handleSankey(w http.ResponseWriter, r *http.Request) {
	year, ok := queryYear(w, r)
	if !ok {
		return
	}
	dest := r.URL.Query().Get("dest")
	n := s.topN
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid n"})
			return
		}
		n = v
	}
	top, err := flows.TopSources(s.table, dest, year, n)
	if err != nil {
		writeSelectionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"year": year, "destination": dest, "sankey": geo.Sankey(top, dest),
	})
}

// handleSelect swaps the shared selection. An invalid selection is a no-op:
// the previous view stays current and the client gets a 422.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var sel Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid selection body"})
		return
	}
	view, err := s.cachedView(sel)
	if err != nil {
		writeSelectionError(w, err)
		return
	}

	s.mu.Lock()
	s.current = sel
	s.lastView = view
	s.mu.Unlock()

	log.Printf("[DASH] selection: %s %d (%d subscribers)", sel.Destination, sel.Year, s.hub.count())
	s.hub.Broadcast(view)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[DASH] websocket upgrade: %v", err)
		return
	}
	s.hub.add(conn)

	s.mu.Lock()
	view := s.lastView
	s.mu.Unlock()
	if view != nil {
		if err := conn.WriteJSON(view); err != nil {
			s.hub.remove(conn)
			return
		}
	}

	// Subscribers never send data; the read loop only notices the close.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.hub.remove(conn)
				return
			}
		}
	}()
}

// cachedView memoizes full renders per selection. The dataset never changes
// under us, so entries only expire to bound memory.
func (s *Server) cachedView(sel Selection) (*View, error) {
	key := cacheKey("view", sel.Year, sel.Destination, s.topN)
	if v, ok := s.views.Get(key); ok {
		return v.(*View), nil
	}
	view, err := BuildView(s.table, s.atlas, sel, s.topN)
	if err != nil {
		return nil, err
	}
	s.views.Set(key, view, cache.DefaultExpiration)
	return view, nil
}

func cacheKey(prefix string, params ...any) string {
	key := prefix
	for _, p := range params {
		key += ":" + fmt.Sprintf("%v", p)
	}
	return key
}

func queryYear(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("year")
	year, err := strconv.Atoi(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid year"})
		return 0, false
	}
	return year, true
}

func writeSelectionError(w http.ResponseWriter, err error) {
	var selErr *flows.SelectionError
	if errors.As(err, &selErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": selErr.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[DASH] write response: %v", err)
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Don't wrap upgrades; the websocket library needs the raw Hijacker.
		if r.Header.Get("Upgrade") == "websocket" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		wrw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrw, r)
		log.Printf("%s %s %s %d %v", r.RemoteAddr, r.Method, r.URL.Path, wrw.status, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
