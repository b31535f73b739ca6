// Package api provides the HTTP API for querying sim state.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/exp/maps"

	"github.com/talgya/wayfarer/internal/engine"
	"github.com/talgya/wayfarer/internal/social"
	"github.com/talgya/wayfarer/internal/visits"
	"github.com/talgya/wayfarer/internal/world"
)

// Server serves the sim state over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	limiter := NewLimiter(120, time.Minute)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/queue", s.handleQueue)
	mux.HandleFunc("/api/v1/factions", s.handleFactions)
	mux.HandleFunc("/api/v1/visitors", s.handleVisitors)
	mux.HandleFunc("/api/v1/market", s.handleMarket)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/terrain", s.handleTerrain)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/visit", s.adminOnly(s.handleTriggerVisit))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		handler := limiter.Middleware(corsMiddleware(mux))
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// handleStatus returns the sim heartbeat: tick, time, and headline totals.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	tick := s.Sim.CurrentTick()
	writeJSON(w, map[string]any{
		"tick":              humanize.Comma(int64(tick)),
		"sim_time":          engine.SimTime(tick),
		"speed":             s.Eng.Speed(),
		"pending_incidents": s.Sim.Queue.Len(),
		"active_visitors":   len(s.Sim.Visitors()),
		"visits_arrived":    s.Sim.Stats.VisitsArrived,
		"items_sold":        s.Sim.Stats.ItemsSold,
		"silver_earned":     humanize.Comma(int64(s.Sim.Stats.SilverEarned)),
	})
}

// handleQueue lists pending incidents in fire order.
func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		FireTick uint64 `json:"fire_tick"`
		FireTime string `json:"fire_time"`
		Faction  string `json:"faction"`
		Category string `json:"category"`
	}

	incidents := s.Sim.Queue.Incidents()
	out := make([]entry, 0, len(incidents))
	for _, inc := range incidents {
		name := "unknown"
		if f, ok := s.Sim.FactionIndex[inc.Faction]; ok {
			name = f.Name
		}
		out = append(out, entry{
			FireTick: inc.FireTick,
			FireTime: engine.SimTime(inc.FireTick),
			Faction:  name,
			Category: visits.CategoryName(inc.Category),
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleFactions(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		ID       social.FactionID `json:"id"`
		Name     string           `json:"name"`
		Goodwill float64          `json:"goodwill"`
		Hostile  bool             `json:"hostile"`
		Sites    int              `json:"sites"`
	}

	out := make([]entry, 0, len(s.Sim.Factions))
	for _, f := range s.Sim.Factions {
		if f.IsPlayer {
			continue
		}
		out = append(out, entry{
			ID:       f.ID,
			Name:     f.Name,
			Goodwill: f.Goodwill,
			Hostile:  f.HostileToPlayer(),
			Sites:    len(s.Sim.Sites.ByFaction(f.ID)),
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleVisitors(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		ID        uint64 `json:"id"`
		Name      string `json:"name"`
		Faction   string `json:"faction"`
		Q         int    `json:"q"`
		R         int    `json:"r"`
		Purchases int    `json:"purchases"`
	}

	visitors := s.Sim.Visitors()
	out := make([]entry, 0, len(visitors))
	for _, v := range visitors {
		name := "unknown"
		if f, ok := s.Sim.FactionIndex[v.Faction]; ok {
			name = f.Name
		}
		out = append(out, entry{
			ID:        uint64(v.ID),
			Name:      v.Name,
			Faction:   name,
			Q:         v.Position.Q,
			R:         v.Position.R,
			Purchases: len(v.Guest.Purchased),
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Item  string `json:"item"`
		Count int    `json:"count"`
		Value int    `json:"value"`
	}

	out := make([]entry, 0, len(s.Sim.Market.Shelf))
	for _, p := range s.Sim.Market.Shelf {
		out = append(out, entry{
			Item:  p.Stack.Kind.Name,
			Count: p.Stack.Count,
			Value: p.Stack.Kind.MarketValue,
		})
	}
	writeJSON(w, map[string]any{
		"shelf":         out,
		"ground_silver": s.Sim.Market.GroundSilver(),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events := s.Sim.Events
	if len(events) > 50 {
		events = events[len(events)-50:]
	}
	writeJSON(w, events)
}

// handleTerrain returns hex counts per terrain type, sorted by type.
func (s *Server) handleTerrain(w http.ResponseWriter, r *http.Request) {
	counts := world.TerrainCounts(s.Sim.WorldMap)
	terrains := maps.Keys(counts)
	sort.Slice(terrains, func(i, j int) bool { return terrains[i] < terrains[j] })

	type entry struct {
		Terrain string `json:"terrain"`
		Count   int    `json:"count"`
	}
	out := make([]entry, 0, len(terrains))
	for _, t := range terrains {
		out = append(out, entry{Terrain: world.TerrainName(t), Count: counts[t]})
	}
	writeJSON(w, out)
}

// handleSpeed sets the engine speed multiplier.
func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Speed < 0 {
		http.Error(w, "invalid speed", http.StatusBadRequest)
		return
	}
	s.Eng.SetSpeed(req.Speed)
	slog.Info("engine speed changed", "speed", req.Speed)
	writeJSON(w, map[string]any{"speed": req.Speed})
}

// handleTriggerVisit queues a visit manually: {"faction_id": N, "delay_days": D}.
func (s *Server) handleTriggerVisit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FactionID uint64  `json:"faction_id"`
		DelayDays float64 `json:"delay_days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DelayDays < 0 {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	f, ok := s.Sim.FactionIndex[social.FactionID(req.FactionID)]
	if !ok || f.IsPlayer {
		http.Error(w, "unknown faction", http.StatusBadRequest)
		return
	}
	s.Sim.TriggerVisit(f.ID, req.DelayDays)
	slog.Info("visit queued manually", "faction", f.Name, "delay_days", req.DelayDays)
	writeJSON(w, map[string]any{"queued": true})
}

// adminOnly guards POST endpoints with the bearer token.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled", http.StatusForbidden)
			return
		}
		auth := r.Header.Get("Authorization")
		if auth != "Bearer "+s.AdminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// corsMiddleware adds CORS headers for allowed frontend origins. Set
// CORS_ORIGINS to a comma-separated list; localhost dev servers are always
// allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
