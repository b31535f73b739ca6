// Command visitsim runs the Wayfarer visitor-commerce simulation.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/talgya/wayfarer/internal/api"
	"github.com/talgya/wayfarer/internal/engine"
	"github.com/talgya/wayfarer/internal/entropy"
	"github.com/talgya/wayfarer/internal/persistence"
	"github.com/talgya/wayfarer/internal/social"
	"github.com/talgya/wayfarer/internal/world"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Wayfarer — visitor commerce simulation")

	seed := int64(0)
	if env := os.Getenv("WAYFARER_SEED"); env != "" {
		if v, err := strconv.ParseInt(env, 10, 64); err == nil {
			seed = v
		}
	}
	if seed == 0 {
		seed = entropy.Seed(os.Getenv("RANDOM_ORG_KEY"))
	}

	dbPath := os.Getenv("WAYFARER_DB")
	if dbPath == "" {
		dbPath = "data/wayfarer.db"
	}
	apiPort := 8080
	if env := os.Getenv("WAYFARER_PORT"); env != "" {
		if v, err := strconv.Atoi(env); err == nil {
			apiPort = v
		}
	}

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── World (always regenerated — deterministic from seed) ──────────
	slog.Info("generating world map...", "seed", seed)
	cfg := world.DefaultGenConfig()
	cfg.Seed = seed
	worldMap := world.Generate(cfg)

	for t, c := range world.TerrainCounts(worldMap) {
		slog.Info("terrain", "type", world.TerrainName(t), "count", c)
	}

	factions := social.SeedFactions()
	sites := social.PlaceSites(worldMap, factions, seed)
	slog.Info("factions seeded", "factions", len(factions), "sites", len(sites.All()))

	// ── Simulation ────────────────────────────────────────────────────
	sim := engine.NewSimulation(worldMap, factions, sites, seed)

	var startTick uint64
	if db.HasWorldState() {
		slog.Info("found saved state, restoring...")
		if tickStr, err := db.GetMeta("last_tick"); err == nil {
			if t, err := strconv.ParseUint(tickStr, 10, 64); err == nil {
				startTick = t
			}
		}
		if err := db.LoadFactions(factions); err != nil {
			slog.Error("failed to restore factions", "error", err)
		}
		if err := db.LoadIncidents(sim.Queue); err != nil {
			slog.Error("failed to restore incident queue", "error", err)
		}
		sim.LastTick = startTick
		slog.Info("state restored",
			"tick", startTick,
			"pending_incidents", sim.Queue.Len(),
			"sim_time", engine.SimTime(startTick),
		)
	}

	eng := engine.NewEngine()
	eng.Tick = startTick

	saveState := func() {
		if err := db.SaveIncidents(sim.Queue); err != nil {
			slog.Error("save incidents failed", "error", err)
		}
		if err := db.SaveFactions(factions); err != nil {
			slog.Error("save factions failed", "error", err)
		}
		if err := db.SaveMeta("last_tick", strconv.FormatUint(sim.CurrentTick(), 10)); err != nil {
			slog.Error("save meta failed", "error", err)
		}
	}

	// Wire tick callbacks — auto-save every sim-day.
	eng.OnTick = sim.TickMinute
	eng.OnDay = func(tick uint64) {
		sim.TickDay(tick)
		if err := db.SaveEvents(sim.Events); err != nil {
			slog.Error("save events failed", "error", err)
		}
		sim.Events = sim.Events[:0]
		if err := db.SavePurchases(sim.PurchaseLog); err != nil {
			slog.Error("save purchases failed", "error", err)
		}
		sim.PurchaseLog = sim.PurchaseLog[:0]
		saveState()
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	adminKey := os.Getenv("WAYFARER_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("WAYFARER_ADMIN_KEY not set — admin POST endpoints will be disabled")
	}

	apiServer := &api.Server{
		Sim:      sim,
		Eng:      eng,
		Port:     apiPort,
		AdminKey: adminKey,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\nWayfarer is running: %d factions, %d sites, %d hexes.\n",
		len(factions), len(sites.All()), worldMap.HexCount())
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiPort)
	if startTick > 0 {
		fmt.Printf("Resuming from tick %d (%s)\n", startTick, engine.SimTime(startTick))
	}
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	slog.Info("final save...")
	if err := db.SaveEvents(sim.Events); err != nil {
		slog.Error("save events failed", "error", err)
	}
	if err := db.SavePurchases(sim.PurchaseLog); err != nil {
		slog.Error("save purchases failed", "error", err)
	}
	saveState()

	fmt.Println("Simulation stopped. State saved.")
}
