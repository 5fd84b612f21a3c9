// Command sentinel runs the venue crowd-risk simulation and serves the
// operator console API.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/talgya/crowd-sentinel/internal/agents"
	"github.com/talgya/crowd-sentinel/internal/api"
	"github.com/talgya/crowd-sentinel/internal/engine"
	"github.com/talgya/crowd-sentinel/internal/entropy"
	"github.com/talgya/crowd-sentinel/internal/persistence"
	"github.com/talgya/crowd-sentinel/internal/venue"
)

func main() {
	var (
		port       = flag.Int("port", 8080, "HTTP API port")
		dbPath     = flag.String("db", "data/sentinel.db", "audit archive path")
		venuePath  = flag.String("venue", "", "venue layout yaml (empty = built-in default)")
		seed       = flag.Int64("seed", 0, "simulation seed (0 = non-reproducible)")
		population = flag.Int("population", 120, "attendee count")
		intervalMs = flag.Int("interval-ms", 1000, "tick interval in milliseconds")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Crowd Sentinel — venue risk simulation")

	// ── Venue ─────────────────────────────────────────────────────────
	layout, phaseSpecs, err := venue.Load(*venuePath)
	if err != nil {
		slog.Error("failed to load venue", "error", err)
		os.Exit(1)
	}
	phases, err := engine.BuildPhases(phaseSpecs)
	if err != nil {
		slog.Error("bad phase cycle", "error", err)
		os.Exit(1)
	}
	slog.Info("venue loaded",
		"regions", len(layout.Regions),
		"seating_areas", len(layout.Seating),
		"phases", len(phases),
	)

	// ── Randomness ────────────────────────────────────────────────────
	var src entropy.Source
	spawnSeed := *seed
	if *seed != 0 {
		src = entropy.NewSeeded(*seed)
		slog.Info("seeded run", "seed", *seed)
	} else {
		src = entropy.NewSystem()
		spawnSeed = time.Now().UnixNano()
	}

	// ── Population (always fresh — the archive is not session state) ──
	spawner := agents.NewSpawner(spawnSeed)
	crowd := spawner.SpawnPopulation(*population, layout)
	slog.Info("population spawned", "agents", len(crowd))

	sim := engine.NewSimulation(layout, crowd, phases, src, spawnSeed+1)

	// ── Archive ───────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open archive", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMeta("started_at", time.Now().Format(time.RFC3339))
	db.SetMeta("seed", strconv.FormatInt(spawnSeed, 10))
	slog.Info("archive opened", "path", *dbPath)

	flush := func(tick uint64) {
		events, preds := sim.DrainArchive()
		if err := db.RecordEvents(events); err != nil {
			slog.Error("archive events", "tick", tick, "error", err)
		}
		if err := db.RecordPredictions(preds); err != nil {
			slog.Error("archive predictions", "tick", tick, "error", err)
		}
	}

	// ── Engine ────────────────────────────────────────────────────────
	eng := engine.NewEngine()
	eng.Interval = time.Duration(*intervalMs) * time.Millisecond
	eng.OnTick = sim.Tick
	eng.OnFlush = flush

	// ── HTTP API ──────────────────────────────────────────────────────
	server := &api.Server{
		Sim:      sim,
		Eng:      eng,
		Port:     *port,
		AdminKey: os.Getenv("SENTINEL_ADMIN_KEY"),
	}
	server.Start()

	// ── Run until signalled ───────────────────────────────────────────
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		slog.Info("shutdown signal received")
		eng.Stop()
	}()

	eng.Run()
	flush(eng.Tick)
}
