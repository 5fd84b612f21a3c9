// The tick loop that drives the simulation at a fixed wall-clock interval.
// See design doc Section 7.
package engine

import (
	"log/slog"
	"time"
)

// Engine drives the simulation forward.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base tick interval (default 1 second)
	Running  bool

	// Callbacks — populated during setup.
	OnTick  func(tick uint64) // Every tick
	OnFlush func(tick uint64) // Every FlushEveryTicks, between ticks
}

// FlushEveryTicks paces the archive flush callback.
const FlushEveryTicks = 30

// NewEngine creates a simulation engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Speed:    1.0,
		Interval: time.Second,
	}
}

// Run starts the simulation loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed, "interval", e.Interval)

	for e.Running {
		if e.Speed <= 0 {
			// Paused — sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.step()

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick)
}

// Stop halts the simulation loop after the in-flight tick completes.
func (e *Engine) Stop() {
	e.Running = false
}

// step advances the simulation by one tick. A tick runs to completion
// before the flush callback sees the tick counter.
func (e *Engine) step() {
	e.Tick++

	if e.OnTick != nil {
		e.OnTick(e.Tick)
	}

	// Archive I/O happens here, outside the tick proper.
	if e.Tick%FlushEveryTicks == 0 && e.OnFlush != nil {
		e.OnFlush(e.Tick)
	}
}
