// Package scheduler drives one player's engine in real time: passive
// accrual, autoclicker output, effect expiry, random events and
// periodic saves all come out of a single goroutine so nothing races.
package scheduler

import (
	"context"
	"log"
	"math/rand"
	"time"

	"idlepost/internal/catalog"
	"idlepost/internal/game"
)

// Config wires a Runner. Engine is required; everything else has a
// usable default.
type Config struct {
	Engine *game.Engine

	// TickEvery is the accrual and autoclick cadence.
	TickEvery time.Duration
	// SaveEvery is how often OnSave fires while the runner is live.
	SaveEvery time.Duration
	// EventMin and EventMax bound the delay between random events.
	// The delay is resampled after every trigger.
	EventMin time.Duration
	EventMax time.Duration

	// OnSave persists the current state. Also called once on shutdown.
	OnSave func(ctx context.Context)
	// OnEvent observes triggered random events, if set.
	OnEvent func(def catalog.RandomEventDef)

	Logger *log.Logger
	Rand   *rand.Rand
}

// Runner owns the per-player background loop.
type Runner struct {
	cfg Config
}

func New(cfg Config) *Runner {
	if cfg.TickEvery <= 0 {
		cfg.TickEvery = time.Second
	}
	if cfg.SaveEvery <= 0 {
		cfg.SaveEvery = 30 * time.Second
	}
	if cfg.EventMin <= 0 {
		b := cfg.Engine.Balance()
		cfg.EventMin = time.Duration(b.EventIntervalMinS) * time.Second
		cfg.EventMax = time.Duration(b.EventIntervalMaxS) * time.Second
	}
	if cfg.EventMax < cfg.EventMin {
		cfg.EventMax = cfg.EventMin
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Runner{cfg: cfg}
}

// Run blocks until ctx is cancelled, then performs a final save.
// Intended to be launched as `go runner.Run(ctx)`.
func (r *Runner) Run(ctx context.Context) {
	tick := time.NewTicker(r.cfg.TickEvery)
	defer tick.Stop()

	save := time.NewTicker(r.cfg.SaveEvery)
	defer save.Stop()

	event := time.NewTimer(r.nextEventDelay())
	defer event.Stop()

	for {
		select {
		case <-ctx.Done():
			if r.cfg.OnSave != nil {
				// ctx is already cancelled; give the flush its own
				// short deadline.
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				r.cfg.OnSave(flushCtx)
				cancel()
			}
			return

		case <-tick.C:
			r.cfg.Engine.Tick()
			r.cfg.Engine.Autoclick()

		case <-save.C:
			if r.cfg.OnSave != nil {
				r.cfg.OnSave(ctx)
			}

		case <-event.C:
			def := r.cfg.Engine.TriggerRandomEvent()
			r.cfg.Logger.Printf("event triggered id=%s duration=%ds", def.ID, def.DurationS)
			if r.cfg.OnEvent != nil {
				r.cfg.OnEvent(def)
			}
			event.Reset(r.nextEventDelay())
		}
	}
}

func (r *Runner) nextEventDelay() time.Duration {
	span := r.cfg.EventMax - r.cfg.EventMin
	if span <= 0 {
		return r.cfg.EventMin
	}
	return r.cfg.EventMin + time.Duration(r.cfg.Rand.Int63n(int64(span)))
}
