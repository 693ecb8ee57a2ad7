package main

import (
	"context"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/argus-labs/columnar/pkg/ecs"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// dt is the simulated time step of one tick, in seconds.
const dt = 1.0 / 60.0

// bench drives a world through the configured workload and counts what it did.
type bench struct {
	cfg    benchConfig
	world  *ecs.World
	rng    *rand.Rand
	live   []ecs.EntityID
	logger zerolog.Logger

	spawned   int
	despawned int
	freezes   int
	thaws     int
	trails    int64
	drops     atomic.Int64
}

func newBench(cfg benchConfig, logger zerolog.Logger) *bench {
	return &bench{
		cfg:    cfg,
		world:  ecs.NewWorld(ecs.WithLogger(logger)),
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)), //nolint:gosec // reproducible workload
		live:   make([]ecs.EntityID, 0, cfg.Entities),
		logger: logger,
	}
}

// run populates the world, simulates every tick, and closes the world. The returned report
// describes the world just before it was closed.
func (b *bench) run(ctx context.Context) (report, error) {
	for range b.cfg.Entities {
		if err := b.spawn(); err != nil {
			return report{}, err
		}
	}

	start := time.Now()
	for tick := range b.cfg.Ticks {
		if err := ctx.Err(); err != nil {
			return report{}, eris.Wrapf(err, "interrupted at tick %d", tick)
		}
		if err := b.tick(ctx); err != nil {
			return report{}, eris.Wrapf(err, "tick %d failed", tick)
		}
		b.logger.Debug().Int("tick", tick).Int("entities", b.world.Len()).Msg("tick done")
	}
	elapsed := time.Since(start)

	r := report{
		Config:         b.cfg,
		ElapsedMS:      float64(elapsed.Microseconds()) / 1000,
		TicksPerSecond: float64(b.cfg.Ticks) / elapsed.Seconds(),
		Spawned:        b.spawned,
		Despawned:      b.despawned,
		Freezes:        b.freezes,
		Thaws:          b.thaws,
		Archetypes:     b.world.Stats(),
	}

	b.world.Close()
	r.TrailsCreated = b.trails
	r.TrailsDropped = b.drops.Load()
	return r, nil
}

func (b *bench) tick(ctx context.Context) error {
	err := ecs.ParEach2(ctx, b.world, func(_ ecs.EntityID, p *position, v *velocity) error {
		p.X += v.X * dt
		p.Y += v.Y * dt
		return nil
	})
	if err != nil {
		return eris.Wrap(err, "failed to integrate")
	}

	ecs.Each2(b.world, func(_ ecs.EntityID, p *position, t *trail) {
		t.record(*p)
	})

	for range int(b.cfg.Toggle * float64(len(b.live))) {
		eid := b.live[b.rng.IntN(len(b.live))]
		if err := b.toggle(eid); err != nil {
			return err
		}
	}

	for range int(b.cfg.Churn * float64(len(b.live))) {
		i := b.rng.IntN(len(b.live))
		if err := b.world.Despawn(b.live[i]); err != nil {
			return eris.Wrap(err, "failed to despawn")
		}
		b.live[i] = b.live[len(b.live)-1]
		b.live = b.live[:len(b.live)-1]
		b.despawned++

		if err := b.spawn(); err != nil {
			return err
		}
	}
	return nil
}

// spawn creates a moving entity. One in four also keeps a trail.
func (b *bench) spawn() error {
	eid, err := b.world.Spawn()
	if err != nil {
		return eris.Wrap(err, "failed to spawn")
	}

	p := position{X: b.rng.Float64() * 100, Y: b.rng.Float64() * 100}
	v := velocity{X: b.rng.NormFloat64(), Y: b.rng.NormFloat64()}
	if err := ecs.Insert(b.world, eid, p); err != nil {
		return eris.Wrap(err, "failed to insert position")
	}
	if err := ecs.Insert(b.world, eid, v); err != nil {
		return eris.Wrap(err, "failed to insert velocity")
	}
	if b.rng.IntN(4) == 0 {
		if err := ecs.Insert(b.world, eid, newTrail(&b.drops)); err != nil {
			return eris.Wrap(err, "failed to insert trail")
		}
		b.trails++
	}

	b.live = append(b.live, eid)
	b.spawned++
	return nil
}

// toggle freezes a moving entity or thaws a frozen one. Both directions move the entity between
// archetypes twice.
func (b *bench) toggle(eid ecs.EntityID) error {
	if f, err := ecs.Get[frozen](b.world, eid); err == nil {
		saved := f.saved
		if err := ecs.Remove[frozen](b.world, eid); err != nil {
			return eris.Wrap(err, "failed to thaw")
		}
		if err := ecs.Insert(b.world, eid, saved); err != nil {
			return eris.Wrap(err, "failed to restore velocity")
		}
		b.thaws++
		return nil
	}

	v, err := ecs.Get[velocity](b.world, eid)
	if err != nil {
		return eris.Wrap(err, "failed to read velocity")
	}
	saved := *v
	if err := ecs.Remove[velocity](b.world, eid); err != nil {
		return eris.Wrap(err, "failed to freeze")
	}
	if err := ecs.Insert(b.world, eid, frozen{saved: saved}); err != nil {
		return eris.Wrap(err, "failed to store velocity")
	}
	b.freezes++
	return nil
}
