// Package poller drives the periodic refresh of each metal's dataset and
// owns the idle/loading/ready/error lifecycle in the snapshot store.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/auradash/aura-metals-backend/internal/feed"
	"github.com/auradash/aura-metals-backend/internal/models"
	"github.com/auradash/aura-metals-backend/internal/store"
)

// Fetcher retrieves the full validated dataset for a metal.
type Fetcher interface {
	Fetch(ctx context.Context, metal models.Metal) ([]models.PriceRecord, error)
}

// Notifier delivers operational alerts. The zero-value sender (no webhook)
// satisfies it harmlessly.
type Notifier interface {
	Send(msg string)
	Enabled() bool
}

type Config struct {
	Interval     time.Duration // refresh period, default 5 minutes
	FetchTimeout time.Duration // per-fetch bound, default 30 seconds
	Metals       []models.Metal
}

type Poller struct {
	fetcher Fetcher
	store   *store.Store
	cache   *feed.Cache // optional warm-start cache
	notify  Notifier    // optional
	cfg     Config

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	gen     map[models.Metal]uint64
	failing map[models.Metal]bool
}

func New(fetcher Fetcher, st *store.Store, cache *feed.Cache, notify Notifier, cfg Config) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if len(cfg.Metals) == 0 {
		cfg.Metals = []models.Metal{models.Gold, models.Silver}
	}
	return &Poller{
		fetcher: fetcher,
		store:   st,
		cache:   cache,
		notify:  notify,
		cfg:     cfg,
		gen:     make(map[models.Metal]uint64),
		failing: make(map[models.Metal]bool),
	}
}

// Start seeds snapshots from the cache when one is configured, refreshes
// every metal once, then keeps refreshing on the configured interval until
// Stop is called.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		log.Warn().Msg("poller already running")
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})
	stopCh := p.stopCh
	p.mu.Unlock()

	p.seedFromCache()

	// Initial refresh on startup (fire-and-forget per metal)
	for _, metal := range p.cfg.Metals {
		go func(m models.Metal) {
			ctx, cancel := context.WithTimeout(context.Background(), p.cfg.FetchTimeout)
			defer cancel()
			if err := p.Refresh(ctx, m); err != nil {
				log.Error().Err(err).Str("metal", string(m)).Msg("initial refresh failed")
			}
		}(metal)
	}

	go func() {
		ticker := time.NewTicker(p.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				for _, metal := range p.cfg.Metals {
					ctx, cancel := context.WithTimeout(context.Background(), p.cfg.FetchTimeout)
					if err := p.Refresh(ctx, metal); err != nil {
						log.Error().Err(err).Str("metal", string(metal)).Msg("scheduled refresh failed")
					}
					cancel()
				}
			}
		}
	}()

	log.Info().Dur("interval", p.cfg.Interval).Msg("poller started")
}

func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	close(p.stopCh)
	p.running = false
	log.Info().Msg("poller stopped")
}

func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Refresh fetches a metal's dataset now, outside the normal schedule if need
// be. Each call supersedes any in-flight refresh for the same metal: the
// older call's result is discarded on arrival, so display state is always
// last-write-wins.
func (p *Poller) Refresh(ctx context.Context, metal models.Metal) error {
	p.mu.Lock()
	p.gen[metal]++
	myGen := p.gen[metal]
	p.mu.Unlock()

	p.store.SetLoading(metal)

	records, err := p.fetcher.Fetch(ctx, metal)
	now := time.Now()

	p.mu.Lock()
	stale := p.gen[metal] != myGen
	p.mu.Unlock()
	if stale {
		log.Debug().Str("metal", string(metal)).Msg("discarding superseded fetch result")
		return nil
	}

	if err != nil {
		p.store.SetError(metal, err, now)
		p.alertFailure(metal, err)
		return err
	}

	p.store.SetReady(metal, records, now)
	p.alertRecovery(metal)

	if p.cache != nil {
		p.cache.Set(ctx, metal, records)
	}

	log.Info().Str("metal", string(metal)).Int("records", len(records)).Msg("dataset refreshed")
	return nil
}

// seedFromCache pre-populates snapshots from Redis so a restart does not
// begin with an empty dashboard. Seeded data is marked ready; the initial
// refresh replaces it moments later.
func (p *Poller) seedFromCache() {
	if p.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, metal := range p.cfg.Metals {
		if records, ok := p.cache.Get(ctx, metal); ok && len(records) > 0 {
			p.store.SetReady(metal, records, time.Now())
			log.Info().Str("metal", string(metal)).Int("records", len(records)).Msg("snapshot seeded from cache")
		}
	}
}

func (p *Poller) alertFailure(metal models.Metal, err error) {
	p.mu.Lock()
	first := !p.failing[metal]
	p.failing[metal] = true
	p.mu.Unlock()

	if first && p.notify != nil && p.notify.Enabled() {
		p.notify.Send("feed refresh failing for " + string(metal) + ": " + err.Error())
	}
}

func (p *Poller) alertRecovery(metal models.Metal) {
	p.mu.Lock()
	wasFailing := p.failing[metal]
	p.failing[metal] = false
	p.mu.Unlock()

	if wasFailing && p.notify != nil && p.notify.Enabled() {
		p.notify.Send("feed refresh recovered for " + string(metal))
	}
}
