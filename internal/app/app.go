// Package app assembles the service from configuration: sources, cache,
// rate limiter, fan-out engine, resolver, stats and the optional advisor.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/platewatch/platewatch/internal/advisor"
	"github.com/platewatch/platewatch/internal/cache"
	"github.com/platewatch/platewatch/internal/logger"
	"github.com/platewatch/platewatch/internal/model"
	"github.com/platewatch/platewatch/internal/resolve"
	"github.com/platewatch/platewatch/internal/search"
	"github.com/platewatch/platewatch/internal/source"
	"github.com/platewatch/platewatch/internal/stats"
	"github.com/platewatch/platewatch/internal/worker"
)

// App is the fully wired service.
type App struct {
	Config     *model.Config
	Log        *slog.Logger
	Records    source.RecordSource // All hazard feeds combined
	Recalls    source.RecordSource // The recall feed alone, for recall endpoints
	Products   source.ProductSource
	Engine     *search.Engine
	Resolver   *resolve.Resolver
	Summarizer *stats.Summarizer
	Advisor    *advisor.Advisor // nil when no API key is configured
}

// New wires the service. The advisor being unavailable is not an error;
// everything else failing to wire is.
func New(cfg *model.Config) (*App, error) {
	log := logger.New("platewatch", cfg.Log.Level)

	limiter := worker.NewLimiter(cfg.Sources.RatePerHost, cfg.Sources.Burst)

	var store cache.Cache
	if cfg.Cache.Enabled {
		dir, err := cacheDir(cfg.Cache.Dir)
		if err != nil {
			return nil, fmt.Errorf("resolve cache dir: %w", err)
		}
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
	}

	recalls := withRecordCache("recalls", source.NewRecallClient(cfg.Sources.RecallsBaseURL, cfg.HTTP, limiter), store, log)

	feeds := []source.RecordSource{recalls}
	if cfg.Sources.AdvisoryBaseURL != "" {
		advisories := withRecordCache("advisory", source.NewAdvisoryClient(cfg.Sources.AdvisoryBaseURL, cfg.HTTP, limiter), store, log)
		feeds = append(feeds, advisories)
	}
	records := source.NewMultiSource(log, feeds...)

	var products source.ProductSource = source.NewProductClient(cfg.Sources.ProductBaseURL, cfg.HTTP, limiter)
	if store != nil {
		// TTL 0 lets each cache layer apply its own configured default.
		products = source.NewCachedProductSource(products, store, 0, log)
	}

	engine := search.NewEngine(records, log)
	opts := search.Options{
		PerKeywordLimit:   cfg.Search.PerKeywordLimit,
		RecencyWindowDays: cfg.Search.RecencyWindowDays,
		Limit:             cfg.Search.Limit,
		Workers:           cfg.Search.Workers,
	}

	a := &App{
		Config:     cfg,
		Log:        log,
		Records:    records,
		Recalls:    recalls,
		Products:   products,
		Engine:     engine,
		Resolver:   resolve.NewResolver(products, engine, opts, log),
		Summarizer: stats.NewSummarizer(recalls, 100),
	}

	advCfg := cfg.Advisor
	if advCfg.APIKey == "" {
		advCfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	adv, err := advisor.New(advCfg, engine, opts, log)
	switch err {
	case nil:
		a.Advisor = adv
	case advisor.ErrDisabled:
		log.Debug("advisor disabled, no API key")
	default:
		return nil, fmt.Errorf("wire advisor: %w", err)
	}

	return a, nil
}

// SearchOptions returns the configured fan-out bounds.
func (a *App) SearchOptions() search.Options {
	return search.Options{
		PerKeywordLimit:   a.Config.Search.PerKeywordLimit,
		RecencyWindowDays: a.Config.Search.RecencyWindowDays,
		Limit:             a.Config.Search.Limit,
		Workers:           a.Config.Search.Workers,
	}
}

func withRecordCache(name string, src source.RecordSource, store cache.Cache, log *slog.Logger) source.RecordSource {
	if store == nil {
		return src
	}
	return source.NewCachedRecordSource(name, src, store, 0, log)
}

func cacheDir(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".platewatch", "cache"), nil
}
