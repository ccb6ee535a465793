package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/match"
	"github.com/jonathan/jobscout/internal/notify"
	"github.com/jonathan/jobscout/internal/pipeline"
	"github.com/jonathan/jobscout/internal/scrape"
	"github.com/jonathan/jobscout/internal/source"
	"github.com/jonathan/jobscout/internal/store"
	"github.com/jonathan/jobscout/internal/types"
)

// deps bundles everything a run needs. The store is nil when no database
// is configured; the pipeline then runs stateless.
type deps struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	store    *store.Store
}

func (d *deps) close() {
	if d.store != nil {
		d.store.Close()
	}
}

func setup(ctx context.Context) (*deps, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	client := fetch.NewClient(&fetch.Options{
		UserAgent:  cfg.Scraping.UserAgent,
		Timeout:    time.Duration(cfg.Scraping.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.Scraping.MaxRetries,
		Delay:      time.Duration(cfg.Scraping.DelaySeconds * float64(time.Second)),
	})

	notifier, err := notify.New(cfg, client)
	if err != nil {
		return nil, err
	}

	var st *store.Store
	var history pipeline.History
	if cfg.Database.URL != "" {
		st, err = store.Open(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		history = st
	}

	p := pipeline.New(cfg, scrape.NewScraper(client), match.New(cfg), history, notifier)
	return &deps{cfg: cfg, pipeline: p, store: st}, nil
}

// openStore connects to the configured database, for commands that need
// persistence and nothing else.
func openStore(ctx context.Context) (*store.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("no database configured; set database.url or DATABASE_URL")
	}
	return store.Open(ctx, cfg.Database.URL)
}

// loadSources reads company lists from the --sources flags, falling back
// to the files named in the config.
func loadSources(cfg *config.Config, flagPaths []string) ([]types.CareerSource, error) {
	paths := flagPaths
	if len(paths) == 0 {
		paths = cfg.Sources
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no company files; pass --sources or set sources in the config")
	}
	return source.LoadFiles(paths)
}
