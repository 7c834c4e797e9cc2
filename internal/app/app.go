package app

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samvad-hq/pawfinder/internal/config"
	"github.com/samvad-hq/pawfinder/internal/logger"
	"github.com/samvad-hq/pawfinder/pkg/authapi"
	"github.com/samvad-hq/pawfinder/pkg/httpclient"
	"github.com/samvad-hq/pawfinder/pkg/imageurl"
	"github.com/samvad-hq/pawfinder/pkg/petsapi"
	"github.com/samvad-hq/pawfinder/pkg/session"
)

// App wires the API clients to the configured session store. One App serves
// one command invocation.
type App struct {
	Pets   *petsapi.Client
	Auth   *authapi.Client
	Images imageurl.Resolver

	cfg      *config.Config
	log      logger.Logger
	store    session.Store
	http     *httpclient.Client
	registry *prometheus.Registry
}

// Option customizes New.
type Option func(*options)

type options struct {
	httpOpts []httpclient.Option
	store    session.Store
}

// WithHTTPOptions passes extra options to the HTTP client.
func WithHTTPOptions(opts ...httpclient.Option) Option {
	return func(o *options) { o.httpOpts = append(o.httpOpts, opts...) }
}

// WithStore replaces the configured session store.
func WithStore(s session.Store) Option {
	return func(o *options) { o.store = s }
}

// New builds the runtime from cfg.
func New(cfg *config.Config, log logger.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	store := o.store
	ownStore := store == nil
	if ownStore {
		var err error
		store, err = session.NewStore(cfg.SessionStore, cfg.SessionPath)
		if err != nil {
			return nil, fmt.Errorf("init session store: %w", err)
		}
		log.InfoObj("session store initialized", "session_config", map[string]any{
			"type": cfg.SessionStore,
			"path": cfg.SessionPath,
		})
	}

	registry := prometheus.NewRegistry()
	httpOpts := append([]httpclient.Option{
		httpclient.WithTimeout(cfg.HTTPTimeout),
		httpclient.WithLogger(log),
		httpclient.WithMetrics(httpclient.NewMetrics(registry)),
		httpclient.WithUserAgent(cfg.AppName),
	}, o.httpOpts...)

	hc, err := httpclient.New(cfg.APIBaseURL, store, httpOpts...)
	if err != nil {
		closeOwned(store, ownStore)
		return nil, fmt.Errorf("init http client: %w", err)
	}
	pets, err := petsapi.New(hc)
	if err != nil {
		closeOwned(store, ownStore)
		return nil, err
	}
	auth, err := authapi.New(hc, store)
	if err != nil {
		closeOwned(store, ownStore)
		return nil, err
	}

	log.DebugObj("api client ready", "api_config", map[string]any{
		"api_base_url":   cfg.APIBaseURL,
		"image_base_url": cfg.ImageBaseURL,
		"timeout":        cfg.HTTPTimeout.String(),
	})

	return &App{
		Pets:     pets,
		Auth:     auth,
		Images:   imageurl.New(cfg.ImageBaseURL, cfg.ImagePlaceholder),
		cfg:      cfg,
		log:      log,
		store:    store,
		http:     hc,
		registry: registry,
	}, nil
}

// Config returns the configuration the App was built from.
func (a *App) Config() *config.Config { return a.cfg }

// Session returns the session store.
func (a *App) Session() session.Store { return a.store }

// CurrentUser returns the user recorded at login, or nil when none is.
func (a *App) CurrentUser() (*authapi.User, error) {
	raw, err := a.store.CurrentUser()
	if err != nil {
		return nil, fmt.Errorf("read current user: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var u authapi.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode current user: %w", err)
	}
	return &u, nil
}

// RequestCounts sums the request counter per status code.
func (a *App) RequestCounts() (map[string]float64, error) {
	families, err := a.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	counts := make(map[string]float64)
	for _, mf := range families {
		if mf.GetName() != httpclient.RequestsMetricName {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "status" {
					counts[lp.GetValue()] += m.GetCounter().GetValue()
				}
			}
		}
	}
	return counts, nil
}

// Close logs the request summary and closes the session store.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	if counts, err := a.RequestCounts(); err != nil {
		errs = append(errs, err)
	} else if len(counts) > 0 {
		a.log.DebugObj("api requests", "requests_by_status", counts)
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.ErrorObj("session store close failed", "error", err)
			errs = append(errs, fmt.Errorf("close session store: %w", err))
		}
	}
	return errors.Join(errs...)
}

// closeOwned releases a store New opened itself. Stores passed in through
// WithStore belong to the caller.
func closeOwned(store session.Store, owned bool) {
	if owned {
		_ = store.Close()
	}
}
