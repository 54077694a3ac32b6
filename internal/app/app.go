package app

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"net/http"
	"sort"
	"time"

	"gstassist/internal/api"
	"gstassist/internal/config"
	"gstassist/internal/extract"
	"gstassist/internal/observability"
	"gstassist/internal/provider"
	"gstassist/internal/resolver"
	"gstassist/internal/store"
)

type App struct {
	Config    config.Config
	Store     *store.Store
	Observer  *observability.ResolverObserver
	Resolver  *resolver.Resolver
	Extractor *extract.Extractor
	API       *api.Handler
}

// New wires providers, resolver and HTTP handlers from cfg. The audit store
// is opened and migrated only when a database DSN is configured.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	var st *store.Store
	if cfg.Database.DSN != "" {
		opened, err := store.Open(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx, opened.DB()); err != nil {
			_ = opened.Close()
			return nil, err
		}
		st = opened
	}

	observer := observability.NewResolverObserver(log.Default())
	res := NewResolver(cfg, observer)
	ex := extract.New(cfg.Extract.Documents, cfg.Extract.MaxBytes)

	var audit api.AuditRecorder
	if st != nil {
		audit = st
	}
	handler := api.NewHandler(cfg, res, ex, audit, observer)

	return &App{
		Config:    cfg,
		Store:     st,
		Observer:  observer,
		Resolver:  res,
		Extractor: ex,
		API:       handler,
	}, nil
}

// NewResolver builds the query chain inference, webhook, knowledge base and
// the draft chain inference, template.
func NewResolver(cfg config.Config, observer resolver.Observer) *resolver.Resolver {
	inference := provider.NewInference(cfg.Inference.URL, cfg.Inference.Timeout)
	webhook := provider.NewWebhook(cfg.Webhook.URL, cfg.Webhook.Timeout)
	opts := []resolver.Option{resolver.WithMaxNoticeChars(cfg.Resolver.MaxNoticeChars)}
	if observer != nil {
		opts = append(opts, resolver.WithObserver(observer))
	}
	return resolver.New(
		[]provider.QueryProvider{inference, webhook},
		provider.NewKnowledgeBase(),
		[]provider.DraftProvider{inference},
		provider.NewTemplate(),
		opts...,
	)
}

func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if a.Store != nil {
			if err := a.Store.Ping(r.Context()); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.HandleFunc("/debug", a.handleDebug)
	a.API.RegisterRoutes(mux)
	return mux
}

func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.HTTP.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go a.PruneLoop(ctx, time.Minute)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// PruneLoop drops idle rate limit buckets until ctx is done.
func (a *App) PruneLoop(ctx context.Context, every time.Duration) {
	if a.API == nil || a.API.Limiter == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(every):
			if n := a.API.Limiter.Prune(10 * time.Minute); n > 0 {
				log.Printf("api rate_limit_pruned buckets=%d", n)
			}
		}
	}
}

func (a *App) handleDebug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	snap := a.Observer.Snapshot()

	w.Header().Set("Content-Type", "text/html")
	_, _ = fmt.Fprintf(w, "<html><body><h1>GST Assist Debug</h1>")
	_, _ = fmt.Fprintf(w, "<p>Static fallbacks: %d</p>", snap.StaticFallback)
	_, _ = fmt.Fprintf(w, "<h2>Answer sources</h2><ul>")
	for _, k := range sortedKeys(snap.Sources) {
		_, _ = fmt.Fprintf(w, "<li>%s: %d</li>", html.EscapeString(k), snap.Sources[k])
	}
	_, _ = fmt.Fprintf(w, "</ul>")
	_, _ = fmt.Fprintf(w, "<h2>Tier failures</h2><ul>")
	for _, k := range sortedKeys(snap.TierFailures) {
		_, _ = fmt.Fprintf(w, "<li>%s: %d</li>", html.EscapeString(k), snap.TierFailures[k])
	}
	_, _ = fmt.Fprintf(w, "</ul>")
	_, _ = fmt.Fprintf(w, "<h2>Quick actions</h2>")
	_, _ = fmt.Fprintf(w, "<ul><li><a href=\"/healthz\">Check health</a></li><li><a href=\"/debug/stats\">Stats JSON</a></li></ul>")
	if a.Store != nil {
		totals, err := a.Store.CountBySource(ctx)
		if err != nil {
			log.Printf("debug count_by_source_failed err=%v", err)
		}
		_, _ = fmt.Fprintf(w, "<h2>Audited totals</h2><ul>")
		for _, k := range sortedKeys(totals) {
			_, _ = fmt.Fprintf(w, "<li>%s: %d</li>", html.EscapeString(k), totals[k])
		}
		_, _ = fmt.Fprintf(w, "</ul>")

		recent, err := a.Store.ListResolutions(ctx, 20)
		if err != nil {
			log.Printf("debug list_resolutions_failed err=%v", err)
		}
		_, _ = fmt.Fprintf(w, "<h2>Recent resolutions</h2><ul>")
		for _, item := range recent {
			_, _ = fmt.Fprintf(w, "<li>%s %s %s %dms</li>", item.CreatedAt.Format(time.RFC3339), html.EscapeString(item.Operation), html.EscapeString(item.Source), item.LatencyMS)
		}
		_, _ = fmt.Fprintf(w, "</ul>")
	}
	_, _ = fmt.Fprintf(w, "</body></html>")
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
