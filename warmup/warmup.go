// Package warmup drives the hottest read paths through the normal
// cache-population path at process start, so steady-state traffic begins
// warm instead of stampeding the database.
package warmup

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/karnwald/blogcache/blog"
)

// Config controls the warmup pass.
type Config struct {
	// Enabled gates the whole pass. Wiring code should set it to
	// (caching enabled && warmup enabled) so a disabled cache is never
	// warmed.
	Enabled bool

	// PageSize is the page size used for the published-listing pages.
	PageSize int

	// HotSize is the requested hot-ranking size; it is clamped to the
	// article service's configured cap.
	HotSize int

	// Rate bounds warmup loads per second against the store. Zero disables
	// pacing.
	Rate float64
}

// Runner performs the one-shot warmup. It is best-effort throughout: any
// failing step is logged and skipped, and Run never reports an error, so
// warmup can never prevent the process from becoming ready.
type Runner struct {
	cfg      Config
	articles *blog.Articles
	taxonomy *blog.Taxonomy
	logger   *zap.Logger
	limiter  *rate.Limiter
}

// New creates a warmup runner.
func New(cfg Config, articles *blog.Articles, taxonomy *blog.Taxonomy, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	var limiter *rate.Limiter
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}
	return &Runner{
		cfg:      cfg,
		articles: articles,
		taxonomy: taxonomy,
		logger:   logger,
		limiter:  limiter,
	}
}

// Run executes the warmup pass synchronously: the first cacheable pages of
// the published listing, the hot ranking up to its cap, and both taxonomy
// lists, all through the same get-with-loader path live traffic uses.
func (r *Runner) Run(ctx context.Context) {
	if !r.cfg.Enabled {
		return
	}
	start := time.Now()

	for page := range r.articles.MaxCachedPages() {
		r.step(ctx, "published page", func(ctx context.Context) error {
			_, err := r.articles.Published(ctx, blog.PageOf(page, r.cfg.PageSize))
			return err
		})
	}

	hotSize := min(r.cfg.HotSize, r.articles.MaxHotSize())
	r.step(ctx, "hot articles", func(ctx context.Context) error {
		_, err := r.articles.Hot(ctx, hotSize)
		return err
	})

	r.step(ctx, "categories", func(ctx context.Context) error {
		_, err := r.taxonomy.Categories(ctx)
		return err
	})

	r.step(ctx, "tags", func(ctx context.Context) error {
		_, err := r.taxonomy.Tags(ctx)
		return err
	})

	r.logger.Info("cache warmup completed", zap.Duration("took", time.Since(start)))
}

func (r *Runner) step(ctx context.Context, name string, fn func(context.Context) error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			r.logger.Warn("cache warmup interrupted", zap.String("step", name), zap.Error(err))
			return
		}
	}
	if err := fn(ctx); err != nil {
		r.logger.Warn("cache warmup step failed", zap.String("step", name), zap.Error(err))
	}
}
