package fetch

import (
	"context"
	"time"

	"condi-loader/core/dom"

	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/sync/semaphore"
)

// Config controls URL resolution and load limits.
type Config struct {
	// StyleBasePath is prepended to relative stylesheet URLs.
	StyleBasePath string
	// ScriptBasePath is prepended to relative script URLs.
	ScriptBasePath string
	// Timeout bounds a single physical load. Zero means no bound.
	Timeout time.Duration
	// MaxConcurrent bounds the number of loads in progress. Zero means unbounded.
	MaxConcurrent int
}

// Fetcher loads single resources into a document.
type Fetcher struct {
	doc       *dom.Document
	transport Transport
	cfg       Config
	sem       *semaphore.Weighted
	logger    *zap.Logger
}

// NewFetcher creates a Fetcher inserting loading nodes into doc and moving
// bytes with transport.
func NewFetcher(doc *dom.Document, transport Transport, cfg Config, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Fetcher{
		doc:       doc,
		transport: transport,
		cfg:       cfg,
		logger:    logger,
	}
	if cfg.MaxConcurrent > 0 {
		f.sem = semaphore.NewWeighted(int64(cfg.MaxConcurrent))
	}
	return f
}

// FetchStyle inserts a preload <link> for url and loads it. On success the
// link is switched to rel="stylesheet". Stylesheets are never de-duplicated.
func (f *Fetcher) FetchStyle(ctx context.Context, url, media string) *Completion {
	req := Request{
		Kind:     KindStyle,
		URL:      url,
		Resolved: Resolve(f.cfg.StyleBasePath, url),
		Media:    media,
	}

	attrs := []html.Attribute{
		{Key: "rel", Val: "preload"},
		{Key: "as", Val: "style"},
		{Key: "href", Val: req.Resolved},
	}
	if media != "" {
		attrs = append(attrs, html.Attribute{Key: "media", Val: media})
	}
	el := f.doc.CreateElement("link", attrs...)
	f.doc.AppendToHead(el)

	return f.start(ctx, req, func() {
		f.doc.SetAttribute(el, "rel", "stylesheet")
	})
}

// FetchScript inserts an async <script> for url and loads it.
func (f *Fetcher) FetchScript(ctx context.Context, url string) *Completion {
	req := Request{
		Kind:     KindScript,
		URL:      url,
		Resolved: Resolve(f.cfg.ScriptBasePath, url),
	}

	el := f.doc.CreateElement("script",
		html.Attribute{Key: "src", Val: req.Resolved},
		html.Attribute{Key: "async"},
	)
	f.doc.AppendToHead(el)

	return f.start(ctx, req, nil)
}

func (f *Fetcher) start(ctx context.Context, req Request, onLoad func()) *Completion {
	c := newCompletion()
	go func() {
		var err error
		var pc panics.Catcher
		pc.Try(func() {
			err = f.load(ctx, req)
		})
		if r := pc.Recovered(); r != nil {
			err = r.AsError()
		}

		if err != nil {
			f.logger.Debug("Resource load failed",
				zap.String("kind", string(req.Kind)),
				zap.String("url", req.Resolved),
				zap.Error(err))
			c.settle(&ResourceLoadError{Kind: req.Kind, URL: req.Resolved, Err: err})
			return
		}

		if onLoad != nil {
			onLoad()
		}
		f.logger.Debug("Resource loaded",
			zap.String("kind", string(req.Kind)),
			zap.String("url", req.Resolved))
		c.settle(nil)
	}()
	return c
}

func (f *Fetcher) load(ctx context.Context, req Request) error {
	if f.sem != nil {
		if err := f.sem.Acquire(ctx, 1); err != nil {
			return err
		}
		defer f.sem.Release(1)
	}

	if f.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()
	}

	return f.transport.Load(ctx, req)
}
