package pages

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"condi-loader/core/condiloader"
	"condi-loader/core/dom"
	"condi-loader/core/fetch"

	"github.com/google/uuid"
	"github.com/joeycumines/go-eventloop"
	"go.uber.org/zap"
)

// SourceInline names runs whose items came only from the request body.
const SourceInline = "inline"

// ErrNoManifests means a manifest was requested but no store is attached.
var ErrNoManifests = errors.New("manifest storage is not configured")

// ManifestSource looks up stored manifests.
type ManifestSource interface {
	Get(ctx context.Context, name string) (*condiloader.Manifest, error)
}

// Recorder stores the outcomes of a run.
type Recorder interface {
	Enabled() bool
	Record(ctx context.Context, runID, source string, results []condiloader.Result) error
}

// Request is one page to process.
type Request struct {
	// HTML is the page markup.
	HTML string `json:"html"`
	// Manifest names a stored manifest whose items run first.
	Manifest string `json:"manifest,omitempty"`
	// Items are run after the manifest items.
	Items []condiloader.Item `json:"items,omitempty"`
	// StyleBasePath overrides the configured stylesheet base path.
	StyleBasePath *string `json:"style_base_path,omitempty"`
	// ScriptBasePath overrides the configured script base path.
	ScriptBasePath *string `json:"script_base_path,omitempty"`
}

// Response is the processed page.
type Response struct {
	RunID    string               `json:"run_id"`
	HTML     string               `json:"html"`
	Results  []condiloader.Result `json:"results"`
	Summary  condiloader.Summary  `json:"summary"`
	Events   []string             `json:"events"`
	TimedOut bool                 `json:"timed_out,omitempty"`
}

// Service runs the loader over submitted pages.
type Service struct {
	transport fetch.Transport
	manifests ManifestSource
	recorder  Recorder
	cfg       condiloader.Config
	logger    *zap.Logger
}

// NewService creates a page service. manifests and recorder may be nil.
func NewService(transport fetch.Transport, manifests ManifestSource, recorder Recorder, cfg condiloader.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		transport: transport,
		manifests: manifests,
		recorder:  recorder,
		cfg:       cfg,
		logger:    logger,
	}
}

// Process parses the page, loads the resources of every satisfied item and
// returns the rewritten page. Items still running when the process timeout
// hits are reported as they stand.
func (s *Service) Process(ctx context.Context, req Request) (*Response, error) {
	items, source, err := s.items(ctx, req)
	if err != nil {
		return nil, err
	}

	doc, err := dom.ParseString(req.HTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	cfg := s.cfg
	if req.StyleBasePath != nil {
		cfg.StyleBasePath = *req.StyleBasePath
	}
	if req.ScriptBasePath != nil {
		cfg.ScriptBasePath = *req.ScriptBasePath
	}

	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID), zap.String("source", source))
	events := listen(doc, items)

	ldr, err := condiloader.New(doc, items, cfg,
		condiloader.WithLogger(log),
		condiloader.WithTransport(s.transport))
	if err != nil {
		return nil, err
	}

	pctx, cancel := context.WithTimeout(ctx, cfg.ProcessTimeout())
	defer cancel()

	ldr.Start(pctx)
	doc.ContentLoaded()

	resp := &Response{RunID: runID}
	if err := ldr.Wait(pctx); err != nil {
		resp.TimedOut = true
		log.Warn("Page processing timed out", zap.Duration("timeout", cfg.ProcessTimeout()))
	}
	doc.Complete()

	resp.Results = ldr.Results()
	resp.Summary = condiloader.Summarize(resp.Results)
	resp.Events = events.list()
	resp.HTML = doc.String()

	log.Info("Page processed",
		zap.Int("items", resp.Summary.Total),
		zap.Int("ready", resp.Summary.Ready),
		zap.Int("skipped", resp.Summary.Skipped),
		zap.Int("failed", resp.Summary.Failed))

	if s.recorder != nil && s.recorder.Enabled() {
		if err := s.recorder.Record(context.WithoutCancel(ctx), runID, source, resp.Results); err != nil {
			log.Warn("Failed to record history", zap.Error(err))
		}
	}

	return resp, nil
}

func (s *Service) items(ctx context.Context, req Request) ([]condiloader.Item, string, error) {
	inline := &condiloader.Manifest{Items: req.Items}
	if err := inline.Validate(); err != nil {
		return nil, "", err
	}
	if req.Manifest == "" {
		return req.Items, SourceInline, nil
	}

	if s.manifests == nil {
		return nil, "", ErrNoManifests
	}
	m, err := s.manifests.Get(ctx, req.Manifest)
	if err != nil {
		return nil, "", err
	}

	items := make([]condiloader.Item, 0, len(m.Items)+len(req.Items))
	items = append(items, m.Items...)
	items = append(items, req.Items...)
	return items, req.Manifest, nil
}

// eventLog collects the names of events dispatched during a run.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func listen(doc *dom.Document, items []condiloader.Item) *eventLog {
	log := &eventLog{events: []string{}}
	seen := make(map[string]bool)
	for _, it := range items {
		if it.Event == "" || seen[it.Event] {
			continue
		}
		seen[it.Event] = true
		doc.AddEventListener(it.Event, func(e *eventloop.Event) {
			log.mu.Lock()
			log.events = append(log.events, e.Type)
			log.mu.Unlock()
		})
	}
	return log
}

func (l *eventLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.events...)
}
