package condiloader

import (
	"context"
	"errors"
	"sync"
	"time"

	"condi-loader/core/dom"
	"condi-loader/core/fetch"
	"condi-loader/core/registry"

	"github.com/joeycumines/go-eventloop"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the diagnostics sink. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithTransport sets the transport behind every load. Defaults to plain HTTP.
func WithTransport(t fetch.Transport) Option {
	return func(l *Loader) {
		l.transport = t
	}
}

type itemRun struct {
	index    int
	item     Item
	state    State
	outcome  Outcome
	err      error
	duration time.Duration
}

// Loader processes a fixed list of items against one document.
type Loader struct {
	doc       *dom.Document
	cfg       Config
	logger    *zap.Logger
	transport fetch.Transport
	fetcher   *fetch.Fetcher
	registry  *registry.Registry

	once    sync.Once
	started chan struct{}
	done    chan struct{}

	mu   sync.Mutex
	runs []*itemRun
}

// New creates a Loader over doc. items are copied; later changes to the
// caller's slice are not seen. Construction failures, including panics, are
// logged and returned.
func New(doc *dom.Document, items []Item, cfg Config, opts ...Option) (*Loader, error) {
	l := &Loader{
		logger:  zap.NewNop(),
		started: make(chan struct{}),
		done:    make(chan struct{}),
	}

	var err error
	if perr := try(func() { err = l.init(doc, items, cfg, opts) }); perr != nil {
		err = perr
	}
	if err != nil {
		l.logger.Error("loader general exception", zap.Error(err))
		return nil, err
	}
	return l, nil
}

func (l *Loader) init(doc *dom.Document, items []Item, cfg Config, opts []Option) error {
	for _, opt := range opts {
		opt(l)
	}
	if doc == nil {
		return errors.New("condiloader: nil document")
	}
	if l.transport == nil {
		l.transport = fetch.NewDefaultTransport(nil, nil, "")
	}

	l.doc = doc
	l.cfg = cfg
	l.fetcher = fetch.NewFetcher(doc, l.transport, cfg.fetchConfig(), l.logger)
	l.registry = registry.New(l.fetcher, !cfg.DisableScriptDedup)

	l.runs = make([]*itemRun, len(items))
	for i, it := range items {
		l.runs[i] = &itemRun{index: i, item: it, state: StatePending}
	}
	return nil
}

// Start processes the items once the document's structural content is
// ready: on DOMContentLoaded, or immediately if that already happened.
func (l *Loader) Start(ctx context.Context) {
	l.doc.Events().AddEventListenerOnce(dom.EventContentLoaded, func(*eventloop.Event) {
		l.Process(ctx)
	})
	if l.doc.ReadyState() != dom.Loading {
		l.Process(ctx)
	}
}

// Process starts one orchestration per item and returns without waiting.
// Only the first call has any effect.
func (l *Loader) Process(ctx context.Context) {
	l.once.Do(func() {
		close(l.started)
		l.process(ctx)
	})
}

func (l *Loader) process(ctx context.Context) {
	var wg conc.WaitGroup

	l.mu.Lock()
	for _, run := range l.runs {
		if run.item.Name == "" {
			run.item.Name = DefaultName(run.index)
		}
	}
	runs := l.runs
	l.mu.Unlock()

	l.logger.Debug("Processing items", zap.Int("count", len(runs)))
	for _, run := range runs {
		wg.Go(func() {
			l.loadItem(ctx, run)
		})
	}

	go func() {
		if r := wg.WaitAndRecover(); r != nil {
			l.logger.Error("Item orchestration panicked", zap.Error(r.AsError()))
		}
		close(l.done)
	}()
}

func (l *Loader) loadItem(ctx context.Context, run *itemRun) {
	start := time.Now()
	item := l.item(run)

	satisfied := l.NeedLoad(item)
	l.setState(run, StateConditionChecked)
	if !satisfied {
		l.settle(run, OutcomeSkipped, nil, start)
		l.logger.Debug("Item skipped", zap.String("item", item.Name))
		return
	}

	l.setState(run, StateLoading)
	err := l.runChain(ctx, item)
	if err == nil {
		err = l.complete(item)
	}
	if err != nil {
		l.logger.Error("Item processing error", zap.String("item", item.Name), zap.Error(err))
		l.settle(run, OutcomeFailed, err, start)
		return
	}

	l.settle(run, OutcomeReady, nil, start)
	l.logger.Debug("Item ready", zap.String("item", item.Name), zap.Duration("elapsed", time.Since(start)))
}

// NeedLoad reports whether every condition clause of item matches at least
// one node. Items without clauses always load. A clause that cannot be
// compiled never matches.
func (l *Loader) NeedLoad(item Item) bool {
	for _, clause := range item.Clauses() {
		if !l.matches(item, clause) {
			return false
		}
	}
	return true
}

func (l *Loader) matches(item Item, clause Clause) bool {
	var nodes []*html.Node
	var err error
	switch clause.Kind {
	case ClauseSelector:
		nodes, err = l.doc.QuerySelectorAll(clause.Expr)
	case ClauseXPath:
		nodes, err = l.doc.QueryXPath(clause.Expr)
	}
	if err != nil {
		l.logger.Warn("Invalid condition clause",
			zap.String("item", item.Name),
			zap.String("kind", string(clause.Kind)),
			zap.Error(err))
		return false
	}
	return len(nodes) > 0
}

// runChain loads the stylesheets then the scripts of item, each step
// starting after the previous one resolved. The first failure ends the chain.
func (l *Loader) runChain(ctx context.Context, item Item) error {
	steps := make([]func() *fetch.Completion, 0, len(item.Stylesheets)+len(item.Scripts))
	for _, u := range item.Stylesheets {
		steps = append(steps, func() *fetch.Completion {
			return l.fetcher.FetchStyle(ctx, u, item.Media)
		})
	}
	for _, u := range item.Scripts {
		steps = append(steps, func() *fetch.Completion {
			return l.registry.RequestScript(ctx, u)
		})
	}

	chain := fetch.Resolved()
	for _, step := range steps {
		if err := chain.Wait(ctx); err != nil {
			return err
		}
		chain = step()
	}
	return chain.Wait(ctx)
}

// complete runs OnReady, then dispatches the item's event. A panicking
// callback does not stop the event but fails the item.
func (l *Loader) complete(item Item) error {
	var errs []error
	if item.OnReady != nil {
		if err := try(item.OnReady); err != nil {
			errs = append(errs, &CallbackPanicError{Item: item.Name, Callback: "ready callback", Err: err})
		}
	}
	if item.Event != "" {
		if err := try(func() { l.doc.DispatchEvent(item.Event) }); err != nil {
			errs = append(errs, &CallbackPanicError{Item: item.Name, Callback: "event listener", Err: err})
		}
	}
	return errors.Join(errs...)
}

// try runs f and turns a panic into an error.
func try(f func()) error {
	var pc panics.Catcher
	pc.Try(f)
	if r := pc.Recovered(); r != nil {
		return r.AsError()
	}
	return nil
}

func (l *Loader) item(run *itemRun) Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return run.item
}

func (l *Loader) setState(run *itemRun, s State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	run.state = s
}

func (l *Loader) settle(run *itemRun, outcome Outcome, err error, start time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	run.state = StateSettled
	run.outcome = outcome
	run.err = err
	run.duration = time.Since(start)
}

// Started is closed when processing begins.
func (l *Loader) Started() <-chan struct{} {
	return l.started
}

// Done is closed once every item settled.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until every item settled or ctx is done.
func (l *Loader) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Results snapshots the per-item reports in declaration order.
func (l *Loader) Results() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Result, len(l.runs))
	for i, run := range l.runs {
		out[i] = Result{
			Index:    run.index,
			Name:     run.item.Name,
			State:    run.state,
			Outcome:  run.outcome,
			Err:      run.err,
			Duration: run.duration,
		}
		if run.err != nil {
			out[i].Error = run.err.Error()
		}
	}
	return out
}

// Registry exposes the in-flight script map.
func (l *Loader) Registry() *registry.Registry {
	return l.registry
}

// Document returns the document the loader works against.
func (l *Loader) Document() *dom.Document {
	return l.doc
}
