package pages

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"condi-loader/core/condiloader"
	"condi-loader/core/fetch"
	"condi-loader/feature/manifests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const page = `<html><head><title>t</title></head><body><div id="widget"></div></body></html>`

type recordingTransport struct {
	mu    sync.Mutex
	urls  []string
	fails map[string]bool
	block bool
}

func (r *recordingTransport) Load(ctx context.Context, req fetch.Request) error {
	r.mu.Lock()
	r.urls = append(r.urls, req.Resolved)
	fail, block := r.fails[req.Resolved], r.block
	r.mu.Unlock()

	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	if fail {
		return errors.New("404 Not Found")
	}
	return nil
}

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Get(ctx context.Context, name string) (*condiloader.Manifest, error) {
	args := m.Called(ctx, name)
	if mf, ok := args.Get(0).(*condiloader.Manifest); ok {
		return mf, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *mockRecorder) Record(ctx context.Context, runID, source string, results []condiloader.Result) error {
	return m.Called(ctx, runID, source, results).Error(0)
}

func TestService_ProcessInline(t *testing.T) {
	tr := &recordingTransport{fails: map[string]bool{"/js/broken.js": true}}
	cfg := condiloader.DefaultConfig()
	cfg.ScriptBasePath = "/js/"
	svc := NewService(tr, nil, nil, cfg, zap.NewNop())

	resp, err := svc.Process(context.Background(), Request{
		HTML: page,
		Items: []condiloader.Item{
			{Name: "Widget", Selectors: condiloader.StringList{"#widget"}, Stylesheets: condiloader.StringList{"/css/w.css"}, Scripts: condiloader.StringList{"w.js"}, Event: "widget-ready"},
			{Name: "Gallery", Selectors: condiloader.StringList{"#gallery"}, Scripts: condiloader.StringList{"g.js"}},
			{Name: "Broken", Scripts: condiloader.StringList{"broken.js"}, Event: "never"},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.RunID)
	assert.False(t, resp.TimedOut)
	assert.Equal(t, condiloader.Summary{Total: 3, Ready: 1, Skipped: 1, Failed: 1}, resp.Summary)
	assert.Equal(t, []string{"widget-ready"}, resp.Events)
	assert.Contains(t, resp.HTML, `<link rel="stylesheet" as="style" href="/css/w.css"/>`)
	assert.Contains(t, resp.HTML, `<script src="/js/w.js" async=""></script>`)
	assert.NotContains(t, resp.HTML, "g.js")
	assert.Contains(t, resp.Results[2].Error, "error loading JS: /js/broken.js")
}

func TestService_BasePathOverride(t *testing.T) {
	tr := &recordingTransport{}
	cfg := condiloader.DefaultConfig()
	cfg.StyleBasePath = "/static/"
	svc := NewService(tr, nil, nil, cfg, nil)

	override := "https://cdn.example.com/"
	_, err := svc.Process(context.Background(), Request{
		HTML:          page,
		Items:         []condiloader.Item{{Stylesheets: condiloader.StringList{"a.css"}}},
		StyleBasePath: &override,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/a.css"}, tr.urls)
}

func TestService_ProcessManifest(t *testing.T) {
	src := new(mockSource)
	src.On("Get", mock.Anything, "site").Return(&condiloader.Manifest{Items: []condiloader.Item{
		{Name: "FromManifest", Scripts: condiloader.StringList{"m.js"}},
	}}, nil)
	src.On("Get", mock.Anything, "missing").Return(nil, manifests.ErrNotFound)

	rec := new(mockRecorder)
	rec.On("Enabled").Return(true)
	rec.On("Record", mock.Anything, mock.AnythingOfType("string"), "site", mock.Anything).Return(nil)

	tr := &recordingTransport{}
	svc := NewService(tr, src, rec, condiloader.DefaultConfig(), zap.NewNop())

	resp, err := svc.Process(context.Background(), Request{
		HTML:     page,
		Manifest: "site",
		Items:    []condiloader.Item{{Name: "Extra", Scripts: condiloader.StringList{"e.js"}}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "FromManifest", resp.Results[0].Name)
	assert.Equal(t, "Extra", resp.Results[1].Name)
	rec.AssertCalled(t, "Record", mock.Anything, resp.RunID, "site", mock.Anything)

	_, err = svc.Process(context.Background(), Request{HTML: page, Manifest: "missing"})
	assert.ErrorIs(t, err, manifests.ErrNotFound)
}

func TestService_RecordFailureIsNotFatal(t *testing.T) {
	rec := new(mockRecorder)
	rec.On("Enabled").Return(true)
	rec.On("Record", mock.Anything, mock.Anything, SourceInline, mock.Anything).Return(assert.AnError)

	svc := NewService(&recordingTransport{}, nil, rec, condiloader.DefaultConfig(), nil)
	_, err := svc.Process(context.Background(), Request{HTML: page})
	assert.NoError(t, err)
	rec.AssertExpectations(t)
}

func TestService_Errors(t *testing.T) {
	svc := NewService(&recordingTransport{}, nil, nil, condiloader.DefaultConfig(), nil)

	_, err := svc.Process(context.Background(), Request{HTML: page, Manifest: "site"})
	assert.ErrorIs(t, err, ErrNoManifests)

	_, err = svc.Process(context.Background(), Request{
		HTML:  page,
		Items: []condiloader.Item{{XPaths: condiloader.StringList{"//div["}}},
	})
	var condErr *condiloader.InvalidConditionError
	assert.ErrorAs(t, err, &condErr)
}

func TestService_Timeout(t *testing.T) {
	cfg := condiloader.DefaultConfig()
	cfg.ProcessTimeoutSeconds = 1
	svc := NewService(&recordingTransport{block: true}, nil, nil, cfg, nil)

	resp, err := svc.Process(context.Background(), Request{
		HTML:  page,
		Items: []condiloader.Item{{Name: "slow", Scripts: condiloader.StringList{"slow.js"}}},
	})
	require.NoError(t, err)
	assert.True(t, resp.TimedOut)
	assert.True(t, strings.Contains(resp.HTML, `src="slow.js"`))
}
