package pages

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"condi-loader/core/condiloader"
	"condi-loader/feature/manifests"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(src ManifestSource) *fiber.App {
	app := fiber.New()
	svc := NewService(&recordingTransport{}, src, nil, condiloader.DefaultConfig(), zap.NewNop())
	NewFeature(svc).Load(app)
	return app
}

func post(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	req := httptest.NewRequest("POST", "/pages/process", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHandleProcess(t *testing.T) {
	app := setupTestApp(nil)

	status, out := post(t, app, `{
		"html": "<html><head></head><body><div id=\"widget\"></div></body></html>",
		"items": [
			{"name": "Widget", "sel": "#widget", "js": "w.js", "event": "widget-ready"},
			{"sel": ["#gallery"], "css": ["g.css"]}
		]
	}`)
	require.Equal(t, 200, status)

	assert.Equal(t, []any{"widget-ready"}, out["events"])
	assert.Contains(t, out["html"], `src="w.js"`)

	results := out["results"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	assert.Equal(t, "ready", first["outcome"])
	assert.Equal(t, "settled", first["state"])
	second := results[1].(map[string]any)
	assert.Equal(t, "Unnamed item #1", second["name"])
	assert.Equal(t, "skipped", second["outcome"])
}

func TestHandleProcess_BadRequests(t *testing.T) {
	src := new(mockSource)
	src.On("Get", mock.Anything, "missing").Return(nil, manifests.ErrNotFound)
	app := setupTestApp(src)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"MalformedJSON", `{"html":`, 400},
		{"MissingHTML", `{"items":[]}`, 400},
		{"InvalidSelector", `{"html":"<p></p>","items":[{"sel":"p["}]}`, 400},
		{"UnknownManifest", `{"html":"<p></p>","manifest":"missing"}`, 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := post(t, app, tt.body)
			assert.Equal(t, tt.want, status)
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestFeature(t *testing.T) {
	feature := NewFeature(NewService(&recordingTransport{}, nil, nil, condiloader.DefaultConfig(), nil))
	assert.Equal(t, "pages", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
}
