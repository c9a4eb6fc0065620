package fetch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"condi-loader/core/fetch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTransport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "js"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "js", "app.js"), []byte("console.log(1)"), 0o600))

	tr := fetch.NewFileTransport(dir)
	ctx := context.Background()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"Relative", "js/app.js", false},
		{"RootRelative", "/js/app.js", false},
		{"QueryStripped", "js/app.js?v=3", false},
		{"FileScheme", "file:///js/app.js", false},
		{"Escape", "../../etc/passwd", true},
		{"Missing", "js/none.js", true},
		{"Remote", "https://cdn.example.com/app.js", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tr.Load(ctx, fetch.Request{Kind: fetch.KindScript, URL: tt.url, Resolved: tt.url})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	var noTransport *fetch.NoTransportError
	err := tr.Load(ctx, fetch.Request{Resolved: "https://cdn.example.com/app.js"})
	assert.ErrorAs(t, err, &noTransport)
}
