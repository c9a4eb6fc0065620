package manifests

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"condi-loader/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func listing(names ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(names))
	for _, n := range names {
		ch <- minio.ObjectInfo{Key: "manifests/" + n + Extension}
	}
	close(ch)
	return ch
}

func TestReadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.yaml"), []byte(widgetManifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "admin.json"), []byte(`{"items":[]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))

	files, err := ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Contains(t, files, "site")
	assert.Contains(t, files, "admin")

	t.Run("Duplicate", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "site.yml"), []byte(widgetManifest), 0o644))
		_, err := ReadDir(dir)
		assert.ErrorContains(t, err, "duplicate manifest")
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := ReadDir(filepath.Join(dir, "absent"))
		assert.Error(t, err)
	})
}

func TestStore_PlanSync(t *testing.T) {
	reformatted := "items:\n- {name: Widget, sel: '#widget', css: [widget.css], js: widget.js, event: widget-ready}\n"
	changed := "items:\n  - name: Widget\n    js: [widget-v2.js]\n"

	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "assets", mock.Anything).Return(listing("same", "changed", "broken", "stale"))
	client.On("GetObject", mock.Anything, "assets", "manifests/same.yaml", mock.Anything).Return(body(widgetManifest), nil)
	client.On("GetObject", mock.Anything, "assets", "manifests/changed.yaml", mock.Anything).Return(body(widgetManifest), nil)
	client.On("GetObject", mock.Anything, "assets", "manifests/broken.yaml", mock.Anything).Return(body("items: ["), nil)

	store := NewStore(client, "assets", "manifests/", 0, nil)
	local := map[string][]byte{
		"same":    []byte(reformatted),
		"changed": []byte(changed),
		"broken":  []byte(widgetManifest),
		"fresh":   []byte(widgetManifest),
	}

	t.Run("WithoutPrune", func(t *testing.T) {
		plan, err := store.PlanSync(context.Background(), local, SyncOptions{})
		require.NoError(t, err)

		got := map[string]ActionType{}
		for _, a := range plan.Actions {
			got[a.Name] = a.Type
		}
		assert.Equal(t, map[string]ActionType{
			"broken":  ActionUpdate,
			"changed": ActionUpdate,
			"fresh":   ActionUpload,
		}, got)
		assert.Equal(t, SyncSummary{Local: 4, Stored: 4, Unchanged: 1, Uploads: 1, Updates: 2}, plan.Summary)
	})

	t.Run("WithPrune", func(t *testing.T) {
		plan, err := store.PlanSync(context.Background(), local, SyncOptions{Prune: true})
		require.NoError(t, err)
		assert.Equal(t, 1, plan.Summary.Deletes)
		last := plan.Actions[len(plan.Actions)-1]
		assert.Equal(t, Action{Type: ActionDelete, Name: "stale", Reason: "no local file"}, last)
	})

	t.Run("InvalidLocal", func(t *testing.T) {
		_, err := store.PlanSync(context.Background(), map[string][]byte{"bad": []byte("items: [")}, SyncOptions{})
		assert.ErrorContains(t, err, "manifest bad")
	})
}

func TestStore_ApplySyncPlan(t *testing.T) {
	plan := &SyncPlan{Actions: []Action{
		{Type: ActionUpload, Name: "fresh", data: []byte(widgetManifest)},
		{Type: ActionDelete, Name: "stale"},
		{Type: ActionDelete, Name: "locked"},
	}}

	t.Run("DryRunAndUnconfirmed", func(t *testing.T) {
		client := new(mocks.Client)
		store := NewStore(client, "assets", "manifests/", 0, nil)

		n, err := store.ApplySyncPlan(context.Background(), plan, SyncOptions{DryRun: true, Confirmed: true})
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = store.ApplySyncPlan(context.Background(), plan, SyncOptions{})
		require.NoError(t, err)
		assert.Zero(t, n)
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ExecutesAndJoinsFailures", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("PutObject", mock.Anything, "assets", "manifests/fresh.yaml", mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, nil)
		client.On("RemoveObject", mock.Anything, "assets", "manifests/stale.yaml", mock.Anything).Return(nil)
		client.On("RemoveObject", mock.Anything, "assets", "manifests/locked.yaml", mock.Anything).Return(assert.AnError)

		store := NewStore(client, "assets", "manifests/", 0, nil)
		n, err := store.ApplySyncPlan(context.Background(), plan, SyncOptions{Confirmed: true})
		assert.Equal(t, 2, n)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
