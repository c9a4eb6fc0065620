package manifests

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"condi-loader/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const widgetManifest = `items:
  - name: Widget
    sel: "#widget"
    css: widget.css
    js: [widget.js]
    event: widget-ready
`

func body(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}

func noSuchKey() error {
	return minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}
}

func TestStore_Get(t *testing.T) {
	t.Run("ReadsAndCaches", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "assets", "manifests/site.yaml", mock.Anything).
			Return(body(widgetManifest), nil).Once()

		store := NewStore(client, "assets", "manifests", time.Minute, zap.NewNop())

		m, err := store.Get(context.Background(), "site")
		require.NoError(t, err)
		require.Len(t, m.Items, 1)
		assert.Equal(t, "Widget", m.Items[0].Name)

		again, err := store.Get(context.Background(), "site")
		require.NoError(t, err)
		assert.Same(t, m, again)
		client.AssertNumberOfCalls(t, "GetObject", 1)
	})

	t.Run("NoCacheWithZeroTTL", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "assets", "manifests/site.yaml", mock.Anything).
			Return(body(widgetManifest), nil).Twice()

		store := NewStore(client, "assets", "manifests/", 0, nil)
		_, err := store.Get(context.Background(), "site")
		require.NoError(t, err)
		_, err = store.Get(context.Background(), "site")
		require.NoError(t, err)
		client.AssertNumberOfCalls(t, "GetObject", 2)
	})

	t.Run("ConcurrentMissesShareDownload", func(t *testing.T) {
		release := make(chan struct{})
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "assets", "manifests/site.yaml", mock.Anything).
			WaitUntil(release).Return(body(widgetManifest), nil).Once()

		store := NewStore(client, "assets", "manifests/", time.Minute, nil)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.Get(context.Background(), "site")
				assert.NoError(t, err)
			}()
		}
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		client.AssertNumberOfCalls(t, "GetObject", 1)
	})

	t.Run("NotFound", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "assets", "manifests/missing.yaml", mock.Anything).
			Return(nil, noSuchKey())

		store := NewStore(client, "assets", "manifests/", time.Minute, nil)
		_, err := store.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("InvalidName", func(t *testing.T) {
		store := NewStore(new(mocks.Client), "assets", "manifests/", time.Minute, nil)
		for _, name := range []string{"", "../secret", "a/b", ".hidden"} {
			_, err := store.Get(context.Background(), name)
			assert.ErrorIs(t, err, ErrInvalidName, name)
		}
	})

	t.Run("StoredManifestInvalid", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "assets", "manifests/bad.yaml", mock.Anything).
			Return(body("items:\n  - sel: \"div[\"\n"), nil)

		store := NewStore(client, "assets", "manifests/", time.Minute, nil)
		_, err := store.Get(context.Background(), "bad")
		assert.ErrorContains(t, err, "invalid selector condition")
	})
}

func TestStore_Put(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "assets", "manifests/site.yaml", mock.Anything).
		Return(body("items: []\n"), nil).Once()
	client.On("PutObject", mock.Anything, "assets", "manifests/site.yaml", mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
		Return(minio.UploadInfo{}, nil)
	client.On("GetObject", mock.Anything, "assets", "manifests/site.yaml", mock.Anything).
		Return(body(widgetManifest), nil).Once()

	store := NewStore(client, "assets", "manifests/", time.Minute, nil)

	before, err := store.Get(context.Background(), "site")
	require.NoError(t, err)
	assert.Empty(t, before.Items)

	stored, err := store.Put(context.Background(), "site", []byte(widgetManifest))
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)

	// the cached copy is dropped on write
	after, err := store.Get(context.Background(), "site")
	require.NoError(t, err)
	assert.Len(t, after.Items, 1)

	t.Run("RejectsInvalid", func(t *testing.T) {
		_, err := store.Put(context.Background(), "site", []byte("items:\n  - xpath: \"//[\"\n"))
		assert.Error(t, err)
		client.AssertNumberOfCalls(t, "PutObject", 1)
	})
}

func TestStore_List(t *testing.T) {
	ch := make(chan minio.ObjectInfo, 4)
	ch <- minio.ObjectInfo{Key: "manifests/site.yaml"}
	ch <- minio.ObjectInfo{Key: "manifests/admin.yaml"}
	ch <- minio.ObjectInfo{Key: "manifests/notes.txt"}
	ch <- minio.ObjectInfo{Key: "manifests/old/archive.yaml"}
	close(ch)

	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "assets", minio.ListObjectsOptions{Prefix: "manifests/", Recursive: true}).
		Return((<-chan minio.ObjectInfo)(ch))

	store := NewStore(client, "assets", "manifests/", 0, nil)
	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "site"}, names)
}

func TestStore_ListError(t *testing.T) {
	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Err: assert.AnError}
	close(ch)

	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "assets", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	store := NewStore(client, "assets", "manifests/", 0, nil)
	_, err := store.List(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestStore_ListCancelsListing(t *testing.T) {
	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Err: assert.AnError}
	ch <- minio.ObjectInfo{Key: "manifests/site.yaml"}
	close(ch)

	var listCtx context.Context
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "assets", mock.Anything).
		Run(func(args mock.Arguments) { listCtx = args.Get(0).(context.Context) }).
		Return((<-chan minio.ObjectInfo)(ch))

	store := NewStore(client, "assets", "manifests/", 0, nil)
	_, err := store.List(context.Background())
	require.ErrorIs(t, err, assert.AnError)
	assert.ErrorIs(t, listCtx.Err(), context.Canceled)
}

func TestStore_InvalidateDuringRead(t *testing.T) {
	const updated = `items:
  - name: Gadget
    js: gadget.js
`
	started := make(chan struct{})
	release := make(chan struct{})

	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "assets", "manifests/site.yaml", mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(body(widgetManifest), nil).Once()
	client.On("GetObject", mock.Anything, "assets", "manifests/site.yaml", mock.Anything).
		Return(body(updated), nil).Once()
	client.On("PutObject", mock.Anything, "assets", "manifests/site.yaml", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	store := NewStore(client, "assets", "manifests/", time.Minute, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		m, err := store.Get(context.Background(), "site")
		assert.NoError(t, err)
		assert.Equal(t, "Widget", m.Items[0].Name)
	}()

	<-started
	_, err := store.Put(context.Background(), "site", []byte(updated))
	require.NoError(t, err)
	close(release)
	<-done

	m, err := store.Get(context.Background(), "site")
	require.NoError(t, err)
	require.Len(t, m.Items, 1)
	assert.Equal(t, "Gadget", m.Items[0].Name)
	client.AssertNumberOfCalls(t, "GetObject", 2)
}

func TestStore_Delete(t *testing.T) {
	client := new(mocks.Client)
	client.On("RemoveObject", mock.Anything, "assets", "manifests/site.yaml", mock.Anything).Return(nil)

	store := NewStore(client, "assets", "manifests/", time.Minute, nil)
	assert.NoError(t, store.Delete(context.Background(), "site"))
	client.AssertExpectations(t)
}
