package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"condi-loader/core/condiloader"
	"condi-loader/core/storage/mocks"
	"condi-loader/feature/manifests"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp() (*fiber.App, *mocks.Client, *mockStore) {
	app := fiber.New()
	client := new(mocks.Client)
	store := new(mockStore)
	svc := NewService(client, "test-bucket", []string{"manifests"}, store, nil, condiloader.Config{}, zap.NewNop())
	NewHandler(svc).RegisterRoutes(app)
	return app, client, store
}

func TestHandleStructureCheck(t *testing.T) {
	app, client, _ := setupTestApp()

	client.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	ch := make(chan minio.ObjectInfo)
	close(ch)
	client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))
	client.On("PutObject", mock.Anything, "test-bucket", "manifests/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var report StructureReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, []string{"manifests"}, report.Missing)
	assert.Empty(t, report.Fixed)
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	resp, err = app.Test(httptest.NewRequest("GET", "/integrity/structure?fix=true", nil))
	require.NoError(t, err)
	report = StructureReport{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, []string{"manifests"}, report.Fixed)
	assert.True(t, report.Healthy())
}

func TestHandleStructureCheck_Error(t *testing.T) {
	app, client, _ := setupTestApp()
	client.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	var report StructureReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Contains(t, report.Error, assert.AnError.Error())
}

func TestHandleManifestCheck(t *testing.T) {
	app, client, store := setupTestApp()
	store.On("Get", mock.Anything, "site").Return(siteManifest(), nil)
	store.On("Get", mock.Anything, "gone").Return(nil, manifests.ErrNotFound)
	client.On("StatObject", mock.Anything, "test-bucket", "w.css", mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/manifests/site", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(1), body["missing"])

	resp, err = app.Test(httptest.NewRequest("GET", "/integrity/manifests/gone", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleHistoryCheck(t *testing.T) {
	app, _, _ := setupTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/history", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["enabled"])
	assert.Equal(t, "load_history", body["table"])
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, client, store := setupTestApp()

	client.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)
	store.On("List", mock.Anything).Return(nil, assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil), 2000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var report Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.NotEmpty(t, report.Structure.Error)
	assert.NotEmpty(t, report.ManifestsError)
	assert.False(t, report.History.Enabled)
	assert.False(t, report.Healthy())
}

func TestFeature(t *testing.T) {
	svc := NewService(new(mocks.Client), "test-bucket", nil, nil, nil, condiloader.Config{}, zap.NewNop())
	feature := NewFeature(svc)

	assert.Equal(t, "integrity", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
}
