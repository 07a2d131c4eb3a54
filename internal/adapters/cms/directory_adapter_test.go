package cms_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/medatlas/directory-api/internal/adapters/cms"
	"github.com/medatlas/directory-api/internal/infrastructure/clients/wixdata"
	"github.com/medatlas/directory-api/internal/infrastructure/observability"
	apperrors "github.com/medatlas/directory-api/pkg/errors"
)

type pageRequest struct {
	DataCollectionID string `json:"dataCollectionId"`
	Query            struct {
		Filter map[string]any `json:"filter"`
		Paging *struct {
			Limit  int `json:"limit"`
			Offset int `json:"offset"`
		} `json:"paging"`
	} `json:"query"`
}

func decodePageRequest(t *testing.T, r *http.Request) pageRequest {
	t.Helper()
	var req pageRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req
}

func newAdapter(server *httptest.Server) *cms.DirectoryAdapter {
	client := wixdata.NewClient(server.URL, "k", "s")
	return cms.NewDirectoryAdapter(client, nil)
}

func TestDirectoryAdapter_Hospitals_DrainsAllPages(t *testing.T) {
	const total = 130

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodePageRequest(t, r)
		assert.Equal(t, "Hospitals", req.DataCollectionID)
		require.NotNil(t, req.Query.Paging)
		assert.Equal(t, 100, req.Query.Paging.Limit)

		offset := req.Query.Paging.Offset
		var items []string
		for i := offset; i < total && i < offset+100; i++ {
			items = append(items, fmt.Sprintf(`{"id": "H%d", "data": {"Hospital Name": "Hospital %d"}}`, i, i))
		}
		fmt.Fprintf(w, `{"dataItems": [%s], "pagingMetadata": {"total": %d}}`, strings.Join(items, ","), total)
	}))
	defer server.Close()

	adapter := newAdapter(server)
	hospitals, err := adapter.Hospitals(context.Background())

	require.NoError(t, err)
	require.Len(t, hospitals, total)
	assert.Equal(t, "H0", hospitals[0].ID)
	assert.Equal(t, "H129", hospitals[total-1].ID)
	assert.Equal(t, "Hospital 129", hospitals[total-1].Name)
}

func TestDirectoryAdapter_Hospitals_DropsRecordsWithoutID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dataItems": [
			{"id": "H1", "data": {"Hospital Name": "Kept"}},
			{"id": "", "data": {"Hospital Name": "Dropped"}}
		], "pagingMetadata": {"total": 2}}`))
	}))
	defer server.Close()

	adapter := newAdapter(server)
	hospitals, err := adapter.Hospitals(context.Background())

	require.NoError(t, err)
	require.Len(t, hospitals, 1)
	assert.Equal(t, "Kept", hospitals[0].Name)
}

func TestDirectoryAdapter_Hospitals_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "flaky", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"dataItems": [{"id": "H1", "data": {}}], "pagingMetadata": {"total": 1}}`))
	}))
	defer server.Close()

	adapter := newAdapter(server)
	hospitals, err := adapter.Hospitals(context.Background())

	require.NoError(t, err)
	assert.Len(t, hospitals, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDirectoryAdapter_Hospitals_PersistentFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	adapter := newAdapter(server)
	_, err := adapter.Hospitals(context.Background())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeExternal, apperrors.TypeOf(err))
}

func TestDirectoryAdapter_HospitalBySlug(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodePageRequest(t, r)
		assert.Contains(t, req.Query.Filter, "slug")

		w.Write([]byte(`{"dataItems": [{"id": "H1", "data": {"slug": "apex", "Hospital Name": "Apex"}}], "pagingMetadata": {"total": 1}}`))
	}))
	defer server.Close()

	adapter := newAdapter(server)
	hospital, err := adapter.HospitalBySlug(context.Background(), "apex")

	require.NoError(t, err)
	assert.Equal(t, "Apex", hospital.Name)
	assert.Equal(t, "apex", hospital.Slug)
}

func TestDirectoryAdapter_HospitalBySlug_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dataItems": [], "pagingMetadata": {"total": 0}}`))
	}))
	defer server.Close()

	adapter := newAdapter(server)
	_, err := adapter.HospitalBySlug(context.Background(), "ghost")

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}

func TestDirectoryAdapter_RecordsQueryDurations(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	metrics, err := observability.InitMetrics()
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dataItems": [{"id": "H1", "data": {}}], "pagingMetadata": {"total": 1}}`))
	}))
	defer server.Close()

	client := wixdata.NewClient(server.URL, "k", "s")
	adapter := cms.NewDirectoryAdapter(client, metrics)

	_, err = adapter.Hospitals(context.Background())
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var count uint64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "cms.query.duration" {
				continue
			}
			hist, ok := m.Data.(metricdata.Histogram[float64])
			require.True(t, ok)
			for _, dp := range hist.DataPoints {
				count += dp.Count
			}
		}
	}
	assert.Equal(t, uint64(1), count)
}

func TestDirectoryAdapter_BranchesOf(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/H1/references", r.URL.Path)
		assert.Equal(t, "HospitalBranches", r.URL.Query().Get("dataCollectionId"))
		assert.Equal(t, "Branches", r.URL.Query().Get("referringPropertyName"))

		w.Write([]byte(`{"dataItems": [{"id": "B1", "data": {"Branch Name": "Andheri"}}]}`))
	}))
	defer server.Close()

	adapter := newAdapter(server)
	branches, err := adapter.BranchesOf(context.Background(), "H1")

	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Equal(t, "Andheri", branches[0].Name)
}
