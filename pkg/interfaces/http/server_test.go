package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/bomview/pkg/application/dto"
	"github.com/vsinha/bomview/pkg/application/services"
	"github.com/vsinha/bomview/pkg/infrastructure/events"
	"github.com/vsinha/bomview/pkg/infrastructure/metrics"
	testhelpers "github.com/vsinha/bomview/pkg/infrastructure/testing"
)

func newTestServer(t *testing.T) (*Server, *events.InMemoryEventStore) {
	t.Helper()
	methodRepo, opRepo := testhelpers.BuildTestRepositories()

	store := events.NewInMemoryEventStore(100, nil)
	recorder := metrics.NewRecorder()
	require.NoError(t, store.Subscribe(recorder.EventTypes(), recorder))

	service := services.NewBOMService(methodRepo, opRepo, nil, nil).WithEvents(store)
	server := NewServer(service, Options{
		Precision: 4,
		Metrics:   recorder.Registry(),
		Events:    store,
	})
	return server, store
}

func do(t *testing.T, server *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) dto.BOMResult {
	t.Helper()
	var result dto.BOMResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestServer_Health(t *testing.T) {
	server, _ := newTestServer(t)

	rec := do(t, server, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestServer_ExplodeTree(t *testing.T) {
	server, _ := newTestServer(t)

	body := `{
		"tree": {
			"itemId": "A", "itemReadableId": "A", "quantity": 1, "unitCost": 10, "methodType": "Make", "itemType": "Part",
			"makeMethodId": "mm-A",
			"children": [
				{"itemId": "B", "itemReadableId": "B", "quantity": 2, "unitCost": 3, "methodType": "Buy", "itemType": "Part"}
			]
		},
		"includeOperations": true,
		"quantities": [1, 10]
	}`

	rec := do(t, server, http.MethodPost, "/api/v1/bom", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decodeResult(t, rec)
	require.Len(t, result.Lines, 2)
	assert.Equal(t, "1", result.Lines[0].ID)
	assert.Equal(t, "1.1", result.Lines[1].ID)
	assert.Equal(t, 2.0, result.Lines[1].Total)
	require.Len(t, result.Lines[0].Operations, 1)
	assert.Equal(t, 33.0, result.Lines[0].Operations[0].TotalDurationX1)
	assert.Equal(t, 330.0, result.Lines[0].Operations[0].TotalDurationX100)
	require.Len(t, result.Summary.Durations, 2)
	assert.Equal(t, 60.0, result.Summary.Durations[1].Total)
}

func TestServer_ExplodeEmptyTree(t *testing.T) {
	server, _ := newTestServer(t)

	rec := do(t, server, http.MethodPost, "/api/v1/bom", `{"tree": null}`)
	require.Equal(t, http.StatusOK, rec.Code)

	result := decodeResult(t, rec)
	assert.Empty(t, result.Lines)
	assert.Equal(t, 0, result.Summary.Lines)
}

func TestServer_Errors(t *testing.T) {
	server, _ := newTestServer(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
		errMsg string
	}{
		{
			name:   "negative quantity",
			method: http.MethodPost,
			target: "/api/v1/bom",
			body:   `{"tree": {"itemId": "X", "quantity": -1, "methodType": "Buy"}}`,
			status: http.StatusBadRequest,
			errMsg: "negative",
		},
		{
			name:   "missing child quantity",
			method: http.MethodPost,
			target: "/api/v1/bom",
			body: `{"tree": {"itemId": "A", "quantity": 1, "unitCost": 0, "methodType": "Make",
				"children": [{"itemId": "B", "methodType": "Buy", "unitCost": 5}]}}`,
			status: http.StatusBadRequest,
			errMsg: "A > B: invalid method node: quantity is required for B",
		},
		{
			name:   "overflowing total quantity",
			method: http.MethodPost,
			target: "/api/v1/bom",
			body: `{"tree": {"itemId": "A", "quantity": 1e200, "unitCost": 0, "methodType": "Make",
				"children": [{"itemId": "B", "quantity": 1e200, "unitCost": 1, "methodType": "Buy"}]}}`,
			status: http.StatusBadRequest,
			errMsg: "not finite",
		},
		{
			name:   "null child",
			method: http.MethodPost,
			target: "/api/v1/bom",
			body:   `{"tree": {"itemId": "A", "quantity": 1, "unitCost": 0, "methodType": "Make", "children": [null]}}`,
			status: http.StatusBadRequest,
			errMsg: "null child",
		},
		{
			name:   "malformed body",
			method: http.MethodPost,
			target: "/api/v1/bom",
			body:   `{"tree": `,
			status: http.StatusBadRequest,
		},
		{
			name:   "zero quantity requested",
			method: http.MethodGet,
			target: "/api/v1/items/A/bom?quantities=0",
			status: http.StatusBadRequest,
			errMsg: "quantities must be positive",
		},
		{
			name:   "unparsable quantities",
			method: http.MethodGet,
			target: "/api/v1/items/A/bom?quantities=1,ten",
			status: http.StatusBadRequest,
			errMsg: "invalid quantity",
		},
		{
			name:   "bad operations flag",
			method: http.MethodGet,
			target: "/api/v1/items/A/bom?operations=maybe",
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown format",
			method: http.MethodGet,
			target: "/api/v1/items/A/bom?format=pdf",
			status: http.StatusBadRequest,
			errMsg: "unsupported format",
		},
		{
			name:   "unknown item",
			method: http.MethodGet,
			target: "/api/v1/items/nope/bom",
			status: http.StatusNotFound,
			errMsg: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, server, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			if tt.errMsg != "" {
				assert.Contains(t, resp.Error, tt.errMsg)
			}
		})
	}
}

func TestServer_GetItemBOM(t *testing.T) {
	server, _ := newTestServer(t)

	rec := do(t, server, http.MethodGet, "/api/v1/items/item-mount/bom?operations=true", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decodeResult(t, rec)
	require.Len(t, result.Lines, 6)
	assert.Equal(t, "MNT-1000", result.Lines[0].ItemID)
	assert.Equal(t, "1.1.2", result.Lines[3].ID)
	assert.Equal(t, 4.0, result.Lines[3].Total)
	assert.Equal(t, 6.0, result.Lines[5].Total)
	assert.Equal(t, 2, result.Summary.Operations)
}

func TestServer_GetItemBOMFormats(t *testing.T) {
	server, _ := newTestServer(t)

	rec := do(t, server, http.MethodGet, "/api/v1/items/A/bom?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "id,level,item_id"))

	rec = do(t, server, http.MethodGet, "/api/v1/items/A/bom?format=text", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bill of Materials: A")

	rec = do(t, server, http.MethodGet, "/api/v1/items/A/bom?format=xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "A.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("BOM")
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}

func TestServer_ListItems(t *testing.T) {
	server, _ := newTestServer(t)

	rec := do(t, server, http.MethodGet, "/api/v1/items", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []string `json:"items"`
		Count int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"A", "item-mount"}, resp.Items)
	assert.Equal(t, 2, resp.Count)
}

func TestServer_EventsAndMetrics(t *testing.T) {
	server, store := newTestServer(t)

	do(t, server, http.MethodGet, "/api/v1/items/A/bom", "")
	do(t, server, http.MethodGet, "/api/v1/items/nope/bom", "")

	all, err := store.ReadAllEvents(0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	rec := do(t, server, http.MethodGet, "/api/v1/items/A/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), events.BOMExplodedEvent)
	assert.Contains(t, rec.Body.String(), `"rootItemId":"A"`)
	assert.Contains(t, rec.Body.String(), `"elapsedMs":`)

	rec = do(t, server, http.MethodGet, "/api/v1/events?from=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), events.BOMExplosionFailedEvent)
	assert.NotContains(t, rec.Body.String(), `"type":"bom.exploded"`)

	rec = do(t, server, http.MethodGet, "/api/v1/events?from=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, server, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `bomview_explosions_total{outcome="ok",source="repository"} 1`)
	assert.Contains(t, body, `bomview_explosions_total{outcome="error",source="repository"} 1`)
	assert.Contains(t, body, "bomview_lines_total 4")
}

func TestParseQuantities(t *testing.T) {
	tests := []struct {
		raw     string
		want    []float64
		wantErr bool
	}{
		{"", nil, false},
		{"1", []float64{1}, false},
		{"1, 10,50", []float64{1, 10, 50}, false},
		{"1,,2", nil, true},
		{"abc", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseQuantities(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
