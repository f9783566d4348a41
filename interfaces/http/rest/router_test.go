package rest_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainconfig "treeforge/domain/config"
	"treeforge/infrastructure/config"
	"treeforge/infrastructure/di"
	"treeforge/interfaces/http/rest"
)

// editResponse holds the fields of an edit response the tests look at
type editResponse struct {
	NodeID   int              `json:"node_id"`
	Analysis analysisResponse `json:"analysis"`
}

type analysisResponse struct {
	RootSignature     string         `json:"root_signature"`
	DuplicateNodeIDs  []int          `json:"duplicate_node_ids"`
	DuplicateEdgeKeys []string       `json:"duplicate_edge_keys"`
	EmbeddablePairs   []pairResponse `json:"embeddable_pairs"`
}

type pairResponse struct {
	Pattern int `json:"pattern"`
	Host    int `json:"host"`
}

type errorResponse struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details"`
}

type apiClient struct {
	t       *testing.T
	handler http.Handler
}

func newClient(t *testing.T) *apiClient {
	t.Helper()
	cfg := &config.Config{
		ServerAddress:  ":0",
		Environment:    "test",
		LogLevel:       "error",
		EnableMetrics:  true,
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		WorkspaceTTL:   time.Hour,
		Engine:         domainconfig.DefaultEngineConfig(),
	}
	container, cleanup, err := di.InitializeContainer(cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	router := rest.NewRouter(cfg, container.CommandBus, container.QueryBus, container.Repository, container.Metrics, container.Logger)
	return &apiClient{t: t, handler: router.Setup()}
}

func (c *apiClient) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func (c *apiClient) createWorkspace() string {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/v1/workspaces", `{"name":"test"}`)
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())

	var view struct {
		ID string `json:"id"`
	}
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view.ID
}

func (c *apiClient) addNode(ws, color string) int {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/v1/workspaces/"+ws+"/nodes", fmt.Sprintf(`{"color":%q,"x":1,"y":2}`, color))
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[editResponse](c.t, rec).NodeID
}

func (c *apiClient) addEdge(ws string, child, parent int) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(http.MethodPost, "/api/v1/workspaces/"+ws+"/edges", fmt.Sprintf(`{"child_id":%d,"parent_id":%d}`, child, parent))
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRouter_CommitFlow(t *testing.T) {
	c := newClient(t)
	ws := c.createWorkspace()

	root := c.addNode(ws, "red")
	child := c.addNode(ws, "green")
	rec := c.addEdge(ws, child, root)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "red(green())", decode[editResponse](t, rec).Analysis.RootSignature)

	rec = c.do(http.MethodPost, "/api/v1/workspaces/"+ws+"/commit", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/v1/workspaces/"+ws+"/commit", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	errBody := decode[errorResponse](t, rec)
	assert.Equal(t, "DUPLICATE_REJECTED", errBody.Type)
	assert.Equal(t, "red(green())", errBody.Details["signature"])

	grandchild := c.addNode(ws, "green")
	require.Equal(t, http.StatusCreated, c.addEdge(ws, grandchild, child).Code)
	rec = c.do(http.MethodPost, "/api/v1/workspaces/"+ws+"/commit", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, "/api/v1/workspaces/"+ws+"/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[struct {
		Entries []struct {
			Signature string `json:"signature"`
		} `json:"entries"`
	}](t, rec)
	require.Len(t, history.Entries, 2)
	assert.Equal(t, "red(green(green()))", history.Entries[1].Signature)
}

func TestRouter_InvalidEdges(t *testing.T) {
	c := newClient(t)
	ws := c.createWorkspace()
	a := c.addNode(ws, "red")
	b := c.addNode(ws, "blue")
	require.Equal(t, http.StatusCreated, c.addEdge(ws, b, a).Code)

	tests := []struct {
		name   string
		child  int
		parent int
		status int
		kind   string
	}{
		{"self loop", a, a, http.StatusUnprocessableEntity, "INVALID_EDGE"},
		{"cycle", a, b, http.StatusUnprocessableEntity, "INVALID_EDGE"},
		{"second parent", b, a, http.StatusUnprocessableEntity, "INVALID_EDGE"},
		{"unknown node", 99, a, http.StatusNotFound, "NOT_FOUND"},
		{"zero id", 0, a, http.StatusBadRequest, "VALIDATION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := c.addEdge(ws, tt.child, tt.parent)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.kind, decode[errorResponse](t, rec).Type)
		})
	}
}

func TestRouter_DuplicatesAndEmbeddings(t *testing.T) {
	c := newClient(t)
	ws := c.createWorkspace()
	root := c.addNode(ws, "red")
	left := c.addNode(ws, "blue")
	right := c.addNode(ws, "blue")
	require.Equal(t, http.StatusCreated, c.addEdge(ws, left, root).Code)
	rec := c.addEdge(ws, right, root)
	require.Equal(t, http.StatusCreated, rec.Code)

	analysis := decode[editResponse](t, rec).Analysis
	assert.Equal(t, []int{left, right}, analysis.DuplicateNodeIDs)
	assert.Empty(t, analysis.DuplicateEdgeKeys, "leaves contribute no edges")

	rec = c.do(http.MethodGet, fmt.Sprintf("/api/v1/workspaces/%s/embeddings?u=%d&v=%d", ws, left, right), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"pattern":%d,"host":%d,"embeddable":true}`, left, right), rec.Body.String())

	rec = c.do(http.MethodGet, fmt.Sprintf("/api/v1/workspaces/%s/embeddings?u=%d&v=%d", ws, root, left), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"embeddable":false`)

	rec = c.do(http.MethodGet, "/api/v1/workspaces/"+ws+"/embeddings?u=1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_TreeEdits(t *testing.T) {
	c := newClient(t)
	ws := c.createWorkspace()
	root := c.addNode(ws, "red")
	child := c.addNode(ws, "green")
	leaf := c.addNode(ws, "blue")
	require.Equal(t, http.StatusCreated, c.addEdge(ws, child, root).Code)
	require.Equal(t, http.StatusCreated, c.addEdge(ws, leaf, child).Code)

	rec := c.do(http.MethodPut, fmt.Sprintf("/api/v1/workspaces/%s/nodes/%d/color", ws, leaf), `{"color":"red"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "red(green(red()))", decode[editResponse](t, rec).Analysis.RootSignature)

	rec = c.do(http.MethodPut, fmt.Sprintf("/api/v1/workspaces/%s/nodes/%d/position", ws, leaf), `{"x":40,"y":50}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodDelete, fmt.Sprintf("/api/v1/workspaces/%s/edges/%d", ws, child), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, decode[editResponse](t, rec).Analysis.RootSignature)

	rec = c.do(http.MethodPost, "/api/v1/workspaces/"+ws+"/commit", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "NO_UNIQUE_ROOT", decode[errorResponse](t, rec).Type)

	rec = c.do(http.MethodDelete, fmt.Sprintf("/api/v1/workspaces/%s/nodes/%d", ws, child), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "red()", decode[editResponse](t, rec).Analysis.RootSignature)

	rec = c.do(http.MethodGet, fmt.Sprintf("/api/v1/workspaces/%s/nodes/%d/color", ws, leaf), "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = c.do(http.MethodPut, fmt.Sprintf("/api/v1/workspaces/%s/nodes/%d/color", ws, leaf), `{"color":"red"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code, "deleted with its subtree")

	rec = c.do(http.MethodPost, "/api/v1/workspaces/"+ws+"/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/api/v1/workspaces/"+ws, "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[struct {
		Nodes []json.RawMessage `json:"nodes"`
	}](t, rec)
	assert.Empty(t, view.Nodes)
}

func TestRouter_RequestErrors(t *testing.T) {
	c := newClient(t)
	ws := c.createWorkspace()
	missing := "6f1c2a7e-3b1d-4c55-9a4e-0d8a3c1b2e4f"

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"malformed workspace id", http.MethodGet, "/api/v1/workspaces/not-a-uuid", "", http.StatusBadRequest},
		{"unknown workspace", http.MethodGet, "/api/v1/workspaces/" + missing, "", http.StatusNotFound},
		{"malformed body", http.MethodPost, "/api/v1/workspaces/" + ws + "/nodes", `{"color":`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/v1/workspaces/" + ws + "/nodes", `{"colour":"red"}`, http.StatusBadRequest},
		{"unknown color", http.MethodPost, "/api/v1/workspaces/" + ws + "/nodes", `{"color":"purple"}`, http.StatusBadRequest},
		{"malformed node id", http.MethodDelete, "/api/v1/workspaces/" + ws + "/nodes/abc", "", http.StatusBadRequest},
		{"unknown node", http.MethodDelete, "/api/v1/workspaces/" + ws + "/nodes/5", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := c.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_Operational(t *testing.T) {
	c := newClient(t)
	c.addNode(c.createWorkspace(), "red")

	rec := c.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = c.do(http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","workspaces":1}`, rec.Body.String())

	rec = c.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "treeforge_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/api/v1/workspaces/{workspaceID}/nodes"`)
}
