package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/schemareg/internal/fixture"
	"github.com/koustreak/schemareg/internal/registry"
	"github.com/koustreak/schemareg/internal/schema"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	reg, err := registry.New(fixture.Travel(), nil)
	require.NoError(t, err)
	srv, err := New(reg, nil)
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, srv *Server, path string, into any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if into != nil {
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into), rec.Body.String())
	}
	return rec.Code
}

func TestNew_RequiresRegistry(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestHealthAndSchemas(t *testing.T) {
	srv := newServer(t)

	var health map[string]string
	assert.Equal(t, http.StatusOK, get(t, srv, "/healthz", &health))
	assert.Equal(t, "ok", health["status"])

	var body schemasBody
	assert.Equal(t, http.StatusOK, get(t, srv, "/schemas", &body))
	assert.Equal(t, "public", body.Default)
	assert.Equal(t, []string{"graphql_public", "public"}, body.Schemas)
}

func TestRowAndInsert(t *testing.T) {
	srv := newServer(t)

	var row schema.Shape
	require.Equal(t, http.StatusOK, get(t, srv, "/relations/countries/row", &row))
	assert.Len(t, row.Fields, 9)
	geo, ok := row.Field("geojson")
	require.True(t, ok)
	assert.Equal(t, schema.JSON, geo.Type)

	var insert schema.Shape
	require.Equal(t, http.StatusOK, get(t, srv, "/tables/countries/insert", &insert))
	assert.ElementsMatch(t, []string{"name", "continent_id", "geojson"}, insert.Required())

	var update schema.Shape
	require.Equal(t, http.StatusOK, get(t, srv, "/tables/countries/update", &update))
	assert.Empty(t, update.Required())
	assert.Equal(t, row.Names(), update.Names())

	var view schema.Shape
	assert.Equal(t, http.StatusOK, get(t, srv, "/relations/user_statistics/row", &view))
}

func TestRelationships(t *testing.T) {
	srv := newServer(t)

	var rels []schema.Relationship
	require.Equal(t, http.StatusOK, get(t, srv, "/relations/countries/relationships", &rels))
	require.Len(t, rels, 1)
	assert.Equal(t, "continents", rels[0].ReferencedRelation)
	assert.Equal(t, []string{"continent_id"}, rels[0].Columns)

	var none []schema.Relationship
	require.Equal(t, http.StatusOK, get(t, srv, "/relations/continents/relationships", &none))
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestQualifiedRoutes(t *testing.T) {
	srv := newServer(t)

	var sig registry.Signature
	require.Equal(t, http.StatusOK, get(t, srv, "/schemas/graphql_public/functions/graphql", &sig))
	assert.Equal(t, schema.ReturnsScalar, sig.Returns)
	assert.Equal(t, schema.JSON, sig.Type)
	assert.Empty(t, sig.Args.Required())

	var contents registry.Contents
	require.Equal(t, http.StatusOK, get(t, srv, "/schemas/graphql_public/contents", &contents))
	assert.Equal(t, "graphql_public", contents.Schema)
	assert.Equal(t, []string{"graphql"}, contents.Functions)
	assert.Empty(t, contents.Tables)
}

func TestErrors(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		path   string
		status int
		kind   string
	}{
		{"/functions/graphql", http.StatusNotFound, "unknown_function"},
		{"/tables/user_statistics/insert", http.StatusNotFound, "unknown_table"},
		{"/tables/nowhere/update", http.StatusNotFound, "unknown_table"},
		{"/relations/nowhere/row", http.StatusNotFound, "unknown_entity"},
		{"/enums/mood", http.StatusNotFound, "unknown_enum"},
		{"/composite-types/point", http.StatusNotFound, "unknown_composite_type"},
		{"/schemas/auth/relations/users/row", http.StatusNotFound, "unknown_schema"},
		{"/no/such/route", http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var body errorBody
			assert.Equal(t, tt.status, get(t, srv, tt.path, &body))
			assert.Equal(t, tt.kind, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/schemas", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSwap(t *testing.T) {
	srv := newServer(t)

	db, err := schema.NewBuilder().
		Schema("public").
		Enum(schema.NewEnum("mood", "happy", "sad")).
		CompositeType(schema.NewCompositeType("point", []schema.Column{
			{Name: "x", Type: schema.Number},
			{Name: "y", Type: schema.Number},
		})).
		Build()
	require.NoError(t, err)
	reg, err := registry.New(db, nil)
	require.NoError(t, err)

	srv.Swap(reg)
	srv.Swap(nil)
	assert.Same(t, reg, srv.Registry())

	var labels labelsBody
	require.Equal(t, http.StatusOK, get(t, srv, "/enums/mood", &labels))
	assert.Equal(t, []string{"happy", "sad"}, labels.Labels)

	var point schema.Shape
	require.Equal(t, http.StatusOK, get(t, srv, "/composite-types/point", &point))
	assert.Equal(t, []string{"x", "y"}, point.Names())

	var errBody errorBody
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/relations/countries/row", &errBody))
}

func TestMetrics(t *testing.T) {
	srv := newServer(t)
	get(t, srv, "/relations/countries/row", nil)
	srv.Swap(srv.Registry())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `schemareg_http_requests_total{route="/relations/{name}/row",status="200"} 1`)
	assert.Contains(t, string(body), "schemareg_registry_reloads_total 1")
}
