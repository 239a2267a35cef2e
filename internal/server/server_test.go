package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/errs"
	"github.com/koustreak/colmeta/internal/export"
	"github.com/koustreak/colmeta/internal/logger"
	"github.com/koustreak/colmeta/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct {
	tables  map[string][]database.ColumnRow
	names   []string
	pingErr error
	listErr error
}

func (f *fakeDB) ShowFullColumns(_ context.Context, table string) ([]database.ColumnRow, error) {
	rows, ok := f.tables[table]
	if !ok {
		return nil, errs.Wrap(errs.ErrKindNotFound, "table "+table+" not found", context.Canceled)
	}
	return rows, nil
}

func (f *fakeDB) ListTables(context.Context) ([]string, error) { return f.names, f.listErr }
func (f *fakeDB) Ping(context.Context) error                   { return f.pingErr }
func (f *fakeDB) Close()                                       {}

func newTestServer(t *testing.T, db *fakeDB) *Server {
	t.Helper()
	reader, err := schema.NewReader(db, nil, nil)
	require.NoError(t, err)
	return New(db, reader, nil)
}

func shopDB() *fakeDB {
	def := "active"
	return &fakeDB{
		names: []string{"order_items", "orders", "users"},
		tables: map[string][]database.ColumnRow{
			"orders": {
				{Field: "id", Type: "bigint", Null: "NO", Key: "PRI", Extra: "auto_increment"},
				{Field: "status", Type: "enum('active','done')", Null: "NO", Default: &def, Comment: "State,active:Active|done:Done"},
				{Field: "user_id", Type: "int unsigned", Null: "NO", Comment: "fk:users.id"},
			},
		},
	}
}

func do(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	db := shopDB()
	s := newTestServer(t, db)

	rec := do(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	db.pingErr = errs.New(errs.ErrKindConnectionFailed, "ping failed")
	rec = do(t, s, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTables(t *testing.T) {
	rec := do(t, newTestServer(t, shopDB()), "/tables")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"tables":["order_items","orders","users"]}`, rec.Body.String())
}

func TestColumns(t *testing.T) {
	rec := do(t, newTestServer(t, shopDB()), "/tables/orders/columns")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Table      string                     `json:"table"`
		Class      string                     `json:"class"`
		PrimaryKey []string                   `json:"primaryKey"`
		Columns    []*schema.Column           `json:"columns"`
		Relations  map[string]json.RawMessage `json:"relations"`
		Properties map[string]export.Property `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "orders", body.Table)
	assert.Equal(t, "Order", body.Class)
	assert.Equal(t, []string{"id"}, body.PrimaryKey)
	require.Len(t, body.Columns, 3)
	assert.Equal(t, schema.TypeBigInt, body.Columns[0].Type)
	assert.Equal(t, []string{"active", "done"}, body.Columns[1].EnumValues)
	assert.Equal(t, "active", body.Columns[1].Default)
	assert.Contains(t, body.Relations, "user_id")
	assert.Equal(t, []string{"ACTIVE", "DONE"}, body.Properties["status"].Cases)
	assert.Equal(t, "integer", body.Properties["user_id"].Type)
}

func TestColumnsYAML(t *testing.T) {
	rec := do(t, newTestServer(t, shopDB()), "/tables/orders/columns?format=yaml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "table: orders\n"))
}

func TestColumnsUnknownTableSuggests(t *testing.T) {
	rec := do(t, newTestServer(t, shopDB()), "/tables/ordrs/columns")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "table ordrs not found", body.Error)
	assert.Contains(t, body.Suggestions, "orders")
	assert.NotContains(t, body.Suggestions, "users")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind errs.ErrKind
		want int
	}{
		{errs.ErrKindNotFound, http.StatusNotFound},
		{errs.ErrKindInvalidInput, http.StatusBadRequest},
		{errs.ErrKindPermissionDenied, http.StatusForbidden},
		{errs.ErrKindTimeout, http.StatusGatewayTimeout},
		{errs.ErrKindConnectionFailed, http.StatusServiceUnavailable},
		{errs.ErrKindQueryFailed, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(errs.New(tt.kind, "x")), tt.kind.String())
	}
}

func TestRequestLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(&logger.Config{Level: "debug", Format: "json", Output: buf})
	db := shopDB()
	db.listErr = errs.New(errs.ErrKindQueryFailed, "catalog unavailable")
	reader, err := schema.NewReader(db, nil, log)
	require.NoError(t, err)
	s := New(db, reader, log)

	rec := do(t, s, "/tables")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var failed, served map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &failed))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &served))

	assert.Equal(t, "request failed", failed["message"])
	assert.Contains(t, failed["error"], "catalog unavailable")
	assert.Equal(t, float64(http.StatusInternalServerError), failed["status"])
	assert.Equal(t, "/tables", failed["path"])
	assert.NotEmpty(t, failed["request_id"])

	assert.Equal(t, "request", served["message"])
	assert.Equal(t, float64(http.StatusInternalServerError), served["status"])
	assert.Equal(t, failed["request_id"], served["request_id"])
}
