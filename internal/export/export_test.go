package export

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/koustreak/colmeta/internal/convention"
	"github.com/koustreak/colmeta/internal/errs"
	"github.com/koustreak/colmeta/internal/filestore"
	"github.com/koustreak/colmeta/internal/logger"
	"github.com/koustreak/colmeta/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory filestore.Store.
type memStore struct {
	buckets map[string]map[string][]byte
	types   map[string]string
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{buckets: map[string]map[string][]byte{}, types: map[string]string{}}
}

func (m *memStore) Ping(context.Context) error { return nil }
func (m *memStore) Close() error               { return nil }

func (m *memStore) EnsureBucket(_ context.Context, bucket string) error {
	if _, ok := m.buckets[bucket]; !ok {
		m.buckets[bucket] = map[string][]byte{}
	}
	return nil
}

func (m *memStore) PutObject(_ context.Context, bucket, key string, r io.Reader, _ int64, contentType string) (*filestore.ObjectInfo, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	b, ok := m.buckets[bucket]
	if !ok {
		return nil, errs.New(errs.ErrKindNotFound, "no such bucket")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b[key] = data
	m.types[key] = contentType
	return &filestore.ObjectInfo{Key: key, Size: int64(len(data)), ContentType: contentType, LastModified: time.Now()}, nil
}

func (m *memStore) GetObject(ctx context.Context, bucket, key string) (filestore.Object, error) {
	info, err := m.StatObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	return &memObject{Reader: bytes.NewReader(m.buckets[bucket][key]), info: info}, nil
}

func (m *memStore) StatObject(_ context.Context, bucket, key string) (*filestore.ObjectInfo, error) {
	data, ok := m.buckets[bucket][key]
	if !ok {
		return nil, errs.New(errs.ErrKindNotFound, "no such key")
	}
	return &filestore.ObjectInfo{Key: key, Size: int64(len(data)), ContentType: m.types[key]}, nil
}

func (m *memStore) ListObjects(_ context.Context, bucket string, opts filestore.ListOptions) ([]filestore.ObjectInfo, error) {
	var out []filestore.ObjectInfo
	for key, data := range m.buckets[bucket] {
		if strings.HasPrefix(key, opts.Prefix) {
			out = append(out, filestore.ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

type memObject struct {
	*bytes.Reader
	info *filestore.ObjectInfo
}

func (o *memObject) Close() error                 { return nil }
func (o *memObject) Info() *filestore.ObjectInfo { return o.info }

func ordersTable() *schema.Table {
	id := schema.NewColumn("id", "bigint unsigned", 64)
	id.IsPrimaryKey = true
	id.AutoIncrement = true

	status := schema.NewColumn("status", "enum('active','inactive')", 64)
	status.Comment = "Order status,active:Active|inactive:Inactive"
	status.Default = status.Typecast("active")

	user := schema.NewColumn("user_id", "int", 64)
	user.Comment = "fk:users.id"

	created := schema.NewColumn("created_at", "timestamp", 64)
	created.Default = created.Typecast("CURRENT_TIMESTAMP")

	return &schema.Table{Name: "orders", Columns: []*schema.Column{id, status, user, created}}
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument(ordersTable())

	assert.Equal(t, "orders", doc.Table)
	assert.Equal(t, "Order", doc.Class)
	assert.Equal(t, []string{"id"}, doc.PrimaryKey)
	assert.Equal(t, map[string]convention.ForeignKey{"user_id": {Table: "users", Column: "id"}}, doc.Relations)
	assert.Equal(t, []convention.EnumLabel{
		{Value: "active", Label: "Active"},
		{Value: "inactive", Label: "Inactive"},
	}, doc.EnumLabels["status"])
	assert.Equal(t, map[string]Property{
		"id":         {Type: "string"},
		"status":     {Type: "string", Default: "active", HasDefault: true, Cases: []string{"ACTIVE", "INACTIVE"}},
		"user_id":    {Type: "integer"},
		"created_at": {Type: "string", Default: "CURRENT_TIMESTAMP", HasDefault: true},
	}, doc.Properties)
}

func TestNewDocumentProperties(t *testing.T) {
	flag := schema.NewColumn("enabled", "tinyint(1)", 64)
	flag.AllowNull = true
	flag.Default = flag.Typecast("0")

	ratio := schema.NewColumn("ratio", "double", 64)
	ratio.Default = ratio.Typecast("0.5")

	note := schema.NewColumn("note", "varchar(20)", 64)
	note.Default = note.Typecast("")

	level := schema.NewColumn("level", "enum('1st','top tier')", 64)

	doc := NewDocument(&schema.Table{Name: "settings", Columns: []*schema.Column{flag, ratio, note, level}})

	assert.Equal(t, Property{Type: "integer", Nullable: true, Default: "0", HasDefault: true}, doc.Properties["enabled"])
	assert.Equal(t, Property{Type: "number", Default: "0.5", HasDefault: true}, doc.Properties["ratio"])
	assert.Equal(t, Property{Type: "string", HasDefault: true}, doc.Properties["note"])
	assert.Equal(t, []string{"_1ST", "TOP_TIER"}, doc.Properties["level"].Cases)
}

func TestExportAndLoad(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			store := newMemStore()
			exp, err := New(store, "colmeta", &Config{Prefix: "/snapshots/", Format: string(format)}, nil)
			require.NoError(t, err)

			written, err := exp.Export(context.Background(), []*schema.Table{ordersTable()})
			require.NoError(t, err)
			require.Len(t, written, 1)
			assert.Equal(t, "snapshots/orders."+string(format), written[0].Key)
			assert.Equal(t, format.ContentType(), store.types[written[0].Key])

			doc, err := exp.Load(context.Background(), "orders")
			require.NoError(t, err)
			assert.Equal(t, NewDocument(ordersTable()), doc)
			assert.Equal(t, schema.Expression("CURRENT_TIMESTAMP"), doc.Columns[3].Default)

			tables, err := exp.Tables(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []string{"orders"}, tables)

			info, err := exp.Stat(context.Background(), "orders")
			require.NoError(t, err)
			assert.Equal(t, written[0].Size, info.Size)
			assert.Equal(t, format.ContentType(), info.ContentType)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	exp, err := New(newMemStore(), "colmeta", nil, nil)
	require.NoError(t, err)

	_, err = exp.Load(context.Background(), "ghost")
	assert.True(t, errs.IsNotFound(err))

	_, err = exp.Stat(context.Background(), "ghost")
	assert.True(t, errs.IsNotFound(err))
}

func TestExportStopsOnPutFailure(t *testing.T) {
	store := newMemStore()
	store.putErr = errs.New(errs.ErrKindPermissionDenied, "access denied")
	buf := &bytes.Buffer{}
	log := logger.New(&logger.Config{Level: "error", Format: "json", Output: buf})
	exp, err := New(store, "colmeta", nil, log)
	require.NoError(t, err)

	written, err := exp.Export(context.Background(), []*schema.Table{ordersTable(), ordersTable()})
	assert.True(t, errs.IsPermissionDenied(err))
	assert.Empty(t, written)
	assert.Contains(t, buf.String(), "snapshot write failed")
	assert.Contains(t, buf.String(), `"key":"schema/orders.json"`)
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, "b", nil, nil)
	assert.True(t, errs.IsInvalidInput(err))

	_, err = New(newMemStore(), "", nil, nil)
	assert.True(t, errs.IsInvalidInput(err))

	_, err = New(newMemStore(), "b", &Config{Format: "xml"}, nil)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestKey(t *testing.T) {
	exp, err := New(newMemStore(), "b", &Config{Format: "yml"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "orders.yaml", exp.Key("orders"))
}
