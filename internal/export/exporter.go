package export

import (
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/koustreak/colmeta/internal/errs"
	"github.com/koustreak/colmeta/internal/filestore"
	"github.com/koustreak/colmeta/internal/logger"
	"github.com/koustreak/colmeta/internal/schema"
)

// Config controls where and how snapshots are written.
type Config struct {
	// Prefix is prepended to every object key, e.g. "snapshots".
	Prefix string `yaml:"prefix"`
	Format string `yaml:"format"`
}

// DefaultConfig writes JSON snapshots under "schema/".
func DefaultConfig() *Config {
	return &Config{Prefix: "schema", Format: string(FormatJSON)}
}

// Exporter writes one snapshot object per table to a bucket.
type Exporter struct {
	store  filestore.Store
	bucket string
	prefix string
	format Format
	log    *logger.Logger
}

// New returns an Exporter writing to bucket through store.
func New(store filestore.Store, bucket string, cfg *Config, log *logger.Logger) (*Exporter, error) {
	if store == nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "filestore is nil")
	}
	if bucket == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "bucket is empty")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	format, err := ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Exporter{
		store:  store,
		bucket: bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		format: format,
		log:    log,
	}, nil
}

// Key returns the object key the snapshot of table is stored under.
func (e *Exporter) Key(table string) string {
	return path.Join(e.prefix, table+"."+e.format.Ext())
}

// Export writes a snapshot of every table, creating the bucket if needed.
// It stops at the first failure.
func (e *Exporter) Export(ctx context.Context, tables []*schema.Table) ([]filestore.ObjectInfo, error) {
	if err := e.store.EnsureBucket(ctx, e.bucket); err != nil {
		return nil, err
	}

	written := make([]filestore.ObjectInfo, 0, len(tables))
	for _, t := range tables {
		var buf bytes.Buffer
		if err := Encode(&buf, e.format, NewDocument(t)); err != nil {
			return written, errs.Wrap(errs.ErrKindInvalidInput, "failed to encode snapshot of "+t.Name, err)
		}

		key := e.Key(t.Name)
		info, err := e.store.PutObject(ctx, e.bucket, key, &buf, int64(buf.Len()), e.format.ContentType())
		if err != nil {
			e.log.ErrorWith("snapshot write failed", err, map[string]any{
				"table":  t.Name,
				"bucket": e.bucket,
				"key":    key,
			})
			return written, err
		}
		e.log.InfoWith("snapshot written", map[string]any{
			"table":  t.Name,
			"bucket": e.bucket,
			"key":    key,
			"size":   info.Size,
		})
		written = append(written, *info)
	}
	return written, nil
}

// Load reads the snapshot of table back.
func (e *Exporter) Load(ctx context.Context, table string) (*Document, error) {
	obj, err := e.store.GetObject(ctx, e.bucket, e.Key(table))
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	var doc Document
	if err := Decode(obj, e.format, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to decode snapshot of "+table, err)
	}
	return &doc, nil
}

// Stat returns the metadata of the snapshot of table without reading it.
func (e *Exporter) Stat(ctx context.Context, table string) (*filestore.ObjectInfo, error) {
	return e.store.StatObject(ctx, e.bucket, e.Key(table))
}

// Tables lists the tables that have a snapshot in the current format.
func (e *Exporter) Tables(ctx context.Context) ([]string, error) {
	prefix := ""
	if e.prefix != "" {
		prefix = e.prefix + "/"
	}
	objects, err := e.store.ListObjects(ctx, e.bucket, filestore.ListOptions{Prefix: prefix})
	if err != nil {
		return nil, err
	}

	suffix := "." + e.format.Ext()
	var tables []string
	for _, o := range objects {
		name := strings.TrimPrefix(o.Key, prefix)
		if strings.Contains(name, "/") || !strings.HasSuffix(name, suffix) {
			continue
		}
		tables = append(tables, strings.TrimSuffix(name, suffix))
	}
	return tables, nil
}
