package filestore

import (
	"io"
	"time"
)

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	// Key is the full object path within the bucket, e.g. "snapshots/orders.json".
	Key string `json:"key"`

	// Size in bytes; -1 if unknown.
	Size int64 `json:"size"`

	ContentType  string    `json:"contentType,omitempty"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"lastModified"`
}

// Object is a streaming handle to an object's content.
type Object interface {
	io.ReadCloser

	// Info returns the metadata read when the object was opened.
	Info() *ObjectInfo
}

// ListOptions filters ListObjects.
type ListOptions struct {
	// Prefix restricts results to keys starting with it; "" lists everything.
	Prefix string

	// Limit caps the number of results; 0 means no cap.
	Limit int
}
