// Package storage contains object storage abstractions for uploaded contracts (S3-compatible).
// Implementations avoid local disk and rely on streaming I/O only.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// MetaOriginalFilename is the user metadata key holding the client-side file name.
const MetaOriginalFilename = "original-filename"

// ContractPrefix is the key prefix of every stored contract.
const ContractPrefix = "contracts/"

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is a reusable, S3-compatible object storage client interface.
// Methods use context and streaming readers; no local disk is used.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ContractKey returns contracts/<id><ext> with the lowercased extension of filename.
func ContractKey(id, filename string) string {
	return ContractPrefix + id + strings.ToLower(filepath.Ext(filename))
}
