package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"complianceapi/internal/config"
)

// ErrObjectNotFound is returned when a contract row points at an object the bucket no longer holds.
var ErrObjectNotFound = errors.New("object not found")

// ErrInvalidKey is returned for keys outside ContractPrefix.
var ErrInvalidKey = errors.New("object key must start with " + ContractPrefix)

// minioContracts keeps uploaded contract files in one S3-compatible bucket.
// Objects are written with an attachment disposition naming the original file,
// so direct GETs and pre-signed URLs both download under the client's file name.
type minioContracts struct {
	client *minio.Client
	bucket string
}

// NewMinIO connects to the contract bucket, creating it when missing.
// transport may be nil; the API passes an otelhttp transport so storage calls show up in traces.
func NewMinIO(ctx context.Context, cfg config.MinIOConfig, transport http.RoundTripper) (Storage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check contract bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create contract bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &minioContracts{client: cli, bucket: cfg.Bucket}, nil
}

// Put streams a contract file into the bucket.
func (m *minioContracts) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if !strings.HasPrefix(key, ContractPrefix) {
		return ObjectInfo{}, fmt.Errorf("put %q: %w", key, ErrInvalidKey)
	}
	putOpts := minio.PutObjectOptions{
		ContentType:        opt.ContentType,
		ContentDisposition: attachmentDisposition(opt.Metadata[MetaOriginalFilename]),
		UserMetadata:       opt.Metadata,
	}
	info, err := m.client.PutObject(ctx, m.bucket, key, r, opt.Size, putOpts)
	if err != nil {
		return ObjectInfo{}, objectError("put", key, err)
	}
	return ObjectInfo{
		Key:          key,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  opt.ContentType,
		LastModified: time.Now(), // PutObject does not report LastModified
		Metadata:     opt.Metadata,
	}, nil
}

// Get opens a stored contract. The stat call surfaces a missing object before any bytes are read.
func (m *minioContracts) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, objectError("get", key, err)
	}
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, ObjectInfo{}, objectError("stat", key, err)
	}
	return obj, ObjectInfo{
		Key:          key,
		Size:         st.Size,
		ETag:         st.ETag,
		ContentType:  st.ContentType,
		LastModified: st.LastModified,
		Metadata:     st.UserMetadata,
	}, nil
}

func (m *minioContracts) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return objectError("delete", key, err)
	}
	return nil
}

// PresignGet signs a GET for key valid for expiry.
func (m *minioContracts) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", objectError("presign", key, err)
	}
	return u.String(), nil
}

// attachmentDisposition returns an attachment header for name, or "" when name is empty.
func attachmentDisposition(name string) string {
	if name == "" {
		return ""
	}
	if d := mime.FormatMediaType("attachment", map[string]string{"filename": name}); d != "" {
		return d
	}
	return "attachment"
}

func objectError(op, key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey":
		return fmt.Errorf("%s %q: %w", op, key, ErrObjectNotFound)
	default:
		return fmt.Errorf("%s %q: %w", op, key, err)
	}
}
