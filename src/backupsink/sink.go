// Package backupsink stores exported protocol documents in a local directory
// or an S3 bucket.
package backupsink

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Sink is a flat namespace of backup objects.
type Sink interface {
	Exists(ctx context.Context, name string) (bool, error)
	Write(ctx context.Context, name string, data []byte) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	String() string
}

const s3Scheme = "s3://"

// New returns the sink for target, either a directory path or s3://bucket/prefix.
func New(ctx context.Context, target string, s3Config S3Config) (Sink, error) {
	if strings.HasPrefix(target, s3Scheme) {
		bucket, prefix, err := ParseS3URL(target)
		if err != nil {
			return nil, err
		}

		s3Config.Bucket = bucket
		s3Config.Prefix = prefix
		return NewS3Sink(ctx, s3Config)
	}

	return NewDirSink(target)
}

// OpenLocation opens a single document given as a file path or s3://bucket/key.
func OpenLocation(ctx context.Context, location string, s3Config S3Config) (io.ReadCloser, error) {
	if !strings.HasPrefix(location, s3Scheme) {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("backupsink.OpenLocation: %w", err)
		}
		return f, nil
	}

	bucket, key, err := ParseS3URL(location)
	if err != nil {
		return nil, err
	}

	if key == "" {
		return nil, fmt.Errorf("backupsink.OpenLocation: %s does not name an object", location)
	}

	s3Config.Bucket = bucket
	sink, err := NewS3Sink(ctx, s3Config)
	if err != nil {
		return nil, err
	}

	return sink.Open(ctx, key)
}

// ParseS3URL splits s3://bucket/some/prefix into its bucket and key parts.
func ParseS3URL(u string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(u, s3Scheme)
	if rest == u {
		return "", "", fmt.Errorf("invalid s3 url %q: missing %s scheme", u, s3Scheme)
	}

	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid s3 url %q: missing bucket", u)
	}

	return bucket, key, nil
}
