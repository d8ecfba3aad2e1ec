// Package storage writes entry photos to an object store and hands back
// their public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	firebase "firebase.google.com/go/v4"

	"io.winapps.traveljournal/internal/config"
)

// ObjectStore is a bucket of publicly readable objects.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
}

// NewObjectStore builds the driver selected by STORAGE_DRIVER. app is only
// needed for the firebase driver.
func NewObjectStore(ctx context.Context, cfg *config.Config, app *firebase.App) (ObjectStore, error) {
	switch cfg.Storage.Driver {
	case "local":
		base := cfg.Storage.PublicURL
		if base == "" {
			base = strings.TrimRight(cfg.PublicBaseURL, "/") + "/images"
		}
		return NewLocalStore(cfg.Storage.LocalDir, base)
	case "s3":
		return NewS3Store(ctx, S3Options{
			Endpoint:  cfg.Storage.S3Endpoint,
			Region:    cfg.Storage.S3Region,
			Bucket:    cfg.Storage.Bucket,
			AccessKey: cfg.Storage.S3AccessKey,
			SecretKey: cfg.Storage.S3SecretKey,
			PublicURL: cfg.Storage.PublicURL,
		})
	case "firebase":
		if app == nil {
			return nil, fmt.Errorf("firebase storage driver requires a firebase app")
		}
		return NewFirebaseStore(ctx, app, cfg.Firebase.StorageBucket, cfg.Firebase.StoragePublicRead)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
