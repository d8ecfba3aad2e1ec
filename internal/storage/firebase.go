package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
)

// objectBucket is the part of a GCS bucket the store needs.
type objectBucket interface {
	NewWriter(ctx context.Context, key, contentType string, publicRead bool) io.WriteCloser
	Delete(ctx context.Context, key string) error
}

type gcsBucket struct {
	handle *gcs.BucketHandle
}

func (b gcsBucket) NewWriter(ctx context.Context, key, contentType string, publicRead bool) io.WriteCloser {
	w := b.handle.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if publicRead {
		w.PredefinedACL = "publicRead"
	}
	return w
}

func (b gcsBucket) Delete(ctx context.Context, key string) error {
	return b.handle.Object(key).Delete(ctx)
}

// FirebaseStore writes objects to the project's Firebase Storage bucket.
// With publicRead each object gets the publicRead ACL; buckets with uniform
// bucket-level access must grant allUsers read instead and leave it off.
type FirebaseStore struct {
	bucket     objectBucket
	name       string
	publicRead bool
}

func NewFirebaseStore(ctx context.Context, app *firebase.App, bucket string, publicRead bool) (*FirebaseStore, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firebase Storage client: %w", err)
	}
	handle, err := client.Bucket(bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %s: %w", bucket, err)
	}
	return &FirebaseStore{bucket: gcsBucket{handle: handle}, name: bucket, publicRead: publicRead}, nil
}

// Put streams body into key. A failed copy cancels the writer's context so
// the partial object is abandoned instead of committed by Close.
func (s *FirebaseStore) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.bucket.NewWriter(ctx, key, contentType, s.publicRead)
	if _, err := io.Copy(w, body); err != nil {
		cancel()
		_ = w.Close()
		return fmt.Errorf("firebase upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("firebase upload %s: %w", key, err)
	}
	return nil
}

func (s *FirebaseStore) PublicURL(key string) string {
	return joinURL("https://storage.googleapis.com/"+s.name, key)
}

// Delete removes key. A missing object counts as deleted.
func (s *FirebaseStore) Delete(ctx context.Context, key string) error {
	err := s.bucket.Delete(ctx, key)
	if err == nil || errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return fmt.Errorf("firebase delete %s: %w", key, err)
}
