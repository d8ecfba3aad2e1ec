// Package upload stores a batch of selected photos and reports which URLs
// became the cover and gallery of an entry.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"io.winapps.traveljournal/internal/metrics"
	journal "io.winapps.traveljournal/internal/models/journal"
	"io.winapps.traveljournal/internal/storage"
)

var (
	ErrTooLarge     = errors.New("file exceeds the upload size limit")
	ErrTooManyFiles = errors.New("too many files in one upload")
)

// File is one selected photo.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// FromMultipart adapts the files of a multipart form, keeping their order.
func FromMultipart(headers []*multipart.FileHeader) []File {
	return lo.Map(headers, func(h *multipart.FileHeader, _ int) File {
		return File{
			Name:        h.Filename,
			ContentType: h.Header.Get("Content-Type"),
			Size:        h.Size,
			Open: func() (io.ReadCloser, error) {
				return h.Open()
			},
		}
	})
}

// Failure is a file that was skipped.
type Failure struct {
	Name string `json:"name"`
	Err  error  `json:"-"`
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Name, f.Err)
}

// Result of a batch. Cover is the first selected file that was stored;
// Gallery lists every stored file in selection order.
type Result struct {
	Cover   *string
	Gallery []string
	Failed  []Failure
}

// Ledger records stored objects so orphans can be swept later.
type Ledger interface {
	Record(ctx context.Context, u journal.Upload) error
}

type Options struct {
	// Concurrency is the number of uploads in flight. 1 uploads strictly in sequence.
	Concurrency int
	MaxFiles    int
	MaxBytes    int64
	Timeout     time.Duration
}

// Orchestrator uploads batches to an ObjectStore.
type Orchestrator struct {
	store   storage.ObjectStore
	ledger  Ledger
	opts    Options
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewOrchestrator returns an orchestrator. ledger and m may be nil.
func NewOrchestrator(store storage.ObjectStore, ledger Ledger, opts Options, logger *zap.SugaredLogger, m *metrics.Metrics) *Orchestrator {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Orchestrator{
		store:   store,
		ledger:  ledger,
		opts:    opts,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

type outcome struct {
	url string
	err error
}

// UploadBatch stores every file it can. A failed file is logged, reported in
// Result.Failed and skipped; the batch itself never fails.
func (o *Orchestrator) UploadBatch(ctx context.Context, ownerID string, files []File) Result {
	outcomes := make([]outcome, len(files))

	if o.opts.Concurrency == 1 {
		for i, f := range files {
			outcomes[i] = o.uploadOne(ctx, ownerID, i, f)
		}
	} else {
		g := new(errgroup.Group)
		g.SetLimit(o.opts.Concurrency)
		for i, f := range files {
			g.Go(func() error {
				outcomes[i] = o.uploadOne(ctx, ownerID, i, f)
				return nil
			})
		}
		_ = g.Wait()
	}

	result := Result{Gallery: []string{}}
	for i, out := range outcomes {
		if out.err != nil {
			result.Failed = append(result.Failed, Failure{Name: files[i].Name, Err: out.err})
			continue
		}
		if result.Cover == nil {
			result.Cover = lo.ToPtr(out.url)
		}
		result.Gallery = append(result.Gallery, out.url)
	}
	return result
}

func (o *Orchestrator) uploadOne(ctx context.Context, ownerID string, index int, f File) outcome {
	start := o.now()

	if err := o.check(index, f); err != nil {
		o.logger.Warnw("Rejected photo", "file", f.Name, "owner", ownerID, "error", err)
		o.metrics.RecordUpload("rejected", 0, 0)
		return outcome{err: err}
	}

	key := NewKey(ownerID, f.Name, start)
	written, err := o.put(ctx, key, f)
	if err != nil {
		o.logger.Warnw("Failed to upload photo", "file", f.Name, "key", key, "owner", ownerID, "error", err)
		o.metrics.RecordUpload("error", 0, 0)
		return outcome{err: err}
	}

	url := o.store.PublicURL(key)
	o.metrics.RecordUpload("success", written, o.now().Sub(start))

	if o.ledger != nil {
		err := o.ledger.Record(ctx, journal.Upload{
			Key:         key,
			URL:         url,
			OwnerID:     ownerID,
			ContentType: f.ContentType,
			Size:        written,
		})
		if err != nil {
			o.logger.Warnw("Failed to record upload", "key", key, "error", err)
		}
	}

	return outcome{url: url}
}

func (o *Orchestrator) check(index int, f File) error {
	if o.opts.MaxFiles > 0 && index >= o.opts.MaxFiles {
		return fmt.Errorf("%w: at most %d photos per upload", ErrTooManyFiles, o.opts.MaxFiles)
	}
	if o.opts.MaxBytes > 0 && f.Size > o.opts.MaxBytes {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, f.Size)
	}
	if f.Open == nil {
		return errors.New("file has no content")
	}
	return nil
}

func (o *Orchestrator) put(ctx context.Context, key string, f File) (int64, error) {
	if o.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.Timeout)
		defer cancel()
	}

	rc, err := f.Open()
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	body := &limitedReader{r: rc, remaining: o.opts.MaxBytes}
	if err := o.store.Put(ctx, key, body, f.ContentType); err != nil {
		if body.exceeded {
			return 0, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, o.opts.MaxBytes)
		}
		return 0, fmt.Errorf("%w: %w", journal.ErrRemoteUnavailable, err)
	}
	return body.read, nil
}

// NewKey builds <owner>/<unix millis>-<random suffix><lowercase extension>.
func NewKey(ownerID, name string, at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s/%d-%s%s", ownerID, at.UnixMilli(), suffix, strings.ToLower(filepath.Ext(name)))
}

// limitedReader fails the read once more than remaining bytes are seen.
// A non-positive remaining disables the limit.
type limitedReader struct {
	r         io.Reader
	remaining int64
	read      int64
	exceeded  bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.remaining > 0 && l.read > l.remaining {
		l.exceeded = true
		return n, ErrTooLarge
	}
	return n, err
}
