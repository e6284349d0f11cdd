package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/JaimeStill/taxon/internal/records"
	"github.com/JaimeStill/taxon/pkg/storage"
)

// Artifact describes a published export.
type Artifact struct {
	Key         string    `json:"key"`
	Format      Format    `json:"format"`
	ContentType string    `json:"contentType"`
	Records     int       `json:"records"`
	Bytes       int       `json:"bytes"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Publisher uploads rendered exports to blob storage.
type Publisher struct {
	store  storage.System
	logger *slog.Logger
	now    func() time.Time
}

// NewPublisher creates a Publisher over store.
func NewPublisher(store storage.System, logger *slog.Logger) *Publisher {
	return &Publisher{
		store:  store,
		logger: logger.With("system", "export"),
		now:    time.Now,
	}
}

// Key returns the blob key of an export: exports/<scope>/<timestamp>.<ext>.
func Key(scope string, at time.Time, f Format) string {
	return path.Join("exports", scope, at.UTC().Format("20060102T150405.000Z")+"."+f.Extension())
}

// Publish renders rs and uploads it under Key(scope, now, opts.Format).
func (p *Publisher) Publish(ctx context.Context, scope string, rs []records.Record, opts Options) (*Artifact, error) {
	if opts.Format == "" {
		opts.Format = FormatCSV
	}

	var buf bytes.Buffer
	if err := Write(&buf, rs, opts); err != nil {
		return nil, err
	}

	at := p.now().UTC()
	key := Key(scope, at, opts.Format)
	size := buf.Len()

	if err := p.store.Upload(ctx, key, &buf, opts.Format.ContentType()); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	p.logger.Info("export published", "key", key, "records", len(rs), "bytes", size)

	return &Artifact{
		Key:         key,
		Format:      opts.Format,
		ContentType: opts.Format.ContentType(),
		Records:     len(rs),
		Bytes:       size,
		CreatedAt:   at,
	}, nil
}
