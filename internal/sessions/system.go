package sessions

import (
	"context"
	"io"

	"github.com/JaimeStill/taxon/internal/export"
	"github.com/JaimeStill/taxon/internal/filter"
	"github.com/JaimeStill/taxon/internal/mapping"
	"github.com/JaimeStill/taxon/internal/records"
)

// System defines the public contract for session domain operations.
// Commands return the replacement snapshot.
type System interface {
	Handler(maxUploadSize int64) *Handler

	Classify(ctx context.Context, rows []records.Row) (*Session, error)
	Load(ctx context.Context, rs []records.Record) (*Session, error)
	Find(ctx context.Context, id string) (*Session, error)
	List(ctx context.Context) ([]*Session, error)
	Delete(ctx context.Context, id string) error

	ApplyFilters(ctx context.Context, id string, conds []filter.Condition) (*Session, error)
	ClearFilters(ctx context.Context, id string) (*Session, error)

	SortBy(ctx context.Context, id string, column string) (*Session, error)
	ClearSort(ctx context.Context, id string) (*Session, error)
	SetPage(ctx context.Context, id string, index int) (*Session, error)
	SetPageSize(ctx context.Context, id string, size int) (*Session, error)
	SetSearchTerm(ctx context.Context, id string, term string) (*Session, error)

	View(ctx context.Context, id string) (*View, error)
	Options(ctx context.Context, id string) (map[string][]string, error)
	Mappings(ctx context.Context, id string) ([]mapping.Entry, error)

	Export(ctx context.Context, id string, opts export.Options, w io.Writer) error
	Publish(ctx context.Context, id string, opts export.Options) (*export.Artifact, error)
}
