package sessions_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/taxon/internal/classifier"
	"github.com/JaimeStill/taxon/internal/export"
	"github.com/JaimeStill/taxon/internal/filter"
	"github.com/JaimeStill/taxon/internal/mapping"
	"github.com/JaimeStill/taxon/internal/records"
	"github.com/JaimeStill/taxon/internal/sessions"
	"github.com/JaimeStill/taxon/internal/table"
	"github.com/JaimeStill/taxon/pkg/lifecycle"
	"github.com/JaimeStill/taxon/pkg/pagination"
	"github.com/JaimeStill/taxon/pkg/storage"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// inline runs background work on the calling goroutine.
type inline struct{}

func (inline) Go(fn func(ctx context.Context)) { fn(context.Background()) }

// deferred holds background work until Flush.
type deferred struct {
	mu  sync.Mutex
	fns []func(ctx context.Context)
}

func (d *deferred) Go(fn func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fns = append(d.fns, fn)
}

func (d *deferred) Flush() {
	d.mu.Lock()
	fns := d.fns
	d.fns = nil
	d.mu.Unlock()

	for _, fn := range fns {
		fn(context.Background())
	}
}

// labeller answers every request, labelling level1 with the description.
func labeller() classifier.Classifier {
	return classifier.Func(func(ctx context.Context, reqs []classifier.Request) ([]classifier.Verdict, error) {
		out := make([]classifier.Verdict, len(reqs))
		for i, r := range reqs {
			out[len(reqs)-1-i] = classifier.Verdict{
				MappingID:   r.MappingID,
				Level1:      "L1:" + r.FieldDescription,
				Sensitivity: "medium",
			}
		}
		return out, nil
	})
}

func dispatcher(t *testing.T, c classifier.Classifier, batchSize int) *classifier.Dispatcher {
	t.Helper()
	cfg := classifier.Config{Provider: classifier.ProviderMock, BatchSize: batchSize, Concurrency: 1, Timeout: "5s"}
	require.NoError(t, cfg.Finalize(nil))
	return classifier.NewDispatcher(c, cfg, discard())
}

type fixture struct {
	sys   sessions.System
	store *storage.Memory
}

func newFixture(t *testing.T, c classifier.Classifier, batchSize int, runner sessions.Runner) fixture {
	t.Helper()

	pg := pagination.Config{}
	require.NoError(t, pg.Finalize(nil))

	store := storage.NewMemory(discard())
	sys := sessions.New(
		dispatcher(t, c, batchSize),
		table.New(pg),
		export.NewPublisher(store, discard()),
		runner,
		discard(),
	)
	return fixture{sys: sys, store: store}
}

func rows(n int) []records.Row {
	out := make([]records.Row, n)
	for i := range out {
		out[i] = records.Row{
			TableName:        "customers",
			Field:            fmt.Sprintf("col_%d", i),
			FieldDescription: fmt.Sprintf("desc %d", i),
		}
	}
	return out
}

func fields(rs []records.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Field
	}
	return out
}

func TestClassifyCompletes(t *testing.T) {
	f := newFixture(t, labeller(), 2, inline{})
	ctx := context.Background()

	created, err := f.sys.Classify(ctx, rows(5))
	require.NoError(t, err)
	assert.Equal(t, sessions.StatusPending, created.Status, "returned snapshot predates processing")
	assert.True(t, strings.HasPrefix(created.TaskID, "task_"))

	s, err := f.sys.Find(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, sessions.StatusCompleted, s.Status)
	assert.Empty(t, s.Error)
	require.NotNil(t, s.CompletedAt)
	assert.Equal(t, sessions.Counters{Total: 5, Processed: 5, Restored: 5}, s.Counters)

	require.Len(t, s.Records, 5)
	for i, rec := range s.Records {
		assert.Equal(t, fmt.Sprintf("col_%d", i), rec.Field)
		assert.Equal(t, fmt.Sprintf("L1:desc %d", i), rec.Level1)
		assert.Equal(t, records.SensitivityMedium, rec.Sensitivity)
	}
	assert.Equal(t, s.Records, s.Filtered)
}

func TestClassifyInBackground(t *testing.T) {
	lc := lifecycle.New()
	f := newFixture(t, classifier.NewMock(true), 3, lc)
	ctx := context.Background()

	created, err := f.sys.Classify(ctx, rows(10))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		s, err := f.sys.Find(ctx, created.ID)
		return err == nil && s.Terminal()
	}, 5*time.Second, 10*time.Millisecond)

	s, _ := f.sys.Find(ctx, created.ID)
	assert.Equal(t, sessions.StatusCompleted, s.Status)
	assert.Len(t, s.Records, 10)

	require.NoError(t, lc.Shutdown(time.Second))
}

func TestShutdownFailsUnfinishedSession(t *testing.T) {
	started := make(chan struct{})
	blocking := classifier.Func(func(ctx context.Context, reqs []classifier.Request) ([]classifier.Verdict, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})

	lc := lifecycle.New()
	f := newFixture(t, blocking, 10, lc)
	ctx := context.Background()

	created, err := f.sys.Classify(ctx, rows(2))
	require.NoError(t, err)
	<-started

	require.NoError(t, lc.Shutdown(5*time.Second))

	s, _ := f.sys.Find(ctx, created.ID)
	assert.Equal(t, sessions.StatusFailed, s.Status)
	assert.Contains(t, s.Error, "classifier unavailable")
	assert.Equal(t, 2, s.Counters.Missing)
}

func TestClassifyRejectsEmpty(t *testing.T) {
	f := newFixture(t, labeller(), 2, inline{})
	_, err := f.sys.Classify(context.Background(), nil)
	assert.ErrorIs(t, err, sessions.ErrEmpty)
}

func TestClassifyNeverSendsFieldNames(t *testing.T) {
	var seen []classifier.Request
	spy := classifier.Func(func(ctx context.Context, reqs []classifier.Request) ([]classifier.Verdict, error) {
		seen = append(seen, reqs...)
		return labeller().Classify(ctx, reqs)
	})

	f := newFixture(t, spy, 10, inline{})
	_, err := f.sys.Classify(context.Background(), rows(3))
	require.NoError(t, err)

	require.Len(t, seen, 3)
	for _, r := range seen {
		assert.NotContains(t, r.FieldDescription, "col_")
	}
}

func TestClassifyDropsOrphans(t *testing.T) {
	ghost := classifier.Func(func(ctx context.Context, reqs []classifier.Request) ([]classifier.Verdict, error) {
		out, _ := labeller().Classify(ctx, reqs)
		return append(out, classifier.Verdict{MappingID: 9999, Level1: "ghost"}), nil
	})

	f := newFixture(t, ghost, 10, inline{})
	created, err := f.sys.Classify(context.Background(), rows(3))
	require.NoError(t, err)

	s, _ := f.sys.Find(context.Background(), created.ID)
	assert.Equal(t, sessions.StatusCompleted, s.Status)
	assert.Equal(t, []int{9999}, s.Orphans)
	assert.Equal(t, 1, s.Counters.Orphans)
	assert.Len(t, s.Records, 3)
	for _, rec := range s.Records {
		assert.NotEqual(t, "ghost", rec.Level1)
	}
}

func TestClassifyBatchFailureKeepsPartialResults(t *testing.T) {
	flaky := classifier.Func(func(ctx context.Context, reqs []classifier.Request) ([]classifier.Verdict, error) {
		if reqs[0].MappingID == 3 {
			return nil, fmt.Errorf("%w: connection refused", classifier.ErrUnavailable)
		}
		return labeller().Classify(ctx, reqs)
	})

	f := newFixture(t, flaky, 2, inline{})
	created, err := f.sys.Classify(context.Background(), rows(5))
	require.NoError(t, err)

	s, _ := f.sys.Find(context.Background(), created.ID)
	assert.Equal(t, sessions.StatusFailed, s.Status)
	assert.Contains(t, s.Error, "classifier unavailable")
	assert.Equal(t, []string{"col_0", "col_1", "col_4"}, fields(s.Records))
	assert.Equal(t, 2, s.Counters.Missing)
	assert.Equal(t, 3, s.Counters.Restored)
}

func TestClassifierDownLeavesNothingToRender(t *testing.T) {
	down := classifier.Func(func(ctx context.Context, reqs []classifier.Request) ([]classifier.Verdict, error) {
		return nil, fmt.Errorf("%w: connection refused", classifier.ErrUnavailable)
	})

	f := newFixture(t, down, 2, inline{})
	ctx := context.Background()
	created, err := f.sys.Classify(ctx, rows(3))
	require.NoError(t, err)

	s, _ := f.sys.Find(ctx, created.ID)
	require.Equal(t, sessions.StatusFailed, s.Status)
	assert.Empty(t, s.Records)

	_, err = f.sys.View(ctx, created.ID)
	assert.ErrorIs(t, err, classifier.ErrUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, sessions.MapHTTPStatus(err))

	var buf bytes.Buffer
	err = f.sys.Export(ctx, created.ID, export.Options{}, &buf)
	assert.ErrorIs(t, err, classifier.ErrUnavailable)
	assert.Zero(t, buf.Len(), "no header-only file for a failed classification")

	_, err = f.sys.Publish(ctx, created.ID, export.Options{})
	assert.ErrorIs(t, err, classifier.ErrUnavailable)
}

func TestViewCarriesSessionStatus(t *testing.T) {
	runner := &deferred{}
	f := newFixture(t, labeller(), 10, runner)
	ctx := context.Background()

	created, err := f.sys.Classify(ctx, rows(2))
	require.NoError(t, err)

	view, err := f.sys.View(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, sessions.StatusPending, view.Status)
	assert.Equal(t, 0, view.Total)

	runner.Flush()

	view, err = f.sys.View(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, sessions.StatusCompleted, view.Status)
	assert.Equal(t, 2, view.Total)
}

func TestItemFailuresAreReported(t *testing.T) {
	picky := classifier.Func(func(ctx context.Context, reqs []classifier.Request) ([]classifier.Verdict, error) {
		out, _ := labeller().Classify(ctx, reqs)
		for i := range out {
			if out[i].MappingID == 2 {
				out[i].Error = "unclassifiable"
			}
		}
		return out, nil
	})

	f := newFixture(t, picky, 10, inline{})
	created, _ := f.sys.Classify(context.Background(), rows(3))

	s, _ := f.sys.Find(context.Background(), created.ID)
	assert.Equal(t, sessions.StatusCompleted, s.Status)
	require.Len(t, s.Failures, 1)
	assert.Equal(t, mapping.Failure{MappingID: 2, FieldName: "col_1", Error: "unclassifiable"}, s.Failures[0])
	assert.Equal(t, sessions.Counters{Total: 3, Processed: 3, Restored: 2, Failed: 1}, s.Counters)
}

func TestExportRequiresTerminalSession(t *testing.T) {
	runner := &deferred{}
	f := newFixture(t, labeller(), 10, runner)
	ctx := context.Background()

	created, err := f.sys.Classify(ctx, rows(2))
	require.NoError(t, err)

	var buf bytes.Buffer
	err = f.sys.Export(ctx, created.ID, export.Options{}, &buf)
	assert.ErrorIs(t, err, sessions.ErrNotReady)
	assert.Equal(t, http.StatusConflict, sessions.MapHTTPStatus(err))

	runner.Flush()

	require.NoError(t, f.sys.Export(ctx, created.ID, export.Options{}, &buf))
	assert.Contains(t, buf.String(), "col_0")
}

func TestApplyFiltersKeepsPreviousViewOnError(t *testing.T) {
	f := newFixture(t, labeller(), 10, inline{})
	ctx := context.Background()
	created, _ := f.sys.Classify(ctx, rows(4))

	s, err := f.sys.ApplyFilters(ctx, created.ID, []filter.Condition{
		{ID: "c1", Field: records.FieldField, Operator: filter.OpContains, Value: filter.Single("col_1")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"col_1"}, fields(s.Filtered))

	_, err = f.sys.ApplyFilters(ctx, created.ID, []filter.Condition{
		{ID: "c2", Field: records.FieldField, Operator: filter.OpRegex, Value: filter.Single("[unclosed")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, filter.ErrInvalidPattern)
	assert.Equal(t, http.StatusUnprocessableEntity, sessions.MapHTTPStatus(err))

	s, _ = f.sys.Find(ctx, created.ID)
	require.Len(t, s.Conditions, 1)
	assert.Equal(t, "c1", s.Conditions[0].ID)
	assert.Equal(t, []string{"col_1"}, fields(s.Filtered))

	s, err = f.sys.ClearFilters(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, s.Conditions)
	assert.Len(t, s.Filtered, 4)
}

func TestSnapshotsAreReplacedNotMutated(t *testing.T) {
	f := newFixture(t, labeller(), 10, inline{})
	ctx := context.Background()
	created, _ := f.sys.Classify(ctx, rows(3))

	before, _ := f.sys.Find(ctx, created.ID)
	after, err := f.sys.SortBy(ctx, created.ID, records.FieldField)
	require.NoError(t, err)

	assert.NotSame(t, before, after)
	assert.Empty(t, before.Table.SortColumn)
	assert.Equal(t, records.FieldField, after.Table.SortColumn)
}

func TestTableCommandsAndView(t *testing.T) {
	f := newFixture(t, labeller(), 10, inline{})
	ctx := context.Background()
	created, _ := f.sys.Classify(ctx, rows(5))
	id := created.ID

	_, err := f.sys.SetPageSize(ctx, id, 2)
	require.NoError(t, err)
	_, err = f.sys.SortBy(ctx, id, records.FieldField)
	require.NoError(t, err)
	_, err = f.sys.SortBy(ctx, id, records.FieldField)
	require.NoError(t, err)

	view, err := f.sys.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, view.PageCount)
	assert.Equal(t, []string{"col_4", "col_3"}, fields(view.Records))

	_, err = f.sys.SetPage(ctx, id, 9)
	require.NoError(t, err)
	view, _ = f.sys.View(ctx, id)
	assert.Equal(t, 2, view.PageIndex)
	assert.Equal(t, []string{"col_0"}, fields(view.Records))

	s, _ := f.sys.Find(ctx, id)
	assert.Equal(t, 2, s.Table.PageIndex, "clamped index is stored")

	_, err = f.sys.SetSearchTerm(ctx, id, "COL_2")
	require.NoError(t, err)
	view, _ = f.sys.View(ctx, id)
	assert.Equal(t, 1, view.Total)
	assert.Equal(t, 0, view.PageIndex)

	_, err = f.sys.SortBy(ctx, id, "bogus")
	assert.ErrorIs(t, err, table.ErrUnknownColumn)
	assert.Equal(t, http.StatusBadRequest, sessions.MapHTTPStatus(err))

	s, err = f.sys.ClearSort(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, s.Table.SortColumn)
}

func TestFilterFeedsTable(t *testing.T) {
	f := newFixture(t, labeller(), 10, inline{})
	ctx := context.Background()
	created, _ := f.sys.Classify(ctx, rows(6))
	id := created.ID

	_, err := f.sys.ApplyFilters(ctx, id, []filter.Condition{
		{ID: "a", Field: records.FieldField, Operator: filter.OpIn, Value: filter.Multi("col_0", "col_2", "col_4")},
	})
	require.NoError(t, err)

	f.sys.SetPageSize(ctx, id, 2)
	view, err := f.sys.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Total)
	assert.Equal(t, 2, view.PageCount)
}

func TestFilterClampsStoredPageIndex(t *testing.T) {
	f := newFixture(t, labeller(), 10, inline{})
	ctx := context.Background()
	created, _ := f.sys.Classify(ctx, rows(10))
	id := created.ID

	f.sys.SetPageSize(ctx, id, 2)
	s, err := f.sys.SetPage(ctx, id, 4)
	require.NoError(t, err)
	require.Equal(t, 4, s.Table.PageIndex)

	s, err = f.sys.ApplyFilters(ctx, id, []filter.Condition{
		{ID: "a", Field: records.FieldField, Operator: filter.OpIn, Value: filter.Multi("col_0", "col_1", "col_2")},
	})
	require.NoError(t, err)
	assert.Len(t, s.Filtered, 3)
	assert.Equal(t, 1, s.Table.PageIndex, "index clamped as soon as the collection shrinks")

	found, _ := f.sys.Find(ctx, id)
	assert.Equal(t, 1, found.Table.PageIndex)

	s, err = f.sys.ApplyFilters(ctx, id, []filter.Condition{
		{ID: "b", Field: records.FieldField, Operator: filter.OpEquals, Value: filter.Single("nothing")},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Table.PageIndex)
}

func TestExportIsFilteredSortedUnpaginated(t *testing.T) {
	f := newFixture(t, labeller(), 10, inline{})
	ctx := context.Background()
	created, _ := f.sys.Classify(ctx, rows(5))
	id := created.ID

	f.sys.ApplyFilters(ctx, id, []filter.Condition{
		{ID: "a", Field: records.FieldField, Operator: filter.OpNotIn, Value: filter.Multi("col_1")},
	})
	f.sys.SortBy(ctx, id, records.FieldField)
	f.sys.SortBy(ctx, id, records.FieldField)
	f.sys.SetPageSize(ctx, id, 2)

	var buf bytes.Buffer
	require.NoError(t, f.sys.Export(ctx, id, export.Options{Format: export.FormatJSON}, &buf))

	body := buf.String()
	order := []int{
		strings.Index(body, `"col_4"`),
		strings.Index(body, `"col_3"`),
		strings.Index(body, `"col_2"`),
		strings.Index(body, `"col_0"`),
	}
	assert.NotContains(t, body, `"col_1"`)
	assert.True(t, slices.IsSorted(order), "descending field order: %v", order)
	assert.NotContains(t, order, -1)
}

func TestPublish(t *testing.T) {
	f := newFixture(t, labeller(), 10, inline{})
	ctx := context.Background()
	created, _ := f.sys.Classify(ctx, rows(2))

	artifact, err := f.sys.Publish(ctx, created.ID, export.Options{Format: export.FormatCSV})
	require.NoError(t, err)
	assert.Equal(t, 2, artifact.Records)
	assert.True(t, strings.HasPrefix(artifact.Key, "exports/"+created.ID+"/"))

	obj, ok := f.store.Object(artifact.Key)
	require.True(t, ok)
	assert.Contains(t, string(obj.Data), "col_1")
}

func TestLoad(t *testing.T) {
	f := newFixture(t, labeller(), 10, inline{})
	ctx := context.Background()

	in := []records.Record{
		{Field: "phone", Sensitivity: records.SensitivityHigh},
		{Field: "city", Sensitivity: records.SensitivityLow},
	}
	s, err := f.sys.Load(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, sessions.SourceLoad, s.Source)
	assert.Equal(t, sessions.StatusCompleted, s.Status)
	assert.Empty(t, s.TaskID)
	assert.Len(t, s.Filtered, 2)

	in[0].Field = "mutated"
	assert.Equal(t, "phone", s.Records[0].Field, "load copies its input")

	entries, err := f.sys.Mappings(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	opts, err := f.sys.Options(ctx, s.ID)
	require.NoError(t, err)
	assert.Contains(t, opts, records.FieldSensitivity)

	_, err = f.sys.Load(ctx, nil)
	assert.ErrorIs(t, err, sessions.ErrEmpty)
}

func TestMappingsAndDelete(t *testing.T) {
	f := newFixture(t, labeller(), 10, inline{})
	ctx := context.Background()
	created, _ := f.sys.Classify(ctx, rows(3))

	entries, err := f.sys.Mappings(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[0].MappingID)
	assert.Equal(t, "col_0", entries[0].OriginalFieldName)

	list, _ := f.sys.List(ctx)
	assert.Len(t, list, 1)

	require.NoError(t, f.sys.Delete(ctx, created.ID))

	_, err = f.sys.Find(ctx, created.ID)
	assert.ErrorIs(t, err, sessions.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, sessions.MapHTTPStatus(err))

	assert.ErrorIs(t, f.sys.Delete(ctx, created.ID), sessions.ErrNotFound)

	list, _ = f.sys.List(ctx)
	assert.Empty(t, list)
}

func TestListPreservesCreationOrder(t *testing.T) {
	f := newFixture(t, labeller(), 10, inline{})
	ctx := context.Background()

	a, _ := f.sys.Classify(ctx, rows(1))
	b, _ := f.sys.Load(ctx, []records.Record{{Field: "x"}})
	c, _ := f.sys.Classify(ctx, rows(2))

	list, err := f.sys.List(ctx)
	require.NoError(t, err)

	ids := make([]string, len(list))
	for i, s := range list {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, ids)
}

func TestRun(t *testing.T) {
	out, err := sessions.Run(context.Background(), dispatcher(t, labeller(), 2), rows(5), "task_run")
	require.NoError(t, err)

	assert.Equal(t, "task_run", out.TaskID)
	assert.Equal(t, []string{"col_0", "col_1", "col_2", "col_3", "col_4"}, fields(out.Records))
	assert.Empty(t, out.Missing)
	assert.Empty(t, out.Orphans)
	assert.Len(t, out.Entries, 5)

	_, err = sessions.Run(context.Background(), dispatcher(t, labeller(), 2), nil, "task_empty")
	assert.ErrorIs(t, err, sessions.ErrEmpty)
}

func TestRunReturnsPartialOutcome(t *testing.T) {
	down := classifier.Func(func(ctx context.Context, reqs []classifier.Request) ([]classifier.Verdict, error) {
		if reqs[0].MappingID > 2 {
			return nil, classifier.ErrUnavailable
		}
		return labeller().Classify(ctx, reqs)
	})

	out, err := sessions.Run(context.Background(), dispatcher(t, down, 2), rows(4), "task_partial")
	require.Error(t, err)
	assert.True(t, classifier.IsRetryable(err))
	require.NotNil(t, out)
	assert.Equal(t, []string{"col_0", "col_1"}, fields(out.Records))
	assert.Equal(t, []int{3, 4}, out.Missing)
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", sessions.ErrNotFound, http.StatusNotFound},
		{"not ready", sessions.ErrNotReady, http.StatusConflict},
		{"empty", sessions.ErrEmpty, http.StatusUnprocessableEntity},
		{"too large", sessions.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid file", sessions.ErrInvalidFile, http.StatusBadRequest},
		{"classifier unavailable", classifier.ErrUnavailable, http.StatusServiceUnavailable},
		{"invalid shape", filter.ErrInvalidShape, http.StatusUnprocessableEntity},
		{"unknown format", export.ErrUnknownFormat, http.StatusBadRequest},
		{"task exists", mapping.ErrTaskExists, http.StatusConflict},
		{"other", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sessions.MapHTTPStatus(fmt.Errorf("wrapped: %w", tt.err)))
		})
	}
}
