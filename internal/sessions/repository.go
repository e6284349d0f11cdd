package sessions

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/taxon/internal/classifier"
	"github.com/JaimeStill/taxon/internal/export"
	"github.com/JaimeStill/taxon/internal/filter"
	"github.com/JaimeStill/taxon/internal/mapping"
	"github.com/JaimeStill/taxon/internal/metrics"
	"github.com/JaimeStill/taxon/internal/records"
	"github.com/JaimeStill/taxon/internal/table"
)

// Runner starts background work bound to the application lifetime.
// *lifecycle.Coordinator satisfies it.
type Runner interface {
	Go(fn func(ctx context.Context))
}

type repo struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string

	mappings   *mapping.Store
	dispatcher *classifier.Dispatcher
	engine     *table.Engine
	publisher  *export.Publisher
	runner     Runner
	logger     *slog.Logger
	now        func() time.Time
}

// New creates an in-memory session store implementing the System interface.
func New(
	dispatcher *classifier.Dispatcher,
	engine *table.Engine,
	publisher *export.Publisher,
	runner Runner,
	logger *slog.Logger,
) System {
	return &repo{
		sessions:   make(map[string]*Session),
		mappings:   mapping.NewStore(),
		dispatcher: dispatcher,
		engine:     engine,
		publisher:  publisher,
		runner:     runner,
		logger:     logger.With("system", "sessions"),
		now:        time.Now,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, maxUploadSize)
}

func (r *repo) Classify(ctx context.Context, rows []records.Row) (*Session, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	taskID := mapping.NewTaskID()
	tbl, reqs := mapping.Pseudonymize(taskID, rows, r.now())
	if err := r.mappings.Put(tbl); err != nil {
		return nil, err
	}

	s := r.create(SourceClassify, nil)
	s.TaskID = taskID
	s.Status = StatusPending
	s.Counters.Total = len(reqs)
	r.insert(s)

	metrics.SessionsTotal.WithLabelValues(metrics.StatusStarted).Inc()
	metrics.SessionsActive.Inc()

	r.logger.Info("classification started", "session", s.ID, "task", taskID, "items", len(reqs))

	r.runner.Go(func(ctx context.Context) {
		r.process(ctx, s.ID, tbl, reqs)
	})

	return s, nil
}

func (r *repo) process(ctx context.Context, id string, tbl *mapping.Table, reqs []classifier.Request) {
	defer metrics.SessionsActive.Dec()

	r.update(id, func(s *Session) (*Session, error) {
		c := s.clone()
		c.Status = StatusProcessing
		return c, nil
	})

	restorer, err := restore(ctx, r.dispatcher, tbl, reqs, func(rs *mapping.Restorer, delta mapping.Result) {
		if len(delta.Orphans) > 0 {
			r.logger.Warn(
				"dropped verdicts with unknown mapping ids",
				"session", id,
				"task", tbl.TaskID(),
				"orphans", delta.Orphans,
			)
		}

		r.update(id, func(s *Session) (*Session, error) {
			c := s.withRecords(rs.Records(), r.engine)
			c.Counters = progress(len(reqs), rs)
			return c, nil
		})
	})

	_, uerr := r.update(id, func(s *Session) (*Session, error) {
		c := s.withRecords(restorer.Records(), r.engine)
		c.Counters = progress(len(reqs), restorer)
		c.Counters.Missing = len(restorer.Pending())
		c.Orphans = restorer.Orphans()
		c.Failures = restorer.Failed()

		done := r.now()
		c.CompletedAt = &done

		if err != nil {
			c.Status = StatusFailed
			c.Error = err.Error()
		} else {
			c.Status = StatusCompleted
		}
		return c, nil
	})
	if uerr != nil {
		r.logger.Info("session removed before classification finished", "session", id)
		return
	}

	if err != nil {
		metrics.SessionsTotal.WithLabelValues(metrics.StatusFailed).Inc()
		r.logger.Error("classification failed", "session", id, "restored", len(restorer.Records()), "error", err)
		return
	}

	metrics.SessionsTotal.WithLabelValues(metrics.StatusCompleted).Inc()
	r.logger.Info(
		"classification completed",
		"session", id,
		"restored", len(restorer.Records()),
		"failed", len(restorer.Failed()),
		"orphans", len(restorer.Orphans()),
	)
}

func (r *repo) Load(ctx context.Context, rs []records.Record) (*Session, error) {
	if len(rs) == 0 {
		return nil, ErrEmpty
	}

	s := r.create(SourceLoad, slices.Clone(rs))
	s.Status = StatusCompleted
	s.Counters = Counters{Total: len(rs), Processed: len(rs), Restored: len(rs)}
	done := s.CreatedAt
	s.CompletedAt = &done
	r.insert(s)

	metrics.SessionsTotal.WithLabelValues(metrics.StatusCompleted).Inc()
	r.logger.Info("records loaded", "session", s.ID, "records", len(rs))

	return s, nil
}

func (r *repo) Find(ctx context.Context, id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

func (r *repo) List(ctx context.Context) ([]*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sessions[id])
	}
	return out, nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
		r.order = slices.DeleteFunc(r.order, func(o string) bool { return o == id })
	}
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if s.TaskID != "" {
		r.mappings.Delete(s.TaskID)
	}

	r.logger.Info("session deleted", "session", id)
	return nil
}

func (r *repo) ApplyFilters(ctx context.Context, id string, conds []filter.Condition) (*Session, error) {
	return r.update(id, func(s *Session) (*Session, error) {
		f, err := filter.Compile(conds)
		if err != nil {
			metrics.FilterEvaluationsTotal.WithLabelValues(metrics.StatusInvalid).Inc()
			return nil, err
		}
		metrics.FilterEvaluationsTotal.WithLabelValues(metrics.StatusValid).Inc()

		return s.clone().withFilter(f, r.engine), nil
	})
}

func (r *repo) ClearFilters(ctx context.Context, id string) (*Session, error) {
	return r.ApplyFilters(ctx, id, nil)
}

func (r *repo) SortBy(ctx context.Context, id string, column string) (*Session, error) {
	return r.update(id, func(s *Session) (*Session, error) {
		st, err := r.engine.SortBy(s.Table, column)
		if err != nil {
			return nil, err
		}
		c := s.clone()
		c.Table = st
		return c, nil
	})
}

func (r *repo) ClearSort(ctx context.Context, id string) (*Session, error) {
	return r.withTable(id, r.engine.ClearSort)
}

func (r *repo) SetPage(ctx context.Context, id string, index int) (*Session, error) {
	return r.withTable(id, func(s table.State) table.State {
		return r.engine.SetPage(s, index)
	})
}

func (r *repo) SetPageSize(ctx context.Context, id string, size int) (*Session, error) {
	return r.withTable(id, func(s table.State) table.State {
		return r.engine.SetPageSize(s, size)
	})
}

func (r *repo) SetSearchTerm(ctx context.Context, id string, term string) (*Session, error) {
	return r.withTable(id, func(s table.State) table.State {
		return r.engine.SetSearchTerm(s, term)
	})
}

// View renders the current page and stores the clamped table state.
// A session whose classification failed with nothing restored has no page
// to render and reports the classifier as unavailable.
func (r *repo) View(ctx context.Context, id string) (*View, error) {
	var view View
	_, err := r.update(id, func(s *Session) (*Session, error) {
		if err := s.unavailable(); err != nil {
			return nil, err
		}
		v, st := r.engine.Render(s.Filtered, s.Table)
		view = View{View: v, Status: s.Status, Error: s.Error}
		if st == s.Table {
			return s, nil
		}
		c := s.clone()
		c.Table = st
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *repo) Options(ctx context.Context, id string) (map[string][]string, error) {
	s, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return filter.Options(s.Records), nil
}

func (r *repo) Mappings(ctx context.Context, id string) ([]mapping.Entry, error) {
	s, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.TaskID == "" {
		return []mapping.Entry{}, nil
	}

	tbl, err := r.mappings.Get(s.TaskID)
	if err != nil {
		return nil, err
	}
	return tbl.Entries(), nil
}

func (r *repo) Export(ctx context.Context, id string, opts export.Options, w io.Writer) error {
	rs, err := r.exportable(ctx, id)
	if err != nil {
		return err
	}
	return export.Write(w, rs, opts)
}

func (r *repo) Publish(ctx context.Context, id string, opts export.Options) (*export.Artifact, error) {
	rs, err := r.exportable(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.publisher.Publish(ctx, id, rs, opts)
}

// exportable returns the filtered, searched and sorted collection without paging.
func (r *repo) exportable(ctx context.Context, id string) ([]records.Record, error) {
	s, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.Terminal() {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotReady, id, s.Status)
	}
	if err := s.unavailable(); err != nil {
		return nil, err
	}
	return r.engine.Resolve(s.Filtered, s.Table), nil
}

func (r *repo) create(source Source, rs []records.Record) *Session {
	f, _ := filter.Compile(nil)
	now := r.now()

	s := &Session{
		ID:         uuid.NewString(),
		Source:     source,
		Conditions: []filter.Condition{},
		Table:      r.engine.NewState(),
		CreatedAt:  now,
		UpdatedAt:  now,
		filter:     f,
	}
	return s.withRecords(rs, r.engine)
}

func (r *repo) insert(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID] = s
	r.order = append(r.order, s.ID)
}

// update replaces the snapshot for id with fn's result. When fn fails the
// current snapshot is left untouched.
func (r *repo) update(id string, fn func(*Session) (*Session, error)) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next, err := fn(s)
	if err != nil {
		return nil, err
	}
	if next != s {
		next.UpdatedAt = r.now()
		r.sessions[id] = next
	}
	return next, nil
}

func (r *repo) withTable(id string, fn func(table.State) table.State) (*Session, error) {
	return r.update(id, func(s *Session) (*Session, error) {
		c := s.clone()
		c.Table = fn(s.Table)
		return c, nil
	})
}
