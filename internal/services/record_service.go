package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"finledger/internal/core"
	"finledger/internal/events"
)

// Pagination bounds for list queries. Windows outside these are
// rejected before any store call.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Store is the narrow record-store interface the service operates
// through. One call, one operation; absence surfaces as the store's
// not-found error, never as a panic.
type Store interface {
	GetItem(ctx context.Context, id int64) (core.Record, error)
	ListItems(ctx context.Context, f core.Filter, skip, limit int) ([]core.Record, error)
	CountItems(ctx context.Context, f core.Filter) (int64, error)
	CreateItem(ctx context.Context, n core.NewRecord) (core.Record, error)
	UpdateItem(ctx context.Context, id int64, p core.Patch) (core.Record, error)
	DeleteItem(ctx context.Context, id int64) error
}

// EventPublisher publishes record mutation events. May be nil when
// eventing is not configured.
type EventPublisher interface {
	PublishRecordEvent(ctx context.Context, id int64, action string) error
	Close() error
}

// RecordService validates payloads, runs queries against the store and
// publishes mutation events.
type RecordService struct {
	store  Store
	events EventPublisher
}

func NewRecordService(store Store, publisher EventPublisher) *RecordService {
	return &RecordService{
		store:  store,
		events: publisher,
	}
}

// Get returns one record by id.
func (s *RecordService) Get(ctx context.Context, id int64) (core.Record, error) {
	return s.store.GetItem(ctx, id)
}

// List returns one page of the filtered record set together with the
// total filtered count. The count ignores the window, so callers can
// page correctly. Page and count queries run concurrently.
func (s *RecordService) List(ctx context.Context, f core.Filter, skip, limit int) ([]core.Record, int64, error) {
	if skip < 0 {
		return nil, 0, core.ValidationErrors{{Field: "skip", Reason: "must be greater than or equal to 0"}}
	}
	if limit < 1 || limit > MaxLimit {
		return nil, 0, core.ValidationErrors{{Field: "limit", Reason: fmt.Sprintf("must be between 1 and %d", MaxLimit)}}
	}

	var (
		items []core.Record
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.store.ListItems(gctx, f, skip, limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.CountItems(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}

	return items, total, nil
}

// Create validates a create payload and persists it. Validation always
// happens before the store is touched.
func (s *RecordService) Create(ctx context.Context, payload core.CreateRecord) (core.Record, error) {
	n, err := payload.Normalize()
	if err != nil {
		return core.Record{}, err
	}

	rec, err := s.store.CreateItem(ctx, n)
	if err != nil {
		return core.Record{}, fmt.Errorf("create record: %w", err)
	}

	s.publish(ctx, rec.ID, events.ActionCreated)
	return rec, nil
}

// Update validates a partial payload and applies only its present
// fields to the stored record.
func (s *RecordService) Update(ctx context.Context, id int64, payload core.RecordPatch) (core.Record, error) {
	patch, err := payload.Normalize()
	if err != nil {
		return core.Record{}, err
	}

	rec, err := s.store.UpdateItem(ctx, id, patch)
	if err != nil {
		return core.Record{}, err
	}

	s.publish(ctx, rec.ID, events.ActionUpdated)
	return rec, nil
}

// Delete removes a record permanently.
func (s *RecordService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteItem(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, id, events.ActionDeleted)
	return nil
}

// publish emits a mutation event. Eventing is best-effort: the record
// mutation already succeeded, so publish failures are logged, not
// returned.
func (s *RecordService) publish(ctx context.Context, id int64, action string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishRecordEvent(ctx, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record event",
			"id", id, "action", action, "error", err)
	}
}

// Close closes the event publisher, if any. The store is owned and
// closed by the caller that opened it.
func (s *RecordService) Close() error {
	if s.events == nil {
		return nil
	}
	if err := s.events.Close(); err != nil {
		return fmt.Errorf("close event publisher: %w", err)
	}
	return nil
}
