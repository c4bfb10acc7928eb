package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"stableford/internal/audit"
	"stableford/internal/handicap/metrics"
	"stableford/internal/handicap/models"
	playermodels "stableford/internal/player/models"
	id "stableford/pkg/domain"
	dErrors "stableford/pkg/domain-errors"
	"stableford/pkg/platform/sentinel"
)

// Store is the handicap record repository. ListByPlayer returns records in
// ascending Start order. SaveRecords upserts all records as one write.
type Store interface {
	ListByPlayer(ctx context.Context, playerID id.PlayerID) ([]*models.Record, error)
	FindByID(ctx context.Context, recordID id.HandicapRecordID) (*models.Record, error)
	SaveRecords(ctx context.Context, records []*models.Record) error
	DeleteRecords(ctx context.Context, recordIDs []id.HandicapRecordID) error
}

type PlayerDirectory interface {
	FindPlayer(ctx context.Context, playerID id.PlayerID) (*playermodels.Player, error)
}

// CurrentCache holds each player's open record. Get returns
// sentinel.ErrNotFound on a miss.
type CurrentCache interface {
	Get(ctx context.Context, playerID id.PlayerID) (*models.Record, error)
	Set(ctx context.Context, record *models.Record) error
	Invalidate(ctx context.Context, playerID id.PlayerID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// InsertRequest carries a new handicap submission.
type InsertRequest struct {
	PlayerID id.PlayerID
	Value    float64
	Start    id.Date
	Reason   string
	AuthorID id.PlayerID
}

// InsertResult reports both the inserted record and the record that is current
// afterwards. They differ when a later-dated record already existed.
type InsertResult struct {
	Inserted *models.Record
	Current  *models.Record
}

// UpdateRequest edits fields that never change the shape of the timeline.
type UpdateRequest struct {
	Value  *float64
	Reason *string
}

// Service maintains each player's handicap timeline.
type Service struct {
	tx       StoreTx
	store    Store
	players  PlayerDirectory
	cache    CurrentCache
	loads    singleflight.Group
	stale    sync.Map // id.PlayerID -> generation of the failed invalidation
	staleGen atomic.Uint64
	logger   *slog.Logger
	audit    AuditPublisher
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	now      func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.audit = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCurrentCache enables a read-through cache for Current.
func WithCurrentCache(cache CurrentCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithClock overrides time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New constructs a Service. store is used for reads outside a transaction;
// mutations go through tx.
func New(tx StoreTx, store Store, players PlayerDirectory, opts ...Option) (*Service, error) {
	if tx == nil {
		return nil, errors.New("transaction runner is required")
	}
	if store == nil {
		return nil, errors.New("handicap store is required")
	}
	if players == nil {
		return nil, errors.New("player directory is required")
	}
	s := &Service{
		tx:      tx,
		store:   store,
		players: players,
		logger:  slog.Default(),
		tracer:  otel.Tracer("stableford/handicap"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Insert splices a new record into the player's timeline and returns the
// record that is current afterwards.
func (s *Service) Insert(ctx context.Context, req InsertRequest) (result *InsertResult, err error) {
	ctx, span := s.tracer.Start(ctx, "handicap.Insert", trace.WithAttributes(
		attribute.String("player_id", req.PlayerID.String()),
		attribute.String("start", req.Start.String()),
	))
	defer func() { endSpan(span, err) }()
	start := s.now()

	if err := models.ValidateValue(req.Value); err != nil {
		return nil, err
	}
	if err := s.requirePlayer(ctx, req.PlayerID); err != nil {
		return nil, err
	}

	rec, err := models.NewRecord(id.NewHandicapRecordID(), req.PlayerID, req.AuthorID, req.Value, req.Start, req.Reason, s.now())
	if err != nil {
		return nil, err
	}

	var splice models.Splice
	var current *models.Record
	err = s.tx.RunInTx(ctx, req.PlayerID, func(ctx context.Context, store Store) error {
		timeline, err := loadTimeline(ctx, store, req.PlayerID)
		if err != nil {
			return err
		}
		splice, err = timeline.Insert(rec)
		if err != nil {
			return err
		}
		if err := timeline.Validate(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInvariantViolation, "handicap history is inconsistent")
		}
		if splice.Superseded != nil {
			if err := store.DeleteRecords(ctx, []id.HandicapRecordID{splice.Superseded.ID}); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove superseded handicap record")
			}
		}
		if err := store.SaveRecords(ctx, splice.Changed()); err != nil {
			return translateWriteErr(err, "failed to save handicap records")
		}
		current = timeline.Current()
		s.invalidate(ctx, req.PlayerID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, audit.EventHandicapInserted, req.PlayerID, req.AuthorID, rec.Reason,
		"record_id", rec.ID.String(),
		"value", rec.Value,
		"start", rec.Start.String(),
	)
	if splice.Superseded != nil {
		s.logAudit(ctx, audit.EventHandicapSuperseded, req.PlayerID, req.AuthorID, "same start date",
			"record_id", splice.Superseded.ID.String(),
		)
	}
	s.observeInsert(start, splice)

	return &InsertResult{Inserted: splice.Inserted, Current: current}, nil
}

// SetInitial records a player's first handicap. It fails with CodeConflict if
// the player already has history.
func (s *Service) SetInitial(ctx context.Context, playerID id.PlayerID, value float64, authorID id.PlayerID, start *id.Date) (*InsertResult, error) {
	records, err := s.store.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load handicap history")
	}
	if len(records) > 0 {
		return nil, dErrors.New(dErrors.CodeConflict, "player already has handicap entries")
	}
	day := id.DateOf(s.now())
	if start != nil {
		day = *start
	}
	return s.Insert(ctx, InsertRequest{
		PlayerID: playerID,
		Value:    value,
		Start:    day,
		Reason:   models.ReasonInitial,
		AuthorID: authorID,
	})
}

// Current returns the player's open record, or nil when there is none.
// Cache fills happen under the same per-player unit of work as mutations, so
// a fill never writes back a record that a concurrent mutation replaced.
func (s *Service) Current(ctx context.Context, playerID id.PlayerID) (*models.Record, error) {
	useCache := s.cacheUsable(ctx, playerID)
	if useCache {
		cached, err := s.cache.Get(ctx, playerID)
		switch {
		case err == nil:
			s.countCache("hit")
			return cached, nil
		case errors.Is(err, sentinel.ErrNotFound):
			s.countCache("miss")
		default:
			s.countCache("error")
			s.logger.WarnContext(ctx, "current handicap cache unavailable", "player_id", playerID.String(), "error", err)
		}
	}

	v, err, _ := s.loads.Do(playerID.String(), func() (any, error) {
		var current *models.Record
		err := s.tx.RunInTx(ctx, playerID, func(ctx context.Context, store Store) error {
			timeline, err := loadTimeline(ctx, store, playerID)
			if err != nil {
				return err
			}
			current = timeline.Current()
			if current != nil && useCache {
				if err := s.cache.Set(ctx, current); err != nil {
					s.logger.WarnContext(ctx, "failed to cache current handicap", "player_id", playerID.String(), "error", err)
				}
			}
			return nil
		})
		return current, err
	})
	if err != nil {
		return nil, err
	}
	current, _ := v.(*models.Record)
	if current == nil {
		return nil, nil
	}
	return current.Clone(), nil
}

// OnDate returns the record valid on d, or nil.
func (s *Service) OnDate(ctx context.Context, playerID id.PlayerID, d id.Date) (*models.Record, error) {
	timeline, err := loadTimeline(ctx, s.store, playerID)
	if err != nil {
		return nil, err
	}
	return timeline.OnDate(d), nil
}

// History returns the player's records, most recent first.
func (s *Service) History(ctx context.Context, playerID id.PlayerID) ([]*models.Record, error) {
	timeline, err := loadTimeline(ctx, s.store, playerID)
	if err != nil {
		return nil, err
	}
	records := timeline.Records()
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// Update edits a record's value or reason in place.
func (s *Service) Update(ctx context.Context, recordID id.HandicapRecordID, req UpdateRequest) (*models.Record, error) {
	existing, err := s.findRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}

	var updated *models.Record
	err = s.tx.RunInTx(ctx, existing.PlayerID, func(ctx context.Context, store Store) error {
		rec, err := store.FindByID(ctx, recordID)
		if err != nil {
			return translateReadErr(err, "handicap record not found")
		}
		if err := rec.ApplyEdit(req.Value, req.Reason, s.now()); err != nil {
			return err
		}
		if err := store.SaveRecords(ctx, []*models.Record{rec}); err != nil {
			return translateWriteErr(err, "failed to update handicap record")
		}
		updated = rec
		s.invalidate(ctx, existing.PlayerID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, audit.EventHandicapUpdated, existing.PlayerID, id.PlayerID{}, updated.Reason,
		"record_id", recordID.String(),
		"value", updated.Value,
	)
	return updated, nil
}

// Delete removes a record. The player's remaining history is re-stitched so
// the interval the record covered passes to its predecessor.
func (s *Service) Delete(ctx context.Context, recordID id.HandicapRecordID) (err error) {
	ctx, span := s.tracer.Start(ctx, "handicap.Delete", trace.WithAttributes(
		attribute.String("record_id", recordID.String()),
	))
	defer func() { endSpan(span, err) }()

	existing, err := s.findRecord(ctx, recordID)
	if err != nil {
		return err
	}

	var removal models.Removal
	err = s.tx.RunInTx(ctx, existing.PlayerID, func(ctx context.Context, store Store) error {
		timeline, err := loadTimeline(ctx, store, existing.PlayerID)
		if err != nil {
			return err
		}
		removal, err = timeline.Remove(recordID, s.now())
		if err != nil {
			return err
		}
		if err := store.DeleteRecords(ctx, []id.HandicapRecordID{recordID}); err != nil {
			return translateWriteErr(err, "failed to delete handicap record")
		}
		if removal.Stitched != nil {
			if err := store.SaveRecords(ctx, []*models.Record{removal.Stitched}); err != nil {
				return translateWriteErr(err, "failed to re-stitch handicap history")
			}
		}
		s.invalidate(ctx, existing.PlayerID)
		return nil
	})
	if err != nil {
		return err
	}

	attrs := []any{"record_id", recordID.String()}
	if removal.Stitched != nil {
		attrs = append(attrs, "stitched_record_id", removal.Stitched.ID.String())
	}
	s.logAudit(ctx, audit.EventHandicapDeleted, existing.PlayerID, id.PlayerID{}, "", attrs...)
	if s.metrics != nil {
		s.metrics.RecordsDeleted.Inc()
	}
	return nil
}

func (s *Service) requirePlayer(ctx context.Context, playerID id.PlayerID) error {
	if playerID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "player is required")
	}
	if _, err := s.players.FindPlayer(ctx, playerID); err != nil {
		return translateReadErr(err, "player not found")
	}
	return nil
}

func (s *Service) findRecord(ctx context.Context, recordID id.HandicapRecordID) (*models.Record, error) {
	rec, err := s.store.FindByID(ctx, recordID)
	if err != nil {
		return nil, translateReadErr(err, "handicap record not found")
	}
	return rec, nil
}

// invalidate drops the player's cached record. Callers hold the player's unit
// of work. A failed drop marks the player stale so Current bypasses the cache
// until a later drop succeeds.
func (s *Service) invalidate(ctx context.Context, playerID id.PlayerID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, playerID); err != nil {
		s.stale.Store(playerID, s.staleGen.Add(1))
		s.logger.WarnContext(ctx, "failed to invalidate current handicap cache", "player_id", playerID.String(), "error", err)
	}
}

// cacheUsable reports whether Current may read and fill the cache for the
// player, retrying a pending invalidation first.
func (s *Service) cacheUsable(ctx context.Context, playerID id.PlayerID) bool {
	if s.cache == nil {
		return false
	}
	gen, pending := s.stale.Load(playerID)
	if !pending {
		return true
	}
	if err := s.cache.Invalidate(ctx, playerID); err != nil {
		s.countCache("stale")
		return false
	}
	s.stale.CompareAndDelete(playerID, gen)
	return true
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, playerID, actorID id.PlayerID, reason string, attributes ...any) {
	args := append(attributes, "player_id", playerID.String(), "event", string(event), "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event), args...)
	}
	if s.audit == nil {
		return
	}
	e := audit.Event{
		PlayerID: playerID,
		Subject:  playerID.String(),
		Action:   string(event),
		Reason:   reason,
	}
	if !actorID.IsNil() {
		e.ActorID = actorID.String()
	}
	if err := s.audit.Emit(ctx, e); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}

func (s *Service) observeInsert(start time.Time, splice models.Splice) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordsInserted.Inc()
	if splice.Superseded != nil {
		s.metrics.RecordsSuperseded.Inc()
	}
	s.metrics.ObserveInsert(start)
}

func (s *Service) countCache(result string) {
	if s.metrics != nil {
		s.metrics.CacheLookups.WithLabelValues(result).Inc()
	}
}

func loadTimeline(ctx context.Context, store Store, playerID id.PlayerID) (*models.Timeline, error) {
	records, err := store.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load handicap history")
	}
	return models.NewTimeline(playerID, records), nil
}

func translateReadErr(err error, notFound string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFound)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read from store")
}

func translateWriteErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.Wrap(err, dErrors.CodeConflict, "concurrent handicap change, retry")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	span.End()
}
