package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stableford/internal/audit"
	coursemodels "stableford/internal/course/models"
	handicapmodels "stableford/internal/handicap/models"
	playermodels "stableford/internal/player/models"
	"stableford/internal/round/metrics"
	"stableford/internal/round/models"
	id "stableford/pkg/domain"
	dErrors "stableford/pkg/domain-errors"
	"stableford/pkg/platform/sentinel"
)

// Store persists rounds together with their scores.
type Store interface {
	FindByID(ctx context.Context, roundID id.RoundID) (*models.Round, error)
	Save(ctx context.Context, round *models.Round) error
	ListByPlayer(ctx context.Context, playerID id.PlayerID) ([]*models.Round, error)
	Delete(ctx context.Context, roundID id.RoundID) error
}

type CourseCatalog interface {
	FindCourse(ctx context.Context, courseID id.CourseID) (*coursemodels.Course, error)
	HolesForCourse(ctx context.Context, courseID id.CourseID) ([]coursemodels.Hole, error)
}

// TeeSetProvider is read once, when a round is created.
type TeeSetProvider interface {
	FindTeeSet(ctx context.Context, teeSetID id.TeeSetID) (*coursemodels.TeeSet, error)
}

// HandicapLookup answers which handicap applied to a player on a day.
type HandicapLookup interface {
	OnDate(ctx context.Context, playerID id.PlayerID, d id.Date) (*handicapmodels.Record, error)
	Current(ctx context.Context, playerID id.PlayerID) (*handicapmodels.Record, error)
}

type PlayerDirectory interface {
	FindPlayer(ctx context.Context, playerID id.PlayerID) (*playermodels.Player, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// CreateRequest starts a round.
type CreateRequest struct {
	PlayerID   id.PlayerID
	CourseID   id.CourseID
	TeeSetID   id.TeeSetID
	DatePlayed id.Date
}

// UpdateRequest edits a round's day or overrides its handicap. Nil fields
// are left untouched.
type UpdateRequest struct {
	DatePlayed   *id.Date
	HandicapUsed *float64
}

// HoleScore is one entry of a batch.
type HoleScore struct {
	HoleNumber int
	Strokes    int
}

// Service aggregates scores into rounds.
type Service struct {
	tx       StoreTx
	store    Store
	courses  CourseCatalog
	tees     TeeSetProvider
	players  PlayerDirectory
	handicap HandicapLookup
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

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Dependencies groups the ports a Service reads from.
type Dependencies struct {
	Tx       StoreTx
	Store    Store
	Courses  CourseCatalog
	TeeSets  TeeSetProvider
	Players  PlayerDirectory
	Handicap HandicapLookup
}

func New(deps Dependencies, opts ...Option) (*Service, error) {
	switch {
	case deps.Tx == nil:
		return nil, errors.New("transaction runner is required")
	case deps.Store == nil:
		return nil, errors.New("round store is required")
	case deps.Courses == nil:
		return nil, errors.New("course catalog is required")
	case deps.TeeSets == nil:
		return nil, errors.New("tee set provider is required")
	case deps.Players == nil:
		return nil, errors.New("player directory is required")
	case deps.Handicap == nil:
		return nil, errors.New("handicap lookup is required")
	}
	s := &Service{
		tx:       deps.Tx,
		store:    deps.Store,
		courses:  deps.Courses,
		tees:     deps.TeeSets,
		players:  deps.Players,
		handicap: deps.Handicap,
		logger:   slog.Default(),
		tracer:   otel.Tracer("stableford/round"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateRound stamps the tee rating for the player's gender and the handicap
// valid on the day played. A player with no handicap on that day gets a round
// without a course handicap; FinalizeRound fills it in later.
func (s *Service) CreateRound(ctx context.Context, req CreateRequest) (round *models.Round, err error) {
	ctx, span := s.tracer.Start(ctx, "round.Create", trace.WithAttributes(
		attribute.String("player_id", req.PlayerID.String()),
		attribute.String("course_id", req.CourseID.String()),
	))
	defer func() { endSpan(span, err) }()

	player, err := s.players.FindPlayer(ctx, req.PlayerID)
	if err != nil {
		return nil, translateReadErr(err, "player not found")
	}
	course, err := s.courses.FindCourse(ctx, req.CourseID)
	if err != nil {
		return nil, translateReadErr(err, "course not found")
	}
	tee, err := s.tees.FindTeeSet(ctx, req.TeeSetID)
	if err != nil {
		return nil, translateReadErr(err, "tee set not found")
	}

	played := req.DatePlayed
	if played.IsZero() {
		played = id.DateOf(s.now())
	}
	round, err = models.NewRound(id.NewRoundID(), player.ID, *course, *tee, player.Gender, played, s.now())
	if err != nil {
		return nil, err
	}

	rec, err := s.handicap.OnDate(ctx, player.ID, played)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		if err := round.ApplyHandicap(rec.Value); err != nil {
			return nil, err
		}
	}

	err = s.tx.RunInTx(ctx, round.ID, func(ctx context.Context, store Store) error {
		return translateWriteErr(store.Save(ctx, round), "failed to save round")
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, audit.EventRoundCreated, round,
		"course_id", round.CourseID.String(),
		"tee_set_id", round.TeeSetID.String(),
		"date_played", round.DatePlayed.String(),
	)
	if s.metrics != nil {
		s.metrics.RoundsCreated.Inc()
	}
	return round, nil
}

// GetRound returns a round with its scores.
func (s *Service) GetRound(ctx context.Context, roundID id.RoundID) (*models.Round, error) {
	round, err := s.store.FindByID(ctx, roundID)
	if err != nil {
		return nil, translateReadErr(err, "round not found")
	}
	return round, nil
}

// ListRounds returns a player's rounds, most recently played first.
func (s *Service) ListRounds(ctx context.Context, playerID id.PlayerID) ([]*models.Round, error) {
	rounds, err := s.store.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list rounds")
	}
	return rounds, nil
}

// UpdateRound moves a round to another day or overrides the handicap it is
// scored with. The course handicap comes from the stamped slope; when only the
// day changes it follows the handicap valid on the new day. Every hole is
// rescored and a finalized round is reopened.
func (s *Service) UpdateRound(ctx context.Context, roundID id.RoundID, req UpdateRequest) (round *models.Round, err error) {
	ctx, span := s.tracer.Start(ctx, "round.Update", trace.WithAttributes(
		attribute.String("round_id", roundID.String()),
	))
	defer func() { endSpan(span, err) }()

	if req.DatePlayed == nil && req.HandicapUsed == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "nothing to update")
	}
	if req.HandicapUsed != nil {
		if err := handicapmodels.ValidateValue(*req.HandicapUsed); err != nil {
			return nil, err
		}
	}

	err = s.mutate(ctx, roundID, func(ctx context.Context, r *models.Round) error {
		if req.DatePlayed != nil {
			if err := r.Reschedule(*req.DatePlayed); err != nil {
				return err
			}
		}
		if err := s.restampHandicap(ctx, r, req.HandicapUsed); err != nil {
			return err
		}
		holes, err := s.courses.HolesForCourse(ctx, r.CourseID)
		if err != nil {
			return translateReadErr(err, "course not found")
		}
		return r.Rescore(holes, s.now())
	}, &round)
	if err != nil {
		return nil, err
	}

	attrs := []any{"date_played", round.DatePlayed.String()}
	if round.HandicapUsed != nil {
		attrs = append(attrs, "handicap_used", *round.HandicapUsed)
	}
	s.logAudit(ctx, audit.EventRoundUpdated, round, attrs...)
	if s.metrics != nil {
		s.metrics.RoundsUpdated.Inc()
	}
	return round, nil
}

// restampHandicap applies override when given, else the handicap valid on the
// round's date; with neither the snapshot is cleared.
func (s *Service) restampHandicap(ctx context.Context, r *models.Round, override *float64) error {
	if override != nil {
		return r.ApplyHandicap(*override)
	}
	rec, err := s.handicap.OnDate(ctx, r.PlayerID, r.DatePlayed)
	if err != nil {
		return err
	}
	if rec == nil {
		r.ClearHandicap()
		return nil
	}
	return r.ApplyHandicap(rec.Value)
}

// DeleteRound removes a round together with its scores.
func (s *Service) DeleteRound(ctx context.Context, roundID id.RoundID) (err error) {
	ctx, span := s.tracer.Start(ctx, "round.Delete", trace.WithAttributes(
		attribute.String("round_id", roundID.String()),
	))
	defer func() { endSpan(span, err) }()

	var deleted *models.Round
	err = s.tx.RunInTx(ctx, roundID, func(ctx context.Context, store Store) error {
		round, err := store.FindByID(ctx, roundID)
		if err != nil {
			return translateReadErr(err, "round not found")
		}
		if err := store.Delete(ctx, roundID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "round not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete round")
		}
		deleted = round
		return nil
	})
	if err != nil {
		return err
	}

	s.logAudit(ctx, audit.EventRoundDeleted, deleted, "scores", len(deleted.Scores))
	if s.metrics != nil {
		s.metrics.RoundsDeleted.Inc()
	}
	return nil
}

// RecordScore creates or corrects the score on one hole and returns the round
// with refreshed totals.
func (s *Service) RecordScore(ctx context.Context, roundID id.RoundID, holeNumber, strokes int) (*models.Round, error) {
	return s.RecordScores(ctx, roundID, []HoleScore{{HoleNumber: holeNumber, Strokes: strokes}})
}

// RecordScores applies several hole scores as one change. Either every entry
// is stored or none is.
func (s *Service) RecordScores(ctx context.Context, roundID id.RoundID, entries []HoleScore) (round *models.Round, err error) {
	ctx, span := s.tracer.Start(ctx, "round.RecordScores", trace.WithAttributes(
		attribute.String("round_id", roundID.String()),
		attribute.Int("entries", len(entries)),
	))
	defer func() { endSpan(span, err) }()

	if len(entries) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one score is required")
	}
	seen := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.HoleNumber]; dup {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("hole %d appears twice in one batch", e.HoleNumber))
		}
		seen[e.HoleNumber] = struct{}{}
	}

	err = s.mutate(ctx, roundID, func(ctx context.Context, round *models.Round) error {
		holes, err := s.holesByNumber(ctx, round.CourseID)
		if err != nil {
			return err
		}
		now := s.now()
		for _, e := range entries {
			hole, ok := holes[e.HoleNumber]
			if !ok {
				return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("hole %d not found on course", e.HoleNumber))
			}
			if err := round.RecordScore(hole, e.Strokes, now); err != nil {
				return err
			}
		}
		round.RecalculateTotals()
		return nil
	}, &round)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		s.logAudit(ctx, audit.EventScoreRecorded, round,
			"hole_number", e.HoleNumber,
			"strokes", e.Strokes,
		)
	}
	if s.metrics != nil {
		s.metrics.ScoresRecorded.Add(float64(len(entries)))
	}
	return round, nil
}

// DeleteScore removes the score on one hole and refreshes totals.
func (s *Service) DeleteScore(ctx context.Context, roundID id.RoundID, holeNumber int) (*models.Round, error) {
	var round *models.Round
	err := s.mutate(ctx, roundID, func(_ context.Context, r *models.Round) error {
		return r.RemoveScore(holeNumber, s.now())
	}, &round)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, audit.EventScoreDeleted, round, "hole_number", holeNumber)
	if s.metrics != nil {
		s.metrics.ScoresDeleted.Inc()
	}
	return round, nil
}

// FinalizeRound stamps the course handicap from the player's current handicap
// when the round has none, recomputes every hole's points and the totals.
// Calling it again without score changes returns the same round.
func (s *Service) FinalizeRound(ctx context.Context, roundID id.RoundID) (round *models.Round, err error) {
	ctx, span := s.tracer.Start(ctx, "round.Finalize", trace.WithAttributes(
		attribute.String("round_id", roundID.String()),
	))
	defer func() { endSpan(span, err) }()

	err = s.mutate(ctx, roundID, func(ctx context.Context, r *models.Round) error {
		if r.CourseHandicap == nil {
			current, err := s.handicap.Current(ctx, r.PlayerID)
			if err != nil {
				return err
			}
			if current != nil {
				if err := r.ApplyHandicap(current.Value); err != nil {
					return err
				}
			}
		}
		holes, err := s.courses.HolesForCourse(ctx, r.CourseID)
		if err != nil {
			return translateReadErr(err, "course not found")
		}
		return r.Finalize(holes, s.now())
	}, &round)
	if err != nil {
		return nil, err
	}

	attrs := []any{"status", string(round.Status())}
	if round.TotalPoints != nil {
		attrs = append(attrs, "total_points", *round.TotalPoints)
	}
	s.logAudit(ctx, audit.EventRoundFinalized, round, attrs...)
	if s.metrics != nil {
		s.metrics.RoundsFinalized.Inc()
		if round.TotalPoints != nil {
			s.metrics.StablefordTotal.Observe(float64(*round.TotalPoints))
		}
	}
	return round, nil
}

// PlayerStats summarizes every round the player has started.
func (s *Service) PlayerStats(ctx context.Context, playerID id.PlayerID) (models.Stats, error) {
	if _, err := s.players.FindPlayer(ctx, playerID); err != nil {
		return models.Stats{}, translateReadErr(err, "player not found")
	}
	rounds, err := s.store.ListByPlayer(ctx, playerID)
	if err != nil {
		return models.Stats{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list rounds")
	}
	return models.Summarize(rounds), nil
}

// mutate loads a round inside its unit of work, applies fn and saves the
// result. out receives the saved round.
func (s *Service) mutate(ctx context.Context, roundID id.RoundID, fn func(ctx context.Context, round *models.Round) error, out **models.Round) error {
	return s.tx.RunInTx(ctx, roundID, func(ctx context.Context, store Store) error {
		round, err := store.FindByID(ctx, roundID)
		if err != nil {
			return translateReadErr(err, "round not found")
		}
		if err := fn(ctx, round); err != nil {
			return err
		}
		if err := store.Save(ctx, round); err != nil {
			return translateWriteErr(err, "failed to save round")
		}
		*out = round
		return nil
	})
}

func (s *Service) holesByNumber(ctx context.Context, courseID id.CourseID) (map[int]coursemodels.Hole, error) {
	holes, err := s.courses.HolesForCourse(ctx, courseID)
	if err != nil {
		return nil, translateReadErr(err, "course not found")
	}
	byNumber := make(map[int]coursemodels.Hole, len(holes))
	for _, h := range holes {
		byNumber[h.Number] = h
	}
	return byNumber, nil
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, round *models.Round, attributes ...any) {
	args := append(attributes,
		"round_id", round.ID.String(),
		"player_id", round.PlayerID.String(),
		"event", string(event),
		"log_type", "audit",
	)
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event), args...)
	}
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, audit.Event{
		PlayerID: round.PlayerID,
		Subject:  round.ID.String(),
		Action:   string(event),
	}); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}

func translateReadErr(err error, notFound string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFound)
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read from store")
}

func translateWriteErr(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrDuplicate):
		return dErrors.Wrap(err, dErrors.CodeInvariantViolation, "duplicate score for hole")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "concurrent round change, retry")
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "referenced player, course or tee set not found")
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
