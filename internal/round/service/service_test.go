package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,CourseCatalog,TeeSetProvider,HandicapLookup,PlayerDirectory,AuditPublisher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"stableford/internal/audit"
	coursemodels "stableford/internal/course/models"
	coursestore "stableford/internal/course/store"
	handicapmodels "stableford/internal/handicap/models"
	handicapservice "stableford/internal/handicap/service"
	"stableford/internal/handicap/store/record"
	playermodels "stableford/internal/player/models"
	playerstore "stableford/internal/player/store"
	"stableford/internal/round/metrics"
	"stableford/internal/round/models"
	"stableford/internal/round/service/mocks"
	"stableford/internal/round/store"
	id "stableford/pkg/domain"
	dErrors "stableford/pkg/domain-errors"
	"stableford/pkg/platform/sentinel"
)

// =============================================================================
// Round Service Suite (in-memory stores, real handicap service)
// =============================================================================
// Justification for these tests: rounds read their handicap snapshot from the
// timeline engine, so the two services are exercised together through their
// public operations.

type RoundServiceSuite struct {
	suite.Suite
	store    *store.InMemoryStore
	courses  *coursestore.InMemory
	players  *playerstore.InMemory
	audit    *audit.InMemoryStore
	metrics  *metrics.Metrics
	handicap *handicapservice.Service
	service  *Service
	player   id.PlayerID
	course   coursemodels.Course
	tee      coursemodels.TeeSet
	now      time.Time
}

func TestRoundServiceSuite(t *testing.T) {
	suite.Run(t, new(RoundServiceSuite))
}

func (s *RoundServiceSuite) SetupTest() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.now = time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)
	s.store = store.NewInMemoryStore()
	s.courses = coursestore.NewInMemory()
	s.players = playerstore.NewInMemory()
	s.audit = audit.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())

	s.player = id.NewPlayerID()
	s.Require().NoError(s.players.Save(ctx, &playermodels.Player{ID: s.player, Name: "Ben", Gender: playermodels.GenderMale}))

	s.course = coursemodels.Course{ID: id.NewCourseID(), Name: "Links", HolesCount: 18}
	holes := make([]coursemodels.Hole, 18)
	for i := range holes {
		holes[i] = coursemodels.Hole{CourseID: s.course.ID, Number: i + 1, Par: 4, StrokeIndex: i + 1}
	}
	s.Require().NoError(s.courses.SaveCourse(ctx, s.course, holes))
	s.tee = coursemodels.TeeSet{
		ID:       id.NewTeeSetID(),
		CourseID: s.course.ID,
		Name:     "White",
		Men:      coursemodels.Rating{CourseRating: 72.0, SlopeRating: 113},
	}
	s.Require().NoError(s.courses.SaveTeeSet(ctx, s.tee))

	records := record.NewInMemoryStore()
	hc, err := handicapservice.New(handicapservice.NewShardedTx(records, time.Second), records, s.players,
		handicapservice.WithLogger(logger),
	)
	s.Require().NoError(err)
	s.handicap = hc

	svc, err := New(Dependencies{
		Tx:       NewShardedTx(s.store, time.Second),
		Store:    s.store,
		Courses:  s.courses,
		TeeSets:  s.courses,
		Players:  s.players,
		Handicap: s.handicap,
	},
		WithLogger(logger),
		WithAuditPublisher(audit.NewPublisher(s.audit)),
		WithMetrics(s.metrics),
		WithClock(func() time.Time { return s.now }),
	)
	s.Require().NoError(err)
	s.service = svc
}

func (s *RoundServiceSuite) setHandicap(value float64, start id.Date) {
	_, err := s.handicap.Insert(context.Background(), handicapservice.InsertRequest{
		PlayerID: s.player,
		Value:    value,
		Start:    start,
	})
	s.Require().NoError(err)
}

func (s *RoundServiceSuite) createRound(played id.Date) *models.Round {
	r, err := s.service.CreateRound(context.Background(), CreateRequest{
		PlayerID:   s.player,
		CourseID:   s.course.ID,
		TeeSetID:   s.tee.ID,
		DatePlayed: played,
	})
	s.Require().NoError(err)
	return r
}

func (s *RoundServiceSuite) fullCard(strokes int) []HoleScore {
	entries := make([]HoleScore, 18)
	for i := range entries {
		entries[i] = HoleScore{HoleNumber: i + 1, Strokes: strokes}
	}
	return entries
}

func (s *RoundServiceSuite) TestCreateRoundUsesHandicapValidOnDatePlayed() {
	s.setHandicap(18.0, id.NewDate(2024, time.January, 1))
	s.setHandicap(10.0, id.NewDate(2024, time.June, 1))

	r := s.createRound(id.NewDate(2024, time.March, 1))

	s.Require().NotNil(r.HandicapUsed)
	s.Equal(18.0, *r.HandicapUsed)
	s.Equal(18, *r.CourseHandicap)
	s.Equal(72.0, r.Ratings.CourseRating)
	s.Equal(models.StatusDraft, r.Status())

	stored, err := s.service.GetRound(context.Background(), r.ID)
	s.Require().NoError(err)
	s.Equal(r.ID, stored.ID)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.RoundsCreated))
}

func (s *RoundServiceSuite) TestCreateRoundReferences() {
	ctx := context.Background()

	s.Run("unknown player", func() {
		_, err := s.service.CreateRound(ctx, CreateRequest{PlayerID: id.NewPlayerID(), CourseID: s.course.ID, TeeSetID: s.tee.ID})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unknown course", func() {
		_, err := s.service.CreateRound(ctx, CreateRequest{PlayerID: s.player, CourseID: id.NewCourseID(), TeeSetID: s.tee.ID})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("tee set of another course", func() {
		other := coursemodels.Course{ID: id.NewCourseID(), Name: "Parkland", HolesCount: 9}
		s.Require().NoError(s.courses.SaveCourse(ctx, other, nil))
		foreign := coursemodels.TeeSet{ID: id.NewTeeSetID(), CourseID: other.ID, Name: "Red", Men: coursemodels.Rating{CourseRating: 34.0, SlopeRating: 110}}
		s.Require().NoError(s.courses.SaveTeeSet(ctx, foreign))

		_, err := s.service.CreateRound(ctx, CreateRequest{PlayerID: s.player, CourseID: s.course.ID, TeeSetID: foreign.ID})
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("date defaults to today", func() {
		r := s.createRound(id.Date{})
		s.Equal(id.DateOf(s.now), r.DatePlayed)
	})
}

func (s *RoundServiceSuite) TestRecordScoresRefreshesTotals() {
	s.setHandicap(18.0, id.NewDate(2024, time.January, 1))
	r := s.createRound(id.NewDate(2024, time.March, 1))

	updated, err := s.service.RecordScores(context.Background(), r.ID, s.fullCard(5))
	s.Require().NoError(err)

	s.Equal(models.StatusComplete, updated.Status())
	s.Equal(90, *updated.TotalStrokes)
	s.Equal(36, *updated.TotalPoints)
	s.Equal(18.0, *updated.Differential)
	s.Equal(18.0, testutil.ToFloat64(s.metrics.ScoresRecorded))

	corrected, err := s.service.RecordScore(context.Background(), r.ID, 1, 4)
	s.Require().NoError(err)
	s.Len(corrected.Scores, 18)
	s.Equal(89, *corrected.TotalStrokes)
	s.Equal(37, *corrected.TotalPoints)
}

func (s *RoundServiceSuite) TestRecordScoresIsAllOrNothing() {
	ctx := context.Background()
	r := s.createRound(id.NewDate(2024, time.March, 1))

	s.Run("unknown hole", func() {
		_, err := s.service.RecordScores(ctx, r.ID, []HoleScore{{HoleNumber: 1, Strokes: 4}, {HoleNumber: 19, Strokes: 4}})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("strokes out of range", func() {
		_, err := s.service.RecordScores(ctx, r.ID, []HoleScore{{HoleNumber: 1, Strokes: 4}, {HoleNumber: 2, Strokes: 0}})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("hole twice in a batch", func() {
		_, err := s.service.RecordScores(ctx, r.ID, []HoleScore{{HoleNumber: 3, Strokes: 4}, {HoleNumber: 3, Strokes: 5}})
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("empty batch", func() {
		_, err := s.service.RecordScores(ctx, r.ID, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	stored, err := s.service.GetRound(ctx, r.ID)
	s.Require().NoError(err)
	s.Empty(stored.Scores)
	s.Nil(stored.TotalStrokes)
}

func (s *RoundServiceSuite) TestRecordScoreUnknownRound() {
	_, err := s.service.RecordScore(context.Background(), id.NewRoundID(), 1, 4)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *RoundServiceSuite) TestDeleteScore() {
	ctx := context.Background()
	r := s.createRound(id.NewDate(2024, time.March, 1))
	_, err := s.service.RecordScores(ctx, r.ID, s.fullCard(4))
	s.Require().NoError(err)

	updated, err := s.service.DeleteScore(ctx, r.ID, 18)
	s.Require().NoError(err)
	s.Len(updated.Scores, 17)
	s.Equal(68, *updated.TotalStrokes)
	s.Equal(models.StatusDraft, updated.Status())

	_, err = s.service.DeleteScore(ctx, r.ID, 18)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *RoundServiceSuite) TestFinalizeUsesCurrentHandicapWhenMissing() {
	ctx := context.Background()
	r := s.createRound(id.NewDate(2024, time.March, 1))
	s.Nil(r.CourseHandicap)

	scored, err := s.service.RecordScores(ctx, r.ID, s.fullCard(5))
	s.Require().NoError(err)
	s.Nil(scored.TotalPoints, "no points without a course handicap")

	s.setHandicap(18.0, id.NewDate(2024, time.June, 1))

	final, err := s.service.FinalizeRound(ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusFinalized, final.Status())
	s.Equal(18, *final.CourseHandicap)
	s.Equal(36, *final.TotalPoints)
	for _, score := range final.Scores {
		s.Require().NotNil(score.Points)
		s.Equal(2, *score.Points)
	}

	s.now = s.now.Add(time.Hour)
	again, err := s.service.FinalizeRound(ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(*final.FinalizedAt, *again.FinalizedAt)
	s.Equal(*final.TotalPoints, *again.TotalPoints)
	s.Equal(final.Scores, again.Scores)
}

func (s *RoundServiceSuite) TestFinalizeWithoutAnyHandicap() {
	ctx := context.Background()
	r := s.createRound(id.NewDate(2024, time.March, 1))
	_, err := s.service.RecordScores(ctx, r.ID, s.fullCard(4))
	s.Require().NoError(err)

	final, err := s.service.FinalizeRound(ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusFinalized, final.Status())
	s.Nil(final.TotalPoints)
	s.Equal(72, *final.TotalStrokes)
}

func (s *RoundServiceSuite) TestListRoundsAndStats() {
	ctx := context.Background()
	s.setHandicap(18.0, id.NewDate(2024, time.January, 1))

	early := s.createRound(id.NewDate(2024, time.March, 1))
	_, err := s.service.RecordScores(ctx, early.ID, s.fullCard(5))
	s.Require().NoError(err)

	late := s.createRound(id.NewDate(2024, time.May, 1))
	_, err = s.service.RecordScores(ctx, late.ID, s.fullCard(4))
	s.Require().NoError(err)

	draft := s.createRound(id.NewDate(2024, time.June, 1))
	_, err = s.service.RecordScore(ctx, draft.ID, 1, 3)
	s.Require().NoError(err)

	rounds, err := s.service.ListRounds(ctx, s.player)
	s.Require().NoError(err)
	s.Require().Len(rounds, 3)
	s.Equal(draft.ID, rounds[0].ID)
	s.Equal(early.ID, rounds[2].ID)

	stats, err := s.service.PlayerStats(ctx, s.player)
	s.Require().NoError(err)
	s.Equal(3, stats.TotalRounds)
	s.Equal(2, stats.CompletedRounds)
	s.Equal(81.0, *stats.AverageScore)
	s.Equal(72, *stats.BestScore)
	s.Equal(0.0, *stats.LatestDifferential)

	_, err = s.service.PlayerStats(ctx, id.NewPlayerID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *RoundServiceSuite) TestUpdateRoundHandicapOverride() {
	ctx := context.Background()
	s.setHandicap(18.0, id.NewDate(2024, time.January, 1))
	r := s.createRound(id.NewDate(2024, time.March, 1))
	_, err := s.service.RecordScores(ctx, r.ID, s.fullCard(5))
	s.Require().NoError(err)
	r, err = s.service.FinalizeRound(ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(36, *r.TotalPoints)

	override := 0.0
	updated, err := s.service.UpdateRound(ctx, r.ID, UpdateRequest{HandicapUsed: &override})
	s.Require().NoError(err)
	s.Equal(0.0, *updated.HandicapUsed)
	s.Equal(0, *updated.CourseHandicap)
	s.Equal(18, *updated.TotalPoints)
	s.Equal(1, *updated.Scores[0].Points)
	s.Equal(90, *updated.TotalStrokes)
	s.Nil(updated.FinalizedAt)
	s.Equal(models.StatusComplete, updated.Status())

	stored, err := s.service.GetRound(ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(updated.TotalPoints, stored.TotalPoints)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.RoundsUpdated))
}

func (s *RoundServiceSuite) TestUpdateRoundDateFollowsTimeline() {
	ctx := context.Background()
	s.setHandicap(18.0, id.NewDate(2024, time.January, 1))
	s.setHandicap(10.0, id.NewDate(2024, time.June, 1))
	r := s.createRound(id.NewDate(2024, time.March, 1))
	_, err := s.service.RecordScore(ctx, r.ID, 1, 4)
	s.Require().NoError(err)

	s.Run("moved into a later handicap period", func() {
		june := id.NewDate(2024, time.June, 15)
		updated, err := s.service.UpdateRound(ctx, r.ID, UpdateRequest{DatePlayed: &june})
		s.Require().NoError(err)
		s.Equal(june, updated.DatePlayed)
		s.Equal(10.0, *updated.HandicapUsed)
		s.Equal(10, *updated.CourseHandicap)
		// SI 1 receives a stroke: net 3 on a par 4.
		s.Equal(3, *updated.TotalPoints)
	})

	s.Run("moved before any handicap", func() {
		early := id.NewDate(2023, time.December, 1)
		updated, err := s.service.UpdateRound(ctx, r.ID, UpdateRequest{DatePlayed: &early})
		s.Require().NoError(err)
		s.Nil(updated.HandicapUsed)
		s.Nil(updated.CourseHandicap)
		s.Nil(updated.TotalPoints)
		s.Equal(4, *updated.TotalStrokes)
	})

	s.Run("override wins over the new date", func() {
		june := id.NewDate(2024, time.June, 15)
		override := 18.0
		updated, err := s.service.UpdateRound(ctx, r.ID, UpdateRequest{DatePlayed: &june, HandicapUsed: &override})
		s.Require().NoError(err)
		s.Equal(18, *updated.CourseHandicap)
	})
}

func (s *RoundServiceSuite) TestUpdateRoundValidation() {
	ctx := context.Background()
	r := s.createRound(id.NewDate(2024, time.March, 1))
	tooHigh := 60.0
	zero := id.Date{}

	cases := map[string]struct {
		roundID id.RoundID
		req     UpdateRequest
		code    dErrors.Code
	}{
		"nothing to change": {roundID: r.ID, req: UpdateRequest{}, code: dErrors.CodeValidation},
		"handicap too high": {roundID: r.ID, req: UpdateRequest{HandicapUsed: &tooHigh}, code: dErrors.CodeValidation},
		"missing date":      {roundID: r.ID, req: UpdateRequest{DatePlayed: &zero}, code: dErrors.CodeValidation},
		"unknown round":     {roundID: id.NewRoundID(), req: UpdateRequest{DatePlayed: &r.DatePlayed}, code: dErrors.CodeNotFound},
	}
	for name, tc := range cases {
		s.Run(name, func() {
			_, err := s.service.UpdateRound(ctx, tc.roundID, tc.req)
			s.True(dErrors.HasCode(err, tc.code), "got %v", err)
		})
	}
}

func (s *RoundServiceSuite) TestDeleteRound() {
	ctx := context.Background()
	kept := s.createRound(id.NewDate(2024, time.March, 1))
	r := s.createRound(id.NewDate(2024, time.March, 8))
	_, err := s.service.RecordScores(ctx, r.ID, s.fullCard(4))
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteRound(ctx, r.ID))

	_, err = s.service.GetRound(ctx, r.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	rounds, err := s.service.ListRounds(ctx, s.player)
	s.Require().NoError(err)
	s.Require().Len(rounds, 1)
	s.Equal(kept.ID, rounds[0].ID)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.RoundsDeleted))

	events, err := s.audit.ListByPlayer(ctx, s.player)
	s.Require().NoError(err)
	last := events[len(events)-1]
	s.Equal(string(audit.EventRoundDeleted), last.Action)
	s.Equal(r.ID.String(), last.Subject)

	err = s.service.DeleteRound(ctx, r.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *RoundServiceSuite) TestAuditTrail() {
	ctx := context.Background()
	r := s.createRound(id.NewDate(2024, time.March, 1))
	_, err := s.service.RecordScore(ctx, r.ID, 1, 4)
	s.Require().NoError(err)
	_, err = s.service.DeleteScore(ctx, r.ID, 1)
	s.Require().NoError(err)
	_, err = s.service.FinalizeRound(ctx, r.ID)
	s.Require().NoError(err)

	events, err := s.audit.ListByPlayer(ctx, s.player)
	s.Require().NoError(err)
	actions := make([]string, len(events))
	for i, e := range events {
		actions[i] = e.Action
		s.Equal(audit.CategoryScoring, e.Category)
		s.Equal(r.ID.String(), e.Subject)
	}
	s.Equal([]string{
		string(audit.EventRoundCreated),
		string(audit.EventScoreRecorded),
		string(audit.EventScoreDeleted),
		string(audit.EventRoundFinalized),
	}, actions)
}

func (s *RoundServiceSuite) TestConcurrentScoreEntryOnOneRound() {
	ctx := context.Background()
	r := s.createRound(id.NewDate(2024, time.March, 1))

	var wg sync.WaitGroup
	errs := make(chan error, 18)
	for hole := 1; hole <= 18; hole++ {
		wg.Add(1)
		go func(hole int) {
			defer wg.Done()
			if _, err := s.service.RecordScore(ctx, r.ID, hole, 4); err != nil {
				errs <- err
			}
		}(hole)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.NoError(err)
	}

	stored, err := s.service.GetRound(ctx, r.ID)
	s.Require().NoError(err)
	s.Len(stored.Scores, 18)
	s.Equal(72, *stored.TotalStrokes)
	s.True(stored.IsComplete())
}

// =============================================================================
// Port Interaction Suite (gomock)
// =============================================================================
// Justification for these tests: store and lookup failures must surface as
// domain error codes, and audit failures must never fail a write.

type PortInteractionSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	store    *mocks.MockStore
	courses  *mocks.MockCourseCatalog
	tees     *mocks.MockTeeSetProvider
	handicap *mocks.MockHandicapLookup
	players  *mocks.MockPlayerDirectory
	audit    *mocks.MockAuditPublisher
	service  *Service
	player   playermodels.Player
	course   coursemodels.Course
	tee      coursemodels.TeeSet
}

func TestPortInteractionSuite(t *testing.T) {
	suite.Run(t, new(PortInteractionSuite))
}

func (s *PortInteractionSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.courses = mocks.NewMockCourseCatalog(s.ctrl)
	s.tees = mocks.NewMockTeeSetProvider(s.ctrl)
	s.handicap = mocks.NewMockHandicapLookup(s.ctrl)
	s.players = mocks.NewMockPlayerDirectory(s.ctrl)
	s.audit = mocks.NewMockAuditPublisher(s.ctrl)

	s.player = playermodels.Player{ID: id.NewPlayerID(), Name: "Cat", Gender: playermodels.GenderFemale}
	s.course = coursemodels.Course{ID: id.NewCourseID(), Name: "Heath", HolesCount: 9}
	s.tee = coursemodels.TeeSet{
		ID:       id.NewTeeSetID(),
		CourseID: s.course.ID,
		Name:     "Blue",
		Men:      coursemodels.Rating{CourseRating: 35.0, SlopeRating: 120},
		Women:    &coursemodels.Rating{CourseRating: 36.5, SlopeRating: 125},
	}

	svc, err := New(Dependencies{
		Tx:       NewShardedTx(s.store, time.Second),
		Store:    s.store,
		Courses:  s.courses,
		TeeSets:  s.tees,
		Players:  s.players,
		Handicap: s.handicap,
	},
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(s.audit),
	)
	s.Require().NoError(err)
	s.service = svc
}

func (s *PortInteractionSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *PortInteractionSuite) expectReferences() {
	s.players.EXPECT().FindPlayer(gomock.Any(), s.player.ID).Return(&s.player, nil)
	s.courses.EXPECT().FindCourse(gomock.Any(), s.course.ID).Return(&s.course, nil)
	s.tees.EXPECT().FindTeeSet(gomock.Any(), s.tee.ID).Return(&s.tee, nil)
}

func (s *PortInteractionSuite) request() CreateRequest {
	return CreateRequest{
		PlayerID:   s.player.ID,
		CourseID:   s.course.ID,
		TeeSetID:   s.tee.ID,
		DatePlayed: id.NewDate(2024, time.April, 2),
	}
}

func (s *PortInteractionSuite) TestNewRequiresPorts() {
	full := Dependencies{Tx: NewShardedTx(s.store, time.Second), Store: s.store, Courses: s.courses, TeeSets: s.tees, Players: s.players, Handicap: s.handicap}
	cases := map[string]func(d *Dependencies){
		"tx":       func(d *Dependencies) { d.Tx = nil },
		"store":    func(d *Dependencies) { d.Store = nil },
		"courses":  func(d *Dependencies) { d.Courses = nil },
		"tee sets": func(d *Dependencies) { d.TeeSets = nil },
		"players":  func(d *Dependencies) { d.Players = nil },
		"handicap": func(d *Dependencies) { d.Handicap = nil },
	}
	for name, drop := range cases {
		s.Run(name, func() {
			deps := full
			drop(&deps)
			_, err := New(deps)
			s.Error(err)
		})
	}
}

func (s *PortInteractionSuite) TestCreateStampsWomensRating() {
	s.expectReferences()
	s.handicap.EXPECT().OnDate(gomock.Any(), s.player.ID, id.NewDate(2024, time.April, 2)).
		Return(&handicapmodels.Record{Value: 20.0}, nil)
	var saved *models.Round
	s.store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r *models.Round) error {
		saved = r
		return nil
	})
	s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

	r, err := s.service.CreateRound(context.Background(), s.request())
	s.Require().NoError(err)
	s.Equal(saved, r)
	s.Equal(36.5, r.Ratings.CourseRating)
	s.Equal(playermodels.GenderFemale, r.Ratings.Variant)
	// 20.0 * 125 / 113 = 22.12
	s.Equal(22, *r.CourseHandicap)
}

func (s *PortInteractionSuite) TestCreateSurfacesLookupFailures() {
	s.Run("tee set missing", func() {
		s.players.EXPECT().FindPlayer(gomock.Any(), s.player.ID).Return(&s.player, nil)
		s.courses.EXPECT().FindCourse(gomock.Any(), s.course.ID).Return(&s.course, nil)
		s.tees.EXPECT().FindTeeSet(gomock.Any(), s.tee.ID).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.CreateRound(context.Background(), s.request())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("handicap lookup fails", func() {
		s.expectReferences()
		s.handicap.EXPECT().OnDate(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInternal, "failed to load handicap history"))

		_, err := s.service.CreateRound(context.Background(), s.request())
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("player directory unavailable", func() {
		s.players.EXPECT().FindPlayer(gomock.Any(), s.player.ID).Return(nil, sentinel.ErrUnavailable)

		_, err := s.service.CreateRound(context.Background(), s.request())
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *PortInteractionSuite) TestAuditFailureDoesNotFailWrite() {
	s.expectReferences()
	s.handicap.EXPECT().OnDate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	s.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("sink down"))

	r, err := s.service.CreateRound(context.Background(), s.request())
	s.Require().NoError(err)
	s.Nil(r.CourseHandicap)
}

func (s *PortInteractionSuite) TestSaveErrorsMapToCodes() {
	round, err := models.NewRound(id.NewRoundID(), s.player.ID, s.course, s.tee, s.player.Gender, id.NewDate(2024, time.April, 2), time.Now())
	s.Require().NoError(err)
	hole := coursemodels.Hole{CourseID: s.course.ID, Number: 1, Par: 4, StrokeIndex: 1}

	cases := map[string]struct {
		err  error
		code dErrors.Code
	}{
		"duplicate": {err: sentinel.ErrDuplicate, code: dErrors.CodeInvariantViolation},
		"conflict":  {err: sentinel.ErrConflict, code: dErrors.CodeConflict},
		"internal":  {err: errors.New("disk full"), code: dErrors.CodeInternal},
	}
	for name, tc := range cases {
		s.Run(name, func() {
			s.store.EXPECT().FindByID(gomock.Any(), round.ID).Return(round.Clone(), nil)
			s.courses.EXPECT().HolesForCourse(gomock.Any(), s.course.ID).Return([]coursemodels.Hole{hole}, nil)
			s.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(tc.err)

			_, err := s.service.RecordScore(context.Background(), round.ID, 1, 4)
			s.True(dErrors.HasCode(err, tc.code), "got %v", err)
		})
	}
}

func (s *PortInteractionSuite) TestFinalizeSurfacesMissingCourse() {
	round, err := models.NewRound(id.NewRoundID(), s.player.ID, s.course, s.tee, s.player.Gender, id.NewDate(2024, time.April, 2), time.Now())
	s.Require().NoError(err)
	s.Require().NoError(round.ApplyHandicap(5.0))

	s.store.EXPECT().FindByID(gomock.Any(), round.ID).Return(round, nil)
	s.courses.EXPECT().HolesForCourse(gomock.Any(), s.course.ID).Return(nil, sentinel.ErrNotFound)

	_, err = s.service.FinalizeRound(context.Background(), round.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *PortInteractionSuite) TestDeleteRoundStoreFailure() {
	round, err := models.NewRound(id.NewRoundID(), s.player.ID, s.course, s.tee, s.player.Gender, id.NewDate(2024, time.April, 2), time.Now())
	s.Require().NoError(err)
	s.store.EXPECT().FindByID(gomock.Any(), round.ID).Return(round, nil)
	s.store.EXPECT().Delete(gomock.Any(), round.ID).Return(errors.New("connection reset"))

	err = s.service.DeleteRound(context.Background(), round.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *PortInteractionSuite) TestCancelledContextTimesOut() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.service.DeleteScore(ctx, id.NewRoundID(), 1)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}
