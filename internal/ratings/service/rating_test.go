package service

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	ratingserrors "servicehub/internal/ratings/errors"
	"servicehub/internal/ratings/repository"
	"servicehub/internal/ratings/validator"
	"servicehub/pkg/config"
	mongotx "servicehub/pkg/db/mongo"
	apperrors "servicehub/pkg/errors"
	"servicehub/pkg/events"
	"servicehub/pkg/logger"
	"servicehub/pkg/model"
)

const (
	targetID     = "507f1f77bcf86cd799439011"
	ownerProfile = "507f1f77bcf86cd799439022"
)

type memRatings struct {
	mu      sync.Mutex
	ratings map[string]*model.Rating
	sumErr  error

	// aborts runs the transaction body that many extra times, rolling back each run.
	aborts    int
	presetIDs []string
}

func (m *memRatings) Create(_ context.Context, r *model.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID != "" {
		m.presetIDs = append(m.presetIDs, r.ID)
	}
	r.ID = primitive.NewObjectID().Hex()
	if r.LikedByUserIDs == nil {
		r.LikedByUserIDs = []string{}
	}
	cp := *r
	m.ratings[r.ID] = &cp
	return nil
}

func (m *memRatings) FindByID(_ context.Context, id string) (*model.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, ratingserrors.ErrInvalidID
	}
	r, ok := m.ratings[id]
	if !ok {
		return nil, ratingserrors.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRatings) ListByTarget(_ context.Context, tid string) ([]*model.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Rating
	for _, r := range m.ratings {
		if r.TargetID == tid {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRatings) Update(_ context.Context, id string, u *model.RatingUpdate) (*model.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.ratings[id]
	if !ok {
		return nil, ratingserrors.ErrNotFound
	}
	if u.Score != nil {
		r.Score = *u.Score
	}
	if u.Comment != nil {
		r.Comment = *u.Comment
	}
	cp := *r
	return &cp, nil
}

func (m *memRatings) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ratings[id]; !ok {
		return ratingserrors.ErrNotFound
	}
	delete(m.ratings, id)
	return nil
}

func (m *memRatings) ToggleLike(_ context.Context, id, userID string) (*model.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.ratings[id]
	if !ok {
		return nil, ratingserrors.ErrNotFound
	}
	kept := []string{}
	found := false
	for _, u := range r.LikedByUserIDs {
		if u == userID {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		kept = append(kept, userID)
	}
	r.LikedByUserIDs = kept
	cp := *r
	return &cp, nil
}

func (m *memRatings) Sum(_ context.Context, tid string) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sumErr != nil {
		return 0, 0, m.sumErr
	}
	var total, count int64
	for _, r := range m.ratings {
		if r.TargetID == tid {
			total += int64(r.Score)
			count++
		}
	}
	return total, count, nil
}

func (m *memRatings) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	for ; m.aborts > 0; m.aborts-- {
		m.mu.Lock()
		snapshot := make(map[string]*model.Rating, len(m.ratings))
		for id, r := range m.ratings {
			cp := *r
			snapshot[id] = &cp
		}
		m.mu.Unlock()

		if err := fn(ctx); err != nil {
			return err
		}

		m.mu.Lock()
		m.ratings = snapshot
		m.mu.Unlock()
	}
	return fn(ctx)
}

type memTargets struct {
	targets map[string]*repository.Target
}

func (m *memTargets) Find(_ context.Context, id string) (*repository.Target, error) {
	t, ok := m.targets[id]
	if !ok {
		return nil, ratingserrors.ErrTargetNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTargets) SetRating(_ context.Context, id string, rating float64) (float64, error) {
	t, ok := m.targets[id]
	if !ok {
		return 0, ratingserrors.ErrTargetNotFound
	}
	prev := t.Rating
	t.Rating = rating
	return prev, nil
}

type capturePublisher struct {
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, evt events.Event) error {
	p.events = append(p.events, evt)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

type ratingFixture struct {
	svc       RatingService
	ratings   *memRatings
	targets   *memTargets
	publisher *capturePublisher
}

func newRatingFixture(target model.RatingTarget) *ratingFixture {
	log := logger.Discard()
	ratings := &memRatings{ratings: map[string]*model.Rating{}}
	targets := &memTargets{targets: map[string]*repository.Target{
		targetID: {ID: targetID, OwnerProfileID: ownerProfile},
	}}
	publisher := &capturePublisher{}
	svc := NewRatingService(target, ratings, targets, publisher, validator.NewRatingValidator(log), &config.Config{Log: log})
	return &ratingFixture{svc: svc, ratings: ratings, targets: targets, publisher: publisher}
}

func rater(n int) *model.Identity {
	hex := primitive.NewObjectID().Hex()
	return &model.Identity{
		UserID:      hex,
		ProfileID:   primitive.NewObjectID().Hex(),
		ProfileType: model.ProfileTypeUser,
		Email:       string(rune('a'+n)) + "@example.com",
	}
}

func code(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	return apperrors.AsAppError(err).StatusCode()
}

func (f *ratingFixture) aggregate() float64 {
	return f.targets.targets[targetID].Rating
}

func TestCreate_RecomputesAggregate(t *testing.T) {
	f := newRatingFixture(model.RatingTargetService)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, rater(0), &model.RatingRequest{TargetID: targetID, Score: 4})
	require.NoError(t, err)
	assert.Equal(t, 4.0, f.aggregate())

	_, err = f.svc.Create(ctx, rater(1), &model.RatingRequest{TargetID: targetID, Score: 2})
	require.NoError(t, err)
	assert.Equal(t, 3.0, f.aggregate())

	require.Len(t, f.publisher.events, 2)
	last := f.publisher.events[1]
	assert.Equal(t, events.TypeRatingChanged, last.Type)
	assert.Equal(t, targetID, last.Key)
	payload := last.Payload.(events.RatingChanged)
	assert.Equal(t, OperationCreated, payload.Operation)
	assert.Equal(t, 3.0, payload.Rating)
}

func TestCreate_RetriedTransactionInsertsFreshRating(t *testing.T) {
	f := newRatingFixture(model.RatingTargetService)
	f.ratings.aborts = 1
	ctx := context.Background()

	r, err := f.svc.Create(ctx, rater(0), &model.RatingRequest{TargetID: targetID, Score: 4})
	require.NoError(t, err)

	assert.Empty(t, f.ratings.presetIDs, "a retried attempt reused an already assigned id")
	require.Len(t, f.ratings.ratings, 1)
	_, err = primitive.ObjectIDFromHex(r.ID)
	require.NoError(t, err)

	stored, err := f.ratings.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Score)
	assert.Equal(t, 4.0, f.aggregate())
	assert.Len(t, f.publisher.events, 1)
}

func TestCreate_RaterIdentity(t *testing.T) {
	ctx := context.Background()
	actor := rater(0)

	f := newRatingFixture(model.RatingTargetService)
	r, err := f.svc.Create(ctx, actor, &model.RatingRequest{TargetID: targetID, Score: 5})
	require.NoError(t, err)
	assert.Equal(t, actor.UserID, r.RaterID)

	f = newRatingFixture(model.RatingTargetProvider)
	r, err = f.svc.Create(ctx, actor, &model.RatingRequest{TargetID: targetID, Score: 5})
	require.NoError(t, err)
	assert.Equal(t, actor.ProfileID, r.RaterID)

	_, err = f.svc.Create(ctx, &model.Identity{UserID: "no-profile"}, &model.RatingRequest{TargetID: targetID, Score: 5})
	assert.Equal(t, http.StatusForbidden, code(t, err))
}

func TestCreate_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newRatingFixture(model.RatingTargetService)

	_, err := f.svc.Create(ctx, rater(0), &model.RatingRequest{TargetID: targetID, Score: 6})
	assert.Equal(t, http.StatusBadRequest, code(t, err))

	_, err = f.svc.Create(ctx, rater(0), &model.RatingRequest{TargetID: "507f1f77bcf86cd799439099", Score: 3})
	assert.Equal(t, http.StatusNotFound, code(t, err))

	owner := &model.Identity{UserID: "u", ProfileID: ownerProfile, ProfileType: model.ProfileTypeProvider}
	_, err = f.svc.Create(ctx, owner, &model.RatingRequest{TargetID: targetID, Score: 5})
	assert.Equal(t, http.StatusForbidden, code(t, err))

	assert.Empty(t, f.ratings.ratings)
	assert.Empty(t, f.publisher.events)
}

func TestCreate_RecomputeFailureIsInternal(t *testing.T) {
	f := newRatingFixture(model.RatingTargetService)
	f.ratings.sumErr = assert.AnError

	_, err := f.svc.Create(context.Background(), rater(0), &model.RatingRequest{TargetID: targetID, Score: 3})
	assert.Equal(t, http.StatusInternalServerError, code(t, err))
	assert.Empty(t, f.publisher.events)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	f := newRatingFixture(model.RatingTargetService)
	author := rater(0)

	r, err := f.svc.Create(ctx, author, &model.RatingRequest{TargetID: targetID, Score: 1})
	require.NoError(t, err)

	score := 5
	_, err = f.svc.Update(ctx, rater(1), r.ID, &model.RatingUpdate{Score: &score})
	assert.Equal(t, http.StatusForbidden, code(t, err))
	assert.Equal(t, 1.0, f.aggregate())

	_, err = f.svc.Update(ctx, author, r.ID, &model.RatingUpdate{})
	assert.Equal(t, http.StatusBadRequest, code(t, err))

	updated, err := f.svc.Update(ctx, author, r.ID, &model.RatingUpdate{Score: &score})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Score)
	assert.Equal(t, 5.0, f.aggregate())
}

func TestDelete_ResetsAggregateToZero(t *testing.T) {
	ctx := context.Background()
	f := newRatingFixture(model.RatingTargetService)
	a, b := rater(0), rater(1)

	ra, err := f.svc.Create(ctx, a, &model.RatingRequest{TargetID: targetID, Score: 5})
	require.NoError(t, err)
	rb, err := f.svc.Create(ctx, b, &model.RatingRequest{TargetID: targetID, Score: 4})
	require.NoError(t, err)
	assert.Equal(t, 4.5, f.aggregate())

	assert.Equal(t, http.StatusForbidden, code(t, f.svc.Delete(ctx, b, ra.ID)))
	assert.Equal(t, http.StatusNotFound, code(t, f.svc.Delete(ctx, a, "507f1f77bcf86cd799439099")))

	require.NoError(t, f.svc.Delete(ctx, a, ra.ID))
	assert.Equal(t, 4.0, f.aggregate())
	require.NoError(t, f.svc.Delete(ctx, b, rb.ID))
	assert.Equal(t, 0.0, f.aggregate())
}

func TestToggleLike_TwiceRestoresOriginal(t *testing.T) {
	ctx := context.Background()
	f := newRatingFixture(model.RatingTargetService)
	r, err := f.svc.Create(ctx, rater(0), &model.RatingRequest{TargetID: targetID, Score: 4})
	require.NoError(t, err)

	fan := rater(1)
	liked, err := f.svc.ToggleLike(ctx, fan, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{fan.UserID}, liked.LikedByUserIDs)

	unliked, err := f.svc.ToggleLike(ctx, fan, r.ID)
	require.NoError(t, err)
	assert.Empty(t, unliked.LikedByUserIDs)

	_, err = f.svc.ToggleLike(ctx, fan, "507f1f77bcf86cd799439099")
	assert.Equal(t, http.StatusNotFound, code(t, err))
}

func TestRecompute_RepairsDrift(t *testing.T) {
	ctx := context.Background()
	f := newRatingFixture(model.RatingTargetService)
	for i, score := range []int{5, 4, 4} {
		_, err := f.svc.Create(ctx, rater(i), &model.RatingRequest{TargetID: targetID, Score: score})
		require.NoError(t, err)
	}
	f.targets.targets[targetID].Rating = 1.0

	agg, err := f.svc.Recompute(ctx, targetID)
	require.NoError(t, err)
	assert.True(t, agg.Drifted())
	assert.Equal(t, 1.0, agg.Previous)
	assert.Equal(t, 4.3, agg.Rating)
	assert.Equal(t, int64(3), agg.Count)

	agg, err = f.svc.Recompute(ctx, targetID)
	require.NoError(t, err)
	assert.False(t, agg.Drifted())
}

func TestListByTarget(t *testing.T) {
	ctx := context.Background()
	f := newRatingFixture(model.RatingTargetService)
	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(ctx, rater(i), &model.RatingRequest{TargetID: targetID, Score: i + 1})
		require.NoError(t, err)
	}

	ratings, err := f.svc.ListByTarget(ctx, targetID)
	require.NoError(t, err)
	scores := []int{}
	for _, r := range ratings {
		scores = append(scores, r.Score)
	}
	sort.Ints(scores)
	assert.Equal(t, []int{1, 2, 3}, scores)

	_, err = f.svc.ListByTarget(ctx, "507f1f77bcf86cd799439099")
	assert.Equal(t, http.StatusNotFound, code(t, err))
}
