package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	profileserrors "servicehub/internal/profiles/errors"
	"servicehub/internal/profiles/validator"
	"servicehub/pkg/config"
	apperrors "servicehub/pkg/errors"
	"servicehub/pkg/logger"
	"servicehub/pkg/model"
)

const userID = "507f1f77bcf86cd799439033"

type fakeProfileRepo struct {
	profiles map[string]*model.Profile
}

func (r *fakeProfileRepo) Create(_ context.Context, p *model.Profile) error {
	for _, existing := range r.profiles {
		if existing.UserID == p.UserID {
			return profileserrors.ErrProfileExists
		}
	}
	p.ID = primitive.NewObjectID().Hex()
	cp := *p
	r.profiles[p.ID] = &cp
	return nil
}

func (r *fakeProfileRepo) FindByID(_ context.Context, id string) (*model.Profile, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, profileserrors.ErrInvalidID
	}
	p, ok := r.profiles[id]
	if !ok {
		return nil, profileserrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) FindByUserID(_ context.Context, uid string) (*model.Profile, error) {
	for _, p := range r.profiles {
		if p.UserID == uid {
			cp := *p
			return &cp, nil
		}
	}
	return nil, profileserrors.ErrNotFound
}

func (r *fakeProfileRepo) Update(_ context.Context, id string, p *model.Profile) (*model.Profile, error) {
	if _, ok := r.profiles[id]; !ok {
		return nil, profileserrors.ErrNotFound
	}
	cp := *p
	r.profiles[id] = &cp
	return p, nil
}

func (r *fakeProfileRepo) NearestProviders(context.Context, model.GeoPoint, int) ([]*model.Profile, error) {
	return []*model.Profile{}, nil
}

func (r *fakeProfileRepo) TopProviders(context.Context, model.GeoPoint, int, int) ([]*model.Profile, error) {
	return []*model.Profile{}, nil
}

func newTestService() (ProfileService, *fakeProfileRepo) {
	log := logger.Discard()
	cfg := &config.Config{Log: log, NearbyRadiusMeters: 50000}
	repo := &fakeProfileRepo{profiles: map[string]*model.Profile{}}
	return NewProfileService(repo, validator.NewProfileValidator(log), cfg), repo
}

func newProfile() *model.Profile {
	return &model.Profile{
		Name:     "  Dana   Shine ",
		Type:     "provider",
		Location: model.NewGeoPoint(40.7128, -74.0060),
		Address: model.Address{
			Street:     "1 Main St",
			City:       "New York",
			State:      "NY",
			Country:    "USA",
			PostalCode: "10001-1234",
		},
		Services: []string{"car washing", "Car Washing"},
		Rating:   5,
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperrors.IsAppError(err), "expected AppError, got %v", err)
	return apperrors.AsAppError(err).StatusCode()
}

func TestCreate(t *testing.T) {
	svc, repo := newTestService()
	actor := &model.Identity{UserID: userID}
	p := newProfile()

	require.NoError(t, svc.Create(context.Background(), actor, p))

	stored := repo.profiles[p.ID]
	require.NotNil(t, stored)
	assert.Equal(t, userID, stored.UserID)
	assert.Equal(t, model.ProfileTypeProvider, stored.Type)
	assert.Equal(t, "Dana Shine", stored.Name)
	assert.Zero(t, stored.Rating)
	assert.Equal(t, []string{model.ServiceTypeCarWashing}, stored.Services)
}

func TestCreate_OncePerUser(t *testing.T) {
	svc, _ := newTestService()
	actor := &model.Identity{UserID: userID}
	require.NoError(t, svc.Create(context.Background(), actor, newProfile()))

	err := svc.Create(context.Background(), actor, newProfile())
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	err = svc.Create(context.Background(), &model.Identity{UserID: "u2", ProfileID: "p2"}, newProfile())
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestCreate_ProviderNeedsServices(t *testing.T) {
	svc, _ := newTestService()
	p := newProfile()
	p.Services = nil

	err := svc.Create(context.Background(), &model.Identity{UserID: userID}, p)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	assert.Contains(t, apperrors.AsAppError(err).Details, "services")
}

func TestUpdate_KeepsTypeAndRating(t *testing.T) {
	svc, repo := newTestService()
	actor := &model.Identity{UserID: userID}
	p := newProfile()
	require.NoError(t, svc.Create(context.Background(), actor, p))
	repo.profiles[p.ID].Rating = 4.5

	name := "Dana S."
	updated, err := svc.Update(context.Background(), actor, &model.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Dana S.", updated.Name)
	assert.Equal(t, model.ProfileTypeProvider, updated.Type)
	assert.Equal(t, 4.5, updated.Rating)
}

func TestUpdate_WithoutProfile(t *testing.T) {
	svc, _ := newTestService()
	name := "Nobody"

	_, err := svc.Update(context.Background(), &model.Identity{UserID: userID}, &model.ProfileUpdate{Name: &name})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestResolveProfile(t *testing.T) {
	svc, _ := newTestService()

	profile, err := svc.ResolveProfile(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, profile)

	require.NoError(t, svc.Create(context.Background(), &model.Identity{UserID: userID}, newProfile()))
	profile, err = svc.ResolveProfile(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.True(t, profile.IsProvider())
}

func TestGetByID(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetByID(context.Background(), "bad")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = svc.GetByID(context.Background(), primitive.NewObjectID().Hex())
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}
