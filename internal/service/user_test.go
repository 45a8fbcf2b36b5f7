package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/deppfellow/pantry/internal/errs"
	"github.com/deppfellow/pantry/internal/lib/job"
	"github.com/deppfellow/pantry/internal/model"
	"github.com/deppfellow/pantry/internal/repository"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type fakeEnqueuer struct {
	mu    sync.Mutex
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

type fixture struct {
	repos *repository.Repositories
	jobs  *fakeEnqueuer
	users *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zerolog.Nop()
	repos := repository.NewMemoryRepositories()
	jobs := &fakeEnqueuer{}
	return &fixture{
		repos: repos,
		jobs:  jobs,
		users: NewUserService(&logger, repos, jobs),
	}
}

func (f *fixture) interest(t *testing.T, name string) model.Interest {
	t.Helper()
	saved, err := f.repos.Interests.Save(context.Background(), &model.Interest{Name: name})
	require.NoError(t, err)
	return *saved
}

func TestCreateUser_Plain(t *testing.T) {
	f := newFixture(t)

	input := &model.User{
		Email:  ptr("a@x.com"),
		Name:   ptr("A"),
		Weight: ptr(61.5),
		Height: ptr(170.0),
		Gender: ptr("female"),
	}

	created, err := f.users.CreateUser(context.Background(), input)
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "a@x.com", *created.Email)
	assert.Equal(t, "A", *created.Name)
	assert.Equal(t, 61.5, *created.Weight)
	assert.Equal(t, 170.0, *created.Height)
	assert.Equal(t, "female", *created.Gender)
	assert.Empty(t, created.Interests)
	assert.Nil(t, created.Fridge)
}

func TestCreateUser_IgnoresClientID(t *testing.T) {
	f := newFixture(t)

	created, err := f.users.CreateUser(context.Background(), &model.User{ID: 77, Name: ptr("A")})
	require.NoError(t, err)
	assert.NotEqual(t, int64(77), created.ID)
}

func TestCreateUser_Interests(t *testing.T) {
	f := newFixture(t)
	cooking := f.interest(t, "cooking")
	hiking := f.interest(t, "hiking")
	f.interest(t, "chess")

	created, err := f.users.CreateUser(context.Background(), &model.User{
		Interests: []model.Interest{{ID: hiking.ID}, {ID: 999}, {ID: cooking.ID, Name: "renamed"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []model.Interest{cooking, hiking}, created.Interests)
}

func TestCreateUser_FridgeBackReference(t *testing.T) {
	f := newFixture(t)

	created, err := f.users.CreateUser(context.Background(), &model.User{
		Fridge: &model.Fridge{
			UserID: 555,
			Items:  []model.FridgeItem{{Quantity: ptr(3)}, {Quantity: ptr(1)}},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, created.Fridge)
	assert.Equal(t, created.ID, created.Fridge.UserID)
	require.Len(t, created.Fridge.Items, 2)
	for _, item := range created.Fridge.Items {
		assert.Equal(t, created.Fridge.ID, item.FridgeID)
	}
}

func TestCreateUser_WelcomeEmail(t *testing.T) {
	f := newFixture(t)

	created, err := f.users.CreateUser(context.Background(), &model.User{Email: ptr("a@x.com"), Name: ptr("A")})
	require.NoError(t, err)

	_, err = f.users.CreateUser(context.Background(), &model.User{Name: ptr("no email")})
	require.NoError(t, err)

	require.Len(t, f.jobs.tasks, 1)
	task := f.jobs.tasks[0]
	assert.Equal(t, job.TaskWelcome, task.Type())

	var payload job.WelcomeEmailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, job.WelcomeEmailPayload{UserID: created.ID, To: "a@x.com", Name: "A"}, payload)
}

func TestCreateUser_EnqueueFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.jobs.err = errors.New("redis down")

	created, err := f.users.CreateUser(context.Background(), &model.User{Email: ptr("a@x.com")})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
}

func TestCreateUser_NilEnqueuer(t *testing.T) {
	logger := zerolog.Nop()
	users := NewUserService(&logger, repository.NewMemoryRepositories(), nil)

	_, err := users.CreateUser(context.Background(), &model.User{Email: ptr("a@x.com")})
	require.NoError(t, err)
}

func TestCreateUser_InterestLookupFailure(t *testing.T) {
	f := newFixture(t)
	f.users.interests = failingInterests{}

	_, err := f.users.CreateUser(context.Background(), &model.User{Interests: []model.Interest{{ID: 1}}})
	require.Error(t, err)

	// Nothing is saved when linking fails.
	all, err := f.repos.Users.FindAllByID(context.Background(), []int64{1})
	require.NoError(t, err)
	assert.Empty(t, all)
}

type failingInterests struct {
	repository.Repository[model.Interest]
}

func (failingInterests) FindAllByID(context.Context, []int64) ([]model.Interest, error) {
	return nil, errors.New("connection reset")
}

func TestUpdateUser_ScalarFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.users.CreateUser(ctx, &model.User{Email: ptr("a@x.com"), Name: ptr("A"), Weight: ptr(80.0)})
	require.NoError(t, err)

	patch := func() *model.User {
		return &model.User{
			ID:       999,
			Name:     ptr("B"),
			Email:    ptr("b@x.com"),
			Password: ptr("secret"),
			Height:   ptr(181.0),
			Weight:   ptr(79.0),
			Gender:   ptr("male"),
		}
	}

	first, err := f.users.UpdateUser(ctx, created.ID, patch())
	require.NoError(t, err)
	assert.Equal(t, created.ID, first.ID)
	assert.Equal(t, "B", *first.Name)
	assert.Equal(t, "b@x.com", *first.Email)
	assert.Equal(t, "secret", *first.Password)
	assert.Equal(t, 181.0, *first.Height)
	assert.Equal(t, 79.0, *first.Weight)
	assert.Equal(t, "male", *first.Gender)

	second, err := f.users.UpdateUser(ctx, created.ID, patch())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUpdateUser_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.UpdateUser(context.Background(), 42, &model.User{Name: ptr("B")})
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "USER_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "User not found with ID: 42", httpErr.Message)
}

func TestUpdateUser_InterestsAndFridge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cooking := f.interest(t, "cooking")
	hiking := f.interest(t, "hiking")

	created, err := f.users.CreateUser(ctx, &model.User{
		Interests: []model.Interest{{ID: cooking.ID}},
		Fridge:    &model.Fridge{Items: []model.FridgeItem{{Quantity: ptr(1)}}},
	})
	require.NoError(t, err)

	// No interests or fridge in the payload keeps both.
	kept, err := f.users.UpdateUser(ctx, created.ID, &model.User{Name: ptr("A")})
	require.NoError(t, err)
	assert.Equal(t, created.Interests, kept.Interests)
	assert.Equal(t, created.Fridge, kept.Fridge)

	updated, err := f.users.UpdateUser(ctx, created.ID, &model.User{
		Interests: []model.Interest{{ID: hiking.ID}, {ID: 404}},
		Fridge:    &model.Fridge{UserID: 1234, Items: []model.FridgeItem{{Quantity: ptr(9)}, {Quantity: ptr(8)}}},
	})
	require.NoError(t, err)

	assert.Equal(t, []model.Interest{hiking}, updated.Interests)
	require.NotNil(t, updated.Fridge)
	assert.NotEqual(t, created.Fridge.ID, updated.Fridge.ID)
	assert.Equal(t, created.ID, updated.Fridge.UserID)
	assert.Len(t, updated.Fridge.Items, 2)
}

func TestGetUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, found, err := f.users.GetUser(ctx, 42)
	require.NoError(t, err)
	assert.False(t, found)

	created, err := f.users.CreateUser(ctx, &model.User{
		Name:   ptr("A"),
		Fridge: &model.Fridge{Items: []model.FridgeItem{{Quantity: ptr(2), ExpirationDate: ptr(model.NewDate(2026, 11, 2))}}},
	})
	require.NoError(t, err)

	got, found, err := f.users.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, created, got)
}

func TestUserScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.users.CreateUser(ctx, &model.User{Email: ptr("a@x.com"), Name: ptr("A")})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Empty(t, created.Interests)
	assert.Nil(t, created.Fridge)

	updated, err := f.users.UpdateUser(ctx, created.ID, &model.User{Name: ptr("B")})
	require.NoError(t, err)
	assert.Equal(t, "B", *updated.Name)
	assert.Equal(t, "a@x.com", *updated.Email)
}
