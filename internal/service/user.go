package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/pantry/internal/errs"
	"github.com/deppfellow/pantry/internal/lib/job"
	"github.com/deppfellow/pantry/internal/model"
	"github.com/deppfellow/pantry/internal/repository"
	"github.com/deppfellow/pantry/internal/sqlerr"
	"github.com/rs/zerolog"
)

// UserService owns the user aggregate: profile fields, the interest set
// and the fridge with its items.
type UserService struct {
	users     repository.Repository[model.User]
	interests repository.Repository[model.Interest]
	jobs      TaskEnqueuer
	logger    *zerolog.Logger
}

// NewUserService wires the user service. jobs may be nil, in which case no
// welcome email is enqueued.
func NewUserService(logger *zerolog.Logger, repos *repository.Repositories, jobs TaskEnqueuer) *UserService {
	return &UserService{
		users:     repos.Users,
		interests: repos.Interests,
		jobs:      jobs,
		logger:    logger,
	}
}

// CreateUser stores a new user with its fridge. Interests are matched by
// id against existing records and unknown ids are dropped.
func (s *UserService) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	user.ID = 0

	if err := s.resolveInterests(ctx, user); err != nil {
		return nil, err
	}
	user.LinkFridge()

	created, err := s.users.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	s.enqueueWelcome(ctx, created)

	return created, nil
}

// UpdateUser applies the profile fields present in updated to user id.
// Interests are replaced when updated carries any, and a carried fridge
// replaces the stored one.
func (s *UserService) UpdateUser(ctx context.Context, id int64, updated *model.User) (*model.User, error) {
	existing, err := s.users.FindByID(ctx, id)
	if sqlerr.IsNotFound(err) {
		return nil, errs.NotFoundf("USER_NOT_FOUND", "User not found with ID: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}

	existing.ApplyProfile(updated)

	if len(updated.Interests) > 0 {
		if err := s.resolveInterests(ctx, updated); err != nil {
			return nil, err
		}
		existing.Interests = updated.Interests
	}

	if updated.Fridge != nil {
		existing.Fridge = updated.Fridge
	}
	existing.LinkFridge()

	saved, err := s.users.Save(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("save user %d: %w", id, err)
	}
	return saved, nil
}

// GetUser looks a user up by id. A missing user is reported through found,
// not as an error.
func (s *UserService) GetUser(ctx context.Context, id int64) (user *model.User, found bool, err error) {
	user, err = s.users.FindByID(ctx, id)
	if sqlerr.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load user %d: %w", id, err)
	}
	return user, true, nil
}

// resolveInterests replaces user.Interests with the stored interests whose
// ids it references.
func (s *UserService) resolveInterests(ctx context.Context, user *model.User) error {
	if len(user.Interests) == 0 {
		return nil
	}

	interests, err := s.interests.FindAllByID(ctx, user.InterestIDs())
	if err != nil {
		return fmt.Errorf("resolve interests: %w", err)
	}

	if dropped := len(user.InterestIDs()) - len(interests); dropped > 0 {
		s.logger.Debug().Int("dropped", dropped).Msg("ignoring unknown interest ids")
	}

	user.Interests = interests
	return nil
}

func (s *UserService) enqueueWelcome(ctx context.Context, user *model.User) {
	if s.jobs == nil || user.Email == nil || *user.Email == "" {
		return
	}

	payload := job.WelcomeEmailPayload{UserID: user.ID, To: *user.Email}
	if user.Name != nil {
		payload.Name = *user.Name
	}

	task, err := job.NewWelcomeEmailTask(payload)
	if err == nil {
		_, err = s.jobs.EnqueueContext(ctx, task)
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to enqueue welcome email")
	}
}
