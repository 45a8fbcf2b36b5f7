package service

import (
	"github.com/deppfellow/pantry/internal/lib/job"
	"github.com/deppfellow/pantry/internal/repository"
	"github.com/deppfellow/pantry/internal/server"
)

// Services groups the application services handed to the handlers.
type Services struct {
	Users     *UserService
	Interests *InterestService
	Products  *ProductService
	Job       *job.JobService
}

// NewService builds every service on top of repos.
//
// The user service only gets the job client when a Resend API key is
// configured; otherwise welcome emails are skipped and a warning is logged
// once at startup.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	// Without a Resend key there is nobody to deliver welcome emails.
	var jobs TaskEnqueuer
	if s.Config.Integration.ResendAPIKey != "" {
		jobs = s.Job.Client
	} else {
		s.Logger.Warn().Msg("resend api key not configured, welcome emails disabled")
	}

	return &Services{
		Users:     NewUserService(s.Logger, repos, jobs),
		Interests: NewInterestService(repos),
		Products:  NewProductService(repos),
		Job:       s.Job,
	}, nil
}
