package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
)

func (j *JobService) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal welcome email payload: %w: %w", err, asynq.SkipRetry)
	}

	logger := j.logger.With().
		Str("type", "welcome").
		Int64("user_id", p.UserID).
		Logger()

	logger.Info().Msg("processing welcome email task")

	if err := j.emails.SendWelcomeEmail(ctx, p.To, p.Name); err != nil {
		logger.Error().Err(err).Msg("failed to send welcome email")
		return errors.Wrap(err, "send welcome email")
	}

	logger.Info().Msg("sent welcome email")
	return nil
}
