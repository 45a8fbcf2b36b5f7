// Package service holds the business logic between handlers and repositories.
//
// Services receive decoded payloads, link related entities, and delegate
// persistence to the repository layer.
package service

import (
	"context"

	"github.com/hibiken/asynq"
)

// TaskEnqueuer is the part of *asynq.Client the services use.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
