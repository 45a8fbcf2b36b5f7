package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	to, name string
	err      error
}

func (f *fakeSender) SendWelcomeEmail(_ context.Context, to, name string) error {
	f.to, f.name = to, name
	return f.err
}

func newTestService(sender WelcomeSender) *JobService {
	logger := zerolog.Nop()
	return &JobService{logger: &logger, emails: sender}
}

func TestNewWelcomeEmailTask(t *testing.T) {
	task, err := NewWelcomeEmailTask(WelcomeEmailPayload{UserID: 12, To: "a@x.com", Name: "A"})
	require.NoError(t, err)

	assert.Equal(t, TaskWelcome, task.Type())

	var p WelcomeEmailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, WelcomeEmailPayload{UserID: 12, To: "a@x.com", Name: "A"}, p)
	assert.Equal(t, "email:welcome:12", welcomeTaskID(12))
}

func TestHandleWelcomeEmailTask(t *testing.T) {
	sender := &fakeSender{}
	svc := newTestService(sender)

	task, err := NewWelcomeEmailTask(WelcomeEmailPayload{UserID: 1, To: "a@x.com", Name: "A"})
	require.NoError(t, err)

	require.NoError(t, svc.Mux().ProcessTask(context.Background(), task))
	assert.Equal(t, "a@x.com", sender.to)
	assert.Equal(t, "A", sender.name)
}

func TestHandleWelcomeEmailTask_Errors(t *testing.T) {
	t.Run("send failure is retried", func(t *testing.T) {
		svc := newTestService(&fakeSender{err: errors.New("provider down")})
		task, err := NewWelcomeEmailTask(WelcomeEmailPayload{UserID: 1, To: "a@x.com"})
		require.NoError(t, err)

		err = svc.handleWelcomeEmailTask(context.Background(), task)
		require.Error(t, err)
		assert.NotErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("bad payload is not retried", func(t *testing.T) {
		svc := newTestService(&fakeSender{})
		err := svc.handleWelcomeEmailTask(context.Background(), asynq.NewTask(TaskWelcome, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})
}
