package job

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
)

const TaskWelcome = "email:welcome"

// WelcomeEmailPayload is the JSON payload of a TaskWelcome task.
type WelcomeEmailPayload struct {
	UserID int64  `json:"user_id"`
	To     string `json:"to"`
	Name   string `json:"name"`
}

// NewWelcomeEmailTask builds the task sent after a user is created.
// The task id is derived from the user id so a user is greeted once.
func NewWelcomeEmailTask(p WelcomeEmailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWelcome,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
		asynq.TaskID(welcomeTaskID(p.UserID)),
	), nil
}

func welcomeTaskID(userID int64) string {
	return TaskWelcome + ":" + strconv.FormatInt(userID, 10)
}
