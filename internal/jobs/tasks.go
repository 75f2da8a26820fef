package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the queue used for all background jobs.
	QueueDefault = "default"
	// TaskTypeExpirySweep deactivates grants whose expiry has passed.
	TaskTypeExpirySweep = "permission:expire_sweep"
)

// ExpirySweepPayload carries the reference time for a sweep run. A zero AsOf
// means "now at processing time".
type ExpirySweepPayload struct {
	AsOf time.Time `json:"as_of"`
}

// NewExpirySweepTask constructs the sweep task.
func NewExpirySweepTask(payload ExpirySweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeExpirySweep, data), nil
}
