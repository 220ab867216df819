package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskPipelineFollowUp = "pipeline.follow_up"

// PipelineFollowUpPayload identifies the entry and the follow-up date the
// reminder was scheduled for. The date lets the worker detect reschedules:
// a stored date that no longer matches means a newer reminder superseded
// this one.
type PipelineFollowUpPayload struct {
	EntryID      string `json:"entryId"`
	FollowUpDate string `json:"followUpDate"`
}

func NewPipelineFollowUpTask(payload PipelineFollowUpPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPipelineFollowUp, data), nil
}

func ParsePipelineFollowUpPayload(task *asynq.Task) (PipelineFollowUpPayload, error) {
	var payload PipelineFollowUpPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return PipelineFollowUpPayload{}, err
	}
	return payload, nil
}
