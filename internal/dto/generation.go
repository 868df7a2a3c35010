package dto

import "github.com/arthavgonda/timetable-gateway/internal/models"

// GenerateTimetableRequest carries the parameters forwarded to the scheduling
// service's generation endpoint.
type GenerateTimetableRequest struct {
	Date     string `json:"date" validate:"required"`
	Course   string `json:"course" validate:"required"`
	Semester string `json:"semester" validate:"required"`
}

// GenerationTaskResponse acknowledges a submitted generation job.
type GenerationTaskResponse struct {
	TaskID string           `json:"taskId"`
	Status models.TaskState `json:"status"`
}
