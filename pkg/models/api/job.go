package api

import "time"

type SubmitJobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Poll   string `json:"poll"`
}

type JobResponse struct {
	JobID     string            `json:"job_id"`
	Status    string            `json:"status"`
	Result    *AnalysisResponse `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
