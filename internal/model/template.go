package model

import "time"

// TaskTemplate is a catalog entry a parent can assign into sequence groups.
// Templates are referenced by task instances, which snapshot the fields that
// matter for scoring at materialization time.
type TaskTemplate struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	PhotoProofRequired bool      `json:"photo_proof_required"`
	EffortScore        int       `json:"effort_score"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
