package model

import "time"

// MDA represents a ministry, department, or agency tracked against the
// BEEPA reform framework.
type MDA struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Abbreviation *string   `json:"abbreviation,omitempty"`
	Description  *string   `json:"description,omitempty"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}

// Reform is one of the 7 standardized BEEPA reforms owned by exactly one MDA.
// RefNumber (1-7) gives the deterministic display order.
type Reform struct {
	ID          string    `json:"id"`
	MDAID       string    `json:"mda_id"`
	RefNumber   int       `json:"ref_number"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// ActivityStatus is the quick-action status of an activity.
type ActivityStatus string

const (
	ActivityNotStarted ActivityStatus = "not_started"
	ActivityInProgress ActivityStatus = "in_progress"
	ActivityComplete   ActivityStatus = "complete"
)

// IsValid reports whether s is one of the three known activity statuses.
func (s ActivityStatus) IsValid() bool {
	switch s {
	case ActivityNotStarted, ActivityInProgress, ActivityComplete:
		return true
	}
	return false
}

// Activity is a weighted, gradable sub-task within a reform. Weight is a
// fraction in [0,1]; the weights of all activities in one reform sum to 1.0
// (guaranteed by the framework template, not re-checked per score).
type Activity struct {
	ID              string         `json:"id"`
	ReformID        string         `json:"reform_id"`
	RefNumber       string         `json:"ref_number"` // dotted, e.g. "3.2"
	Name            string         `json:"name"`
	Description     *string        `json:"description,omitempty"`
	Weight          float64        `json:"weight"`
	CompletionLevel float64        `json:"completion_level"`
	Status          ActivityStatus `json:"status"`
	LastUpdatedBy   *string        `json:"last_updated_by,omitempty"`
	CreatedOn       time.Time      `json:"created_on"`
	UpdatedOn       time.Time      `json:"updated_on"`
}
