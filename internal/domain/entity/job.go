package entity

import "time"

// Job statuses as used by the jobs board.
const (
	JobStatusPending    = "pending"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
)

// Job is a work order, usually spawned from an appointment. Its item list is
// kept loosely in sync with the linked invoice: an empty invoice is seeded
// from the job, and a saved invoice copies its items back onto the job.
type Job struct {
	ID            string     `json:"id"`
	ShopID        string     `json:"shop_id,omitempty"`
	AppointmentID string     `json:"appointment_id,omitempty"`
	Customer      string     `json:"customer"`
	CustomerFirst string     `json:"customer_first"`
	CustomerLast  string     `json:"customer_last"`
	Vehicle       string     `json:"vehicle,omitempty"`
	Items         []LineItem `json:"items,omitempty"`
	Status        string     `json:"status"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
