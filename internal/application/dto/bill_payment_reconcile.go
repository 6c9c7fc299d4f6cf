package dto

import "time"

type ReconcilePaymentsCommand struct {
	Now       time.Time
	BatchSize int
	RunID     string
}

type ReconcilePaymentsOutput struct {
	Scanned   int `json:"scanned"`
	Updated   int `json:"updated"`
	Paid      int `json:"paid"`
	Expired   int `json:"expired"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}
