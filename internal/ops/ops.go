// Package ops implements the review operations shared by the admin CLI and the MCP server.
package ops

import (
	"github.com/hpungsan/scout/internal/application"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Record is the JSON projection of an application.
type Record struct {
	ID                 int64  `json:"id"`
	FullName           string `json:"full_name"`
	DateOfBirth        string `json:"date_of_birth"`
	EnglishLevel       string `json:"english_level"`
	CPU                string `json:"cpu"`
	GPU                string `json:"gpu"`
	ConnectivityAnswer string `json:"connectivity"`
	Phone              string `json:"phone"`
	ContactHandle      string `json:"contact_handle"`
	Status             string `json:"status"`
	StatusLabel        string `json:"status_label"`
	SubmittedAt        string `json:"submitted_at"`
	ReferrerID         int64  `json:"referrer_id"`
	SubmitterID        int64  `json:"submitter_id"`
}

// SummaryRecord is the list-row projection of an application.
type SummaryRecord struct {
	ID          int64  `json:"id"`
	FullName    string `json:"full_name"`
	SubmittedAt string `json:"submitted_at"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
}

var labels = application.DefaultLabels()

// ToRecord converts an application to its JSON projection.
func ToRecord(a *application.Application) Record {
	return Record{
		ID:                 a.ID,
		FullName:           a.FullName,
		DateOfBirth:        a.DateOfBirth,
		EnglishLevel:       a.EnglishLevel,
		CPU:                a.CPU,
		GPU:                a.GPU,
		ConnectivityAnswer: a.ConnectivityAnswer,
		Phone:              a.Phone,
		ContactHandle:      a.ContactHandle,
		Status:             string(a.Status),
		StatusLabel:        labels.For(a.Status).String(),
		SubmittedAt:        a.SubmittedAt.Format(application.DateLayout),
		ReferrerID:         a.ReferrerID,
		SubmitterID:        a.SubmitterID,
	}
}

func toSummary(a *application.Application) SummaryRecord {
	s := a.Summarize()
	return SummaryRecord{
		ID:          s.ID,
		FullName:    s.FullName,
		SubmittedAt: s.SubmittedAt.Format(application.DateLayout),
		Status:      string(s.Status),
		StatusLabel: labels.For(s.Status).String(),
	}
}
