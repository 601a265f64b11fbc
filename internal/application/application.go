package application

import "time"

// NoReferrer is the referrer identity stored for organic submissions.
const NoReferrer int64 = 0

// HiddenHandle is stored as the contact handle when the submitter has no public username.
const HiddenHandle = "hidden"

// DateLayout is the storage layout of SubmittedAt.
const DateLayout = "2006-01-02"

// DisplayDateLayout is the layout used when a submission date is shown to operators.
const DisplayDateLayout = "02.01.2006"

// Application is one completed questionnaire.
type Application struct {
	// ID is assigned by the store on insert and never changes
	ID int64

	FullName           string
	DateOfBirth        string
	EnglishLevel       string
	CPU                string
	GPU                string
	ConnectivityAnswer string

	// Phone holds digits only (see NormalizePhone)
	Phone string

	// ContactHandle is "@username" or HiddenHandle
	ContactHandle string

	Status Status

	// SubmittedAt is the calendar date of completion (time of day is dropped)
	SubmittedAt time.Time

	// ReferrerID is the operator credited for the submission, or NoReferrer
	ReferrerID int64

	// SubmitterID is the chat identity of the person who applied; unique per store
	SubmitterID int64
}

// Summary is the list-row projection of an Application.
type Summary struct {
	ID          int64
	FullName    string
	SubmittedAt time.Time
	Status      Status
}

// Summarize projects an application onto its list row.
func (a *Application) Summarize() Summary {
	return Summary{
		ID:          a.ID,
		FullName:    a.FullName,
		SubmittedAt: a.SubmittedAt,
		Status:      a.Status,
	}
}

// HandleFor returns the contact handle for a submitter username.
func HandleFor(username string) string {
	if username == "" {
		return HiddenHandle
	}
	return "@" + username
}

// Today truncates t to its calendar date in t's location.
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
