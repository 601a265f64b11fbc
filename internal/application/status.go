package application

import (
	"strings"

	"github.com/hpungsan/scout/internal/errors"
)

// Status is the disposition stage of an application.
type Status string

const (
	StatusNew       Status = "new"
	StatusRejected  Status = "rejected"
	StatusInterview Status = "interview"
	StatusTraining  Status = "training"
	StatusWorking   Status = "working"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusNew, StatusRejected, StatusInterview, StatusTraining, StatusWorking}

// Transitions lists the statuses an operator can move an application to.
var Transitions = []Status{StatusRejected, StatusInterview, StatusTraining, StatusWorking}

// Label is the human-readable rendering of a status.
type Label struct {
	Glyph string
	Text  string
}

// String returns the glyph and text joined by a space.
func (l Label) String() string {
	return l.Glyph + " " + l.Text
}

// LabelTable maps each status to its label.
type LabelTable map[Status]Label

// DefaultLabels returns the standard label table.
func DefaultLabels() LabelTable {
	return LabelTable{
		StatusNew:       {Glyph: "🆕", Text: "New"},
		StatusRejected:  {Glyph: "❌", Text: "Rejected"},
		StatusInterview: {Glyph: "💬", Text: "Interview"},
		StatusTraining:  {Glyph: "📚", Text: "In training"},
		StatusWorking:   {Glyph: "✅", Text: "Active"},
	}
}

// For returns the label of s, or a "?" label for a status missing from the table.
func (t LabelTable) For(s Status) Label {
	if l, ok := t[s]; ok {
		return l
	}
	return Label{Glyph: "❓", Text: "Unknown"}
}

// Valid reports whether s is a member of the lifecycle set.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusRejected, StatusInterview, StatusTraining, StatusWorking:
		return true
	}
	return false
}

// ParseStatus parses a status name. "reject" is accepted as an alias of "rejected".
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if s == "reject" {
		s = StatusRejected
	}
	if !s.Valid() {
		return "", errors.NewInvalidStatus(raw)
	}
	return s, nil
}
