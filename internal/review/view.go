package review

import (
	"fmt"
	"strings"

	"github.com/hpungsan/scout/internal/application"
)

// Screen is the review state a View renders.
type Screen int

const (
	// ScreenUnchanged leaves the current message as it is; only the notice is shown.
	ScreenUnchanged Screen = iota
	ScreenMenu
	ScreenList
	ScreenDetail
	ScreenConfirmDelete
)

func (s Screen) String() string {
	switch s {
	case ScreenUnchanged:
		return "unchanged"
	case ScreenMenu:
		return "menu"
	case ScreenList:
		return "list"
	case ScreenDetail:
		return "detail"
	case ScreenConfirmDelete:
		return "confirm_delete"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// Button is one inline keyboard button.
type Button struct {
	Text    string
	Command Command
}

// Notice is a transient message shown over the current screen.
// Alert asks the transport for a modal popup instead of a toast.
type Notice struct {
	Text  string
	Alert bool
}

// View is the rendered result of a review command.
type View struct {
	Screen Screen
	Text   string
	Rows   [][]Button
	Notice *Notice
}

const (
	textMenu       = "🛠 Review panel\nChoose a section:"
	textStale      = "Application not found or was deleted!"
	textOrganic    = "None (organic)"
	textEmptyAll   = "📭 No applications yet."
	buttonAll      = "📋 All applications"
	buttonBack     = "🔙 Back"
	buttonMainMenu = "🔙 Main menu"
	buttonDelete   = "🗑 Delete"
	buttonConfirm  = "⚠️ YES, DELETE"
	buttonCancel   = "Cancel"
)

func (w *Workflow) menuView() *View {
	rows := [][]Button{{{Text: buttonAll, Command: ListAllCommand()}}}
	for _, op := range w.operators {
		rows = append(rows, []Button{{
			Text:    "👤 Referrals of " + op.Name,
			Command: ReferralsCommand(op.ID),
		}})
	}
	return &View{Screen: ScreenMenu, Text: textMenu, Rows: rows}
}

func (w *Workflow) listView(title string, items []application.Application) *View {
	rows := make([][]Button, 0, len(items)+1)
	for i := range items {
		a := &items[i]
		rows = append(rows, []Button{{
			Text:    w.rowText(a),
			Command: ViewCommand(a.ID),
		}})
	}
	rows = append(rows, []Button{{Text: buttonBack, Command: MenuCommand()}})
	return &View{
		Screen: ScreenList,
		Text:   fmt.Sprintf("%s (total: %d):", title, len(items)),
		Rows:   rows,
	}
}

// rowText renders "name | date | glyph".
func (w *Workflow) rowText(a *application.Application) string {
	return fmt.Sprintf("%s | %s | %s",
		a.FullName,
		a.SubmittedAt.Format(application.DisplayDateLayout),
		w.labels.For(a.Status).Glyph,
	)
}

func (w *Workflow) detailView(a *application.Application) *View {
	var b strings.Builder
	fmt.Fprintf(&b, "📄 APPLICATION #%d\n", a.ID)
	fmt.Fprintf(&b, "Status: %s\n", w.labels.For(a.Status))
	fmt.Fprintf(&b, "Submitted: %s\n", a.SubmittedAt.Format(application.DisplayDateLayout))
	fmt.Fprintf(&b, "Referral: %s\n\n", w.ReferralLabel(a.ReferrerID))
	fmt.Fprintf(&b, "👤 Name: %s\n", a.FullName)
	fmt.Fprintf(&b, "📅 Date of birth: %s\n", a.DateOfBirth)
	fmt.Fprintf(&b, "🇬🇧 English: %s\n\n", a.EnglishLevel)
	b.WriteString("💻 HARDWARE:\n")
	fmt.Fprintf(&b, "CPU: %s\n", a.CPU)
	fmt.Fprintf(&b, "GPU: %s\n", a.GPU)
	fmt.Fprintf(&b, "Internet/mic: %s\n\n", a.ConnectivityAnswer)
	b.WriteString("📞 CONTACTS:\n")
	fmt.Fprintf(&b, "Phone: %s\n", a.Phone)
	fmt.Fprintf(&b, "Telegram: %s", a.ContactHandle)

	var statusRows [][]Button
	for i, s := range application.Transitions {
		if i%2 == 0 {
			statusRows = append(statusRows, nil)
		}
		last := len(statusRows) - 1
		statusRows[last] = append(statusRows[last], Button{
			Text:    w.labels.For(s).String(),
			Command: StatusCommand(a.ID, s),
		})
	}

	rows := append(statusRows,
		[]Button{{Text: buttonDelete, Command: DeleteCommand(a.ID)}},
		[]Button{{Text: buttonMainMenu, Command: MenuCommand()}},
	)
	return &View{Screen: ScreenDetail, Text: b.String(), Rows: rows}
}

func confirmDeleteView(id int64) *View {
	return &View{
		Screen: ScreenConfirmDelete,
		Text:   fmt.Sprintf("❗️ Delete application #%d?\nThis cannot be undone.", id),
		Rows: [][]Button{
			{{Text: buttonConfirm, Command: ConfirmDeleteCommand(id)}},
			{{Text: buttonCancel, Command: ViewCommand(id)}},
		},
	}
}

// ReferralLabel names the referrer: an operator's display name, the organic
// label for no referrer, or the raw id of an unknown referrer.
func (w *Workflow) ReferralLabel(referrerID int64) string {
	if referrerID == application.NoReferrer {
		return textOrganic
	}
	if op, ok := w.operator(referrerID); ok {
		return op.Name
	}
	return fmt.Sprintf("Unknown ID (%d)", referrerID)
}
