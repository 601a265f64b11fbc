package review

import (
	"strconv"
	"strings"

	"github.com/hpungsan/scout/internal/application"
	"github.com/hpungsan/scout/internal/errors"
)

// Action is the verb of a review command.
type Action string

const (
	ActionMenu          Action = "menu"
	ActionListAll       Action = "all"
	ActionListReferrals Action = "refs"
	ActionView          Action = "view"
	ActionSetStatus     Action = "status"
	ActionDelete        Action = "del"
	ActionConfirmDelete Action = "delok"
)

// Command is a decoded review action. It travels as callback data, which
// Telegram caps at 64 bytes; the longest encoding stays well under that.
type Command struct {
	Action        Action
	ApplicationID int64
	ReferrerID    int64
	Status        application.Status
}

// MenuCommand returns to the main menu.
func MenuCommand() Command {
	return Command{Action: ActionMenu}
}

// ListAllCommand lists every application.
func ListAllCommand() Command {
	return Command{Action: ActionListAll}
}

// ReferralsCommand lists the applications credited to one referrer.
func ReferralsCommand(referrerID int64) Command {
	return Command{Action: ActionListReferrals, ReferrerID: referrerID}
}

// ViewCommand opens the detail view of one application.
func ViewCommand(id int64) Command {
	return Command{Action: ActionView, ApplicationID: id}
}

// StatusCommand moves one application to status s.
func StatusCommand(id int64, s application.Status) Command {
	return Command{Action: ActionSetStatus, ApplicationID: id, Status: s}
}

// DeleteCommand asks for delete confirmation.
func DeleteCommand(id int64) Command {
	return Command{Action: ActionDelete, ApplicationID: id}
}

// ConfirmDeleteCommand deletes the application.
func ConfirmDeleteCommand(id int64) Command {
	return Command{Action: ActionConfirmDelete, ApplicationID: id}
}

// String encodes c as callback data.
func (c Command) String() string {
	switch c.Action {
	case ActionMenu, ActionListAll:
		return string(c.Action)
	case ActionListReferrals:
		return join(c.Action, strconv.FormatInt(c.ReferrerID, 10))
	case ActionView, ActionDelete, ActionConfirmDelete:
		return join(c.Action, strconv.FormatInt(c.ApplicationID, 10))
	case ActionSetStatus:
		return join(c.Action, strconv.FormatInt(c.ApplicationID, 10), string(c.Status))
	default:
		return ""
	}
}

func join(a Action, parts ...string) string {
	return string(a) + ":" + strings.Join(parts, ":")
}

// ParseCommand decodes callback data. Anything that is not exactly one of the
// encodings produced by Command.String is MALFORMED_COMMAND.
func ParseCommand(data string) (Command, error) {
	parts := strings.Split(data, ":")
	malformed := errors.NewMalformedCommand(data)

	action := Action(parts[0])
	switch action {
	case ActionMenu, ActionListAll:
		if len(parts) != 1 {
			return Command{}, malformed
		}
		return Command{Action: action}, nil

	case ActionListReferrals:
		if len(parts) != 2 {
			return Command{}, malformed
		}
		id, ok := parseID(parts[1], true)
		if !ok {
			return Command{}, malformed
		}
		return ReferralsCommand(id), nil

	case ActionView, ActionDelete, ActionConfirmDelete:
		if len(parts) != 2 {
			return Command{}, malformed
		}
		id, ok := parseID(parts[1], false)
		if !ok {
			return Command{}, malformed
		}
		return Command{Action: action, ApplicationID: id}, nil

	case ActionSetStatus:
		if len(parts) != 3 {
			return Command{}, malformed
		}
		id, ok := parseID(parts[1], false)
		if !ok {
			return Command{}, malformed
		}
		if parts[2] != strings.ToLower(strings.TrimSpace(parts[2])) {
			return Command{}, malformed
		}
		status, err := application.ParseStatus(parts[2])
		if err != nil || !isTransition(status) {
			return Command{}, malformed
		}
		return StatusCommand(id, status), nil

	default:
		return Command{}, malformed
	}
}

// parseID accepts canonical decimal integers only.
func parseID(s string, allowZero bool) (int64, bool) {
	if s == "" || (s[0] == '0' && len(s) > 1) {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	if id == 0 && !allowZero {
		return 0, false
	}
	return id, true
}

func isTransition(s application.Status) bool {
	for _, t := range application.Transitions {
		if t == s {
			return true
		}
	}
	return false
}
