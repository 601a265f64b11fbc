package review

import (
	"testing"

	"github.com/hpungsan/scout/internal/application"
	"github.com/hpungsan/scout/internal/errors"
)

func TestCommand_RoundTrip(t *testing.T) {
	cmds := []Command{
		MenuCommand(),
		ListAllCommand(),
		ReferralsCommand(111),
		ReferralsCommand(0),
		ViewCommand(42),
		DeleteCommand(42),
		ConfirmDeleteCommand(42),
		StatusCommand(42, application.StatusRejected),
		StatusCommand(42, application.StatusInterview),
		StatusCommand(42, application.StatusTraining),
		StatusCommand(9223372036854775807, application.StatusWorking),
	}

	for _, cmd := range cmds {
		data := cmd.String()
		if len(data) > 64 {
			t.Errorf("%q exceeds 64 bytes", data)
		}
		got, err := ParseCommand(data)
		if err != nil {
			t.Errorf("ParseCommand(%q) error = %v", data, err)
			continue
		}
		if got != cmd {
			t.Errorf("ParseCommand(%q) = %+v, want %+v", data, got, cmd)
		}
	}
}

func TestParseCommand_Alias(t *testing.T) {
	got, err := ParseCommand("status:7:reject")
	if err != nil {
		t.Fatalf("ParseCommand error = %v", err)
	}
	if got.Status != application.StatusRejected {
		t.Errorf("Status = %q, want %q", got.Status, application.StatusRejected)
	}
}

func TestParseCommand_Malformed(t *testing.T) {
	tests := []string{
		"",
		"menu:1",
		"all:x",
		"refs",
		"refs:",
		"refs:abc",
		"refs:-1",
		"view",
		"view:",
		"view:0",
		"view:abc",
		"view:12x",
		"view:007",
		"view:+5",
		"view:1:2",
		"view_12",
		"status:1",
		"status:1:new",
		"status:1:hired",
		"status:1:Interview",
		"status:x:interview",
		"del:",
		"delok:abc",
		"show_all_apps",
		"view:99999999999999999999",
	}

	for _, data := range tests {
		t.Run(data, func(t *testing.T) {
			_, err := ParseCommand(data)
			if !errors.Is(err, errors.ErrMalformedCommand) {
				t.Errorf("ParseCommand(%q) error = %v, want MALFORMED_COMMAND", data, err)
			}
		})
	}
}
