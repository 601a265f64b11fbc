package errors

import (
	"fmt"
	"testing"
)

func TestScoutError_Error(t *testing.T) {
	err := &ScoutError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "application not found",
	}

	expected := "NOT_FOUND: application not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("id is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "id is required" {
		t.Errorf("Message = %q, want %q", err.Message, "id is required")
	}
}

func TestNewInvalidStatus(t *testing.T) {
	err := NewInvalidStatus("hired")

	if err.Code != ErrInvalidStatus {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidStatus)
	}
	if err.Details["status"] != "hired" {
		t.Errorf("Details[status] = %v, want %q", err.Details["status"], "hired")
	}
}

func TestNewMalformedCommand(t *testing.T) {
	err := NewMalformedCommand("view_abc")

	if err.Code != ErrMalformedCommand {
		t.Errorf("Code = %q, want %q", err.Code, ErrMalformedCommand)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Details["data"] != "view_abc" {
		t.Errorf("Details[data] = %v, want %q", err.Details["data"], "view_abc")
	}
}

func TestNewForbidden(t *testing.T) {
	err := NewForbidden(42)

	if err.Code != ErrForbidden {
		t.Errorf("Code = %q, want %q", err.Code, ErrForbidden)
	}
	if err.Status != 403 {
		t.Errorf("Status = %d, want 403", err.Status)
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound(17)

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["id"] != int64(17) {
		t.Errorf("Details[id] = %v, want 17", err.Details["id"])
	}
}

func TestNewAlreadyApplied(t *testing.T) {
	err := NewAlreadyApplied(555)

	if err.Code != ErrAlreadyApplied {
		t.Errorf("Code = %q, want %q", err.Code, ErrAlreadyApplied)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Details["submitter_id"] != int64(555) {
		t.Errorf("Details[submitter_id] = %v, want 555", err.Details["submitter_id"])
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		originalErr := fmt.Errorf("database connection failed")
		err := NewInternal(originalErr)

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		if err.Status != 500 {
			t.Errorf("Status = %d, want 500", err.Status)
		}
		// Message should be generic (not leak internal details)
		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details["internal_error"] != "database connection failed" {
			t.Errorf("Details[internal_error] = %q, want %q", err.Details["internal_error"], "database connection failed")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)

		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details == nil {
			t.Error("Details should not be nil")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		err := NewNotFound(1)
		if !Is(err, ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		err := NewNotFound(1)
		if Is(err, ErrAlreadyApplied) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("non-ScoutError", func(t *testing.T) {
		err := fmt.Errorf("plain error")
		if Is(err, ErrNotFound) {
			t.Error("Is() = true, want false for non-ScoutError")
		}
	})

	t.Run("wrapped ScoutError", func(t *testing.T) {
		inner := NewNotFound(1)
		wrapped := fmt.Errorf("status change: %w", inner)
		if !Is(wrapped, ErrNotFound) {
			t.Error("Is() = false, want true for wrapped ScoutError")
		}
		if Is(wrapped, ErrInternal) {
			t.Error("Is() = true, want false for wrong code on wrapped ScoutError")
		}
	})
}
