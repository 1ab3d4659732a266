package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeGroupTooSmall, "a group needs at least %d nodes", 2)

	if err.Code != ErrCodeGroupTooSmall {
		t.Errorf("Code = %s", err.Code)
	}
	want := "GROUP_TOO_SMALL: a group needs at least 2 nodes"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeInternal, cause, "saving session %s", "abc")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
	want := "INTERNAL_ERROR: saving session abc: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := New(ErrCodeNodeNotFound, "node missing")

	if !Is(err, ErrCodeNodeNotFound) {
		t.Error("Is should match the code")
	}
	if Is(err, ErrCodeGroupNotFound) {
		t.Error("Is matched the wrong code")
	}
	if Is(stderrors.New("plain"), ErrCodeNodeNotFound) {
		t.Error("Is matched a plain error")
	}

	// Codes survive fmt wrapping.
	wrapped := fmt.Errorf("handling request: %w", err)
	if GetCode(wrapped) != ErrCodeNodeNotFound {
		t.Errorf("GetCode(wrapped) = %s", GetCode(wrapped))
	}
	if GetCode(stderrors.New("plain")) != "" {
		t.Error("GetCode on a plain error should be empty")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeEmptyTitle, "group title cannot be empty")
	if got := UserMessage(err); got != "group title cannot be empty" {
		t.Errorf("UserMessage = %q", got)
	}

	plain := stderrors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
