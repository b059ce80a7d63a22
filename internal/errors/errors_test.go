package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	// GIVEN a detailed instance of a sentinel
	err := Wrapf(ErrInvalidAction, "move must be first action")

	t.Run("it matches its sentinel", func(t *testing.T) {
		if !errors.Is(err, ErrInvalidAction) {
			t.Error("expected detailed error to match ErrInvalidAction")
		}
	})

	t.Run("it does not match other codes", func(t *testing.T) {
		if errors.Is(err, ErrNotHost) {
			t.Error("expected INVALID_ACTION not to match NOT_HOST")
		}
	})

	t.Run("it keeps the detail message", func(t *testing.T) {
		if err.Error() != "move must be first action" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("it survives fmt wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("take action: %w", err)
		if !errors.Is(wrapped, ErrInvalidAction) {
			t.Error("expected wrapped error to match ErrInvalidAction")
		}
		if KindOf(wrapped) != KindValidation {
			t.Errorf("expected validation kind, got %s", KindOf(wrapped))
		}
	})
}

func TestWithKind(t *testing.T) {
	err := WithKind(Wrapf(ErrInvalidAction, "suggestion already made"), KindState)
	if KindOf(err) != KindState {
		t.Errorf("expected state kind, got %s", KindOf(err))
	}
	if !errors.Is(err, ErrInvalidAction) {
		t.Error("expected reclassified error to keep its code")
	}
	if ErrInvalidAction.Kind != KindValidation {
		t.Error("WithKind must not mutate the sentinel")
	}
}

func TestCauseIsReachable(t *testing.T) {
	cause := errors.New("space (9,9)")
	err := &Error{Kind: KindNotFound, Code: CodeNotFound, Message: "off the board", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable")
	}
	if CodeOf(err) != CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %q", CodeOf(err))
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Error("expected unknown kind for plain errors")
	}
}
