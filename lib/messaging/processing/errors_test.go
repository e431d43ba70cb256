package processing

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsPermanent(t *testing.T) {
	base := errors.New("bad payload")

	if !IsPermanent(Permanent(base)) {
		t.Error("expected wrapped error to be permanent")
	}
	if IsPermanent(base) {
		t.Error("plain error must not be permanent")
	}
	if IsPermanent(nil) {
		t.Error("nil must not be permanent")
	}
}

func TestIsPermanent_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", Permanent(errors.New("bad payload")))
	if !IsPermanent(err) {
		t.Error("permanence must survive further wrapping")
	}
}

func TestPermanent_NilPassthrough(t *testing.T) {
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) must stay nil")
	}
}

func TestPermanent_Unwrap(t *testing.T) {
	base := errors.New("bad payload")
	if !errors.Is(Permanent(base), base) {
		t.Error("expected original error in chain")
	}
}
