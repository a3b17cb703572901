package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf_SeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create call: %w", NotFound("Usuario con ID %d no encontrado", 7))
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not_found, got %s", KindOf(err))
	}
	if DetailOf(err) != "Usuario con ID 7 no encontrado" {
		t.Fatalf("unexpected detail %q", DetailOf(err))
	}
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	if KindOf(errors.New("boom")) != KindInternal {
		t.Fatalf("expected internal")
	}
	if Is(nil, KindInternal) {
		t.Fatalf("nil must not match any kind")
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(KindConflict, cause, "ya existe")
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	if !Is(err, KindConflict) {
		t.Fatalf("expected conflict")
	}
}
