package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("save slot: %w", Wrap(CodeSaveNotFound, "get save", stderrors.New("missing")))
	if !stderrors.Is(err, New(CodeSaveNotFound, "")) {
		t.Fatal("expected errors.Is to match by code")
	}
	if stderrors.Is(err, New(CodeSaveCorrupt, "")) {
		t.Fatal("expected mismatch for different code")
	}
}

func TestCodeOfWalksChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeNoDeploymentSlots, "full"))
	if got := CodeOf(err); got != CodeNoDeploymentSlots {
		t.Fatalf("code = %s, want %s", got, CodeNoDeploymentSlots)
	}
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("code = %s, want %s", got, CodeUnknown)
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Wrap(CodeStorageUnavailable, "open bbolt", stderrors.New("timeout"))
	if err.Error() != "open bbolt: timeout" {
		t.Fatalf("error = %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		code Code
		want Kind
	}{
		{CodeInsufficientFunding, KindPrecondition},
		{CodeInvalidAmount, KindValidation},
		{CodeInvalidTarget, KindValidation},
		{CodeSaveNotFound, KindNotFound},
		{CodeStorageUnavailable, KindUnavailable},
		{CodeSaveCorrupt, KindInternal},
	}
	for _, tt := range tests {
		if got := tt.code.Kind(); got != tt.want {
			t.Fatalf("%s kind = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestReasonRendersMetadata(t *testing.T) {
	got := Reason("en-US", CodeInsufficientFunding, map[string]string{"Required": "500", "Available": "20"})
	want := "Not enough funding: need 500, have 20"
	if got != want {
		t.Fatalf("reason = %q, want %q", got, want)
	}
}

func TestReasonMatchesPortuguese(t *testing.T) {
	got := Reason("pt-BR", CodeInvalidAmount, nil)
	if got != "A quantidade deve ser maior que zero" {
		t.Fatalf("reason = %q", got)
	}
}

func TestReasonFallsBackToEnglishThenCode(t *testing.T) {
	if got := Reason("pt-BR", CodeSaveNameEmpty, nil); got != "A save slot name is required" {
		t.Fatalf("reason = %q", got)
	}
	if got := Reason("fr-FR", CodeUnknown, nil); got != "UNKNOWN" {
		t.Fatalf("reason = %q", got)
	}
}

func TestErrorReason(t *testing.T) {
	err := WithMetadata(CodeNoDeploymentSlots, "deploy", map[string]string{"Slots": "3"})
	if got := err.Reason(""); got != "All 3 deployment slots are in use" {
		t.Fatalf("reason = %q", got)
	}
}
