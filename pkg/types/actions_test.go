package types

import "testing"

func TestActionDefaultSeverity(t *testing.T) {
	cases := map[Action]Severity{
		ActionAuthLogin:      SeverityInfo,
		ActionProjectCreate:  SeverityInfo,
		ActionUserDelete:     SeverityWarning,
		ActionUserRoleChange: SeverityWarning,
		ActionProjectDelete:  SeverityWarning,
		ActionQuoteDelete:    SeverityWarning,
		ActionFileDelete:     SeverityWarning,
		ActionAuthMFADisable: SeverityWarning,
		ActionSystemError:    SeverityError,
	}
	for action, want := range cases {
		if got := action.DefaultSeverity(); got != want {
			t.Fatalf("%s: expected %s, got %s", action, want, got)
		}
	}
}

func TestActionCritical(t *testing.T) {
	critical := []Action{
		ActionUserRoleChange,
		ActionUserDelete,
		ActionProjectDelete,
		ActionQuoteDelete,
		ActionAuthMFADisable,
	}
	for _, action := range critical {
		if !action.Critical() {
			t.Fatalf("expected %s to be critical", action)
		}
	}

	routine := []Action{ActionAuthLogin, ActionAPICall, ActionFileUpload}
	for _, action := range routine {
		if action.Critical() {
			t.Fatalf("expected %s not to be critical", action)
		}
	}
}

func TestActionKnown(t *testing.T) {
	if !ActionQuoteAccept.Known() {
		t.Fatalf("expected quote.accept to be known")
	}
	if Action("quote.reject").Known() {
		t.Fatalf("expected quote.reject to be unknown")
	}
}

func TestDescriptionFor(t *testing.T) {
	withName := DescriptionFor(ActionProjectCreate, "Skyline")
	if withName == "" || withName == string(ActionProjectCreate) {
		t.Fatalf("expected templated description, got %q", withName)
	}

	bare := DescriptionFor(ActionProjectCreate, "  ")
	if bare == "" || bare == withName {
		t.Fatalf("expected description without resource name, got %q", bare)
	}

	unknown := DescriptionFor(Action("made.up"), "x")
	if unknown != "made.up" {
		t.Fatalf("expected fallback to action string, got %q", unknown)
	}
}
