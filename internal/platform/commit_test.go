package platform

import (
	"strings"
	"testing"
)

func TestFormatChangeReason(t *testing.T) {
	got := FormatChangeReason(CommitTypeFeat, "notes", "add groceries", "")
	want := "feat(notes): add groceries\n\n" + Footer
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = FormatChangeReason("", "", "rename tag", "todo -> tasks")
	if !strings.HasPrefix(got, "docs: rename tag\n\ntodo -> tasks\n\n") {
		t.Errorf("unexpected message %q", got)
	}

	if AppendFooter(got) != got {
		t.Error("footer appended twice")
	}
}
