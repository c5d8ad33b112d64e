package uuid

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	id := New()
	if !IsValid(id) {
		t.Fatalf("expected a valid UUID, got %q", id)
	}
	if id[14] != '7' {
		t.Errorf("expected version 7, got %q", id)
	}

	next := New()
	if next == id {
		t.Error("expected unique ids")
	}
}

func TestParse(t *testing.T) {
	t.Run("canonicalises", func(t *testing.T) {
		upper := strings.ToUpper(New())
		got, err := Parse(upper)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != strings.ToLower(upper) {
			t.Errorf("expected lower-case form, got %q", got)
		}
	})

	t.Run("rejects_garbage", func(t *testing.T) {
		if _, err := Parse("not-a-uuid"); err == nil {
			t.Error("expected error")
		}
		if IsValid("transfer-out") {
			t.Error("reserved category ids are not UUIDs")
		}
	})
}
