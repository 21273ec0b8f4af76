package model

import (
	"errors"
	"testing"
	"time"
)

func validTask() Task {
	return Task{
		ID:        "task-1",
		Title:     "Pay rent",
		DueAt:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Priority:  7,
		CreatedAt: time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC),
	}
}

func TestTaskValidate(t *testing.T) {
	if err := validTask().Validate(); err != nil {
		t.Fatalf("valid task rejected: %v", err)
	}

	missingTitle := validTask()
	missingTitle.Title = "   "
	if err := missingTitle.Validate(); err == nil {
		t.Fatalf("expected error for blank title")
	}

	badPriority := validTask()
	badPriority.Priority = 11
	if err := badPriority.Validate(); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}

	noDue := validTask()
	noDue.DueAt = time.Time{}
	if err := noDue.Validate(); err == nil {
		t.Fatalf("expected error for zero due time")
	}
}

func TestPatchApplyLeavesUnsetFieldsAlone(t *testing.T) {
	base := validTask()
	title := "Pay rent early"
	pri := 9
	patched := Patch{Title: &title, Priority: &pri}.Apply(base)

	if patched.Title != title || patched.Priority != pri {
		t.Fatalf("patch not applied: %#v", patched)
	}
	if patched.Description != base.Description || !patched.DueAt.Equal(base.DueAt) {
		t.Fatalf("untouched fields changed: %#v", patched)
	}
	if patched.ID != base.ID || !patched.CreatedAt.Equal(base.CreatedAt) {
		t.Fatalf("immutable fields changed: %#v", patched)
	}
}

func TestPatchApplyEmptyIsIdentity(t *testing.T) {
	base := validTask()
	if got := (Patch{}).Apply(base); got != base {
		t.Fatalf("empty patch changed task: %#v", got)
	}
}

func TestClampPriority(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{5, 5},
		{10, 10},
		{42, 10},
	}
	for _, tc := range cases {
		if got := ClampPriority(tc.in); got != tc.want {
			t.Fatalf("ClampPriority(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
