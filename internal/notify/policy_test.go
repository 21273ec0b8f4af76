package notify

import (
	"testing"
	"time"

	"github.com/Gamfluent/Nag-Me/internal/model"
)

var policyNow = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func dueIn(d time.Duration) time.Time { return policyNow.Add(d) }

func TestIntervalTable(t *testing.T) {
	day := 24 * time.Hour
	cases := []struct {
		name     string
		priority int
		due      time.Time
		wantMin  int
	}{
		{"high final day", 8, dueIn(12 * time.Hour), 30},
		{"high exactly one day", 8, dueIn(day), 30},
		{"medium final day", 5, dueIn(6 * time.Hour), 60},
		{"low final day", 4, dueIn(20 * time.Hour), 120},
		{"high close", 9, dueIn(2 * day), 120},
		{"medium close", 6, dueIn(3 * day), 240},
		{"low close", 4, dueIn(2 * day), 360},
		{"high distant", 10, dueIn(10 * day), 720},
		{"medium distant", 7, dueIn(4 * day), 1440},
		{"low distant", 1, dueIn(30 * day), 2880},
		{"tier boundary p5 is medium", 5, dueIn(2 * day), 240},
		{"tier boundary p8 is high", 8, dueIn(2 * day), 120},
		{"band boundary 3 days is close", 3, dueIn(3 * day), 360},
		{"just past 3 days is distant", 3, dueIn(3*day + time.Minute), 2880},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Interval(tc.priority, tc.due, policyNow)
			want := time.Duration(tc.wantMin) * time.Minute
			if got != want {
				t.Fatalf("Interval(%d, due in %v) = %v, want %v", tc.priority, tc.due.Sub(policyNow), got, want)
			}
		})
	}
}

func TestIntervalToleratesOutOfRangePriority(t *testing.T) {
	if got := Interval(99, dueIn(2*time.Hour), policyNow); got != 30*time.Minute {
		t.Fatalf("priority 99 should clamp to high tier, got %v", got)
	}
	if got := Interval(-1, dueIn(2*time.Hour), policyNow); got != 120*time.Minute {
		t.Fatalf("priority -1 should clamp to low tier, got %v", got)
	}
}

func TestEligible(t *testing.T) {
	task := model.Task{ID: "t", Title: "x", Priority: 5, DueAt: dueIn(time.Hour), CreatedAt: policyNow}
	if !Eligible(task, policyNow) {
		t.Fatalf("incomplete future task should be eligible")
	}

	done := task
	done.Completed = true
	if Eligible(done, policyNow) {
		t.Fatalf("completed task must never be eligible")
	}

	overdue := task
	overdue.DueAt = policyNow.Add(-time.Minute)
	if Eligible(overdue, policyNow) {
		t.Fatalf("overdue task must never be eligible")
	}

	dueNow := task
	dueNow.DueAt = policyNow
	if Eligible(dueNow, policyNow) {
		t.Fatalf("due date must be strictly in the future")
	}
}
