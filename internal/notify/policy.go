package notify

import (
	"time"

	"github.com/Gamfluent/Nag-Me/internal/model"
)

type Tier string

const (
	TierHigh   Tier = "High"
	TierMedium Tier = "Medium"
	TierLow    Tier = "Low"
)

// TierFor buckets a 1-10 priority: High >= 8, Medium >= 5, Low below that.
func TierFor(priority int) Tier {
	switch {
	case priority >= 8:
		return TierHigh
	case priority >= 5:
		return TierMedium
	default:
		return TierLow
	}
}

type Band string

const (
	BandFinalDay Band = "FinalDay" // due within one day
	BandClose    Band = "Close"    // due within three days
	BandDistant  Band = "Distant"  // everything further out
)

// BandFor buckets the time remaining until the due moment. Boundaries are
// inclusive: exactly one day out is still FinalDay, exactly three days out is
// still Close.
func BandFor(dueAt, now time.Time) Band {
	daysUntilDue := dueAt.Sub(now).Hours() / 24
	switch {
	case daysUntilDue <= 1:
		return BandFinalDay
	case daysUntilDue <= 3:
		return BandClose
	default:
		return BandDistant
	}
}

// intervalMinutes is the nag cadence table: rows by band, columns by tier.
var intervalMinutes = map[Band]map[Tier]int{
	BandFinalDay: {TierHigh: 30, TierMedium: 60, TierLow: 120},
	BandClose:    {TierHigh: 120, TierMedium: 240, TierLow: 360},
	BandDistant:  {TierHigh: 720, TierMedium: 1440, TierLow: 2880},
}

// Interval computes the repeat interval for a task's recurring alert. It is
// evaluated once at schedule time; the registration keeps this cadence until
// the next edit-triggered sync even if the task drifts into a nearer band.
func Interval(priority int, dueAt, now time.Time) time.Duration {
	tier := TierFor(model.ClampPriority(priority))
	band := BandFor(dueAt, now)
	return time.Duration(intervalMinutes[band][tier]) * time.Minute
}

// Eligible reports whether a task should carry an active recurring alert:
// incomplete and due strictly in the future.
func Eligible(t model.Task, now time.Time) bool {
	return !t.Completed && t.DueAt.After(now)
}
