package ledger

import (
	"context"
	"time"
)

// DailyScore is the points attributed to one calendar day, capped at
// DailyPointCap. Only on-time awards count; the cap never claws back the
// balance, it bounds the displayed figure.
func (l *Ledger) DailyScore(ctx context.Context, day time.Time) (int, error) {
	log, err := l.readLog(ctx)
	if err != nil {
		return 0, err
	}
	return capScore(sumDay(log, day), DailyPointCap), nil
}

// WeeklyScore is the points attributed to the Monday-start calendar week
// containing day, capped at WeeklyPointGoal.
func (l *Ledger) WeeklyScore(ctx context.Context, day time.Time) (int, error) {
	log, err := l.readLog(ctx)
	if err != nil {
		return 0, err
	}
	return capScore(sumWeek(log, day), WeeklyPointGoal), nil
}

// CompletedToday counts completion instances recorded on the given day.
func (l *Ledger) CompletedToday(ctx context.Context, day time.Time) (int, error) {
	log, err := l.readLog(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range log {
		if SameDay(e.CompletedAt, day) {
			n++
		}
	}
	return n, nil
}

func sumDay(log []CompletionEntry, day time.Time) int {
	sum := 0
	for _, e := range log {
		if e.OnTime && SameDay(e.CompletedAt, day) {
			sum += e.Points
		}
	}
	return sum
}

// sumWeek is the uncapped weekly on-time total. The point_collector stages
// evaluate against this raw sum; capping here would make the higher
// thresholds unreachable.
func sumWeek(log []CompletionEntry, day time.Time) int {
	ws := StartOfWeek(day)
	we := ws.AddDate(0, 0, 7)
	sum := 0
	for _, e := range log {
		if e.OnTime && !e.CompletedAt.Before(ws) && e.CompletedAt.Before(we) {
			sum += e.Points
		}
	}
	return sum
}

func capScore(sum, limit int) int {
	if sum > limit {
		return limit
	}
	return sum
}
