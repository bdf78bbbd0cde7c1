package ledger

import (
	"context"
	"time"
)

// Snapshot is a read-only view of the ledger's aggregates for display.
type Snapshot struct {
	PointsBalance      int
	StreakCount        int
	CompletedTaskCount int
	LastLogin          *time.Time
	Achievements       map[string]Progress
}

func (l *Ledger) Snapshot(ctx context.Context) (*Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, err := l.readInt(ctx, PointsBalanceKey, InitialPoints)
	if err != nil {
		return nil, err
	}
	streak, err := l.readInt(ctx, StreakCountKey, 0)
	if err != nil {
		return nil, err
	}
	count, err := l.readInt(ctx, CompletedCountKey, 0)
	if err != nil {
		return nil, err
	}

	var lastLogin *time.Time
	if raw, ok, err := l.store.Get(ctx, LastLoginKey); err != nil {
		return nil, err
	} else if ok {
		if t, parsed := parseStoredDate(raw); parsed {
			lastLogin = &t
		}
	}

	ach, err := l.readAchievements(ctx)
	if err != nil {
		return nil, err
	}
	view := make(map[string]Progress, len(ach))
	for id, p := range ach {
		if p != nil {
			view[id] = *p
		}
	}

	return &Snapshot{
		PointsBalance:      balance,
		StreakCount:        streak,
		CompletedTaskCount: count,
		LastLogin:          lastLogin,
		Achievements:       view,
	}, nil
}
