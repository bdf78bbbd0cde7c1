// Package ledger is the single authority for Taskify's reward state:
// points balance, achievement progress, streak count, completed-task count
// and the completion log. Every mutation rule (on-time awards, stage
// advancement, purchase deduction, streak transitions) lives here; UI
// surfaces are pure callers and observers.
package ledger

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"taskify/internal/storage"
	"taskify/internal/tasks"
)

// Store keys for the ledger's aggregates.
const (
	PointsBalanceKey  = "taskifyProUserPointsBalance"
	AchievementsKey   = "taskifyProAchievements"
	StreakCountKey    = "taskifyProStreakCount"
	LastLoginKey      = "taskifyProLastLogin"
	CompletedCountKey = "taskifyProCompletedTasksCount"
	CompletionLogKey  = "taskifyProCompletionLog"
)

const (
	// InitialPoints seeds a fresh (or recovered) balance.
	InitialPoints = 500

	// DailyPointCap bounds the displayed daily score. The spendable
	// balance always accrues the full on-time award; the cap applies to
	// analytics figures only.
	DailyPointCap = 150

	// WeeklyPointGoal bounds the displayed weekly score.
	WeeklyPointGoal = 1050
)

// ItemKind is the store category a purchase belongs to; it decides which
// store achievement the purchase can unlock.
type ItemKind string

const (
	ItemTheme ItemKind = "theme"
	ItemPet   ItemKind = "pet"
)

// CompletionEntry is one awarded completion instance, identified by
// (task id, due date). Recurring tasks produce one entry per cycle; the
// entry also makes replayed completions detectable.
type CompletionEntry struct {
	TaskID      string    `json:"taskId"`
	DueDate     time.Time `json:"dueDate"`
	CompletedAt time.Time `json:"completedAt"`
	Points      int       `json:"points"`
	OnTime      bool      `json:"onTime"`
}

// Ledger applies all reward mutations through the shared keyed store.
// Operations are serialized: at most one mutation is in flight at a time.
type Ledger struct {
	store *storage.Store
	mu    sync.Mutex
}

func New(store *storage.Store) *Ledger {
	return &Ledger{store: store}
}

// CompletionResult reports the outcome of recording one task completion.
type CompletionResult struct {
	TaskID             string
	OnTime             bool
	AwardedPoints      int
	PointsBalance      int
	CompletedTaskCount int
	DailyScore         int
	Duplicate          bool
	NewlyUnlocked      []UnlockEvent
}

// RecordTaskCompletion credits an on-time completion and advances the
// task-count and weekly-point achievements. Completing the same due-date
// instance twice is a no-op reporting Duplicate.
func (l *Ledger) RecordTaskCompletion(ctx context.Context, task tasks.Task, completedAt time.Time) (*CompletionResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	log, err := l.readLog(ctx)
	if err != nil {
		return nil, err
	}

	balance, err := l.readInt(ctx, PointsBalanceKey, InitialPoints)
	if err != nil {
		return nil, err
	}
	count, err := l.readInt(ctx, CompletedCountKey, 0)
	if err != nil {
		return nil, err
	}

	for _, e := range log {
		if e.TaskID == task.ID && e.DueDate.Equal(task.DueDate) {
			return &CompletionResult{
				TaskID:             task.ID,
				PointsBalance:      balance,
				CompletedTaskCount: count,
				DailyScore:         capScore(sumDay(log, completedAt), DailyPointCap),
				Duplicate:          true,
			}, nil
		}
	}

	onTime := !completedAt.After(EndOfDay(task.DueDate))
	awarded := 0
	if onTime {
		awarded = task.Points
	}
	balance += awarded
	if !task.Recurring() {
		count++
	}

	log = append(log, CompletionEntry{
		TaskID:      task.ID,
		DueDate:     task.DueDate,
		CompletedAt: completedAt,
		Points:      awarded,
		OnTime:      onTime,
	})

	ach, err := l.readAchievements(ctx)
	if err != nil {
		return nil, err
	}

	var events []UnlockEvent
	l.evalSingle(ach, FirstTaskCompleted, count >= 1, completedAt, &events, &balance)
	l.evalStages(ach, TaskMasterNovice, count, completedAt, &events, &balance)
	l.evalStages(ach, PointCollector, sumWeek(log, completedAt), completedAt, &events, &balance)

	if err := l.writeLog(ctx, log); err != nil {
		return nil, err
	}
	if err := l.writeInt(ctx, CompletedCountKey, count); err != nil {
		return nil, err
	}
	if err := l.writeAchievements(ctx, ach); err != nil {
		return nil, err
	}
	if err := l.writeInt(ctx, PointsBalanceKey, balance); err != nil {
		return nil, err
	}

	return &CompletionResult{
		TaskID:             task.ID,
		OnTime:             onTime,
		AwardedPoints:      awarded,
		PointsBalance:      balance,
		CompletedTaskCount: count,
		DailyScore:         capScore(sumDay(log, completedAt), DailyPointCap),
		NewlyUnlocked:      events,
	}, nil
}

// PurchaseResult reports a successful store purchase.
type PurchaseResult struct {
	ItemID        string
	Cost          int
	PointsBalance int
	NewlyUnlocked []UnlockEvent
}

// UnlockStoreItem deducts the item cost and fires the category's
// first-purchase achievement. An unaffordable purchase returns
// InsufficientPointsError and mutates nothing. An exact-match balance is
// allowed and leaves the balance at zero.
func (l *Ledger) UnlockStoreItem(ctx context.Context, itemID string, cost int, kind ItemKind, now time.Time) (*PurchaseResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, err := l.readInt(ctx, PointsBalanceKey, InitialPoints)
	if err != nil {
		return nil, err
	}
	if balance < cost {
		return nil, &InsufficientPointsError{Cost: cost, Balance: balance}
	}
	balance -= cost

	ach, err := l.readAchievements(ctx)
	if err != nil {
		return nil, err
	}

	var events []UnlockEvent
	switch kind {
	case ItemTheme:
		l.evalSingle(ach, StyleStarter, true, now, &events, &balance)
	case ItemPet:
		l.evalSingle(ach, PetPal, true, now, &events, &balance)
	}

	log, err := l.readLog(ctx)
	if err != nil {
		return nil, err
	}
	l.evalStages(ach, PointCollector, sumWeek(log, now), now, &events, &balance)

	if err := l.writeAchievements(ctx, ach); err != nil {
		return nil, err
	}
	if err := l.writeInt(ctx, PointsBalanceKey, balance); err != nil {
		return nil, err
	}

	return &PurchaseResult{
		ItemID:        itemID,
		Cost:          cost,
		PointsBalance: balance,
		NewlyUnlocked: events,
	}, nil
}

// LoginResult reports a daily login.
type LoginResult struct {
	Streak        int
	Extended      bool // true when today extended or started a streak
	NewlyUnlocked []UnlockEvent
}

// RecordDailyLogin advances the streak counter. Re-entry on the same day
// is idempotent (floored at 1); a gap resets to 1.
func (l *Ledger) RecordDailyLogin(ctx context.Context, today time.Time) (*LoginResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	streak, err := l.readInt(ctx, StreakCountKey, 0)
	if err != nil {
		return nil, err
	}
	lastRaw, hasLast, err := l.store.Get(ctx, LastLoginKey)
	if err != nil {
		return nil, err
	}

	extended := true
	last, parsed := time.Time{}, false
	if hasLast {
		last, parsed = parseStoredDate(lastRaw)
	}
	switch {
	case !parsed:
		streak = 1
	case SameDay(last, today):
		if streak < 1 {
			streak = 1
		} else {
			extended = false
		}
	case SameDay(last, today.AddDate(0, 0, -1)):
		streak++
	default:
		streak = 1
	}

	if err := l.store.Put(ctx, LastLoginKey, StartOfDay(today).Format(dateLayout)); err != nil {
		return nil, err
	}
	if err := l.writeInt(ctx, StreakCountKey, streak); err != nil {
		return nil, err
	}

	balance, err := l.readInt(ctx, PointsBalanceKey, InitialPoints)
	if err != nil {
		return nil, err
	}
	ach, err := l.readAchievements(ctx)
	if err != nil {
		return nil, err
	}

	var events []UnlockEvent
	l.evalStages(ach, StreakBeginner, streak, today, &events, &balance)

	log, err := l.readLog(ctx)
	if err != nil {
		return nil, err
	}
	l.evalStages(ach, PointCollector, sumWeek(log, today), today, &events, &balance)

	if err := l.writeAchievements(ctx, ach); err != nil {
		return nil, err
	}
	if err := l.writeInt(ctx, PointsBalanceKey, balance); err != nil {
		return nil, err
	}

	return &LoginResult{Streak: streak, Extended: extended, NewlyUnlocked: events}, nil
}

// EvaluatePointCollector re-checks the weekly on-time point thresholds
// against the current calendar week. The other operations already run this
// after their own mutations; it is exposed for callers that change the
// completion log out of band.
func (l *Ledger) EvaluatePointCollector(ctx context.Context, now time.Time) ([]UnlockEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	log, err := l.readLog(ctx)
	if err != nil {
		return nil, err
	}
	balance, err := l.readInt(ctx, PointsBalanceKey, InitialPoints)
	if err != nil {
		return nil, err
	}
	ach, err := l.readAchievements(ctx)
	if err != nil {
		return nil, err
	}

	var events []UnlockEvent
	l.evalStages(ach, PointCollector, sumWeek(log, now), now, &events, &balance)
	if len(events) == 0 {
		return nil, nil
	}

	if err := l.writeAchievements(ctx, ach); err != nil {
		return nil, err
	}
	if err := l.writeInt(ctx, PointsBalanceKey, balance); err != nil {
		return nil, err
	}
	return events, nil
}

func (l *Ledger) evalSingle(ach map[string]*Progress, id string, met bool, now time.Time, events *[]UnlockEvent, balance *int) {
	def, ok := Lookup(id)
	if !ok || def.MultiStage() {
		return
	}
	p := ach[id]
	if p == nil {
		p = &Progress{}
		ach[id] = p
	}
	unlockSingle(def, p, met, now, events, balance)
}

func (l *Ledger) evalStages(ach map[string]*Progress, id string, metric int, now time.Time, events *[]UnlockEvent, balance *int) {
	def, ok := Lookup(id)
	if !ok || !def.MultiStage() {
		return
	}
	p := ach[id]
	if p == nil {
		p = &Progress{}
		ach[id] = p
	}
	advanceStages(def, p, metric, now, events, balance)
}

// readInt reads a non-negative integer aggregate. A missing, unparsable or
// negative value reads as the default: corrupt state is recovered by
// reinitialization, never surfaced as an error.
func (l *Ledger) readInt(ctx context.Context, key string, def int) (int, error) {
	raw, ok, err := l.store.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return def, nil
	}
	return n, nil
}

func (l *Ledger) writeInt(ctx context.Context, key string, n int) error {
	return l.store.Put(ctx, key, strconv.Itoa(n))
}

func (l *Ledger) readAchievements(ctx context.Context) (map[string]*Progress, error) {
	raw, ok, err := l.store.Get(ctx, AchievementsKey)
	if err != nil {
		return nil, err
	}
	out := map[string]*Progress{}
	if !ok {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return map[string]*Progress{}, nil
	}
	return out, nil
}

func (l *Ledger) writeAchievements(ctx context.Context, ach map[string]*Progress) error {
	data, err := json.Marshal(ach)
	if err != nil {
		return err
	}
	return l.store.Put(ctx, AchievementsKey, string(data))
}

func (l *Ledger) readLog(ctx context.Context) ([]CompletionEntry, error) {
	raw, ok, err := l.store.Get(ctx, CompletionLogKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var out []CompletionEntry
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, nil
	}
	return out, nil
}

func (l *Ledger) writeLog(ctx context.Context, log []CompletionEntry) error {
	data, err := json.Marshal(log)
	if err != nil {
		return err
	}
	return l.store.Put(ctx, CompletionLogKey, string(data))
}
