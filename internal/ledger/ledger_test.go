package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"taskify/internal/storage"
	"taskify/internal/tasks"
)

func newTestLedger(t *testing.T) (*Ledger, *storage.Store) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	db, err := storage.Open(ctx, filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := storage.NewStore(db)
	return New(store), store
}

// base is a Wednesday; completions stamped near it share a Monday-start
// calendar week.
var base = time.Date(2026, 1, 7, 10, 0, 0, 0, time.Local)

func testTask(points int, due time.Time) tasks.Task {
	return tasks.Task{
		ID:       uuid.NewString(),
		Title:    "test task",
		DueDate:  due,
		Status:   tasks.StatusCompleted,
		Priority: tasks.PriorityMedium,
		Points:   points,
	}
}

func hasEvent(events []UnlockEvent, id string, stage int) bool {
	for _, ev := range events {
		if ev.AchievementID == id && ev.Stage == stage {
			return true
		}
	}
	return false
}

func TestOnTimeCompletionAwardsFullPoints(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	res, err := l.RecordTaskCompletion(ctx, testTask(20, base), base)
	if err != nil {
		t.Fatalf("RecordTaskCompletion: %v", err)
	}
	if !res.OnTime {
		t.Fatalf("expected on-time completion")
	}
	if res.AwardedPoints != 20 {
		t.Fatalf("awarded = %d, want 20", res.AwardedPoints)
	}
	if res.CompletedTaskCount != 1 {
		t.Fatalf("count = %d, want 1", res.CompletedTaskCount)
	}
	// 500 initial + 20 award + 50 first_task_completed reward.
	if res.PointsBalance != 570 {
		t.Fatalf("balance = %d, want 570", res.PointsBalance)
	}
	if !hasEvent(res.NewlyUnlocked, FirstTaskCompleted, 0) {
		t.Fatalf("expected first_task_completed unlock, got %+v", res.NewlyUnlocked)
	}
}

func TestCompletionAtEndOfDayIsOnTime(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	completedAt := EndOfDay(base)
	res, err := l.RecordTaskCompletion(ctx, testTask(30, base), completedAt)
	if err != nil {
		t.Fatalf("RecordTaskCompletion: %v", err)
	}
	if !res.OnTime || res.AwardedPoints != 30 {
		t.Fatalf("completion at end of due day should award full points, got onTime=%v awarded=%d", res.OnTime, res.AwardedPoints)
	}
}

func TestLateCompletionAwardsZero(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	due := base.AddDate(0, 0, -1)
	res, err := l.RecordTaskCompletion(ctx, testTask(30, due), base)
	if err != nil {
		t.Fatalf("RecordTaskCompletion: %v", err)
	}
	if res.OnTime || res.AwardedPoints != 0 {
		t.Fatalf("late completion awarded %d (onTime=%v), want 0", res.AwardedPoints, res.OnTime)
	}
	// Completion still counts toward task achievements.
	if res.CompletedTaskCount != 1 {
		t.Fatalf("count = %d, want 1", res.CompletedTaskCount)
	}
	if !hasEvent(res.NewlyUnlocked, FirstTaskCompleted, 0) {
		t.Fatalf("first_task_completed should unlock even for late completions")
	}
}

func TestDuplicateCompletionIsNoOp(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	task := testTask(20, base)
	first, err := l.RecordTaskCompletion(ctx, task, base)
	if err != nil {
		t.Fatalf("first completion: %v", err)
	}

	second, err := l.RecordTaskCompletion(ctx, task, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("second completion: %v", err)
	}
	if !second.Duplicate {
		t.Fatalf("expected duplicate flag")
	}
	if second.PointsBalance != first.PointsBalance {
		t.Fatalf("balance changed on duplicate: %d -> %d", first.PointsBalance, second.PointsBalance)
	}
	if second.CompletedTaskCount != first.CompletedTaskCount {
		t.Fatalf("count changed on duplicate: %d -> %d", first.CompletedTaskCount, second.CompletedTaskCount)
	}
	if len(second.NewlyUnlocked) != 0 {
		t.Fatalf("duplicate emitted unlock events: %+v", second.NewlyUnlocked)
	}
}

func TestRecurringCycleAwardsPerInstance(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	task := testTask(20, base)
	task.Recurrence = tasks.RecurrenceDaily

	first, err := l.RecordTaskCompletion(ctx, task, base)
	if err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	if first.AwardedPoints != 20 {
		t.Fatalf("first cycle awarded %d, want 20", first.AwardedPoints)
	}
	if first.CompletedTaskCount != 0 {
		t.Fatalf("recurring completion must not bump the non-recurring count, got %d", first.CompletedTaskCount)
	}

	// Same instance replayed: no-op.
	replay, err := l.RecordTaskCompletion(ctx, task, base.Add(time.Minute))
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !replay.Duplicate {
		t.Fatalf("same due-date instance should be a duplicate")
	}

	// Next cycle carries a new due date and awards again.
	task.DueDate = base.AddDate(0, 0, 1)
	second, err := l.RecordTaskCompletion(ctx, task, base.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	if second.Duplicate || second.AwardedPoints != 20 {
		t.Fatalf("second cycle = %+v, want fresh 20-point award", second)
	}
}

func TestDailyCapBoundsScoreNotBalance(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	// Eight 30-point tasks on one day: 240 raw points.
	var balance int
	for i := 0; i < 8; i++ {
		res, err := l.RecordTaskCompletion(ctx, testTask(30, base), base)
		if err != nil {
			t.Fatalf("completion %d: %v", i, err)
		}
		balance = res.PointsBalance
	}

	daily, err := l.DailyScore(ctx, base)
	if err != nil {
		t.Fatalf("DailyScore: %v", err)
	}
	if daily != DailyPointCap {
		t.Fatalf("daily score = %d, want cap %d", daily, DailyPointCap)
	}
	// Balance accrues the full 240 plus the first-task reward.
	if want := InitialPoints + 240 + 50; balance != want {
		t.Fatalf("balance = %d, want %d", balance, want)
	}
}

func TestWeeklyCapBoundsScore(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	// 1500 on-time points across the week.
	for day := 0; day < 5; day++ {
		when := base.AddDate(0, 0, day-2) // Mon..Fri of base's week
		for i := 0; i < 10; i++ {
			if _, err := l.RecordTaskCompletion(ctx, testTask(30, when), when); err != nil {
				t.Fatalf("completion: %v", err)
			}
		}
	}

	weekly, err := l.WeeklyScore(ctx, base)
	if err != nil {
		t.Fatalf("WeeklyScore: %v", err)
	}
	if weekly != WeeklyPointGoal {
		t.Fatalf("weekly score = %d, want cap %d", weekly, WeeklyPointGoal)
	}
}

func TestTaskMasterStageOneFiresExactlyOnce(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	var tenth *CompletionResult
	for i := 0; i < 10; i++ {
		res, err := l.RecordTaskCompletion(ctx, testTask(10, base), base)
		if err != nil {
			t.Fatalf("completion %d: %v", i, err)
		}
		tenth = res
	}

	if !hasEvent(tenth.NewlyUnlocked, TaskMasterNovice, 1) {
		t.Fatalf("10th completion should unlock task_master_novice stage 1, got %+v", tenth.NewlyUnlocked)
	}
	var stageReward int
	for _, ev := range tenth.NewlyUnlocked {
		if ev.AchievementID == TaskMasterNovice && ev.Stage == 1 {
			stageReward = ev.RewardPoints
		}
	}
	if stageReward != 100 {
		t.Fatalf("stage 1 reward = %d, want 100", stageReward)
	}

	eleventh, err := l.RecordTaskCompletion(ctx, testTask(10, base), base)
	if err != nil {
		t.Fatalf("11th completion: %v", err)
	}
	if hasEvent(eleventh.NewlyUnlocked, TaskMasterNovice, 1) {
		t.Fatalf("stage 1 re-emitted on the 11th completion")
	}
}

func TestPointCollectorCrossesThresholdInSameCall(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	// 900 weekly on-time points, below the first threshold.
	for i := 0; i < 30; i++ {
		res, err := l.RecordTaskCompletion(ctx, testTask(30, base), base)
		if err != nil {
			t.Fatalf("completion: %v", err)
		}
		if hasEvent(res.NewlyUnlocked, PointCollector, 1) {
			t.Fatalf("point_collector fired below threshold at completion %d", i)
		}
	}

	// One 300-point completion pushes the week from 900 to 1200.
	res, err := l.RecordTaskCompletion(ctx, testTask(300, base), base)
	if err != nil {
		t.Fatalf("big completion: %v", err)
	}
	n := 0
	for _, ev := range res.NewlyUnlocked {
		if ev.AchievementID == PointCollector && ev.Stage == 1 {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("point_collector stage 1 emitted %d times, want once", n)
	}
}

func TestMetricJumpUnlocksInterveningStagesInOrder(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	// A single completion that vaults past all three thresholds.
	res, err := l.RecordTaskCompletion(ctx, testTask(5000, base), base)
	if err != nil {
		t.Fatalf("completion: %v", err)
	}

	var stages []int
	for _, ev := range res.NewlyUnlocked {
		if ev.AchievementID == PointCollector {
			stages = append(stages, ev.Stage)
		}
	}
	if len(stages) != 3 || stages[0] != 1 || stages[1] != 2 || stages[2] != 3 {
		t.Fatalf("stages unlocked = %v, want [1 2 3] in order", stages)
	}
}

func TestStreakTransitions(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	day := func(n int) time.Time { return base.AddDate(0, 0, n) }

	res, err := l.RecordDailyLogin(ctx, day(0))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Streak != 1 {
		t.Fatalf("first login streak = %d, want 1", res.Streak)
	}

	res, _ = l.RecordDailyLogin(ctx, day(1))
	if res.Streak != 2 {
		t.Fatalf("next-day streak = %d, want 2", res.Streak)
	}

	res, _ = l.RecordDailyLogin(ctx, day(1))
	if res.Streak != 2 || res.Extended {
		t.Fatalf("same-day re-login should keep streak 2, got %d (extended=%v)", res.Streak, res.Extended)
	}

	res, _ = l.RecordDailyLogin(ctx, day(4))
	if res.Streak != 1 {
		t.Fatalf("streak after 3-day gap = %d, want reset to 1", res.Streak)
	}
}

func TestStreakBeginnerStageUnlocks(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	var res *LoginResult
	var err error
	for n := 0; n < 3; n++ {
		res, err = l.RecordDailyLogin(ctx, base.AddDate(0, 0, n))
		if err != nil {
			t.Fatalf("login %d: %v", n, err)
		}
	}
	if res.Streak != 3 {
		t.Fatalf("streak = %d, want 3", res.Streak)
	}
	if !hasEvent(res.NewlyUnlocked, StreakBeginner, 1) {
		t.Fatalf("3-day streak should unlock streak_beginner stage 1, got %+v", res.NewlyUnlocked)
	}

	snap, err := l.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	// 500 initial + 75 stage reward.
	if snap.PointsBalance != 575 {
		t.Fatalf("balance = %d, want 575", snap.PointsBalance)
	}
}

func TestPurchaseRequiresSufficientBalance(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.UnlockStoreItem(ctx, "forest-zen", 1000, ItemTheme, base); err == nil {
		t.Fatalf("expected InsufficientPoints for 1000-point item on 500 balance")
	} else {
		var short *InsufficientPointsError
		if !errors.As(err, &short) {
			t.Fatalf("error type = %T, want InsufficientPointsError", err)
		}
		if short.Shortfall() != 500 {
			t.Fatalf("shortfall = %d, want 500", short.Shortfall())
		}
	}

	snap, err := l.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.PointsBalance != InitialPoints {
		t.Fatalf("failed purchase mutated balance: %d", snap.PointsBalance)
	}
}

func TestPurchaseExactBalanceAllowed(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	res, err := l.UnlockStoreItem(ctx, "sunset-glow", 500, ItemTheme, base)
	if err != nil {
		t.Fatalf("exact-match purchase rejected: %v", err)
	}
	// Balance hits 0, then style_starter pays out 100.
	if res.PointsBalance != 100 {
		t.Fatalf("balance = %d, want 100", res.PointsBalance)
	}
	if !hasEvent(res.NewlyUnlocked, StyleStarter, 0) {
		t.Fatalf("first theme purchase should unlock style_starter")
	}

	if _, err := l.UnlockStoreItem(ctx, "anything", 101, ItemTheme, base); err == nil {
		t.Fatalf("expected InsufficientPoints after spending down")
	}
}

func TestStoreAchievementsFireOncePerCategory(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	first, err := l.UnlockStoreItem(ctx, "doggo", 100, ItemPet, base)
	if err != nil {
		t.Fatalf("pet purchase: %v", err)
	}
	if !hasEvent(first.NewlyUnlocked, PetPal, 0) {
		t.Fatalf("first pet purchase should unlock pet_pal")
	}

	second, err := l.UnlockStoreItem(ctx, "kitto", 100, ItemPet, base)
	if err != nil {
		t.Fatalf("second pet purchase: %v", err)
	}
	if hasEvent(second.NewlyUnlocked, PetPal, 0) {
		t.Fatalf("pet_pal re-fired on second pet purchase")
	}
}

func TestCorruptAggregatesRecoverToDefaults(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()

	if err := store.Put(ctx, PointsBalanceKey, "not a number"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, AchievementsKey, "{broken json"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, CompletionLogKey, "[[["); err != nil {
		t.Fatalf("put: %v", err)
	}

	snap, err := l.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.PointsBalance != InitialPoints {
		t.Fatalf("corrupt balance recovered to %d, want %d", snap.PointsBalance, InitialPoints)
	}
	if len(snap.Achievements) != 0 {
		t.Fatalf("corrupt achievements recovered to %+v, want empty", snap.Achievements)
	}

	// The ledger keeps working on the reinitialized state.
	res, err := l.RecordTaskCompletion(ctx, testTask(20, base), base)
	if err != nil {
		t.Fatalf("completion after recovery: %v", err)
	}
	if res.PointsBalance != InitialPoints+20+50 {
		t.Fatalf("balance after recovery = %d, want %d", res.PointsBalance, InitialPoints+20+50)
	}
}
