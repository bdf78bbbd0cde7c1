package ledger

import "time"

// Progress is the persisted per-achievement state. Single-stage
// achievements use Unlocked/UnlockDate; multi-stage ones use
// CurrentStage/StageUnlockDates. The static catalog definition decides
// which half is meaningful.
//
// Invariants: CurrentStage never decreases, and a stage's unlock date is
// written once and never touched again.
type Progress struct {
	Unlocked         bool              `json:"unlocked,omitempty"`
	UnlockDate       *time.Time        `json:"unlockDate,omitempty"`
	CurrentStage     int               `json:"currentStage,omitempty"`
	StageUnlockDates map[int]time.Time `json:"stageUnlockDates,omitempty"`
}

// UnlockEvent is emitted for every achievement or stage unlock. Each
// (achievement, stage) pair emits at most once, ever.
type UnlockEvent struct {
	AchievementID string
	Stage         int // 0 for single-stage achievements
	Title         string
	RewardPoints  int
	UnlockedAt    time.Time
}

// unlockSingle flips a single-stage achievement at most once.
func unlockSingle(def Definition, p *Progress, met bool, now time.Time, events *[]UnlockEvent, balance *int) {
	if p.Unlocked || !met {
		return
	}
	p.Unlocked = true
	when := now
	p.UnlockDate = &when
	*balance += def.RewardPoints
	*events = append(*events, UnlockEvent{
		AchievementID: def.ID,
		Title:         def.Title,
		RewardPoints:  def.RewardPoints,
		UnlockedAt:    now,
	})
}

// advanceStages runs the shared stage-advance loop: every not-yet-reached
// stage whose criteria the metric now meets unlocks, in order, each with
// its own reward and event. A metric that jumps past several thresholds
// unlocks all of them in the same call.
func advanceStages(def Definition, p *Progress, metric int, now time.Time, events *[]UnlockEvent, balance *int) {
	for _, st := range def.Stages {
		if p.CurrentStage >= st.Stage || metric < st.CriteriaCount {
			continue
		}
		p.CurrentStage = st.Stage
		if p.StageUnlockDates == nil {
			p.StageUnlockDates = map[int]time.Time{}
		}
		if _, seen := p.StageUnlockDates[st.Stage]; !seen {
			p.StageUnlockDates[st.Stage] = now
		}
		*balance += st.RewardPoints
		*events = append(*events, UnlockEvent{
			AchievementID: def.ID,
			Stage:         st.Stage,
			Title:         def.Title + " " + st.TitleSuffix,
			RewardPoints:  st.RewardPoints,
			UnlockedAt:    now,
		})
	}
}
