package ledger

// Category groups achievements for display.
type Category string

const (
	CategoryGeneral Category = "general"
	CategoryTasks   Category = "tasks"
	CategoryStore   Category = "store"
	CategoryStreak  Category = "streak"
)

// Stage is one threshold level within a multi-stage achievement. Stages
// unlock in ascending order and never re-lock.
type Stage struct {
	Stage         int
	TitleSuffix   string
	CriteriaCount int
	RewardPoints  int
	Description   string
}

// Definition is a static catalog entry. Exactly one of RewardPoints or
// Stages is meaningful: single-stage achievements carry RewardPoints,
// multi-stage ones carry per-stage rewards.
type Definition struct {
	ID           string
	Title        string
	Description  string
	Category     Category
	RewardPoints int
	Stages       []Stage
}

func (d Definition) MultiStage() bool { return len(d.Stages) > 0 }

// Achievement ids. The progress map is keyed by these.
const (
	FirstTaskCompleted = "first_task_completed"
	StyleStarter       = "style_starter"
	PetPal             = "pet_pal"
	StreakBeginner     = "streak_beginner"
	PointCollector     = "point_collector"
	TaskMasterNovice   = "task_master_novice"
)

// Catalog is the full achievement catalog. It is static; per-achievement
// progress is persisted separately.
var Catalog = []Definition{
	{
		ID:           FirstTaskCompleted,
		Title:        "First Step Taken",
		Description:  "Complete your very first task.",
		Category:     CategoryTasks,
		RewardPoints: 50,
	},
	{
		ID:           StyleStarter,
		Title:        "A Splash of Color",
		Description:  "Unlock your first theme from the store.",
		Category:     CategoryStore,
		RewardPoints: 100,
	},
	{
		ID:           PetPal,
		Title:        "Furry Friend",
		Description:  "Unlock your first pet companion.",
		Category:     CategoryStore,
		RewardPoints: 100,
	},
	{
		ID:          StreakBeginner,
		Title:       "Consistent Starter",
		Description: "Keep your daily streak alive.",
		Category:    CategoryStreak,
		Stages: []Stage{
			{Stage: 1, TitleSuffix: "I", CriteriaCount: 3, RewardPoints: 75, Description: "Achieve a 3-day login streak."},
			{Stage: 2, TitleSuffix: "II", CriteriaCount: 7, RewardPoints: 150, Description: "Achieve a 7-day login streak."},
			{Stage: 3, TitleSuffix: "III", CriteriaCount: 14, RewardPoints: 250, Description: "Achieve a 14-day login streak."},
		},
	},
	{
		ID:          PointCollector,
		Title:       "Point Hoarder",
		Description: "Earn points from on-time tasks in a single week.",
		Category:    CategoryGeneral,
		Stages: []Stage{
			{Stage: 1, TitleSuffix: "I", CriteriaCount: 1000, RewardPoints: 250, Description: "Earn 1000 points from on-time tasks in a single week."},
			{Stage: 2, TitleSuffix: "II", CriteriaCount: 2500, RewardPoints: 500, Description: "Earn 2500 points from on-time tasks in a single week."},
			{Stage: 3, TitleSuffix: "III", CriteriaCount: 5000, RewardPoints: 1000, Description: "Earn 5000 points from on-time tasks in a single week."},
		},
	},
	{
		ID:          TaskMasterNovice,
		Title:       "Task Slayer",
		Description: "Demonstrate your dedication by completing multiple tasks.",
		Category:    CategoryTasks,
		Stages: []Stage{
			{Stage: 1, TitleSuffix: "I", CriteriaCount: 10, RewardPoints: 100, Description: "Complete 10 tasks to prove your mettle."},
			{Stage: 2, TitleSuffix: "II", CriteriaCount: 25, RewardPoints: 150, Description: "Complete 25 tasks and show true commitment."},
			{Stage: 3, TitleSuffix: "III", CriteriaCount: 50, RewardPoints: 250, Description: "Complete 50 tasks to become a Task Slayer Master!"},
		},
	},
}

// Lookup returns the catalog definition for id.
func Lookup(id string) (Definition, bool) {
	for _, d := range Catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
