// Package achievement contains the achievement catalog entities and the
// pure evaluator that derives unlock and progress state from domain state.
// Progress is never stored: it is recomputed on every relevant change.
package achievement

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// Domain errors for achievement package.
var (
	ErrInvalidID          = errors.New("achievement: id is required")
	ErrInvalidTitle       = errors.New("achievement: title must be 1-200 chars")
	ErrInvalidCategory    = errors.New("achievement: invalid category")
	ErrInvalidRarity      = errors.New("achievement: invalid rarity")
	ErrInvalidRequirement = errors.New("achievement: requirement value must be positive")
)

// Category groups achievements for display.
type Category string

const (
	CategoryQuests      Category = "quests"
	CategorySkills      Category = "skills"
	CategoryLevel       Category = "level"
	CategoryShadows     Category = "shadows"
	CategoryDungeons    Category = "dungeons"
	CategorySocial      Category = "social"
	CategoryConsistency Category = "consistency"
)

// IsValid checks if the category is known.
func (c Category) IsValid() bool {
	switch c {
	case CategoryQuests, CategorySkills, CategoryLevel, CategoryShadows,
		CategoryDungeons, CategorySocial, CategoryConsistency:
		return true
	default:
		return false
	}
}

// Rarity is the display tier of an achievement.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// IsValid checks if the rarity is known.
func (r Rarity) IsValid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	default:
		return false
	}
}

// RequirementType names the projection an achievement's progress is derived from.
type RequirementType string

const (
	RequirementQuestsCompleted     RequirementType = "quests_completed"
	RequirementLevel               RequirementType = "level"
	RequirementSkillsUnlocked      RequirementType = "skills_unlocked"
	RequirementShadowsExtracted    RequirementType = "shadows_extracted"
	RequirementDungeonsCompleted   RequirementType = "dungeons_completed"
	RequirementAllSkillsUnlocked   RequirementType = "all_skills_unlocked"
	RequirementAllDungeonsCleared  RequirementType = "all_dungeons_completed"

	// RequirementDailyStreak and RequirementEarlyQuest reference history the
	// state model does not retain. They evaluate at current = 0, leaving the
	// achievements permanently locked until streak tracking is added.
	RequirementDailyStreak RequirementType = "daily_streak"
	RequirementEarlyQuest  RequirementType = "early_quest"
)

// IsValid checks if the requirement type is known.
func (rt RequirementType) IsValid() bool {
	switch rt {
	case RequirementQuestsCompleted, RequirementLevel, RequirementSkillsUnlocked,
		RequirementShadowsExtracted, RequirementDungeonsCompleted,
		RequirementAllSkillsUnlocked, RequirementAllDungeonsCleared,
		RequirementDailyStreak, RequirementEarlyQuest:
		return true
	default:
		return false
	}
}

// Requirement is the unlock condition of an achievement.
type Requirement struct {
	Type  RequirementType `json:"type"`
	Value int             `json:"value"`
}

// Rewards describe what an achievement grants on unlock.
type Rewards struct {
	Experience int    `json:"experience"`
	Title      string `json:"title,omitempty"`
	Badge      string `json:"badge,omitempty"`
}

// Achievement is a derived, monotonic unlock condition over aggregate progress.
// Unlocked/UnlockedAt are the only stored mutable fields; progress is derived.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Category    Category
	Rarity      Rarity

	// Hidden achievements are suppressed from listings until unlocked.
	Hidden bool

	Requirement Requirement
	Rewards     Rewards

	Unlocked   bool
	UnlockedAt *time.Time
}

// NewAchievementParams contains the fields to create an achievement.
type NewAchievementParams struct {
	ID          string
	Title       string
	Description string
	Category    Category
	Rarity      Rarity
	Hidden      bool
	Requirement Requirement
	Rewards     Rewards
}

// NewAchievement creates an achievement with validation.
func NewAchievement(params NewAchievementParams) (*Achievement, error) {
	if params.ID == "" {
		return nil, ErrInvalidID
	}

	title := strings.TrimSpace(params.Title)
	if len(title) == 0 || len(title) > 200 {
		return nil, ErrInvalidTitle
	}

	if !params.Category.IsValid() {
		return nil, ErrInvalidCategory
	}

	if !params.Rarity.IsValid() {
		return nil, ErrInvalidRarity
	}

	if !params.Requirement.Type.IsValid() {
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownRequirement, params.Requirement.Type)
	}

	if params.Requirement.Value <= 0 {
		return nil, ErrInvalidRequirement
	}

	return &Achievement{
		ID:          params.ID,
		Title:       title,
		Description: params.Description,
		Category:    params.Category,
		Rarity:      params.Rarity,
		Hidden:      params.Hidden,
		Requirement: params.Requirement,
		Rewards:     params.Rewards,
	}, nil
}

// Unlock marks the achievement as unlocked. The transition is one-way and
// fires exactly once; repeated calls are observable no-ops.
func (a *Achievement) Unlock(now time.Time) error {
	if a.Unlocked {
		return shared.ErrAlreadyProcessed
	}
	a.Unlocked = true
	ts := now.UTC()
	a.UnlockedAt = &ts
	return nil
}

// Visible reports whether the achievement should appear in listings.
func (a *Achievement) Visible() bool {
	return !a.Hidden || a.Unlocked
}

// Clone returns a deep copy of the achievement.
func (a *Achievement) Clone() *Achievement {
	clone := *a
	if a.UnlockedAt != nil {
		ts := *a.UnlockedAt
		clone.UnlockedAt = &ts
	}
	return &clone
}

// String returns a short string representation.
func (a *Achievement) String() string {
	state := "locked"
	if a.Unlocked {
		state = "unlocked"
	}
	return fmt.Sprintf("Achievement{%s, %s, %s}", a.ID, a.Rarity, state)
}

// FindByID looks up an achievement by ID.
func FindByID(list []*Achievement, id string) (*Achievement, bool) {
	for _, a := range list {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// CountUnlocked returns the number of unlocked achievements.
func CountUnlocked(list []*Achievement) int {
	count := 0
	for _, a := range list {
		if a.Unlocked {
			count++
		}
	}
	return count
}
