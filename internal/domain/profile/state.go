// Package profile contains the per-account aggregate: the character plus its
// quest, skill, shadow, dungeon, and achievement collections. The progression
// engine mutates this aggregate as one unit under per-account mutual
// exclusion; the profile store persists it as one record.
package profile

import (
	"errors"
	"fmt"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/achievement"
	"github.com/arise-hub/hunter-hub/internal/domain/dungeon"
	"github.com/arise-hub/hunter-hub/internal/domain/hunter"
	"github.com/arise-hub/hunter-hub/internal/domain/quest"
	"github.com/arise-hub/hunter-hub/internal/domain/shadow"
	"github.com/arise-hub/hunter-hub/internal/domain/skill"
)

// Domain errors for profile package.
var (
	ErrInvalidAccountID = errors.New("profile: account id is required")
	ErrMissingCharacter = errors.New("profile: character is required")
)

// State is the unit of load/save for one account.
type State struct {
	AccountID string

	Character *hunter.Character
	Quests    []*quest.Quest
	Skills    []*skill.Skill
	Shadows   []*shadow.Shadow
	Dungeons  []*dungeon.Dungeon

	// Achievements hold stored unlock state; progress is always derived.
	Achievements []*achievement.Achievement

	// LastSaved is set by the profile store on save.
	LastSaved time.Time
}

// NewState assembles a profile state and validates its structural invariants:
// the skill prerequisite forest and the dungeon successor chain are checked
// here, at load time, not on every transition.
func NewState(accountID string, character *hunter.Character, quests []*quest.Quest,
	skills []*skill.Skill, shadows []*shadow.Shadow, dungeons []*dungeon.Dungeon,
	achievements []*achievement.Achievement) (*State, error) {

	if accountID == "" {
		return nil, ErrInvalidAccountID
	}
	if character == nil {
		return nil, ErrMissingCharacter
	}
	if err := skill.ValidateTree(skills); err != nil {
		return nil, fmt.Errorf("profile %s: %w", accountID, err)
	}
	if err := dungeon.ValidateChain(dungeons); err != nil {
		return nil, fmt.Errorf("profile %s: %w", accountID, err)
	}

	return &State{
		AccountID:    accountID,
		Character:    character,
		Quests:       quests,
		Skills:       skills,
		Shadows:      shadows,
		Dungeons:     dungeons,
		Achievements: achievements,
	}, nil
}

// Snapshot projects the state into the achievement evaluator's input.
func (s *State) Snapshot() achievement.Snapshot {
	return achievement.Snapshot{
		Character: s.Character,
		Quests:    s.Quests,
		Skills:    s.Skills,
		Shadows:   s.Shadows,
		Dungeons:  s.Dungeons,
	}
}

// Clone returns a deep copy of the whole aggregate.
func (s *State) Clone() *State {
	clone := &State{
		AccountID: s.AccountID,
		Character: s.Character.Clone(),
		LastSaved: s.LastSaved,
	}
	for _, q := range s.Quests {
		clone.Quests = append(clone.Quests, q.Clone())
	}
	for _, sk := range s.Skills {
		clone.Skills = append(clone.Skills, sk.Clone())
	}
	for _, sh := range s.Shadows {
		clone.Shadows = append(clone.Shadows, sh.Clone())
	}
	for _, d := range s.Dungeons {
		clone.Dungeons = append(clone.Dungeons, d.Clone())
	}
	for _, a := range s.Achievements {
		clone.Achievements = append(clone.Achievements, a.Clone())
	}
	return clone
}

// TotalProgress summarizes overall completion across all collections.
type TotalProgress struct {
	QuestsCompleted      int `json:"quests_completed"`
	QuestsTotal          int `json:"quests_total"`
	SkillsUnlocked       int `json:"skills_unlocked"`
	SkillsTotal          int `json:"skills_total"`
	DungeonsCompleted    int `json:"dungeons_completed"`
	DungeonsTotal        int `json:"dungeons_total"`
	AchievementsUnlocked int `json:"achievements_unlocked"`
	AchievementsTotal    int `json:"achievements_total"`
	ShadowsExtracted     int `json:"shadows_extracted"`

	// Percent is the combined completion percentage over all tracked items.
	Percent int `json:"percent"`
}

// Progress computes the combined completion summary.
func (s *State) Progress() TotalProgress {
	p := TotalProgress{
		QuestsCompleted:      quest.CountCompleted(s.Quests),
		QuestsTotal:          len(s.Quests),
		SkillsUnlocked:       skill.CountUnlocked(s.Skills),
		SkillsTotal:          len(s.Skills),
		DungeonsCompleted:    dungeon.CountCompleted(s.Dungeons),
		DungeonsTotal:        len(s.Dungeons),
		AchievementsUnlocked: achievement.CountUnlocked(s.Achievements),
		AchievementsTotal:    len(s.Achievements),
		ShadowsExtracted:     len(s.Shadows),
	}

	done := p.QuestsCompleted + p.SkillsUnlocked + p.DungeonsCompleted + p.AchievementsUnlocked
	total := p.QuestsTotal + p.SkillsTotal + p.DungeonsTotal + p.AchievementsTotal
	if total > 0 {
		p.Percent = done * 100 / total
	}
	return p
}
