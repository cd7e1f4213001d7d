// Package skill contains domain entities and business logic for the
// prerequisite-constrained skill tree.
// This is a pure domain layer with zero external dependencies.
package skill

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// Domain errors for skill package.
var (
	ErrInvalidID       = errors.New("skill: id is required")
	ErrInvalidName     = errors.New("skill: name must be 1-100 chars")
	ErrInvalidLevel    = errors.New("skill: level must be between 1 and max level")
	ErrInvalidMaxLevel = errors.New("skill: max level must be positive")
	ErrInvalidBonus    = errors.New("skill: invalid stat bonus")
	ErrUnknownSkill    = errors.New("skill: prerequisite references unknown skill")
	ErrTreeCycle       = errors.New("skill: prerequisite graph contains a cycle")
)

// Skill is one node of the skill tree. A skill with a prerequisite can only
// unlock after the referenced skill has been unlocked.
type Skill struct {
	ID          string
	Name        string
	Description string

	// Unlocked and UnlockedAt are the only mutable fields.
	Unlocked   bool
	UnlockedAt *time.Time

	// Level and MaxLevel describe skill rank progression.
	Level    int
	MaxLevel int

	// Prerequisite is the ID of the skill that must be unlocked first.
	// Empty means the skill is a tree root.
	Prerequisite string

	// Bonus is the passive stat bonus granted by the skill.
	Bonus shared.StatBonus

	Icon string
}

// NewSkillParams contains the fields to create a skill.
type NewSkillParams struct {
	ID           string
	Name         string
	Description  string
	Level        int
	MaxLevel     int
	Prerequisite string
	Bonus        shared.StatBonus
	Icon         string
}

// NewSkill creates a skill with validation.
func NewSkill(params NewSkillParams) (*Skill, error) {
	if params.ID == "" {
		return nil, ErrInvalidID
	}

	name := strings.TrimSpace(params.Name)
	if len(name) == 0 || len(name) > 100 {
		return nil, ErrInvalidName
	}

	maxLevel := params.MaxLevel
	if maxLevel == 0 {
		maxLevel = 1
	}
	if maxLevel < 0 {
		return nil, ErrInvalidMaxLevel
	}

	level := params.Level
	if level == 0 {
		level = 1
	}
	if level < 1 || level > maxLevel {
		return nil, ErrInvalidLevel
	}

	if !params.Bonus.IsValid() {
		return nil, ErrInvalidBonus
	}

	return &Skill{
		ID:           params.ID,
		Name:         name,
		Description:  params.Description,
		Level:        level,
		MaxLevel:     maxLevel,
		Prerequisite: params.Prerequisite,
		Bonus:        params.Bonus,
		Icon:         params.Icon,
	}, nil
}

// CanUnlock reports whether the skill's prerequisite (if any) is satisfied
// within the given tree. A locked skill with no prerequisite can always unlock.
func (s *Skill) CanUnlock(tree []*Skill) bool {
	if s.Unlocked {
		return false
	}
	if s.Prerequisite == "" {
		return true
	}
	prereq, ok := FindByID(tree, s.Prerequisite)
	return ok && prereq.Unlocked
}

// Unlock marks the skill as unlocked. Unlocking twice is an observable no-op.
// The skill-point spend is handled by the caller as one atomic unit with
// this mutation.
func (s *Skill) Unlock(now time.Time) error {
	if s.Unlocked {
		return shared.ErrSkillAlreadyUnlocked
	}
	s.Unlocked = true
	ts := now.UTC()
	s.UnlockedAt = &ts
	return nil
}

// Clone returns a deep copy of the skill.
func (s *Skill) Clone() *Skill {
	clone := *s
	if s.UnlockedAt != nil {
		ts := *s.UnlockedAt
		clone.UnlockedAt = &ts
	}
	return &clone
}

// String returns a short string representation.
func (s *Skill) String() string {
	state := "locked"
	if s.Unlocked {
		state = "unlocked"
	}
	return fmt.Sprintf("Skill{%s, %s, %s}", s.ID, s.Bonus, state)
}

// FindByID looks up a skill by ID.
func FindByID(tree []*Skill, id string) (*Skill, bool) {
	for _, s := range tree {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// CountUnlocked returns the number of unlocked skills.
func CountUnlocked(tree []*Skill) int {
	count := 0
	for _, s := range tree {
		if s.Unlocked {
			count++
		}
	}
	return count
}

// AllUnlocked reports whether every skill in a non-empty tree is unlocked.
func AllUnlocked(tree []*Skill) bool {
	if len(tree) == 0 {
		return false
	}
	for _, s := range tree {
		if !s.Unlocked {
			return false
		}
	}
	return true
}

// ValidateTree checks that every prerequisite references an existing skill
// and that the prerequisite graph is a forest. Run at data-load time;
// the unlock path assumes a valid tree.
func ValidateTree(tree []*Skill) error {
	byID := make(map[string]*Skill, len(tree))
	for _, s := range tree {
		byID[s.ID] = s
	}

	for _, s := range tree {
		if s.Prerequisite == "" {
			continue
		}
		if _, ok := byID[s.Prerequisite]; !ok {
			return fmt.Errorf("%w: %s -> %s", ErrUnknownSkill, s.ID, s.Prerequisite)
		}
	}

	// Walk each prerequisite chain; revisiting a node within one walk is a cycle.
	for _, s := range tree {
		seen := map[string]bool{s.ID: true}
		current := s
		for current.Prerequisite != "" {
			next := byID[current.Prerequisite]
			if seen[next.ID] {
				return fmt.Errorf("%w: at %s", ErrTreeCycle, next.ID)
			}
			seen[next.ID] = true
			current = next
		}
	}

	return nil
}
