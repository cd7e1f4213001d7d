// Package dungeon contains domain entities and business logic for the
// gated dungeon chain. Completing a dungeon unlocks its successor by
// explicit reference, independent of the successor's own requirements.
// This is a pure domain layer with zero external dependencies.
package dungeon

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/hunter"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// Domain errors for dungeon package.
var (
	ErrInvalidID         = errors.New("dungeon: id is required")
	ErrInvalidName       = errors.New("dungeon: name must be 1-200 chars")
	ErrInvalidRank       = errors.New("dungeon: invalid difficulty rank")
	ErrInvalidExperience = errors.New("dungeon: experience reward must be positive")
	ErrUnknownSuccessor  = errors.New("dungeon: successor references unknown dungeon")
	ErrChainCycle        = errors.New("dungeon: successor chain contains a cycle")
)

// Requirements gate the "enter" action of an unlocked dungeon. They never
// gate unlocking: a cleared predecessor unlocks its successor regardless.
type Requirements struct {
	// Level is the minimum character level, 0 means no level gate.
	Level int `json:"level,omitempty"`

	// Stats are minimum attribute thresholds, possibly partial.
	Stats map[shared.StatType]int `json:"stats,omitempty"`
}

// MetBy reports whether the character satisfies the requirement predicate.
func (r Requirements) MetBy(c *hunter.Character) bool {
	if c == nil {
		return false
	}
	if r.Level > 0 && c.Level.Int() < r.Level {
		return false
	}
	for stat, min := range r.Stats {
		value, ok := c.Stats.Get(stat)
		if !ok || value < min {
			return false
		}
	}
	return true
}

// Rewards describe what a dungeon grants on completion.
type Rewards struct {
	Experience int      `json:"experience"`
	Items      []string `json:"items,omitempty"`
}

// Dungeon is a gated long-term challenge.
type Dungeon struct {
	ID          string
	Name        string
	Description string

	// Difficulty is the dungeon's rank on the E..S scale.
	Difficulty shared.HunterRank

	// Experience is the XP reward for clearing the dungeon.
	Experience int

	// Completed and CompletedAt are set on clear.
	Completed   bool
	CompletedAt *time.Time

	// Locked blocks completion until a predecessor clears this dungeon.
	Locked bool

	// SuccessorID names the dungeon unlocked by clearing this one.
	// Empty for the end of the chain.
	SuccessorID string

	Requirements Requirements
	Rewards      Rewards
}

// NewDungeonParams contains the fields to create a dungeon.
type NewDungeonParams struct {
	ID           string
	Name         string
	Description  string
	Difficulty   shared.HunterRank
	Experience   int
	Locked       bool
	SuccessorID  string
	Requirements Requirements
	Rewards      Rewards
}

// NewDungeon creates a dungeon with validation.
func NewDungeon(params NewDungeonParams) (*Dungeon, error) {
	if params.ID == "" {
		return nil, ErrInvalidID
	}

	name := strings.TrimSpace(params.Name)
	if len(name) == 0 || len(name) > 200 {
		return nil, ErrInvalidName
	}

	if !params.Difficulty.IsValid() {
		return nil, ErrInvalidRank
	}

	if params.Experience <= 0 {
		return nil, ErrInvalidExperience
	}

	return &Dungeon{
		ID:           params.ID,
		Name:         name,
		Description:  params.Description,
		Difficulty:   params.Difficulty,
		Experience:   params.Experience,
		Locked:       params.Locked,
		SuccessorID:  params.SuccessorID,
		Requirements: params.Requirements,
		Rewards:      params.Rewards,
	}, nil
}

// CanComplete reports whether the dungeon accepts a completion attempt.
func (d *Dungeon) CanComplete() bool {
	return !d.Locked && !d.Completed
}

// Complete marks the dungeon as cleared. Locked or already-cleared dungeons
// are observable no-ops; replayed or forged calls must not mutate state.
func (d *Dungeon) Complete(now time.Time) error {
	if d.Locked {
		return shared.ErrDungeonLocked
	}
	if d.Completed {
		return shared.ErrDungeonCompleted
	}
	d.Completed = true
	ts := now.UTC()
	d.CompletedAt = &ts
	return nil
}

// Unlock opens the dungeon. Called when a predecessor is cleared; the
// dungeon's own requirements do not gate this.
func (d *Dungeon) Unlock() bool {
	if !d.Locked {
		return false
	}
	d.Locked = false
	return true
}

// Clone returns a deep copy of the dungeon.
func (d *Dungeon) Clone() *Dungeon {
	clone := *d
	if d.CompletedAt != nil {
		ts := *d.CompletedAt
		clone.CompletedAt = &ts
	}
	if d.Requirements.Stats != nil {
		stats := make(map[shared.StatType]int, len(d.Requirements.Stats))
		for k, v := range d.Requirements.Stats {
			stats[k] = v
		}
		clone.Requirements.Stats = stats
	}
	if d.Rewards.Items != nil {
		clone.Rewards.Items = append([]string(nil), d.Rewards.Items...)
	}
	return &clone
}

// String returns a short string representation.
func (d *Dungeon) String() string {
	state := "open"
	switch {
	case d.Completed:
		state = "completed"
	case d.Locked:
		state = "locked"
	}
	return fmt.Sprintf("Dungeon{%s, rank %s, %s}", d.ID, d.Difficulty, state)
}

// FindByID looks up a dungeon by ID.
func FindByID(chain []*Dungeon, id string) (*Dungeon, bool) {
	for _, d := range chain {
		if d.ID == id {
			return d, true
		}
	}
	return nil, false
}

// CountCompleted returns the number of cleared dungeons.
func CountCompleted(chain []*Dungeon) int {
	count := 0
	for _, d := range chain {
		if d.Completed {
			count++
		}
	}
	return count
}

// AllCompleted reports whether every dungeon in a non-empty chain is cleared.
func AllCompleted(chain []*Dungeon) bool {
	if len(chain) == 0 {
		return false
	}
	for _, d := range chain {
		if !d.Completed {
			return false
		}
	}
	return true
}

// ValidateChain checks that every successor reference resolves and that the
// chain contains no cycles. Run at data-load time.
func ValidateChain(chain []*Dungeon) error {
	byID := make(map[string]*Dungeon, len(chain))
	for _, d := range chain {
		byID[d.ID] = d
	}

	for _, d := range chain {
		if d.SuccessorID == "" {
			continue
		}
		if _, ok := byID[d.SuccessorID]; !ok {
			return fmt.Errorf("%w: %s -> %s", ErrUnknownSuccessor, d.ID, d.SuccessorID)
		}
	}

	for _, d := range chain {
		seen := map[string]bool{d.ID: true}
		current := d
		for current.SuccessorID != "" {
			next := byID[current.SuccessorID]
			if seen[next.ID] {
				return fmt.Errorf("%w: at %s", ErrChainCycle, next.ID)
			}
			seen[next.ID] = true
			current = next
		}
	}

	return nil
}
