package achievement

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/arise-hub/hunter-hub/internal/domain/dungeon"
	"github.com/arise-hub/hunter-hub/internal/domain/hunter"
	"github.com/arise-hub/hunter-hub/internal/domain/quest"
	"github.com/arise-hub/hunter-hub/internal/domain/shadow"
	"github.com/arise-hub/hunter-hub/internal/domain/skill"
)

// ══════════════════════════════════════════════════════════════════════════════
// EVALUATOR
// Pure recomputation of achievement progress from current domain state.
// ══════════════════════════════════════════════════════════════════════════════

// Snapshot is the read-only domain state the evaluator projects from.
type Snapshot struct {
	Character *hunter.Character
	Quests    []*quest.Quest
	Skills    []*skill.Skill
	Shadows   []*shadow.Shadow
	Dungeons  []*dungeon.Dungeon
}

// CurrentFor computes the current value for one requirement type.
// daily_streak and early_quest need history the snapshot does not carry
// and always evaluate to 0.
func (s Snapshot) CurrentFor(rt RequirementType) int {
	switch rt {
	case RequirementQuestsCompleted:
		return quest.CountCompleted(s.Quests)
	case RequirementLevel:
		if s.Character == nil {
			return 0
		}
		return s.Character.Level.Int()
	case RequirementSkillsUnlocked:
		return skill.CountUnlocked(s.Skills)
	case RequirementShadowsExtracted:
		return len(s.Shadows)
	case RequirementDungeonsCompleted:
		return dungeon.CountCompleted(s.Dungeons)
	case RequirementAllSkillsUnlocked:
		if skill.AllUnlocked(s.Skills) {
			return 1
		}
		return 0
	case RequirementAllDungeonsCleared:
		if dungeon.AllCompleted(s.Dungeons) {
			return 1
		}
		return 0
	case RequirementDailyStreak, RequirementEarlyQuest:
		return 0
	default:
		return 0
	}
}

// Status is the derived state of one achievement.
type Status struct {
	Achievement *Achievement

	// Current is the value derived from the snapshot.
	Current int

	// Progress is min(100, current/value*100).
	Progress int

	// ReadyToUnlock is true when the achievement is still locked but its
	// requirement is met.
	ReadyToUnlock bool
}

// Progress computes min(100, current/value*100) for a requirement.
func (r Requirement) Progress(current int) int {
	if r.Value <= 0 {
		return 0
	}
	progress := current * 100 / r.Value
	if progress > 100 {
		return 100
	}
	return progress
}

// Met reports whether current satisfies the requirement.
func (r Requirement) Met(current int) bool {
	return current >= r.Value
}

// Evaluate recomputes the status of every achievement from the snapshot.
// The function is pure: it mutates neither the snapshot nor the achievements.
func Evaluate(s Snapshot, list []*Achievement) []Status {
	statuses := make([]Status, 0, len(list))
	for _, a := range list {
		current := s.CurrentFor(a.Requirement.Type)
		statuses = append(statuses, Status{
			Achievement:   a,
			Current:       current,
			Progress:      a.Requirement.Progress(current),
			ReadyToUnlock: !a.Unlocked && a.Requirement.Met(current),
		})
	}
	return statuses
}

// PendingUnlocks filters the statuses down to achievements whose requirement
// is met but which have not been unlocked yet.
func PendingUnlocks(statuses []Status) []*Achievement {
	var pending []*Achievement
	for _, st := range statuses {
		if st.ReadyToUnlock {
			pending = append(pending, st.Achievement)
		}
	}
	return pending
}

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT HASH
// Memoization key for the evaluator: equal inputs hash equally, so cached
// statuses can be reused until the underlying state changes.
// ══════════════════════════════════════════════════════════════════════════════

// Hash returns a stable FNV-1a digest over the snapshot fields the evaluator
// reads plus the stored unlock state of the achievements. Unlock state is
// not derivable from the snapshot but the projected listing serves it, so
// an unlock must change the key. Fields the evaluator ignores (titles,
// timestamps) do not contribute.
func (s Snapshot) Hash(list []*Achievement) string {
	h := fnv.New64a()

	if s.Character != nil {
		fmt.Fprintf(h, "level:%d;", s.Character.Level.Int())
	}

	completed := make([]string, 0, len(s.Quests))
	for _, q := range s.Quests {
		if q.Completed {
			completed = append(completed, q.ID)
		}
	}
	sort.Strings(completed)
	fmt.Fprintf(h, "quests:%v;total:%d;", completed, len(s.Quests))

	unlocked := make([]string, 0, len(s.Skills))
	for _, sk := range s.Skills {
		if sk.Unlocked {
			unlocked = append(unlocked, sk.ID)
		}
	}
	sort.Strings(unlocked)
	fmt.Fprintf(h, "skills:%v;total:%d;", unlocked, len(s.Skills))

	fmt.Fprintf(h, "shadows:%d;", len(s.Shadows))

	cleared := make([]string, 0, len(s.Dungeons))
	for _, d := range s.Dungeons {
		if d.Completed {
			cleared = append(cleared, d.ID)
		}
	}
	sort.Strings(cleared)
	fmt.Fprintf(h, "dungeons:%v;total:%d;", cleared, len(s.Dungeons))

	awarded := make([]string, 0, len(list))
	for _, a := range list {
		if a.Unlocked {
			awarded = append(awarded, a.ID)
		}
	}
	sort.Strings(awarded)
	fmt.Fprintf(h, "achievements:%v;total:%d", awarded, len(list))

	return fmt.Sprintf("%016x", h.Sum64())
}
