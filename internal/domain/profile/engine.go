package profile

import (
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/dungeon"
	"github.com/arise-hub/hunter-hub/internal/domain/hunter"
	"github.com/arise-hub/hunter-hub/internal/domain/quest"
	"github.com/arise-hub/hunter-hub/internal/domain/shadow"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
	"github.com/arise-hub/hunter-hub/internal/domain/skill"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESSION ENGINE
// Transition functions over the aggregate. Business-rule violations are
// observable no-ops (Applied=false, Reason set); only a missing quest in
// CompleteQuest and store failures surface as errors. The engine never
// persists: callers save the aggregate after a successful transition.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteQuestResult describes the outcome of CompleteQuest.
type CompleteQuestResult struct {
	// Applied is false when the transition was a no-op.
	Applied bool

	// Reason carries the invariant violation behind a no-op.
	Reason error

	Quest *quest.Quest
	Gain  hunter.GainResult
}

// CompleteQuest marks a quest completed and awards its experience.
// A missing quest id is an error; completing twice is an idempotent no-op.
func (s *State) CompleteQuest(questID string, now time.Time) (CompleteQuestResult, error) {
	q, ok := quest.FindByID(s.Quests, questID)
	if !ok {
		return CompleteQuestResult{}, shared.ErrQuestNotFound
	}

	if err := q.Complete(now); err != nil {
		return CompleteQuestResult{Reason: err, Quest: q}, nil
	}

	gain := s.Character.AddExperience(q.Experience)
	return CompleteQuestResult{Applied: true, Quest: q, Gain: gain}, nil
}

// UnlockSkillResult describes the outcome of UnlockSkill.
type UnlockSkillResult struct {
	Applied bool
	Reason  error

	SkillID         string
	SkillName       string
	PointsRemaining int
}

// UnlockSkill unlocks a skill and spends one skill point as an atomic unit.
// Every failure mode is a silent, observable no-op: no points, unknown skill,
// already unlocked, or a locked prerequisite.
func (s *State) UnlockSkill(skillID string, now time.Time) UnlockSkillResult {
	result := UnlockSkillResult{
		SkillID:         skillID,
		PointsRemaining: s.Character.SkillPoints,
	}

	if s.Character.SkillPoints <= 0 {
		result.Reason = shared.ErrNoSkillPoints
		return result
	}

	sk, ok := skill.FindByID(s.Skills, skillID)
	if !ok {
		result.Reason = shared.ErrSkillNotFound
		return result
	}
	result.SkillName = sk.Name

	if sk.Unlocked {
		result.Reason = shared.ErrSkillAlreadyUnlocked
		return result
	}

	if !sk.CanUnlock(s.Skills) {
		result.Reason = shared.ErrPrerequisiteLocked
		return result
	}

	// Point spend and unlock mutate together or not at all. The unlock
	// cannot fail after the guards above, so spend last-checked.
	if !s.Character.SpendSkillPoint() {
		result.Reason = shared.ErrNoSkillPoints
		return result
	}
	if err := sk.Unlock(now); err != nil {
		result.Reason = err
		return result
	}

	result.Applied = true
	result.PointsRemaining = s.Character.SkillPoints
	return result
}

// ExtractShadowResult describes the outcome of ExtractShadow.
type ExtractShadowResult struct {
	Applied bool
	Reason  error

	Shadow *shadow.Shadow
}

// ExtractShadow creates a shadow from a completed quest and applies its stat
// bonus to the character. Silent no-ops: unknown quest, incomplete quest,
// shadow already extracted for the quest.
func (s *State) ExtractShadow(shadowID, questID string, now time.Time) ExtractShadowResult {
	q, ok := quest.FindByID(s.Quests, questID)
	if !ok {
		return ExtractShadowResult{Reason: shared.ErrShadowSourceNotFound}
	}

	if !q.Completed {
		return ExtractShadowResult{Reason: shared.ErrQuestNotCompleted}
	}

	if shadow.ExistsForQuest(s.Shadows, questID) {
		return ExtractShadowResult{Reason: shared.ErrShadowExists}
	}

	sh, err := shadow.ExtractFrom(shadowID, q, now)
	if err != nil {
		return ExtractShadowResult{Reason: err}
	}

	s.Shadows = append(s.Shadows, sh)
	s.Character.ApplyBonus(sh.Bonus)

	return ExtractShadowResult{Applied: true, Shadow: sh}
}

// CompleteDungeonResult describes the outcome of CompleteDungeon.
type CompleteDungeonResult struct {
	Applied bool
	Reason  error

	Dungeon *dungeon.Dungeon
	Gain    hunter.GainResult

	// Unlocked is the successor opened by this clear, if any.
	Unlocked *dungeon.Dungeon
}

// CompleteDungeon clears a dungeon, awards its experience, and unlocks its
// successor regardless of the successor's own requirements. Silent no-ops:
// unknown dungeon, locked dungeon, already cleared.
func (s *State) CompleteDungeon(dungeonID string, now time.Time) CompleteDungeonResult {
	d, ok := dungeon.FindByID(s.Dungeons, dungeonID)
	if !ok {
		return CompleteDungeonResult{Reason: shared.ErrDungeonNotFound}
	}

	if err := d.Complete(now); err != nil {
		return CompleteDungeonResult{Reason: err, Dungeon: d}
	}

	result := CompleteDungeonResult{
		Applied: true,
		Dungeon: d,
		Gain:    s.Character.AddExperience(d.Experience),
	}

	if d.SuccessorID != "" {
		if next, ok := dungeon.FindByID(s.Dungeons, d.SuccessorID); ok && next.Unlock() {
			result.Unlocked = next
		}
	}

	return result
}

// SpendAttributeResult describes the outcome of SpendAttributePoint.
type SpendAttributeResult struct {
	Applied bool
	Reason  error

	Stat            shared.StatType
	NewValue        int
	PointsRemaining int
}

// SpendAttributePoint allocates one unspent attribute point to a stat.
func (s *State) SpendAttributePoint(stat shared.StatType) SpendAttributeResult {
	result := SpendAttributeResult{Stat: stat, PointsRemaining: s.Character.AttributePoints}

	if err := s.Character.SpendAttributePoint(stat); err != nil {
		result.Reason = err
		return result
	}

	value, _ := s.Character.Stats.Get(stat)
	result.Applied = true
	result.NewValue = value
	result.PointsRemaining = s.Character.AttributePoints
	return result
}

// AddExperience awards experience outside of quest/dungeon completion,
// e.g. achievement rewards.
func (s *State) AddExperience(amount int) hunter.GainResult {
	return s.Character.AddExperience(amount)
}

// ResetDailyQuests returns every daily quest to Active unconditionally.
// This is the client-facing single-profile reset.
func (s *State) ResetDailyQuests() int {
	count := 0
	for _, q := range s.Quests {
		if q.ResetDaily() {
			count++
		}
	}
	return count
}

// ResetOutdatedDailies resets only daily quests completed on an earlier UTC
// calendar day. Running it twice on the same day is a no-op the second time;
// the batch reset job applies this form per account.
func (s *State) ResetOutdatedDailies(now time.Time) int {
	count := 0
	for _, q := range s.Quests {
		if q.NeedsDailyReset(now) && q.ResetDaily() {
			count++
		}
	}
	return count
}

// HasUncompletedDailies reports whether any daily quest is active.
// The reset check reports it so clients know a reminder is due.
func (s *State) HasUncompletedDailies() bool {
	for _, q := range s.Quests {
		if q.Type.IsDaily() && !q.Completed {
			return true
		}
	}
	return false
}
