// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/hunter"
	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/quest"
	"github.com/arise-hub/hunter-hub/internal/domain/shadow"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
	"github.com/arise-hub/hunter-hub/internal/domain/skill"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROFILE QUERY
// Returns the full hunter profile: character, quests, skill tree, shadows
// and dungeons. Reads go through the cache; a miss falls back to the store
// and repopulates the cache.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultProfileTTL is how long a cached profile stays fresh.
const DefaultProfileTTL = 5 * time.Minute

// GetProfileQuery contains the parameters for a profile read.
type GetProfileQuery struct {
	// AccountID identifies the hunter.
	AccountID string

	// IncludeShadows includes the shadow army in the response.
	IncludeShadows bool

	// IncludeDungeons includes the dungeon ladder in the response.
	IncludeDungeons bool

	// BypassCache forces a store read.
	BypassCache bool
}

// Validate checks the query parameters.
func (q *GetProfileQuery) Validate() error {
	if _, err := shared.NewAccountID(q.AccountID); err != nil {
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// DTOs
// ──────────────────────────────────────────────────────────────────────────────

// CharacterDTO is the read model of the hunter character.
type CharacterDTO struct {
	Name       string `json:"name"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`

	// ExperienceToNext is the XP still needed for the next level.
	ExperienceToNext int `json:"experience_to_next"`

	Title  string `json:"title"`
	Rank   string `json:"rank"`
	Avatar string `json:"avatar,omitempty"`

	Stats map[string]int `json:"stats"`

	AttributePoints int `json:"attribute_points"`
	SkillPoints     int `json:"skill_points"`
}

// QuestDTO is the read model of a quest.
type QuestDTO struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Type        string     `json:"type"`
	Difficulty  string     `json:"difficulty"`
	Experience  int        `json:"experience"`
	Icon        string     `json:"icon,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// BonusStat and BonusValue describe the optional attribute reward.
	BonusStat  string `json:"bonus_stat,omitempty"`
	BonusValue int    `json:"bonus_value,omitempty"`
}

// SkillDTO is the read model of a skill tree node.
type SkillDTO struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Unlocked     bool       `json:"unlocked"`
	UnlockedAt   *time.Time `json:"unlocked_at,omitempty"`
	Level        int        `json:"level"`
	MaxLevel     int        `json:"max_level"`
	Prerequisite string     `json:"prerequisite,omitempty"`
	BonusStat    string     `json:"bonus_stat"`
	BonusValue   int        `json:"bonus_value"`
	Icon         string     `json:"icon,omitempty"`

	// Available is true when the skill is still locked but could be
	// unlocked right now.
	Available bool `json:"available"`
}

// ShadowDTO is the read model of an extracted shadow.
type ShadowDTO struct {
	ID          string    `json:"id"`
	QuestID     string    `json:"quest_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	BonusStat   string    `json:"bonus_stat"`
	BonusValue  int       `json:"bonus_value"`
	Level       int       `json:"level"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// DungeonDTO is the read model of a dungeon gate.
type DungeonDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Difficulty  string     `json:"difficulty"`
	Experience  int        `json:"experience"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Locked      bool       `json:"locked"`

	RequiredLevel int            `json:"required_level,omitempty"`
	RequiredStats map[string]int `json:"required_stats,omitempty"`

	// RequirementsMet is true when the character currently satisfies the
	// entry requirements. Completion ignores this flag; it is advisory.
	RequirementsMet bool `json:"requirements_met"`
}

// GetProfileResult contains the full profile read model.
type GetProfileResult struct {
	AccountID string       `json:"account_id"`
	Character CharacterDTO `json:"character"`

	Quests   []QuestDTO   `json:"quests"`
	Skills   []SkillDTO   `json:"skills"`
	Shadows  []ShadowDTO  `json:"shadows,omitempty"`
	Dungeons []DungeonDTO `json:"dungeons,omitempty"`

	// FromCache reports whether the read was served from cache.
	FromCache bool `json:"-"`

	GeneratedAt time.Time `json:"generated_at"`
}

// ──────────────────────────────────────────────────────────────────────────────
// HANDLER
// ──────────────────────────────────────────────────────────────────────────────

// GetProfileHandler handles profile reads.
type GetProfileHandler struct {
	store profile.Store
	cache profile.Cache
	ttl   time.Duration
}

// NewGetProfileHandler creates a new handler.
func NewGetProfileHandler(store profile.Store, cache profile.Cache) *GetProfileHandler {
	return &GetProfileHandler{
		store: store,
		cache: cache,
		ttl:   DefaultProfileTTL,
	}
}

// Handle executes the query.
func (h *GetProfileHandler) Handle(ctx context.Context, query GetProfileQuery) (*GetProfileResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetProfile", shared.ErrValidation, err.Error(), err)
	}

	state, fromCache, err := h.load(ctx, query.AccountID, query.BypassCache)
	if err != nil {
		return nil, shared.WrapError("query", "GetProfile", shared.ErrProfileNotFound, "profile not found", err)
	}

	result := &GetProfileResult{
		AccountID:   state.AccountID,
		Character:   buildCharacterDTO(state.Character),
		Quests:      buildQuestDTOs(state.Quests),
		Skills:      buildSkillDTOs(state),
		FromCache:   fromCache,
		GeneratedAt: time.Now().UTC(),
	}

	if query.IncludeShadows {
		result.Shadows = buildShadowDTOs(state.Shadows)
	}
	if query.IncludeDungeons {
		result.Dungeons = buildDungeonDTOs(state)
	}

	return result, nil
}

// load reads through the cache. A cache miss or a cache error falls back
// to the store; the fresh state repopulates the cache best-effort.
func (h *GetProfileHandler) load(ctx context.Context, accountID string, bypass bool) (*profile.State, bool, error) {
	if !bypass && h.cache != nil {
		if state, err := h.cache.Get(ctx, accountID); err == nil && state != nil {
			return state, true, nil
		}
	}

	state, err := h.store.Load(ctx, accountID)
	if err != nil {
		return nil, false, err
	}

	if h.cache != nil {
		_ = h.cache.Set(ctx, state, h.ttl)
	}

	return state, false, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// DTO BUILDERS
// ──────────────────────────────────────────────────────────────────────────────

func buildCharacterDTO(c *hunter.Character) CharacterDTO {
	stats := make(map[string]int, len(shared.AllStatTypes()))
	for _, st := range shared.AllStatTypes() {
		if v, ok := c.Stats.Get(st); ok {
			stats[st.String()] = v
		}
	}

	level := c.Level.Int()
	return CharacterDTO{
		Name:             c.Name,
		Level:            level,
		Experience:       int(c.Experience),
		ExperienceToNext: level*100 - int(c.Experience),
		Title:            c.Title,
		Rank:             c.Rank.String(),
		Avatar:           c.Avatar,
		Stats:            stats,
		AttributePoints:  c.AttributePoints,
		SkillPoints:      c.SkillPoints,
	}
}

func buildQuestDTOs(quests []*quest.Quest) []QuestDTO {
	out := make([]QuestDTO, 0, len(quests))
	for _, q := range quests {
		dto := QuestDTO{
			ID:          q.ID,
			Title:       q.Title,
			Description: q.Description,
			Type:        string(q.Type),
			Difficulty:  string(q.Difficulty),
			Experience:  q.Experience,
			Icon:        q.Icon,
			Completed:   q.Completed,
			CompletedAt: q.CompletedAt,
		}
		if q.AttributeBonus != nil {
			dto.BonusStat = q.AttributeBonus.Stat.String()
			dto.BonusValue = q.AttributeBonus.Value
		}
		out = append(out, dto)
	}
	return out
}

func buildSkillDTOs(state *profile.State) []SkillDTO {
	out := make([]SkillDTO, 0, len(state.Skills))
	for _, sk := range state.Skills {
		out = append(out, SkillDTO{
			ID:           sk.ID,
			Name:         sk.Name,
			Description:  sk.Description,
			Unlocked:     sk.Unlocked,
			UnlockedAt:   sk.UnlockedAt,
			Level:        sk.Level,
			MaxLevel:     sk.MaxLevel,
			Prerequisite: sk.Prerequisite,
			BonusStat:    sk.Bonus.Stat.String(),
			BonusValue:   sk.Bonus.Value,
			Icon:         sk.Icon,
			Available:    skillAvailable(state, sk),
		})
	}
	return out
}

// skillAvailable reports whether a locked skill could be unlocked now:
// a skill point is available and the prerequisite, if any, is unlocked.
func skillAvailable(state *profile.State, sk *skill.Skill) bool {
	if sk.Unlocked || state.Character.SkillPoints < 1 {
		return false
	}
	if sk.Prerequisite == "" {
		return true
	}
	prereq, ok := skill.FindByID(state.Skills, sk.Prerequisite)
	return ok && prereq.Unlocked
}

func buildShadowDTOs(shadows []*shadow.Shadow) []ShadowDTO {
	out := make([]ShadowDTO, 0, len(shadows))
	for _, sh := range shadows {
		out = append(out, ShadowDTO{
			ID:          sh.ID,
			QuestID:     sh.QuestID,
			Name:        sh.Name,
			Description: sh.Description,
			BonusStat:   sh.Bonus.Stat.String(),
			BonusValue:  sh.Bonus.Value,
			Level:       sh.Level,
			ExtractedAt: sh.ExtractedAt,
		})
	}
	return out
}

func buildDungeonDTOs(state *profile.State) []DungeonDTO {
	out := make([]DungeonDTO, 0, len(state.Dungeons))
	for _, d := range state.Dungeons {
		dto := DungeonDTO{
			ID:              d.ID,
			Name:            d.Name,
			Description:     d.Description,
			Difficulty:      d.Difficulty.String(),
			Experience:      d.Experience,
			Completed:       d.Completed,
			CompletedAt:     d.CompletedAt,
			Locked:          d.Locked,
			RequiredLevel:   d.Requirements.Level,
			RequirementsMet: d.Requirements.MetBy(state.Character),
		}
		if len(d.Requirements.Stats) > 0 {
			dto.RequiredStats = make(map[string]int, len(d.Requirements.Stats))
			for st, v := range d.Requirements.Stats {
				dto.RequiredStats[st.String()] = v
			}
		}
		out = append(out, dto)
	}
	return out
}
