// Package codec serializes the profile aggregate to its stored JSON
// document. Postgres keeps the document in a JSONB column and the Redis
// cache stores the same bytes, so both layers share one codec.
package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/achievement"
	"github.com/arise-hub/hunter-hub/internal/domain/dungeon"
	"github.com/arise-hub/hunter-hub/internal/domain/hunter"
	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/quest"
	"github.com/arise-hub/hunter-hub/internal/domain/shadow"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
	"github.com/arise-hub/hunter-hub/internal/domain/skill"
)

// SchemaVersion is stored with every document. Old documents are migrated
// on read when the layout changes.
const SchemaVersion = 1

// ──────────────────────────────────────────────────────────────────────────────
// DOCUMENT LAYOUT
// ──────────────────────────────────────────────────────────────────────────────

type stateDoc struct {
	Version   int    `json:"version"`
	AccountID string `json:"account_id"`

	Character    characterDoc     `json:"character"`
	Quests       []questDoc       `json:"quests"`
	Skills       []skillDoc       `json:"skills"`
	Shadows      []shadowDoc      `json:"shadows"`
	Dungeons     []dungeonDoc     `json:"dungeons"`
	Achievements []achievementDoc `json:"achievements"`

	LastSaved time.Time `json:"last_saved,omitempty"`
}

type characterDoc struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Level           int          `json:"level"`
	Experience      int          `json:"experience"`
	Stats           hunter.Stats `json:"stats"`
	Title           string       `json:"title"`
	Rank            string       `json:"rank"`
	Avatar          string       `json:"avatar,omitempty"`
	AttributePoints int          `json:"attribute_points"`
	SkillPoints     int          `json:"skill_points"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

type questDoc struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	Type           string            `json:"type"`
	Difficulty     string            `json:"difficulty"`
	Experience     int               `json:"experience"`
	AttributeBonus *shared.StatBonus `json:"attribute_bonus,omitempty"`
	Icon           string            `json:"icon,omitempty"`
	Completed      bool              `json:"completed"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
}

type skillDoc struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Unlocked     bool             `json:"unlocked"`
	UnlockedAt   *time.Time       `json:"unlocked_at,omitempty"`
	Level        int              `json:"level"`
	MaxLevel     int              `json:"max_level"`
	Prerequisite string           `json:"prerequisite,omitempty"`
	Bonus        shared.StatBonus `json:"bonus"`
	Icon         string           `json:"icon,omitempty"`
}

type shadowDoc struct {
	ID          string           `json:"id"`
	QuestID     string           `json:"quest_id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Bonus       shared.StatBonus `json:"bonus"`
	Level       int              `json:"level"`
	ExtractedAt time.Time        `json:"extracted_at"`
}

type dungeonDoc struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description,omitempty"`
	Difficulty   string               `json:"difficulty"`
	Experience   int                  `json:"experience"`
	Completed    bool                 `json:"completed"`
	CompletedAt  *time.Time           `json:"completed_at,omitempty"`
	Locked       bool                 `json:"locked"`
	SuccessorID  string               `json:"successor_id,omitempty"`
	Requirements dungeon.Requirements `json:"requirements"`
	Rewards      dungeon.Rewards      `json:"rewards"`
}

type achievementDoc struct {
	ID          string                  `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description,omitempty"`
	Category    string                  `json:"category"`
	Rarity      string                  `json:"rarity"`
	Hidden      bool                    `json:"hidden,omitempty"`
	Requirement achievement.Requirement `json:"requirement"`
	Rewards     achievement.Rewards     `json:"rewards"`
	Unlocked    bool                    `json:"unlocked"`
	UnlockedAt  *time.Time              `json:"unlocked_at,omitempty"`
}

// ──────────────────────────────────────────────────────────────────────────────
// ENCODE
// ──────────────────────────────────────────────────────────────────────────────

// EncodeState serializes the aggregate to its stored document.
func EncodeState(state *profile.State) ([]byte, error) {
	c := state.Character
	doc := stateDoc{
		Version:   SchemaVersion,
		AccountID: state.AccountID,
		Character: characterDoc{
			ID:              c.ID,
			Name:            c.Name,
			Level:           c.Level.Int(),
			Experience:      int(c.Experience),
			Stats:           c.Stats,
			Title:           c.Title,
			Rank:            string(c.Rank),
			Avatar:          c.Avatar,
			AttributePoints: c.AttributePoints,
			SkillPoints:     c.SkillPoints,
			CreatedAt:       c.CreatedAt,
			UpdatedAt:       c.UpdatedAt,
		},
		LastSaved: state.LastSaved,
	}

	for _, q := range state.Quests {
		doc.Quests = append(doc.Quests, questDoc{
			ID:             q.ID,
			Title:          q.Title,
			Description:    q.Description,
			Type:           string(q.Type),
			Difficulty:     string(q.Difficulty),
			Experience:     q.Experience,
			AttributeBonus: q.AttributeBonus,
			Icon:           q.Icon,
			Completed:      q.Completed,
			CompletedAt:    q.CompletedAt,
		})
	}

	for _, sk := range state.Skills {
		doc.Skills = append(doc.Skills, skillDoc{
			ID:           sk.ID,
			Name:         sk.Name,
			Description:  sk.Description,
			Unlocked:     sk.Unlocked,
			UnlockedAt:   sk.UnlockedAt,
			Level:        sk.Level,
			MaxLevel:     sk.MaxLevel,
			Prerequisite: sk.Prerequisite,
			Bonus:        sk.Bonus,
			Icon:         sk.Icon,
		})
	}

	for _, sh := range state.Shadows {
		doc.Shadows = append(doc.Shadows, shadowDoc{
			ID:          sh.ID,
			QuestID:     sh.QuestID,
			Name:        sh.Name,
			Description: sh.Description,
			Bonus:       sh.Bonus,
			Level:       sh.Level,
			ExtractedAt: sh.ExtractedAt,
		})
	}

	for _, d := range state.Dungeons {
		doc.Dungeons = append(doc.Dungeons, dungeonDoc{
			ID:           d.ID,
			Name:         d.Name,
			Description:  d.Description,
			Difficulty:   string(d.Difficulty),
			Experience:   d.Experience,
			Completed:    d.Completed,
			CompletedAt:  d.CompletedAt,
			Locked:       d.Locked,
			SuccessorID:  d.SuccessorID,
			Requirements: d.Requirements,
			Rewards:      d.Rewards,
		})
	}

	for _, a := range state.Achievements {
		doc.Achievements = append(doc.Achievements, achievementDoc{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Category:    string(a.Category),
			Rarity:      string(a.Rarity),
			Hidden:      a.Hidden,
			Requirement: a.Requirement,
			Rewards:     a.Rewards,
			Unlocked:    a.Unlocked,
			UnlockedAt:  a.UnlockedAt,
		})
	}

	return json.Marshal(doc)
}

// ──────────────────────────────────────────────────────────────────────────────
// DECODE
// ──────────────────────────────────────────────────────────────────────────────

// DecodeState deserializes a stored document back into the aggregate.
// Structural invariants (skill forest, dungeon chain) are re-validated
// through the aggregate constructor.
func DecodeState(data []byte) (*profile.State, error) {
	var doc stateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("codec: unmarshal state: %w", err)
	}
	if doc.Version > SchemaVersion {
		return nil, fmt.Errorf("codec: unsupported schema version %d", doc.Version)
	}

	character := &hunter.Character{
		ID:              doc.Character.ID,
		Name:            doc.Character.Name,
		Level:           shared.Level(doc.Character.Level),
		Experience:      shared.XP(doc.Character.Experience),
		Stats:           doc.Character.Stats,
		Title:           doc.Character.Title,
		Rank:            shared.HunterRank(doc.Character.Rank),
		Avatar:          doc.Character.Avatar,
		AttributePoints: doc.Character.AttributePoints,
		SkillPoints:     doc.Character.SkillPoints,
		CreatedAt:       doc.Character.CreatedAt,
		UpdatedAt:       doc.Character.UpdatedAt,
	}

	quests := make([]*quest.Quest, 0, len(doc.Quests))
	for _, q := range doc.Quests {
		quests = append(quests, &quest.Quest{
			ID:             q.ID,
			Title:          q.Title,
			Description:    q.Description,
			Type:           quest.Type(q.Type),
			Difficulty:     quest.Difficulty(q.Difficulty),
			Experience:     q.Experience,
			AttributeBonus: q.AttributeBonus,
			Icon:           q.Icon,
			Completed:      q.Completed,
			CompletedAt:    q.CompletedAt,
		})
	}

	skills := make([]*skill.Skill, 0, len(doc.Skills))
	for _, sk := range doc.Skills {
		skills = append(skills, &skill.Skill{
			ID:           sk.ID,
			Name:         sk.Name,
			Description:  sk.Description,
			Unlocked:     sk.Unlocked,
			UnlockedAt:   sk.UnlockedAt,
			Level:        sk.Level,
			MaxLevel:     sk.MaxLevel,
			Prerequisite: sk.Prerequisite,
			Bonus:        sk.Bonus,
			Icon:         sk.Icon,
		})
	}

	shadows := make([]*shadow.Shadow, 0, len(doc.Shadows))
	for _, sh := range doc.Shadows {
		shadows = append(shadows, &shadow.Shadow{
			ID:          sh.ID,
			QuestID:     sh.QuestID,
			Name:        sh.Name,
			Description: sh.Description,
			Bonus:       sh.Bonus,
			Level:       sh.Level,
			ExtractedAt: sh.ExtractedAt,
		})
	}

	dungeons := make([]*dungeon.Dungeon, 0, len(doc.Dungeons))
	for _, d := range doc.Dungeons {
		dungeons = append(dungeons, &dungeon.Dungeon{
			ID:           d.ID,
			Name:         d.Name,
			Description:  d.Description,
			Difficulty:   shared.HunterRank(d.Difficulty),
			Experience:   d.Experience,
			Completed:    d.Completed,
			CompletedAt:  d.CompletedAt,
			Locked:       d.Locked,
			SuccessorID:  d.SuccessorID,
			Requirements: d.Requirements,
			Rewards:      d.Rewards,
		})
	}

	achievements := make([]*achievement.Achievement, 0, len(doc.Achievements))
	for _, a := range doc.Achievements {
		achievements = append(achievements, &achievement.Achievement{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Category:    achievement.Category(a.Category),
			Rarity:      achievement.Rarity(a.Rarity),
			Hidden:      a.Hidden,
			Requirement: a.Requirement,
			Rewards:     a.Rewards,
			Unlocked:    a.Unlocked,
			UnlockedAt:  a.UnlockedAt,
		})
	}

	state, err := profile.NewState(doc.AccountID, character, quests, skills, shadows, dungeons, achievements)
	if err != nil {
		return nil, fmt.Errorf("codec: rebuild state: %w", err)
	}
	state.LastSaved = doc.LastSaved

	return state, nil
}
