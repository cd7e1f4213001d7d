// Package quest содержит доменную модель квеста - выполняемой задачи,
// приносящей опыт. Это чистый доменный слой без внешних зависимостей.
package quest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/shared"
	"github.com/arise-hub/hunter-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Type определяет тип квеста. Только daily-квесты участвуют в протоколе
// ежедневного сброса.
type Type string

const (
	// TypeDaily - ежедневный квест, сбрасывается на границе UTC-суток.
	TypeDaily Type = "daily"
	// TypeWeekly - еженедельный квест.
	TypeWeekly Type = "weekly"
	// TypeAchievement - квест, привязанный к достижению.
	TypeAchievement Type = "achievement"
	// TypeMain - сюжетный квест.
	TypeMain Type = "main"
)

// IsValid проверяет корректность типа.
func (t Type) IsValid() bool {
	switch t {
	case TypeDaily, TypeWeekly, TypeAchievement, TypeMain:
		return true
	default:
		return false
	}
}

// IsDaily возвращает true для ежедневных квестов.
func (t Type) IsDaily() bool {
	return t == TypeDaily
}

// Difficulty определяет сложность квеста.
type Difficulty string

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyExtreme Difficulty = "extreme"
)

// IsValid проверяет корректность сложности.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExtreme:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: QUEST
// ══════════════════════════════════════════════════════════════════════════════

// Quest - задача с наградой в виде опыта. Поля шаблона неизменяемы;
// мутируют только Completed и CompletedAt.
type Quest struct {
	// ID - уникальный идентификатор квеста.
	ID string

	// Title - название квеста.
	Title string

	// Description - описание.
	Description string

	// Type - тип квеста.
	Type Type

	// Difficulty - сложность.
	Difficulty Difficulty

	// Experience - награда опытом (строго положительная).
	Experience int

	// AttributeBonus - опциональный бонус к атрибуту за выполнение.
	AttributeBonus *shared.StatBonus

	// Icon - иконка для отображения.
	Icon string

	// Completed - выполнен ли квест.
	Completed bool

	// CompletedAt - время выполнения (присутствует только если Completed).
	CompletedAt *time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidID - пустой идентификатор.
	ErrInvalidID = errors.New("quest: id is required")

	// ErrInvalidTitle - невалидное название.
	ErrInvalidTitle = errors.New("quest: title must be 1-200 chars")

	// ErrInvalidType - неизвестный тип квеста.
	ErrInvalidType = errors.New("quest: invalid type")

	// ErrInvalidDifficulty - неизвестная сложность.
	ErrInvalidDifficulty = errors.New("quest: invalid difficulty")

	// ErrInvalidExperience - награда должна быть положительной.
	ErrInvalidExperience = errors.New("quest: experience reward must be positive")

	// ErrInvalidBonus - бонус указывает на неизвестный атрибут.
	ErrInvalidBonus = errors.New("quest: invalid attribute bonus")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewQuestParams содержит параметры для создания квеста.
type NewQuestParams struct {
	ID             string
	Title          string
	Description    string
	Type           Type
	Difficulty     Difficulty
	Experience     int
	AttributeBonus *shared.StatBonus
	Icon           string
}

// NewQuest создаёт квест с валидацией всех полей.
func NewQuest(params NewQuestParams) (*Quest, error) {
	if params.ID == "" {
		return nil, ErrInvalidID
	}

	title := strings.TrimSpace(params.Title)
	if len(title) == 0 || len(title) > 200 {
		return nil, ErrInvalidTitle
	}

	if !params.Type.IsValid() {
		return nil, ErrInvalidType
	}

	if !params.Difficulty.IsValid() {
		return nil, ErrInvalidDifficulty
	}

	if params.Experience <= 0 {
		return nil, ErrInvalidExperience
	}

	if params.AttributeBonus != nil && !params.AttributeBonus.IsValid() {
		return nil, ErrInvalidBonus
	}

	return &Quest{
		ID:             params.ID,
		Title:          title,
		Description:    params.Description,
		Type:           params.Type,
		Difficulty:     params.Difficulty,
		Experience:     params.Experience,
		AttributeBonus: params.AttributeBonus,
		Icon:           params.Icon,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// Complete помечает квест выполненным. Повторный вызов - наблюдаемый no-op.
func (q *Quest) Complete(now time.Time) error {
	if q.Completed {
		return shared.ErrQuestAlreadyCompleted
	}
	q.Completed = true
	ts := now.UTC()
	q.CompletedAt = &ts
	return nil
}

// NeedsDailyReset возвращает true, если квест ежедневный, выполнен и дата
// выполнения раньше текущих UTC-суток.
func (q *Quest) NeedsDailyReset(now time.Time) bool {
	if !q.Type.IsDaily() || !q.Completed || q.CompletedAt == nil {
		return false
	}
	return timeutil.DayAdvanced(*q.CompletedAt, now)
}

// ResetDaily возвращает квест в состояние Active.
// Возвращает true, если состояние изменилось.
func (q *Quest) ResetDaily() bool {
	if !q.Type.IsDaily() || !q.Completed {
		return false
	}
	q.Completed = false
	q.CompletedAt = nil
	return true
}

// BonusStat возвращает атрибут бонуса или strength по умолчанию.
// Используется при извлечении тени.
func (q *Quest) BonusStat() shared.StatType {
	if q.AttributeBonus != nil && q.AttributeBonus.Stat.IsValid() {
		return q.AttributeBonus.Stat
	}
	return shared.StatStrength
}

// Clone возвращает глубокую копию квеста.
func (q *Quest) Clone() *Quest {
	clone := *q
	if q.AttributeBonus != nil {
		bonus := *q.AttributeBonus
		clone.AttributeBonus = &bonus
	}
	if q.CompletedAt != nil {
		ts := *q.CompletedAt
		clone.CompletedAt = &ts
	}
	return &clone
}

// String возвращает краткое строковое представление.
func (q *Quest) String() string {
	state := "active"
	if q.Completed {
		state = "completed"
	}
	return fmt.Sprintf("Quest{%s, %s, %d xp, %s}", q.ID, q.Type, q.Experience, state)
}

// ══════════════════════════════════════════════════════════════════════════════
// COLLECTION HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// FindByID ищет квест по идентификатору.
func FindByID(quests []*Quest, id string) (*Quest, bool) {
	for _, q := range quests {
		if q.ID == id {
			return q, true
		}
	}
	return nil, false
}

// CountCompleted возвращает количество выполненных квестов.
func CountCompleted(quests []*Quest) int {
	count := 0
	for _, q := range quests {
		if q.Completed {
			count++
		}
	}
	return count
}

// Dailies возвращает только ежедневные квесты.
func Dailies(quests []*Quest) []*Quest {
	var result []*Quest
	for _, q := range quests {
		if q.Type.IsDaily() {
			result = append(result, q)
		}
	}
	return result
}
