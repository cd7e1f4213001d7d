// Package shadow содержит доменную модель тени - пассивного бонуса,
// извлекаемого из выполненного квеста. На один квест приходится не более
// одной тени, и тени никогда не удаляются.
package shadow

import (
	"errors"
	"fmt"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/quest"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// Domain errors for shadow package.
var (
	ErrInvalidID      = errors.New("shadow: id is required")
	ErrInvalidQuestID = errors.New("shadow: quest id is required")
	ErrInvalidBonus   = errors.New("shadow: invalid stat bonus")
)

// Shadow - извлечённая из квеста тень с постоянным бонусом к атрибуту.
type Shadow struct {
	// ID - уникальный идентификатор тени.
	ID string

	// QuestID - квест-источник (обратная ссылка, не владение).
	QuestID string

	// Name - имя тени, производное от названия квеста.
	Name string

	// Description - описание происхождения.
	Description string

	// Bonus - бонус к атрибуту персонажа.
	Bonus shared.StatBonus

	// Level - уровень тени.
	Level int

	// ExtractedAt - время извлечения.
	ExtractedAt time.Time
}

// BonusDivisor - делитель опыта квеста при расчёте бонуса тени.
const BonusDivisor = 10

// BonusValueFor вычисляет силу бонуса тени из награды квеста:
// max(1, floor(experience / 10)).
func BonusValueFor(questExperience int) int {
	value := questExperience / BonusDivisor
	if value < 1 {
		return 1
	}
	return value
}

// ExtractFrom создаёт тень из выполненного квеста. Проверку «квест выполнен,
// тени ещё нет» выполняет движок прогрессии; здесь только построение.
func ExtractFrom(id string, q *quest.Quest, now time.Time) (*Shadow, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	if q == nil || q.ID == "" {
		return nil, ErrInvalidQuestID
	}

	bonus := shared.StatBonus{
		Stat:  q.BonusStat(),
		Value: BonusValueFor(q.Experience),
	}
	if !bonus.IsValid() {
		return nil, ErrInvalidBonus
	}

	return &Shadow{
		ID:          id,
		QuestID:     q.ID,
		Name:        fmt.Sprintf("%s Shadow", q.Title),
		Description: fmt.Sprintf("Extracted from %s", q.Title),
		Bonus:       bonus,
		Level:       1,
		ExtractedAt: now.UTC(),
	}, nil
}

// ExistsForQuest проверяет, извлечена ли уже тень для данного квеста.
func ExistsForQuest(shadows []*Shadow, questID string) bool {
	for _, s := range shadows {
		if s.QuestID == questID {
			return true
		}
	}
	return false
}

// Clone возвращает копию тени.
func (s *Shadow) Clone() *Shadow {
	clone := *s
	return &clone
}

// String возвращает краткое строковое представление.
func (s *Shadow) String() string {
	return fmt.Sprintf("Shadow{%s, %s, lvl %d}", s.Name, s.Bonus, s.Level)
}
