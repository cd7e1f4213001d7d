// Package hunter содержит доменную модель персонажа (охотника).
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package hunter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Stats хранит шесть атрибутов персонажа.
type Stats struct {
	Strength     int `json:"strength"`
	Intelligence int `json:"intelligence"`
	Discipline   int `json:"discipline"`
	Charisma     int `json:"charisma"`
	Vitality     int `json:"vitality"`
	Agility      int `json:"agility"`
}

// DefaultStats возвращает стартовые атрибуты нового персонажа.
func DefaultStats() Stats {
	return Stats{
		Strength:     10,
		Intelligence: 10,
		Discipline:   10,
		Charisma:     10,
		Vitality:     10,
		Agility:      10,
	}
}

// IsValid проверяет, что все атрибуты неотрицательные.
func (s Stats) IsValid() bool {
	for _, v := range s.values() {
		if v < 0 {
			return false
		}
	}
	return true
}

func (s Stats) values() []int {
	return []int{s.Strength, s.Intelligence, s.Discipline, s.Charisma, s.Vitality, s.Agility}
}

// Get возвращает значение атрибута по имени.
func (s Stats) Get(stat shared.StatType) (int, bool) {
	switch stat {
	case shared.StatStrength:
		return s.Strength, true
	case shared.StatIntelligence:
		return s.Intelligence, true
	case shared.StatDiscipline:
		return s.Discipline, true
	case shared.StatCharisma:
		return s.Charisma, true
	case shared.StatVitality:
		return s.Vitality, true
	case shared.StatAgility:
		return s.Agility, true
	default:
		return 0, false
	}
}

// Add увеличивает атрибут на delta. Возвращает false, если атрибут неизвестен.
func (s *Stats) Add(stat shared.StatType, delta int) bool {
	switch stat {
	case shared.StatStrength:
		s.Strength += delta
	case shared.StatIntelligence:
		s.Intelligence += delta
	case shared.StatDiscipline:
		s.Discipline += delta
	case shared.StatCharisma:
		s.Charisma += delta
	case shared.StatVitality:
		s.Vitality += delta
	case shared.StatAgility:
		s.Agility += delta
	default:
		return false
	}
	return true
}

// Total возвращает сумму всех атрибутов.
func (s Stats) Total() int {
	total := 0
	for _, v := range s.values() {
		total += v
	}
	return total
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: CHARACTER
// ══════════════════════════════════════════════════════════════════════════════

// Character - центральная сущность системы: прокачиваемый персонаж аккаунта.
// Инвариант уровня: Experience < Level * 100 после любого перехода.
type Character struct {
	// ID - идентификатор аккаунта-владельца (UUID в строковом формате).
	ID string

	// Name - имя персонажа.
	Name string

	// Level - текущий уровень (минимум 1).
	Level shared.Level

	// Experience - опыт внутри текущего уровня.
	Experience shared.XP

	// Stats - шесть атрибутов.
	Stats Stats

	// Title - титул персонажа (по умолчанию "Novice").
	Title string

	// Rank - класс охотника E..S.
	Rank shared.HunterRank

	// Avatar - ссылка на аватар.
	Avatar string

	// AttributePoints - нераспределённые очки атрибутов.
	AttributePoints int

	// SkillPoints - нераспределённые очки навыков.
	SkillPoints int

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidName - невалидное имя персонажа.
	ErrInvalidName = errors.New("invalid character name: must be 1-100 chars")

	// ErrInvalidLevel - невалидный уровень.
	ErrInvalidLevel = errors.New("invalid level: must be at least 1")

	// ErrInvalidExperience - невалидный опыт.
	ErrInvalidExperience = errors.New("invalid experience: must be non-negative")

	// ErrInvalidStats - невалидные атрибуты.
	ErrInvalidStats = errors.New("invalid stats: must be non-negative")

	// ErrNegativePoints - отрицательный пул очков.
	ErrNegativePoints = errors.New("invalid points pool: must be non-negative")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// DefaultTitle - стартовый титул персонажа.
const DefaultTitle = "Novice"

// NewCharacterParams содержит параметры для создания персонажа.
type NewCharacterParams struct {
	ID              string
	Name            string
	Level           shared.Level
	Experience      shared.XP
	Stats           Stats
	Title           string
	Rank            shared.HunterRank
	Avatar          string
	AttributePoints int
	SkillPoints     int
}

// NewCharacter создаёт персонажа с валидацией всех полей.
func NewCharacter(params NewCharacterParams) (*Character, error) {
	if params.ID == "" {
		return nil, errors.New("character id is required")
	}

	name := strings.TrimSpace(params.Name)
	if len(name) == 0 || len(name) > 100 {
		return nil, ErrInvalidName
	}

	if !params.Level.IsValid() {
		return nil, ErrInvalidLevel
	}

	if !params.Experience.IsValid() {
		return nil, ErrInvalidExperience
	}

	if !params.Stats.IsValid() {
		return nil, ErrInvalidStats
	}

	if params.AttributePoints < 0 || params.SkillPoints < 0 {
		return nil, ErrNegativePoints
	}

	title := params.Title
	if title == "" {
		title = DefaultTitle
	}

	rank := params.Rank
	if rank == "" {
		rank = shared.RankE
	}
	if !rank.IsValid() {
		return nil, fmt.Errorf("invalid rank: %q", params.Rank)
	}

	now := time.Now().UTC()

	return &Character{
		ID:              params.ID,
		Name:            name,
		Level:           params.Level,
		Experience:      params.Experience,
		Stats:           params.Stats,
		Title:           title,
		Rank:            rank,
		Avatar:          params.Avatar,
		AttributePoints: params.AttributePoints,
		SkillPoints:     params.SkillPoints,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// NewStartingCharacter создаёт персонажа первого уровня со стартовыми значениями.
func NewStartingCharacter(accountID, name string) (*Character, error) {
	return NewCharacter(NewCharacterParams{
		ID:          accountID,
		Name:        name,
		Level:       shared.MinLevel,
		Experience:  0,
		Stats:       DefaultStats(),
		SkillPoints: 1,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// LevelUpReward - очки, выдаваемые за каждый новый уровень.
const (
	LevelUpAttributePoints = 3
	LevelUpSkillPoints     = 1
)

// GainResult описывает результат начисления опыта.
type GainResult struct {
	// LeveledUp - был ли взят новый уровень.
	LeveledUp bool

	// OldLevel и NewLevel - уровень до и после начисления.
	OldLevel shared.Level
	NewLevel shared.Level

	// Experience - опыт после начисления.
	Experience shared.XP
}

// AddExperience начисляет опыт. Если сумма достигает порога Level*100,
// персонаж получает ровно один уровень за вызов: остаток опыта переносится,
// выдаются LevelUpAttributePoints и LevelUpSkillPoints.
// Награда, пересекающая два порога сразу, всё равно даёт один уровень.
func (c *Character) AddExperience(amount int) GainResult {
	result := GainResult{
		OldLevel: c.Level,
		NewLevel: c.Level,
	}

	if amount <= 0 {
		result.Experience = c.Experience
		return result
	}

	newExp := c.Experience.Int() + amount
	threshold := c.Level.Threshold()

	if newExp >= threshold {
		c.Experience = shared.XP(newExp - threshold)
		c.Level = c.Level.Next()
		c.AttributePoints += LevelUpAttributePoints
		c.SkillPoints += LevelUpSkillPoints
		result.LeveledUp = true
		result.NewLevel = c.Level
	} else {
		c.Experience = shared.XP(newExp)
	}

	result.Experience = c.Experience
	c.UpdatedAt = time.Now().UTC()
	return result
}

// SpendSkillPoint списывает одно очко навыка.
// Возвращает false, если очков нет (тихий no-op для вызывающего кода).
func (c *Character) SpendSkillPoint() bool {
	if c.SkillPoints <= 0 {
		return false
	}
	c.SkillPoints--
	c.UpdatedAt = time.Now().UTC()
	return true
}

// SpendAttributePoint тратит одно очко атрибутов на указанный стат.
func (c *Character) SpendAttributePoint(stat shared.StatType) error {
	if c.AttributePoints <= 0 {
		return shared.ErrNoAttributePoints
	}
	if !c.Stats.Add(stat, 1) {
		return shared.ErrUnknownStat
	}
	c.AttributePoints--
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// ApplyBonus применяет бонус к соответствующему атрибуту.
// Неизвестный стат игнорируется (бонус не теряется только для известных).
func (c *Character) ApplyBonus(bonus shared.StatBonus) bool {
	if !c.Stats.Add(bonus.Stat, bonus.Value) {
		return false
	}
	c.UpdatedAt = time.Now().UTC()
	return true
}

// Promote повышает класс охотника.
func (c *Character) Promote(rank shared.HunterRank) error {
	if !rank.IsValid() {
		return fmt.Errorf("invalid rank: %q", rank)
	}
	c.Rank = rank
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// SetTitle обновляет титул (например, из награды за достижение).
func (c *Character) SetTitle(title string) {
	if title == "" {
		return
	}
	c.Title = title
	c.UpdatedAt = time.Now().UTC()
}

// Clone возвращает глубокую копию персонажа.
func (c *Character) Clone() *Character {
	clone := *c
	return &clone
}

// String возвращает краткое строковое представление.
func (c *Character) String() string {
	return fmt.Sprintf("Character{%s, lvl %d, %d xp, rank %s}", c.Name, c.Level, c.Experience, c.Rank)
}
