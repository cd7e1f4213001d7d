// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// AccountID represents a unique account identifier (UUID format).
type AccountID string

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the account ID is a valid UUID.
func (a AccountID) IsValid() bool {
	return uuidRegex.MatchString(string(a))
}

// String returns the string representation.
func (a AccountID) String() string {
	return string(a)
}

// IsEmpty checks if the ID is empty.
func (a AccountID) IsEmpty() bool {
	return a == ""
}

// NewAccountID creates a new AccountID with validation.
func NewAccountID(id string) (AccountID, error) {
	aid := AccountID(strings.ToLower(strings.TrimSpace(id)))
	if !aid.IsValid() {
		return "", NewDomainError("shared", "NewAccountID", ErrInvalidID, "invalid account ID format")
	}
	return aid, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Stat Value Object
// ═══════════════════════════════════════════════════════════════════════════

// StatType names one of the six character attributes.
type StatType string

const (
	StatStrength     StatType = "strength"
	StatIntelligence StatType = "intelligence"
	StatDiscipline   StatType = "discipline"
	StatCharisma     StatType = "charisma"
	StatVitality     StatType = "vitality"
	StatAgility      StatType = "agility"
)

// AllStatTypes returns every stat in display order.
func AllStatTypes() []StatType {
	return []StatType{
		StatStrength,
		StatIntelligence,
		StatDiscipline,
		StatCharisma,
		StatVitality,
		StatAgility,
	}
}

// IsValid checks if the stat type is one of the six known attributes.
func (s StatType) IsValid() bool {
	switch s {
	case StatStrength, StatIntelligence, StatDiscipline,
		StatCharisma, StatVitality, StatAgility:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s StatType) String() string {
	return string(s)
}

// NewStatType creates a StatType with validation.
func NewStatType(value string) (StatType, error) {
	s := StatType(strings.ToLower(strings.TrimSpace(value)))
	if !s.IsValid() {
		return "", ErrUnknownStat
	}
	return s, nil
}

// StatBonus is a flat bonus applied to one character attribute.
// Used by quests, skills, and shadows.
type StatBonus struct {
	Stat  StatType `json:"stat"`
	Value int      `json:"value"`
}

// IsValid checks that the bonus targets a known stat with a positive value.
func (b StatBonus) IsValid() bool {
	return b.Stat.IsValid() && b.Value > 0
}

// String returns a display form like "+2 discipline".
func (b StatBonus) String() string {
	return fmt.Sprintf("+%d %s", b.Value, b.Stat)
}

// ═══════════════════════════════════════════════════════════════════════════
// XP Value Object (Experience Points)
// ═══════════════════════════════════════════════════════════════════════════

// XP represents experience points held within the current level.
// The level invariant `xp < level * 100` is maintained by the progression
// engine, not by this type.
type XP int

// MinXP is the lower bound for experience.
const MinXP XP = 0

// IsValid checks if the XP value is non-negative.
func (x XP) IsValid() bool {
	return x >= MinXP
}

// Int returns the underlying int value.
func (x XP) Int() int {
	return int(x)
}

// Add adds XP and returns the result, floored at MinXP.
func (x XP) Add(amount int) XP {
	result := XP(int(x) + amount)
	if result < MinXP {
		return MinXP
	}
	return result
}

// NewXP creates a new XP value with validation.
func NewXP(amount int) (XP, error) {
	if amount < int(MinXP) {
		return 0, NewDomainError("shared", "NewXP", ErrNegativeValue, "XP cannot be negative")
	}
	return XP(amount), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Level Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Level represents a character's level.
type Level int

// MinLevel is the starting level.
const MinLevel Level = 1

// IsValid checks if the level is at least MinLevel.
func (l Level) IsValid() bool {
	return l >= MinLevel
}

// Int returns the underlying int value.
func (l Level) Int() int {
	return int(l)
}

// Threshold returns the XP required to level up from this level.
// Reaching or exceeding it rolls the overflow into the next level.
func (l Level) Threshold() int {
	return int(l) * 100
}

// Next returns the following level.
func (l Level) Next() Level {
	return l + 1
}

// NewLevel creates a new Level with validation.
func NewLevel(value int) (Level, error) {
	l := Level(value)
	if !l.IsValid() {
		return 0, NewDomainError("shared", "NewLevel", ErrValueOutOfRange, "level must be at least 1")
	}
	return l, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Hunter Rank Value Object
// ═══════════════════════════════════════════════════════════════════════════

// HunterRank is the ordinal class label of a character, E (lowest) to S.
// Dungeons carry the same scale as their difficulty rank.
type HunterRank string

const (
	RankE HunterRank = "E"
	RankD HunterRank = "D"
	RankC HunterRank = "C"
	RankB HunterRank = "B"
	RankA HunterRank = "A"
	RankS HunterRank = "S"
)

// rankOrder maps ranks to their ordinal position for comparisons.
var rankOrder = map[HunterRank]int{
	RankE: 0, RankD: 1, RankC: 2, RankB: 3, RankA: 4, RankS: 5,
}

// IsValid checks if the rank is one of E..S.
func (r HunterRank) IsValid() bool {
	_, ok := rankOrder[r]
	return ok
}

// String returns the string representation.
func (r HunterRank) String() string {
	return string(r)
}

// Order returns the ordinal position of the rank (E=0 .. S=5).
func (r HunterRank) Order() int {
	return rankOrder[r]
}

// AtLeast reports whether r is the same rank as other or higher.
func (r HunterRank) AtLeast(other HunterRank) bool {
	return rankOrder[r] >= rankOrder[other]
}

// NewHunterRank creates a HunterRank with validation.
func NewHunterRank(value string) (HunterRank, error) {
	r := HunterRank(strings.ToUpper(strings.TrimSpace(value)))
	if !r.IsValid() {
		return "", NewDomainError("shared", "NewHunterRank", ErrInvalidInput, "rank must be one of E, D, C, B, A, S")
	}
	return r, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// TimeRange Value Object
// ═══════════════════════════════════════════════════════════════════════════

// TimeRange represents a time period.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// IsValid checks if the time range is valid.
func (t TimeRange) IsValid() bool {
	return !t.From.IsZero() && !t.To.IsZero() && !t.From.After(t.To)
}

// Duration returns the duration of the time range.
func (t TimeRange) Duration() time.Duration {
	return t.To.Sub(t.From)
}

// Contains checks if a time is within the range.
func (t TimeRange) Contains(tm time.Time) bool {
	return (tm.Equal(t.From) || tm.After(t.From)) && (tm.Equal(t.To) || tm.Before(t.To))
}

// NewTimeRange creates a new TimeRange with validation.
func NewTimeRange(from, to time.Time) (TimeRange, error) {
	tr := TimeRange{From: from, To: to}
	if !tr.IsValid() {
		return TimeRange{}, NewDomainError("shared", "NewTimeRange", ErrInvalidInput, "'from' must be before 'to'")
	}
	return tr, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Pagination Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Pagination represents pagination parameters.
type Pagination struct {
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Offset returns the offset for database queries.
func (p Pagination) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

// Limit returns the limit for database queries.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// NewPagination creates a new Pagination with defaults.
func NewPagination(page, pageSize int) Pagination {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// DefaultPagination returns default pagination.
func DefaultPagination() Pagination {
	return NewPagination(1, DefaultPageSize)
}
