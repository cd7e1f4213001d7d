// Package notification содержит доменную модель уведомлений Hunter Hub.
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/shared"
	"github.com/arise-hub/hunter-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEDUP KEYS
// Ключи детерминированы: одно игровое событие всегда даёт один и тот же ключ.
// ══════════════════════════════════════════════════════════════════════════════

// LevelUpKey возвращает ключ для повышения уровня.
func LevelUpKey(level int) Key {
	return Key(fmt.Sprintf("levelUp_%d", level))
}

// QuestCompletedKey возвращает ключ для завершения квеста.
func QuestCompletedKey(questID string) Key {
	return Key(fmt.Sprintf("quest_%s_completed", questID))
}

// SkillUnlockedKey возвращает ключ для разблокировки навыка.
func SkillUnlockedKey(skillID string) Key {
	return Key(fmt.Sprintf("skill_%s_unlocked", skillID))
}

// ShadowExtractedKey возвращает ключ для извлечения тени.
func ShadowExtractedKey(shadowID string) Key {
	return Key(fmt.Sprintf("shadow_%s_extracted", shadowID))
}

// AttributePointsKey возвращает ключ для доступных очков характеристик.
// Ключ включает количество: новое очко — новое уведомление.
func AttributePointsKey(points int) Key {
	return Key(fmt.Sprintf("attributePoints_%d_available", points))
}

// SkillPointsKey возвращает ключ для доступных очков навыков.
func SkillPointsKey(points int) Key {
	return Key(fmt.Sprintf("skillPoints_%d_available", points))
}

// AchievementUnlockedKey возвращает ключ для разблокированного достижения.
func AchievementUnlockedKey(achievementID string) Key {
	return Key(fmt.Sprintf("achievement_%s_unlocked", achievementID))
}

// DailyResetKey возвращает ключ для ежедневного сброса. Ключ включает дату:
// сброс объявляется один раз за календарный день.
func DailyResetKey(dateKey string) Key {
	return Key(fmt.Sprintf("dailyReset_%s", dateKey))
}

// ══════════════════════════════════════════════════════════════════════════════
// DISPLAY DURATIONS
// ══════════════════════════════════════════════════════════════════════════════

const (
	// DurationLevelUp - показ уведомления о повышении уровня.
	DurationLevelUp = 8 * time.Second

	// DurationQuest - показ уведомления о завершении квеста.
	DurationQuest = 6 * time.Second

	// DurationSkill - показ уведомления о разблокировке навыка.
	DurationSkill = 6 * time.Second

	// DurationShadow - показ уведомления об извлечении тени.
	DurationShadow = 6 * time.Second

	// DurationAchievement - показ уведомления о достижении.
	DurationAchievement = 8 * time.Second

	// FreshnessWindow - окно свежести события прогрессии. Завершение,
	// разблокировка или извлечение старше окна не уведомляется:
	// батч-сброс и повторная загрузка профиля не должны генерировать
	// старые тосты.
	FreshnessWindow = 5 * time.Minute
)

// ══════════════════════════════════════════════════════════════════════════════
// BUILDERS
// Кандидаты строятся из исходов прогрессии. Builder возвращает nil, когда
// событие не должно уведомляться вовсе (не путать с подавлением по ключу).
// ══════════════════════════════════════════════════════════════════════════════

// BuildLevelUp строит уведомление о повышении уровня.
// Уровень 1 — стартовый, о нём не уведомляем.
func BuildLevelUp(accountID shared.AccountID, newLevel int) *Notification {
	if newLevel <= 1 {
		return nil
	}
	n, err := NewNotification(NewNotificationParams{
		ID:        NotificationID(fmt.Sprintf("%s:%s", accountID, LevelUpKey(newLevel))),
		AccountID: accountID,
		Key:       LevelUpKey(newLevel),
		Type:      TypeAchievement,
		Title:     "Level Up!",
		Message:   fmt.Sprintf("You are now level %d", newLevel),
		Duration:  DurationLevelUp,
	})
	if err != nil {
		return nil
	}
	return n
}

// BuildQuestCompleted строит уведомление о завершении квеста.
// completedAt старше окна свежести — квест не уведомляется.
func BuildQuestCompleted(accountID shared.AccountID, questID, questTitle string, xp int, completedAt, now time.Time) *Notification {
	if !timeutil.WithinWindow(completedAt, now, FreshnessWindow) {
		return nil
	}
	n, err := NewNotification(NewNotificationParams{
		ID:        NotificationID(fmt.Sprintf("%s:%s", accountID, QuestCompletedKey(questID))),
		AccountID: accountID,
		Key:       QuestCompletedKey(questID),
		Type:      TypeSuccess,
		Title:     "Quest Completed",
		Message:   fmt.Sprintf("%s completed! +%d XP", questTitle, xp),
		Duration:  DurationQuest,
	})
	if err != nil {
		return nil
	}
	return n
}

// BuildSkillUnlocked строит уведомление о разблокировке навыка.
// unlockedAt старше окна свежести — навык не уведомляется.
func BuildSkillUnlocked(accountID shared.AccountID, skillID, skillName string, unlockedAt, now time.Time) *Notification {
	if !timeutil.WithinWindow(unlockedAt, now, FreshnessWindow) {
		return nil
	}
	n, err := NewNotification(NewNotificationParams{
		ID:        NotificationID(fmt.Sprintf("%s:%s", accountID, SkillUnlockedKey(skillID))),
		AccountID: accountID,
		Key:       SkillUnlockedKey(skillID),
		Type:      TypeSuccess,
		Title:     "Skill Unlocked",
		Message:   fmt.Sprintf("You unlocked %s", skillName),
		Duration:  DurationSkill,
	})
	if err != nil {
		return nil
	}
	return n
}

// BuildShadowExtracted строит уведомление об извлечении тени.
// extractedAt старше окна свежести — тень не уведомляется.
func BuildShadowExtracted(accountID shared.AccountID, shadowID, shadowName string, bonus shared.StatBonus, extractedAt, now time.Time) *Notification {
	if !timeutil.WithinWindow(extractedAt, now, FreshnessWindow) {
		return nil
	}
	n, err := NewNotification(NewNotificationParams{
		ID:        NotificationID(fmt.Sprintf("%s:%s", accountID, ShadowExtractedKey(shadowID))),
		AccountID: accountID,
		Key:       ShadowExtractedKey(shadowID),
		Type:      TypeSuccess,
		Title:     "Shadow Extracted",
		Message:   fmt.Sprintf("%s joins your army: %s", shadowName, bonus.String()),
		Duration:  DurationShadow,
	})
	if err != nil {
		return nil
	}
	return n
}

// BuildAttributePointsAvailable строит постоянное уведомление о
// нераспределённых очках характеристик.
func BuildAttributePointsAvailable(accountID shared.AccountID, points int) *Notification {
	if points <= 0 {
		return nil
	}
	n, err := NewNotification(NewNotificationParams{
		ID:        NotificationID(fmt.Sprintf("%s:%s", accountID, AttributePointsKey(points))),
		AccountID: accountID,
		Key:       AttributePointsKey(points),
		Type:      TypeInfo,
		Title:     "Attribute Points Available",
		Message:   fmt.Sprintf("You have %d attribute points to allocate", points),
		Duration:  0,
		Action:    &Action{Label: "Allocate", Target: "/stats"},
	})
	if err != nil {
		return nil
	}
	return n
}

// BuildSkillPointsAvailable строит постоянное уведомление о
// нераспределённых очках навыков.
func BuildSkillPointsAvailable(accountID shared.AccountID, points int) *Notification {
	if points <= 0 {
		return nil
	}
	n, err := NewNotification(NewNotificationParams{
		ID:        NotificationID(fmt.Sprintf("%s:%s", accountID, SkillPointsKey(points))),
		AccountID: accountID,
		Key:       SkillPointsKey(points),
		Type:      TypeInfo,
		Title:     "Skill Points Available",
		Message:   fmt.Sprintf("You have %d skill points to spend", points),
		Duration:  0,
		Action:    &Action{Label: "Open Skill Tree", Target: "/skills"},
	})
	if err != nil {
		return nil
	}
	return n
}

// BuildDailyReset строит уведомление о новом дне и сброшенных квестах.
func BuildDailyReset(accountID shared.AccountID, dateKey string, resetCount int) *Notification {
	if resetCount <= 0 {
		return nil
	}
	n, err := NewNotification(NewNotificationParams{
		ID:        NotificationID(fmt.Sprintf("%s:%s", accountID, DailyResetKey(dateKey))),
		AccountID: accountID,
		Key:       DailyResetKey(dateKey),
		Type:      TypeWarning,
		Title:     "New Day",
		Message:   fmt.Sprintf("Daily quests reset: %d quests await", resetCount),
		Duration:  DurationQuest,
	})
	if err != nil {
		return nil
	}
	return n
}

// BuildAchievementUnlocked строит уведомление о достижении.
func BuildAchievementUnlocked(accountID shared.AccountID, achievementID, title string, rewardXP int) *Notification {
	message := fmt.Sprintf("Achievement unlocked: %s", title)
	if rewardXP > 0 {
		message = fmt.Sprintf("%s (+%d XP)", message, rewardXP)
	}
	n, err := NewNotification(NewNotificationParams{
		ID:        NotificationID(fmt.Sprintf("%s:%s", accountID, AchievementUnlockedKey(achievementID))),
		AccountID: accountID,
		Key:       AchievementUnlockedKey(achievementID),
		Type:      TypeAchievement,
		Title:     "Achievement",
		Message:   message,
		Duration:  DurationAchievement,
	})
	if err != nil {
		return nil
	}
	return n
}

// ══════════════════════════════════════════════════════════════════════════════
// DEDUP LOG
// Журнал append-only: записи никогда не обновляются и не удаляются по одной.
// ══════════════════════════════════════════════════════════════════════════════

// DedupEntry представляет запись журнала дедупликации.
type DedupEntry struct {
	AccountID shared.AccountID
	Key       Key
	SentAt    time.Time
}

// DedupLog определяет интерфейс журнала дедупликации.
type DedupLog interface {
	// Seen возвращает true, если ключ уже был отправлен этому аккаунту.
	Seen(ctx context.Context, accountID shared.AccountID, key Key) (bool, error)

	// Record добавляет запись в журнал.
	Record(ctx context.Context, entry DedupEntry) error

	// History возвращает последние записи аккаунта.
	History(ctx context.Context, accountID shared.AccountID, limit int) ([]DedupEntry, error)

	// PurgeOlderThan удаляет записи старше указанной даты.
	// Единственная форма удаления: журнал чистится только по возрасту.
	PurgeOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// DECIDER
// ══════════════════════════════════════════════════════════════════════════════

// ErrNilCandidate - кандидат не построен (builder вернул nil).
var ErrNilCandidate = errors.New("notification candidate is nil")

// Decision представляет решение дедупликатора по кандидату.
type Decision struct {
	// Send - отправлять ли уведомление.
	Send bool

	// Reason - причина подавления (пусто, если Send=true).
	Reason string
}

// Decider решает, отправлять ли кандидата, сверяясь с журналом.
type Decider struct {
	log DedupLog
}

// NewDecider создаёт дедупликатор поверх журнала.
func NewDecider(log DedupLog) *Decider {
	return &Decider{log: log}
}

// Decide проверяет ключ кандидата по журналу. Решение «отправить» не
// записывает ключ: вызывающий фиксирует запись после успешной доставки.
func (d *Decider) Decide(ctx context.Context, candidate *Notification) (Decision, error) {
	if candidate == nil {
		return Decision{}, ErrNilCandidate
	}

	seen, err := d.log.Seen(ctx, candidate.AccountID, candidate.Key)
	if err != nil {
		return Decision{}, fmt.Errorf("dedup lookup for %s: %w", candidate.Key, err)
	}

	if seen {
		return Decision{Send: false, Reason: fmt.Sprintf("key %s already sent", candidate.Key)}, nil
	}
	return Decision{Send: true}, nil
}

// Commit фиксирует доставленный ключ в журнале.
func (d *Decider) Commit(ctx context.Context, n *Notification, sentAt time.Time) error {
	if n == nil {
		return ErrNilCandidate
	}
	return d.log.Record(ctx, DedupEntry{
		AccountID: n.AccountID,
		Key:       n.Key,
		SentAt:    sentAt,
	})
}
