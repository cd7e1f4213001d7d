// Package notification содержит доменную модель уведомлений Hunter Hub.
package notification

import (
	"context"
	"errors"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHANNEL TYPE
// ══════════════════════════════════════════════════════════════════════════════

// ChannelType определяет тип канала доставки уведомлений.
type ChannelType string

const (
	// ChannelTypeInApp - уведомления внутри приложения.
	ChannelTypeInApp ChannelType = "in_app"

	// ChannelTypeWebhook - доставка через webhook.
	ChannelTypeWebhook ChannelType = "webhook"

	// ChannelTypeLog - запись в структурированный лог. Канал по умолчанию:
	// всегда доступен, не теряет уведомления при недоступности webhook.
	ChannelTypeLog ChannelType = "log"
)

// IsValid проверяет корректность типа канала.
func (ct ChannelType) IsValid() bool {
	switch ct {
	case ChannelTypeInApp, ChannelTypeWebhook, ChannelTypeLog:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление типа канала.
func (ct ChannelType) String() string {
	return string(ct)
}

// ══════════════════════════════════════════════════════════════════════════════
// DELIVERY RESULT
// ══════════════════════════════════════════════════════════════════════════════

// DeliveryResult представляет результат доставки уведомления.
type DeliveryResult struct {
	// Success - успешно ли доставлено.
	Success bool

	// Channel - канал, через который было отправлено.
	Channel ChannelType

	// DeliveredAt - время доставки.
	DeliveredAt time.Time

	// Error - ошибка доставки (если Success = false).
	Error error

	// Retryable - можно ли повторить отправку.
	Retryable bool
}

// NewSuccessResult создаёт результат успешной доставки.
func NewSuccessResult(channel ChannelType) DeliveryResult {
	return DeliveryResult{
		Success:     true,
		Channel:     channel,
		DeliveredAt: time.Now().UTC(),
	}
}

// NewFailureResult создаёт результат неудачной доставки.
func NewFailureResult(channel ChannelType, err error, retryable bool) DeliveryResult {
	return DeliveryResult{
		Success:     false,
		Channel:     channel,
		DeliveredAt: time.Now().UTC(),
		Error:       err,
		Retryable:   retryable,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CHANNEL INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Channel определяет интерфейс канала доставки уведомлений.
type Channel interface {
	// Type возвращает тип канала.
	Type() ChannelType

	// Send отправляет уведомление.
	Send(ctx context.Context, notification *Notification) DeliveryResult

	// IsAvailable проверяет доступность канала.
	IsAvailable(ctx context.Context) bool
}

// ══════════════════════════════════════════════════════════════════════════════
// SENDER (Aggregate service interface)
// ══════════════════════════════════════════════════════════════════════════════

// Sender определяет высокоуровневый интерфейс отправки: дедупликация,
// выбор канала и фиксация в журнале.
type Sender interface {
	// Send прогоняет кандидата через дедупликацию и доставляет его.
	// Подавленный кандидат — это не ошибка: смотрите Status результата.
	Send(ctx context.Context, candidate *Notification) (*Notification, error)

	// RegisterChannel регистрирует канал доставки.
	RegisterChannel(channel Channel)
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет интерфейс для хранения уведомлений.
type Repository interface {
	// Save сохраняет уведомление.
	Save(ctx context.Context, notification *Notification) error

	// GetByID возвращает уведомление по ID.
	GetByID(ctx context.Context, id NotificationID) (*Notification, error)

	// GetByAccount возвращает уведомления аккаунта, новые первыми.
	GetByAccount(ctx context.Context, accountID shared.AccountID, limit int) ([]*Notification, error)

	// GetPersistent возвращает активные постоянные уведомления аккаунта.
	GetPersistent(ctx context.Context, accountID shared.AccountID) ([]*Notification, error)

	// GetFailedForRetry возвращает неудачные уведомления для повторной отправки.
	GetFailedForRetry(ctx context.Context, limit int) ([]*Notification, error)

	// DeleteOlderThan удаляет уведомления старше указанной даты.
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// CHANNEL ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrChannelUnavailable - канал недоступен.
	ErrChannelUnavailable = errors.New("notification channel is unavailable")

	// ErrChannelNotFound - канал не найден.
	ErrChannelNotFound = errors.New("notification channel not found")

	// ErrDeliveryFailed - доставка не удалась.
	ErrDeliveryFailed = errors.New("notification delivery failed")

	// ErrTimeout - таймаут при отправке.
	ErrTimeout = errors.New("delivery timeout")
)
