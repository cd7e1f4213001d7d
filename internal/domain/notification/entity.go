// Package notification содержит доменную модель уведомлений Hunter Hub.
// Уведомления мотивируют охотника и подтверждают прогресс. Философия:
// каждое событие показывается один раз — дедупликация важнее доставки.
package notification

import (
	"errors"
	"fmt"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// NotificationID представляет уникальный идентификатор уведомления.
type NotificationID string

// IsValid проверяет, что ID не пустой.
func (id NotificationID) IsValid() bool {
	return len(id) > 0
}

// String возвращает строковое представление ID.
func (id NotificationID) String() string {
	return string(id)
}

// Key представляет дедупликационный ключ уведомления.
// Два уведомления с одним ключом для одного аккаунта — это одно событие:
// второе подавляется.
type Key string

// IsValid проверяет, что ключ не пустой.
func (k Key) IsValid() bool {
	return len(k) > 0
}

// String возвращает строковое представление ключа.
func (k Key) String() string {
	return string(k)
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION TYPE
// ══════════════════════════════════════════════════════════════════════════════

// Type определяет тип уведомления.
type Type string

const (
	// TypeSuccess - подтверждение успешного действия.
	// "Quest completed! +20 XP"
	TypeSuccess Type = "success"

	// TypeError - ошибка, о которой нужно сообщить охотнику.
	TypeError Type = "error"

	// TypeWarning - предупреждение.
	// "Daily quests reset in 1 hour"
	TypeWarning Type = "warning"

	// TypeInfo - информационное уведомление.
	// "You have 3 attribute points available"
	TypeInfo Type = "info"

	// TypeAchievement - получено достижение или крупная веха.
	// "Level up! You are now level 5"
	TypeAchievement Type = "achievement"
)

// IsValid проверяет, что тип уведомления корректен.
func (t Type) IsValid() bool {
	switch t {
	case TypeSuccess, TypeError, TypeWarning, TypeInfo, TypeAchievement:
		return true
	default:
		return false
	}
}

// DefaultPriority возвращает приоритет по умолчанию для данного типа.
func (t Type) DefaultPriority() Priority {
	switch t {
	case TypeAchievement:
		return PriorityHigh
	case TypeError:
		return PriorityUrgent
	case TypeInfo:
		return PriorityLow
	default:
		return PriorityNormal
	}
}

// String возвращает строковое представление типа.
func (t Type) String() string {
	return string(t)
}

// ══════════════════════════════════════════════════════════════════════════════
// PRIORITY
// ══════════════════════════════════════════════════════════════════════════════

// Priority определяет приоритет уведомления.
type Priority int

const (
	// PriorityLow - низкий приоритет (можно отложить).
	PriorityLow Priority = 1

	// PriorityNormal - обычный приоритет.
	PriorityNormal Priority = 2

	// PriorityHigh - высокий приоритет (важное уведомление).
	PriorityHigh Priority = 3

	// PriorityUrgent - срочное уведомление (отправляется немедленно).
	PriorityUrgent Priority = 4
)

// IsValid проверяет корректность приоритета.
func (p Priority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityUrgent
}

// String возвращает строковое представление приоритета.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	default:
		return "unknown"
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// STATUS
// ══════════════════════════════════════════════════════════════════════════════

// Status определяет статус доставки уведомления.
type Status string

const (
	// StatusPending - уведомление ожидает отправки.
	StatusPending Status = "pending"

	// StatusSending - уведомление отправляется.
	StatusSending Status = "sending"

	// StatusDelivered - уведомление доставлено.
	StatusDelivered Status = "delivered"

	// StatusFailed - доставка не удалась.
	StatusFailed Status = "failed"

	// StatusSuppressed - уведомление подавлено дедупликацией.
	StatusSuppressed Status = "suppressed"
)

// IsValid проверяет корректность статуса.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSending, StatusDelivered, StatusFailed, StatusSuppressed:
		return true
	default:
		return false
	}
}

// IsFinal возвращает true, если это конечный статус.
func (s Status) IsFinal() bool {
	switch s {
	case StatusDelivered, StatusFailed, StatusSuppressed:
		return true
	default:
		return false
	}
}

// CanRetry возвращает true, если можно повторить отправку.
func (s Status) CanRetry() bool {
	return s == StatusFailed
}

// ══════════════════════════════════════════════════════════════════════════════
// ACTION
// ══════════════════════════════════════════════════════════════════════════════

// Action представляет действие, прикреплённое к уведомлению.
// Например, "Allocate" ведущее на экран характеристик.
type Action struct {
	Label  string `json:"label"`
	Target string `json:"target"`
}

// IsValid проверяет корректность действия.
func (a Action) IsValid() bool {
	return a.Label != "" && a.Target != ""
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Notification представляет уведомление для охотника.
type Notification struct {
	// ID - уникальный идентификатор уведомления.
	ID NotificationID

	// AccountID - аккаунт-получатель.
	AccountID shared.AccountID

	// Key - дедупликационный ключ. Область действия — один аккаунт.
	Key Key

	// Type - тип уведомления.
	Type Type

	// Priority - приоритет уведомления.
	Priority Priority

	// Status - текущий статус доставки.
	Status Status

	// Title - заголовок уведомления.
	Title string

	// Message - текст уведомления.
	Message string

	// Duration - сколько показывать уведомление.
	// Ноль означает постоянное уведомление: висит, пока охотник не
	// выполнит прикреплённое действие.
	Duration time.Duration

	// Action - прикреплённое действие (опционально).
	Action *Action

	// SentAt - фактическое время отправки.
	SentAt *time.Time

	// DeliveredAt - время доставки.
	DeliveredAt *time.Time

	// RetryCount - количество попыток отправки.
	RetryCount int

	// MaxRetries - максимальное количество попыток.
	MaxRetries int

	// LastError - последняя ошибка доставки.
	LastError string

	// CreatedAt - время создания.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewNotificationParams содержит параметры для создания уведомления.
type NewNotificationParams struct {
	ID        NotificationID
	AccountID shared.AccountID
	Key       Key
	Type      Type
	Title     string
	Message   string
	Duration  time.Duration
	Action    *Action
	Priority  *Priority
	MaxRetries int
}

// NewNotification создаёт новое уведомление с валидацией.
func NewNotification(params NewNotificationParams) (*Notification, error) {
	if !params.ID.IsValid() {
		return nil, ErrInvalidNotificationID
	}

	if !params.AccountID.IsValid() {
		return nil, ErrInvalidAccountID
	}

	if !params.Key.IsValid() {
		return nil, ErrInvalidKey
	}

	if !params.Type.IsValid() {
		return nil, ErrInvalidType
	}

	if params.Message == "" {
		return nil, ErrEmptyMessage
	}

	if params.Duration < 0 {
		return nil, ErrInvalidDuration
	}

	if params.Action != nil && !params.Action.IsValid() {
		return nil, ErrInvalidAction
	}

	priority := params.Type.DefaultPriority()
	if params.Priority != nil && params.Priority.IsValid() {
		priority = *params.Priority
	}

	maxRetries := 3
	if params.MaxRetries > 0 {
		maxRetries = params.MaxRetries
	}

	now := time.Now().UTC()

	return &Notification{
		ID:         params.ID,
		AccountID:  params.AccountID,
		Key:        params.Key,
		Type:       params.Type,
		Priority:   priority,
		Status:     StatusPending,
		Title:      params.Title,
		Message:    params.Message,
		Duration:   params.Duration,
		Action:     params.Action,
		RetryCount: 0,
		MaxRetries: maxRetries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// IsPersistent возвращает true, если уведомление висит до действия охотника.
func (n *Notification) IsPersistent() bool {
	return n.Duration == 0
}

// MarkSending переводит уведомление в статус "отправляется".
func (n *Notification) MarkSending() error {
	if n.Status != StatusPending {
		return ErrInvalidStatusTransition
	}
	n.Status = StatusSending
	now := time.Now().UTC()
	n.SentAt = &now
	n.UpdatedAt = now
	return nil
}

// MarkDelivered помечает уведомление как доставленное.
func (n *Notification) MarkDelivered() error {
	if n.Status != StatusSending {
		return ErrInvalidStatusTransition
	}
	n.Status = StatusDelivered
	now := time.Now().UTC()
	n.DeliveredAt = &now
	n.UpdatedAt = now
	return nil
}

// MarkFailed помечает уведомление как неудачное.
func (n *Notification) MarkFailed(err string) error {
	if n.Status != StatusSending {
		return ErrInvalidStatusTransition
	}
	n.Status = StatusFailed
	n.LastError = err
	n.RetryCount++
	n.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkSuppressed помечает уведомление как подавленное дедупликацией.
func (n *Notification) MarkSuppressed(reason string) error {
	if n.Status.IsFinal() {
		return ErrInvalidStatusTransition
	}
	n.Status = StatusSuppressed
	n.LastError = reason
	n.UpdatedAt = time.Now().UTC()
	return nil
}

// ResetForRetry подготавливает уведомление для повторной отправки.
func (n *Notification) ResetForRetry() error {
	if !n.CanRetry() {
		return ErrMaxRetriesExceeded
	}
	n.Status = StatusPending
	n.SentAt = nil
	n.UpdatedAt = time.Now().UTC()
	return nil
}

// CanRetry возвращает true, если можно повторить отправку.
func (n *Notification) CanRetry() bool {
	return n.Status.CanRetry() && n.RetryCount < n.MaxRetries
}

// Clone создаёт глубокую копию уведомления.
func (n *Notification) Clone() *Notification {
	if n == nil {
		return nil
	}

	clone := *n

	if n.SentAt != nil {
		t := *n.SentAt
		clone.SentAt = &t
	}
	if n.DeliveredAt != nil {
		t := *n.DeliveredAt
		clone.DeliveredAt = &t
	}
	if n.Action != nil {
		a := *n.Action
		clone.Action = &a
	}

	return &clone
}

// String возвращает строковое представление для логирования.
func (n *Notification) String() string {
	return fmt.Sprintf(
		"Notification{ID: %s, Key: %s, Type: %s, Account: %s, Status: %s}",
		n.ID, n.Key, n.Type, n.AccountID, n.Status,
	)
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidNotificationID - невалидный ID уведомления.
	ErrInvalidNotificationID = errors.New("invalid notification id: cannot be empty")

	// ErrInvalidAccountID - невалидный ID аккаунта.
	ErrInvalidAccountID = errors.New("invalid account id: cannot be empty")

	// ErrInvalidKey - невалидный дедупликационный ключ.
	ErrInvalidKey = errors.New("invalid dedup key: cannot be empty")

	// ErrInvalidType - невалидный тип уведомления.
	ErrInvalidType = errors.New("invalid notification type")

	// ErrEmptyMessage - пустое сообщение.
	ErrEmptyMessage = errors.New("notification message cannot be empty")

	// ErrInvalidDuration - отрицательная длительность показа.
	ErrInvalidDuration = errors.New("notification duration cannot be negative")

	// ErrInvalidAction - действие без надписи или цели.
	ErrInvalidAction = errors.New("notification action requires label and target")

	// ErrInvalidStatusTransition - недопустимый переход статуса.
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrMaxRetriesExceeded - превышено количество попыток.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
