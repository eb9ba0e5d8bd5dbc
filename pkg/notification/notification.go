package notification

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies a notification for template selection and
// preference matching.
type Category string

const (
	CategoryAlert     Category = "alert"
	CategoryReport    Category = "report"
	CategorySystem    Category = "system"
	CategoryMarketing Category = "marketing"
)

// Valid checks if the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryAlert, CategoryReport, CategorySystem, CategoryMarketing:
		return true
	}
	return false
}

// Severity drives preference matching and queue priority.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid checks if the severity is one of the known values.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Rank returns the ordering of the severity, higher is more urgent.
// Unknown severities rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// Notification is the unit of work moving through the delivery pipeline.
// Category and Severity are the routing key for the whole pipeline and
// must not change after creation.
type Notification struct {
	ID              string         `json:"id"`
	Category        Category       `json:"category"`
	Severity        Severity       `json:"severity"`
	Title           string         `json:"title"`
	Body            string         `json:"body"`
	RecipientUserID string         `json:"recipient_user_id,omitempty"`
	Attributes      map[string]any `json:"attributes,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	ExpiresAt       *time.Time     `json:"expires_at,omitempty"`
}

// IsExpired returns true if the notification is past its expiry.
// Notifications without an expiry never expire.
func (n *Notification) IsExpired() bool {
	if n.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*n.ExpiresAt)
}

// Normalize fills in a generated ID and creation time when the producer
// did not assign them. It never touches fields that are already set.
func (n *Notification) Normalize() {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
}

// Validate checks that the notification carries a usable routing key.
func (n *Notification) Validate() error {
	if !n.Category.Valid() {
		return ErrInvalidCategory
	}
	if !n.Severity.Valid() {
		return ErrInvalidSeverity
	}
	return nil
}
