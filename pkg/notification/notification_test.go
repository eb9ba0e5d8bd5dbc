package notification_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifykit/notifykit/pkg/notification"
)

func TestNotification_IsExpired(t *testing.T) {
	t.Parallel()

	t.Run("no expiry never expires", func(t *testing.T) {
		t.Parallel()

		n := notification.Notification{ID: "n-1"}
		assert.False(t, n.IsExpired())
	})

	t.Run("future expiry not expired", func(t *testing.T) {
		t.Parallel()

		future := time.Now().Add(time.Hour)
		n := notification.Notification{ID: "n-1", ExpiresAt: &future}
		assert.False(t, n.IsExpired())
	})

	t.Run("past expiry expired", func(t *testing.T) {
		t.Parallel()

		past := time.Now().Add(-time.Second)
		n := notification.Notification{ID: "n-1", ExpiresAt: &past}
		assert.True(t, n.IsExpired())
	})
}

func TestNotification_Normalize(t *testing.T) {
	t.Parallel()

	t.Run("fills missing id and created at", func(t *testing.T) {
		t.Parallel()

		n := notification.Notification{}
		n.Normalize()
		assert.NotEmpty(t, n.ID)
		assert.False(t, n.CreatedAt.IsZero())
	})

	t.Run("keeps producer assigned values", func(t *testing.T) {
		t.Parallel()

		created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		n := notification.Notification{ID: "producer-id", CreatedAt: created}
		n.Normalize()
		assert.Equal(t, "producer-id", n.ID)
		assert.Equal(t, created, n.CreatedAt)
	})
}

func TestNotification_Validate(t *testing.T) {
	t.Parallel()

	n := notification.Notification{
		Category: notification.CategoryReport,
		Severity: notification.SeverityLow,
	}
	require.NoError(t, n.Validate())

	n.Category = "newsletter"
	assert.ErrorIs(t, n.Validate(), notification.ErrInvalidCategory)

	n.Category = notification.CategoryReport
	n.Severity = "urgent"
	assert.ErrorIs(t, n.Validate(), notification.ErrInvalidSeverity)
}

func TestSeverity_Rank(t *testing.T) {
	t.Parallel()

	assert.Greater(t, notification.SeverityCritical.Rank(), notification.SeverityHigh.Rank())
	assert.Greater(t, notification.SeverityHigh.Rank(), notification.SeverityMedium.Rank())
	assert.Greater(t, notification.SeverityMedium.Rank(), notification.SeverityLow.Rank())
	assert.Equal(t, 0, notification.Severity("bogus").Rank())
}

func TestKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", notification.Kind(nil))
	assert.Equal(t, "policy_rejection", notification.Kind(notification.ErrPolicyRejection))
	assert.Equal(t, "transport_error", notification.Kind(notification.ErrTransport))
	assert.Equal(t, "expired", notification.Kind(notification.ErrExpired))
	assert.Equal(t, "unknown", notification.Kind(assert.AnError))
}
