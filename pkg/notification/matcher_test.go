package notification_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/notifykit/notifykit/pkg/notification"
)

func prefsWith(ch notification.Channel, pref notification.ChannelPreference) notification.Preferences {
	return notification.Preferences{
		UserID:   "user-1",
		Channels: map[notification.Channel]notification.ChannelPreference{ch: pref},
	}
}

func TestApplicableChannels(t *testing.T) {
	t.Parallel()

	n := notification.Notification{
		ID:              "n-1",
		Category:        notification.CategoryAlert,
		Severity:        notification.SeverityHigh,
		Title:           "disk almost full",
		RecipientUserID: "user-1",
		CreatedAt:       time.Now(),
	}

	t.Run("enabled channel with matching sets is applicable", func(t *testing.T) {
		t.Parallel()

		prefs := prefsWith(notification.ChannelMail, notification.ChannelPreference{
			Enabled:    true,
			Categories: []notification.Category{notification.CategoryAlert},
			Severities: []notification.Severity{notification.SeverityHigh, notification.SeverityCritical},
			Address:    "user@example.com",
		})

		assert.Equal(t, []notification.Channel{notification.ChannelMail}, notification.ApplicableChannels(n, prefs))
	})

	t.Run("disabled channel is not applicable", func(t *testing.T) {
		t.Parallel()

		prefs := prefsWith(notification.ChannelMail, notification.ChannelPreference{
			Enabled:    false,
			Categories: []notification.Category{notification.CategoryAlert},
			Severities: []notification.Severity{notification.SeverityHigh},
		})

		assert.Empty(t, notification.ApplicableChannels(n, prefs))
	})

	t.Run("absent preference record means disabled", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, notification.ApplicableChannels(n, notification.Preferences{UserID: "user-1"}))
	})

	t.Run("category mismatch filters channel", func(t *testing.T) {
		t.Parallel()

		prefs := prefsWith(notification.ChannelMail, notification.ChannelPreference{
			Enabled:    true,
			Categories: []notification.Category{notification.CategoryMarketing},
			Severities: []notification.Severity{notification.SeverityHigh},
		})

		assert.Empty(t, notification.ApplicableChannels(n, prefs))
	})

	t.Run("severity mismatch filters channel", func(t *testing.T) {
		t.Parallel()

		prefs := prefsWith(notification.ChannelMail, notification.ChannelPreference{
			Enabled:    true,
			Categories: []notification.Category{notification.CategoryAlert},
			Severities: []notification.Severity{notification.SeverityCritical},
		})

		assert.Empty(t, notification.ApplicableChannels(n, prefs))
	})

	t.Run("unverified sms never receives messages", func(t *testing.T) {
		t.Parallel()

		prefs := prefsWith(notification.ChannelSMS, notification.ChannelPreference{
			Enabled:    true,
			Verified:   false,
			Categories: []notification.Category{notification.CategoryAlert},
			Severities: []notification.Severity{notification.SeverityHigh},
			Address:    "+15550100",
		})

		assert.Empty(t, notification.ApplicableChannels(n, prefs))
	})

	t.Run("verified sms is applicable", func(t *testing.T) {
		t.Parallel()

		prefs := prefsWith(notification.ChannelSMS, notification.ChannelPreference{
			Enabled:    true,
			Verified:   true,
			Categories: []notification.Category{notification.CategoryAlert},
			Severities: []notification.Severity{notification.SeverityHigh},
			Address:    "+15550100",
		})

		assert.Equal(t, []notification.Channel{notification.ChannelSMS}, notification.ApplicableChannels(n, prefs))
	})

	t.Run("mail does not require verification", func(t *testing.T) {
		t.Parallel()

		prefs := prefsWith(notification.ChannelMail, notification.ChannelPreference{
			Enabled:    true,
			Verified:   false,
			Categories: []notification.Category{notification.CategoryAlert},
			Severities: []notification.Severity{notification.SeverityHigh},
		})

		assert.Len(t, notification.ApplicableChannels(n, prefs), 1)
	})

	t.Run("expired notification matches nothing", func(t *testing.T) {
		t.Parallel()

		expired := n
		past := time.Now().Add(-time.Minute)
		expired.ExpiresAt = &past

		prefs := prefsWith(notification.ChannelMail, notification.ChannelPreference{
			Enabled:    true,
			Categories: []notification.Category{notification.CategoryAlert},
			Severities: []notification.Severity{notification.SeverityHigh},
		})

		assert.Empty(t, notification.ApplicableChannels(expired, prefs))
	})

	t.Run("multiple channels returned in stable order", func(t *testing.T) {
		t.Parallel()

		pref := notification.ChannelPreference{
			Enabled:    true,
			Verified:   true,
			Categories: []notification.Category{notification.CategoryAlert},
			Severities: []notification.Severity{notification.SeverityHigh},
		}
		prefs := notification.Preferences{
			UserID: "user-1",
			Channels: map[notification.Channel]notification.ChannelPreference{
				notification.ChannelWebhook: pref,
				notification.ChannelMail:    pref,
				notification.ChannelSMS:     pref,
			},
		}

		assert.Equal(t,
			[]notification.Channel{notification.ChannelMail, notification.ChannelSMS, notification.ChannelWebhook},
			notification.ApplicableChannels(n, prefs))
	})
}
