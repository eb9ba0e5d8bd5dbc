package webhook_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifykit/notifykit/pkg/notification"
	"github.com/notifykit/notifykit/pkg/providers/webhook"
)

func fastConfig() webhook.Config {
	return webhook.Config{
		Timeout:    time.Second,
		MaxRetries: 2,
		RetryDelay: 5 * time.Millisecond,
	}
}

func testNotification() notification.Notification {
	return notification.Notification{
		ID:              "n-1",
		Category:        notification.CategoryAlert,
		Severity:        notification.SeverityHigh,
		Title:           "queue depth",
		Body:            "pending items above threshold",
		RecipientUserID: "user-1",
		Attributes:      map[string]any{"threshold": 100},
		CreatedAt:       time.Now(),
	}
}

func prefWithTargets(targets ...string) notification.ChannelPreference {
	return notification.ChannelPreference{Enabled: true, Targets: targets}
}

func TestProvider_Send(t *testing.T) {
	t.Parallel()

	t.Run("single target success", func(t *testing.T) {
		t.Parallel()

		var got atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got.Add(1)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		p, err := webhook.New(fastConfig())
		require.NoError(t, err)

		result, err := p.Send(context.Background(), testNotification(), prefWithTargets(srv.URL))
		require.NoError(t, err)
		require.Len(t, result.Targets, 1)
		assert.True(t, result.Targets[0].Success)
		assert.Equal(t, http.StatusOK, result.Targets[0].StatusCode)
		assert.Equal(t, int32(1), got.Load())
	})

	t.Run("5xx retried within single provider call", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		p, err := webhook.New(fastConfig())
		require.NoError(t, err)

		result, err := p.Send(context.Background(), testNotification(), prefWithTargets(srv.URL))
		require.NoError(t, err)
		assert.True(t, result.Targets[0].Success)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("4xx is permanent, no retry", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "bad payload", http.StatusBadRequest)
		}))
		defer srv.Close()

		p, err := webhook.New(fastConfig())
		require.NoError(t, err)

		result, err := p.Send(context.Background(), testNotification(), prefWithTargets(srv.URL))
		require.Error(t, err)
		assert.True(t, notification.IsTransport(err))
		assert.Equal(t, int32(1), calls.Load())
		require.Len(t, result.Targets, 1)
		assert.False(t, result.Targets[0].Success)
		assert.Equal(t, http.StatusBadRequest, result.Targets[0].StatusCode)
	})

	t.Run("partial fan-out is overall success with per-target detail", func(t *testing.T) {
		t.Parallel()

		good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}))
		defer good.Close()

		bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusGone)
		}))
		defer bad.Close()

		p, err := webhook.New(fastConfig())
		require.NoError(t, err)

		result, err := p.Send(context.Background(), testNotification(), prefWithTargets(good.URL, bad.URL))
		require.NoError(t, err)
		require.Len(t, result.Targets, 2)

		assert.True(t, result.Targets[0].Success)
		assert.False(t, result.Targets[1].Success)
		assert.Equal(t, http.StatusGone, result.Targets[1].StatusCode)
	})

	t.Run("all targets failing is a transport error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		p, err := webhook.New(fastConfig())
		require.NoError(t, err)

		_, err = p.Send(context.Background(), testNotification(), prefWithTargets(srv.URL))
		require.Error(t, err)
		assert.True(t, notification.IsTransport(err))
	})

	t.Run("no targets is a policy rejection", func(t *testing.T) {
		t.Parallel()

		p, err := webhook.New(fastConfig())
		require.NoError(t, err)

		_, err = p.Send(context.Background(), testNotification(), notification.ChannelPreference{Enabled: true})
		require.Error(t, err)
		assert.True(t, notification.IsPolicyRejection(err))
	})

	t.Run("invalid target url fails fast without HTTP call", func(t *testing.T) {
		t.Parallel()

		p, err := webhook.New(fastConfig())
		require.NoError(t, err)

		result, err := p.Send(context.Background(), testNotification(), prefWithTargets("ftp://example.com/hook"))
		require.Error(t, err)
		require.Len(t, result.Targets, 1)
		assert.Contains(t, result.Targets[0].Error, "invalid webhook target")
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, webhook.Config{Timeout: time.Second, RetryDelay: time.Millisecond}.Validate())
	assert.ErrorIs(t, webhook.Config{MaxRetries: -1}.Validate(), webhook.ErrInvalidConfig)
}
