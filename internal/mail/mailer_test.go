package mail

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/spec-kit/complaint-service/internal/config"
)

func TestSendBuildsMessage(t *testing.T) {
	m := NewMailer(config.MailConfig{From: "noreply@example.com"}, zap.NewNop())

	var captured *gomail.Message
	m.send = func(msg *gomail.Message) error {
		captured = msg
		return nil
	}

	err := m.Send([]string{"ops@example.com", "qa@example.com"}, "Daily summary", "body text")
	require.NoError(t, err)
	require.NotNil(t, captured)

	assert.Equal(t, []string{"noreply@example.com"}, captured.GetHeader("From"))
	assert.Equal(t, []string{"ops@example.com", "qa@example.com"}, captured.GetHeader("To"))
	assert.Equal(t, []string{"Daily summary"}, captured.GetHeader("Subject"))
}

func TestSendPropagatesDialError(t *testing.T) {
	m := NewMailer(config.MailConfig{From: "noreply@example.com"}, zap.NewNop())
	m.send = func(*gomail.Message) error {
		return errors.New("dial tcp: connection refused")
	}

	err := m.Send([]string{"ops@example.com"}, "subject", "body")
	assert.Error(t, err)
}
