package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/yamdb-backend/internal/platform/logger"
	"github.com/yungbote/yamdb-backend/internal/platform/sendgrid"
)

type fakeSendGrid struct {
	got sendgrid.SendEmailRequest
	err error
}

func (f *fakeSendGrid) Send(_ context.Context, req sendgrid.SendEmailRequest) (*sendgrid.SendEmailResult, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &sendgrid.SendEmailResult{StatusCode: 202}, nil
}

func TestConfirmationMessage(t *testing.T) {
	msg := ConfirmationMessage("a@example.com", "alice", "XYZ123")
	assert.Equal(t, "a@example.com", msg.To)
	assert.Contains(t, msg.Text, "XYZ123")
	assert.Contains(t, msg.Text, "alice")
	assert.NoError(t, validate(msg))
}

func TestSendGridSender(t *testing.T) {
	fake := &fakeSendGrid{}
	s := NewSendGridSender(fake)
	require.NoError(t, s.Send(context.Background(), ConfirmationMessage("a@example.com", "alice", "C0DE")))
	require.Len(t, fake.got.To, 1)
	assert.Equal(t, "a@example.com", fake.got.To[0].Email)

	fake.err = errors.New("down")
	assert.ErrorContains(t, s.Send(context.Background(), ConfirmationMessage("a@example.com", "alice", "C0DE")), "down")
	assert.Error(t, s.Send(context.Background(), Message{Subject: "x", Text: "y"}))
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Send(context.Background(), ConfirmationMessage("a@example.com", "a", "1")))
	require.NoError(t, r.Send(context.Background(), ConfirmationMessage("a@example.com", "a", "2")))
	last, ok := r.Last("a@example.com")
	require.True(t, ok)
	assert.Contains(t, last.Text, "2")
	assert.Len(t, r.Sent(), 2)
	_, ok = r.Last("nobody@example.com")
	assert.False(t, ok)
}

func TestLogSenderAndResendConfig(t *testing.T) {
	assert.NoError(t, NewLogSender(logger.Nop()).Send(context.Background(), ConfirmationMessage("a@b.c", "a", "1")))
	_, err := NewResendSender(logger.Nop(), "", "from@x.y")
	assert.Error(t, err)
	_, err = NewResendSender(logger.Nop(), "re_key", "")
	assert.Error(t, err)
}
