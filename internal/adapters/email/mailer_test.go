package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewMailer_Providers(t *testing.T) {
	_, ok := NewMailer(MailerConfig{Provider: "noop"}, testLogger()).(*noopMailer)
	assert.True(t, ok)
	_, ok = NewMailer(MailerConfig{Provider: "carrier-pigeon"}, testLogger()).(*noopMailer)
	assert.True(t, ok)
	_, ok = NewMailer(MailerConfig{Provider: "ses", SES: SESConfig{Region: "eu-west-1"}}, testLogger()).(*sesMailer)
	assert.True(t, ok)
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := &sesMailer{client: client, fromAddress: "noreply@example.com", fromName: "Eventfinder", logger: testLogger()}

	err := m.Send(context.Background(), "ada@example.com", "Hi", "<p>hi</p>", "hi")
	require.NoError(t, err)
	require.NotNil(t, client.input)
	assert.Equal(t, "Eventfinder <noreply@example.com>", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"ada@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Hi", aws.ToString(client.input.Message.Subject.Data))
	assert.Equal(t, "<p>hi</p>", aws.ToString(client.input.Message.Body.Html.Data))
	assert.Equal(t, "hi", aws.ToString(client.input.Message.Body.Text.Data))
}

func TestSESMailer_SendTextOnly(t *testing.T) {
	client := &fakeSES{}
	m := &sesMailer{client: client, fromAddress: "noreply@example.com", logger: testLogger()}

	require.NoError(t, m.Send(context.Background(), "ada@example.com", "Hi", "", "hi"))
	assert.Equal(t, "noreply@example.com", aws.ToString(client.input.Source))
	assert.Nil(t, client.input.Message.Body.Html)
}

func TestSESMailer_SendError(t *testing.T) {
	m := &sesMailer{client: &fakeSES{err: errors.New("throttled")}, fromAddress: "a@b.c", logger: testLogger()}
	err := m.Send(context.Background(), "ada@example.com", "Hi", "", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
