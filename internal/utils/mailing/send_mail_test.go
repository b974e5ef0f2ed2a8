package mailing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage_WithAttachment(t *testing.T) {
	cfg := MailConfig{SMTPEmail: "noreply@foodgram.example", SMTPSender: "Foodgram"}
	msg := BuildMessage(cfg, "chef@example.com", "Shopping list", "<p>enjoy</p>", Attachment{
		Filename:    "chef_shopping_list.txt",
		ContentType: "text/plain",
		Content:     []byte("Shopping list for: Chef\n"),
	})

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "To: chef@example.com")
	assert.Contains(t, raw, "Subject: Shopping list")
	assert.Contains(t, raw, `filename="chef_shopping_list.txt"`)
}

func TestSendMail_InvalidPort(t *testing.T) {
	m := &smtpMailer{config: MailConfig{SMTPPort: "not-a-port"}}
	assert.Error(t, m.SendMail("chef@example.com", "s", "b"))
}
