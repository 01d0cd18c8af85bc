package pkg

import (
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/spf13/viper"

	"github.com/memoria-app/be-memoria-platform/pkg/logger"
)

// SendEmailViaResend delivers a transactional email through Resend.
func SendEmailViaResend(to, subject, body string) error {
	apiKey := viper.GetString("RESEND_API")
	from := viper.GetString("EMAIL_FROM")
	if apiKey == "" || from == "" {
		return fmt.Errorf("resend not configured")
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}

	client := resend.NewClient(apiKey)

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}

	logger.Get().Debug("email sent via resend", logger.String("message_id", sent.Id))
	return nil
}
