package sms

import (
	"context"
	"fmt"

	"github.com/abhishekgaud7/PG-Backend/pkg/logger"
)

// DevSender logs messages instead of sending them. Swap in a real gateway
// (Twilio, SNS) behind the Sender interface for production.
type DevSender struct{}

func NewDevSender() *DevSender {
	return &DevSender{}
}

func (d *DevSender) Send(ctx context.Context, phone, message string) error {
	logger.InfoContext(ctx, "📱 [DEV SMS]",
		"to", phone,
		"message", message,
	)

	fmt.Printf("\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"📱 SMS (DEV MODE)\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"To: %s\n"+
		"Message: %s\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n",
		phone, message)

	return nil
}
