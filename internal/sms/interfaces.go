package sms

import "context"

// Sender delivers a text message to a phone number. Delivery is a
// fire-and-forget side effect; callers must not fail their operation on a
// send error.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}
