package email

import "context"

// Sender delivers one HTML email.
type Sender interface {
	Send(ctx context.Context, from, recipient Address, subject, html string) error
}
