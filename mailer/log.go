package mailer

import (
	"context"
	"fmt"

	"github.com/goliatone/go-print"
)

// LogSender prints outbound mail instead of delivering it. It is the
// default when no provider is configured, which keeps local development
// from needing mail credentials.
type LogSender struct{}

var _ Sender = (*LogSender)(nil)

func (s *LogSender) Send(ctx context.Context, to, subject, html string) error {
	fmt.Println("====== SENDING EMAIL NOTIFICATION =======")
	fmt.Println(print.MaybePrettyJSON(map[string]string{
		"to":      to,
		"subject": subject,
		"html":    html,
	}))
	return nil
}
