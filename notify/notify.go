// Package notify implements the Notifier: an optional one-shot outbound
// message sent when a page's content changes. No grounded third-party
// SMTP/mail library appears anywhere in the retrieval pack (searched
// across every example repo's go.mod and source); this is implemented on
// stdlib net/smtp, named in DESIGN.md as a justified standard-library
// fallback.
package notify

import (
	"fmt"
	"net/smtp"
	"net/url"

	"github.com/sirupsen/logrus"
)

// Notifier sends change notifications to a single configured recipient.
// A zero-value recipient disables notification entirely.
type Notifier struct {
	SMTPAddr  string // host:port of the SMTP relay
	From      string
	Recipient string
	log       *logrus.Logger
}

// New builds a Notifier. If recipient is empty, Notify becomes a no-op,
// matching §4.8's "optional" contract.
func New(smtpAddr, from, recipient string, log *logrus.Logger) *Notifier {
	return &Notifier{SMTPAddr: smtpAddr, From: from, Recipient: recipient, log: log}
}

// Notify sends a short message about a changed URL. Delivery failure is
// logged but never returned to the caller: per §4.8, it must not affect
// crawling. Called fire-and-forget by the frontier worker.
func (n *Notifier) Notify(changed *url.URL) {
	if n.Recipient == "" {
		return
	}

	subject := fmt.Sprintf("content changed: %s", changed.String())
	body := fmt.Sprintf("The page at %s has changed since it was last observed.", changed.String())
	msg := fmt.Sprintf("Subject: %s\r\n\r\n%s\r\n", subject, body)

	err := smtp.SendMail(n.SMTPAddr, nil, n.From, []string{n.Recipient}, []byte(msg))
	if err != nil {
		n.log.Warnf("notify: failed to send change notification for %s: %v", changed, err)
	}
}
