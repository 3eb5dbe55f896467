package notify

import (
	"io"
	"net/url"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNotify_NoopWithoutRecipient(t *testing.T) {
	n := New("127.0.0.1:1", "crawler@example.com", "", testLogger())
	u, _ := url.Parse("http://example.com/page")

	assert.NotPanics(t, func() { n.Notify(u) })
}

func TestNotify_SwallowsSendFailure(t *testing.T) {
	// Nothing listens on this port, so smtp.SendMail must fail; Notify
	// must not propagate or panic regardless.
	n := New("127.0.0.1:1", "crawler@example.com", "ops@example.com", testLogger())
	u, _ := url.Parse("http://example.com/page")

	assert.NotPanics(t, func() { n.Notify(u) })
}
