// Package mailer prepares the email handoff for a generated report and
// optionally sends it over SMTP when the server is configured for it.
//
// The handoff mirrors the client-side composer boundary: a mailto URL
// cannot carry an attachment, so the prepared body tells the operator
// to attach the downloaded file manually. That sentence is part of the
// contract, not boilerplate.
package mailer

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/kundix7-sys/product-testing-app/config"
	"github.com/kundix7-sys/product-testing-app/internal/report"
)

// Handoff is a fully prepared email composition: address, subject,
// body, and the equivalent mailto URL for client-side composers.
type Handoff struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Mailto    string `json:"mailto"`
	Filename  string `json:"filename"`
}

// Mailer builds handoffs and, when SMTP is enabled, sends the report
// with the artifact attached.
type Mailer struct {
	cfg config.SmtpConfig
}

func New(cfg config.SmtpConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// BuildHandoff prepares the pre-addressed composition for one report
// artifact.
func (m *Mailer) BuildHandoff(recipient, productName string, artifact *report.Artifact) Handoff {
	subject := fmt.Sprintf("Test report: %s", productName)
	body := fmt.Sprintf(
		"Attached is the component test report for %s.\n\n"+
			"Note: the generated file %s was saved to your device and must be attached to this email manually; "+
			"the composer cannot attach it automatically.\n",
		productName, artifact.Filename)

	return Handoff{
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		Mailto:    mailtoURL(recipient, subject, body),
		Filename:  artifact.Filename,
	}
}

// Enabled reports whether server-side SMTP delivery is configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled && m.cfg.Host != ""
}

// Send delivers the handoff over SMTP with the artifact attached.
func (m *Mailer) Send(h Handoff, artifact *report.Artifact) error {
	if !m.Enabled() {
		return errors.New("smtp delivery is not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", h.Recipient)
	msg.SetHeader("Subject", h.Subject)
	msg.SetBody("text/plain", h.Body)
	msg.Attach(h.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(artifact.Content)
		return err
	}))

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return errors.Wrap(err, "send report mail")
	}
	zap.L().Info("report mail sent",
		zap.String("recipient", h.Recipient),
		zap.String("filename", h.Filename))
	return nil
}

// mailtoURL percent-encodes subject and body the way mail clients
// expect (%20, not +).
func mailtoURL(recipient, subject, body string) string {
	esc := func(s string) string {
		return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
	}
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s", recipient, esc(subject), esc(body))
}
