// Package email delivers notification mail through an SMTP relay.
package email

import (
	"crypto/tls"
	"fmt"
	"math/rand"
	"mime"
	"net"
	"net/smtp"
	"time"

	"github.com/contactrelay/contact-api/internal/config"
	apperrors "github.com/contactrelay/contact-api/internal/errors"
	"github.com/contactrelay/contact-api/internal/logger"
)

// Message is one rendered notification: both body variants travel in a
// single multipart/alternative payload.
type Message struct {
	Subject  string
	TextBody string
	HTMLBody string
}

type Email struct {
	cfg  *config.Config
	auth smtp.Auth
}

func New(cfg *config.Config) *Email {
	auth := smtp.PlainAuth("", cfg.Private.SMTPUsername, cfg.Private.SMTPPassword, cfg.Private.SMTPServer)
	return &Email{cfg: cfg, auth: auth}
}

// Send submits msg to the relay addressed to recipient. An AUTH rejection
// comes back wrapped in errors.ErrMailAuth; everything else is returned
// as-is for generic handling.
func (e *Email) Send(recipient string, msg Message) error {
	raw := e.buildMessage(recipient, msg)
	address := fmt.Sprintf("%s:%d", e.cfg.Private.SMTPServer, e.cfg.Private.SMTPPort)

	// Port 465 = implicit TLS, otherwise STARTTLS
	if e.cfg.Private.SMTPPort == 465 {
		return e.sendImplicitTLS(address, recipient, raw)
	}
	return e.sendSTARTTLS(address, recipient, raw)
}

func (e *Email) timeout() time.Duration {
	timeout := time.Duration(e.cfg.Public.SMTPTimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return timeout
}

// sendImplicitTLS sends mail over a connection that is TLS from the start (port 465).
func (e *Email) sendImplicitTLS(address, recipient string, raw []byte) error {
	tlsConfig := &tls.Config{ServerName: e.cfg.Private.SMTPServer}

	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: e.timeout()}, "tcp", address, tlsConfig)
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server (implicit TLS)", "address", address, "error", err)
		return err
	}
	defer conn.Close()

	return e.sendOverConn(conn, recipient, raw)
}

// sendSTARTTLS sends mail by upgrading a plain connection to TLS (port 587).
func (e *Email) sendSTARTTLS(address, recipient string, raw []byte) error {
	conn, err := net.DialTimeout("tcp", address, e.timeout())
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server", "address", address, "error", err)
		return err
	}
	defer conn.Close()

	// Bound the whole SMTP session, not just the dial.
	conn.SetDeadline(time.Now().Add(e.timeout()))

	client, err := smtp.NewClient(conn, e.cfg.Private.SMTPServer)
	if err != nil {
		logger.Log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: e.cfg.Private.SMTPServer}
	if err = client.StartTLS(tlsConfig); err != nil {
		logger.Log.Error("failed to start TLS", "error", err)
		return err
	}

	return e.sendViaClient(client, recipient, raw)
}

func (e *Email) sendOverConn(conn net.Conn, recipient string, raw []byte) error {
	conn.SetDeadline(time.Now().Add(e.timeout()))

	client, err := smtp.NewClient(conn, e.cfg.Private.SMTPServer)
	if err != nil {
		logger.Log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	return e.sendViaClient(client, recipient, raw)
}

// sendViaClient performs auth, sets sender/recipient, and sends the message body.
func (e *Email) sendViaClient(client *smtp.Client, recipient string, raw []byte) error {
	if err := client.Auth(e.auth); err != nil {
		logger.Log.Error("SMTP authentication failed", "error", err)
		return fmt.Errorf("%w: %v", apperrors.ErrMailAuth, err)
	}

	if err := client.Mail(e.cfg.Private.SMTPUsername); err != nil {
		logger.Log.Error("failed to set sender", "error", err)
		return err
	}

	if err := client.Rcpt(recipient); err != nil {
		logger.Log.Error("failed to set recipient", "recipient", recipient, "error", err)
		return err
	}

	w, err := client.Data()
	if err != nil {
		logger.Log.Error("failed to get data writer", "error", err)
		return err
	}

	if _, err = w.Write(raw); err != nil {
		logger.Log.Error("failed to write message", "error", err)
		return err
	}

	if err = w.Close(); err != nil {
		logger.Log.Error("failed to close data writer", "error", err)
		return err
	}

	return client.Quit()
}

func generateMessageID(domain string) string {
	t := time.Now().UnixNano()
	pid := rand.Int63()
	return fmt.Sprintf("<%d.%d@%s>", t, pid, domain)
}

func (e *Email) messageIDDomain() string {
	return e.cfg.Private.SMTPServer
}

// buildMessage assembles a multipart/alternative MIME message with the
// plain-text part first, HTML second (clients pick the last part they
// support).
func (e *Email) buildMessage(recipient string, msg Message) []byte {
	encodedSubject := mime.QEncoding.Encode("utf-8", msg.Subject)
	encodedSenderName := mime.QEncoding.Encode("utf-8", e.cfg.Public.SenderName)

	msgID := generateMessageID(e.messageIDDomain())
	date := time.Now().Format(time.RFC1123Z)
	boundary := fmt.Sprintf("part-%d", rand.Int63())

	return fmt.Appendf(nil,
		"Message-ID: %s\r\n"+
			"Date: %s\r\n"+
			"To: %s\r\n"+
			"From: %s <%s>\r\n"+
			"Reply-To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: multipart/alternative; boundary=\"%s\"\r\n"+
			"\r\n"+
			"--%s\r\n"+
			"Content-Type: text/plain; charset=\"utf-8\"\r\n"+
			"\r\n"+
			"%s\r\n"+
			"--%s\r\n"+
			"Content-Type: text/html; charset=\"utf-8\"\r\n"+
			"\r\n"+
			"%s\r\n"+
			"--%s--\r\n",
		msgID, date, recipient, encodedSenderName, e.cfg.Private.SMTPUsername,
		e.cfg.Private.SMTPUsername, encodedSubject, boundary,
		boundary, msg.TextBody, boundary, msg.HTMLBody, boundary,
	)
}
