package service

import (
	"context"
	"time"

	"github.com/contactrelay/contact-api/internal/config"
	"github.com/contactrelay/contact-api/internal/domain"
	"github.com/contactrelay/contact-api/internal/email"
	"github.com/contactrelay/contact-api/internal/logger"
)

type ContactService interface {
	Submit(ctx context.Context, req domain.SubmissionRequest, meta domain.RequestMeta) (string, error)
}

type Storage interface {
	SaveSubmission(ctx context.Context, sub *domain.Submission) (string, error)
}

type Notifier interface {
	Send(recipient string, msg email.Message) error
}

type Validator interface {
	Validate(sub *domain.Submission) error
}

type Contact struct {
	storage   Storage
	notifier  Notifier
	validator Validator
	cfg       *config.Config
}

func NewContact(storage Storage, notifier Notifier, validator Validator, cfg *config.Config) *Contact {
	return &Contact{
		storage:   storage,
		notifier:  notifier,
		validator: validator,
		cfg:       cfg,
	}
}

// Submit runs the full pipeline for one contact-form request:
// normalize -> validate -> persist -> render -> send. Persistence always
// precedes the send; a failed write means no mail goes out. A rejected
// submission causes no side effects at all.
func (c *Contact) Submit(ctx context.Context, req domain.SubmissionRequest, meta domain.RequestMeta) (string, error) {
	sub := domain.NewSubmission(req, meta)

	if err := c.validator.Validate(sub); err != nil {
		return "", err
	}

	saveCtx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.Public.StoreTimeoutSeconds)*time.Second)
	defer cancel()

	id, err := c.storage.SaveSubmission(saveCtx, sub)
	if err != nil {
		logger.Log.Error("failed to persist submission", "error", err, "source_ip", sub.SourceIP)
		return "", err
	}

	msg := renderNotification(sub, c.cfg.Public.SubjectPrefix)
	if err := c.notifier.Send(c.cfg.Private.Recipient, msg); err != nil {
		logger.Log.Error("failed to send notification email", "error", err, "submission_id", id)
		return id, err
	}

	logger.Log.Info("submission relayed", "submission_id", id, "email", sub.Email)
	return id, nil
}
