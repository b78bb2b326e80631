package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/contactrelay/contact-api/internal/domain"
	apperrors "github.com/contactrelay/contact-api/internal/errors"
	"github.com/contactrelay/contact-api/internal/logger"
	"github.com/contactrelay/contact-api/internal/middleware"
)

const (
	ackMessage          = "Thank you! Your message has been sent successfully."
	genericErrMessage   = "Something went wrong. Please try again later."
	mailDownErrMessage  = "Email service is currently unavailable. Please try again later."
	invalidBodyMessage  = "Request body is not valid JSON"
	bodyTooLargeMessage = "Request body is too large"
)

// Contact accepts one contact-form submission, JSON or form-encoded.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	req, err := parseSubmissionRequest(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeEnvelope(w, http.StatusRequestEntityTooLarge, false, bodyTooLargeMessage)
			return
		}
		writeEnvelope(w, http.StatusBadRequest, false, invalidBodyMessage)
		return
	}

	meta := domain.RequestMeta{
		SourceIP:    middleware.ClientIP(r),
		ClientAgent: r.UserAgent(),
	}

	_, err = h.contact.Submit(r.Context(), req, meta)
	if err != nil {
		var vErr *apperrors.ValidationError
		var scErr *apperrors.ErrorWithStatusCode
		switch {
		case errors.As(err, &vErr):
			writeEnvelope(w, http.StatusBadRequest, false, vErr.Message)
		case errors.Is(err, apperrors.ErrMailAuth):
			writeEnvelope(w, http.StatusInternalServerError, false, mailDownErrMessage)
		case errors.As(err, &scErr):
			writeEnvelope(w, scErr.StatusCode, false, scErr.Message)
		default:
			// Detail was already logged where it happened; clients get
			// the generic message only.
			writeEnvelope(w, http.StatusInternalServerError, false, genericErrMessage)
		}
		return
	}

	writeEnvelope(w, http.StatusOK, true, ackMessage)
}

// parseSubmissionRequest extracts the four candidate fields from a JSON
// or form-encoded body. Missing or non-string fields come back empty and
// fall to the validator.
func parseSubmissionRequest(r *http.Request) (domain.SubmissionRequest, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.Contains(contentType, "application/json") || contentType == "" {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			logger.Log.Warn("undecodable submission body", "error", err)
			return domain.SubmissionRequest{}, err
		}
		str := func(key string) string {
			s, _ := raw[key].(string)
			return s
		}
		return domain.SubmissionRequest{
			Name:    str("name"),
			Email:   str("email"),
			Subject: str("subject"),
			Message: str("message"),
		}, nil
	}

	if err := r.ParseForm(); err != nil {
		logger.Log.Warn("unparsable submission form", "error", err)
		return domain.SubmissionRequest{}, err
	}
	return domain.SubmissionRequest{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Subject: r.PostFormValue("subject"),
		Message: r.PostFormValue("message"),
	}, nil
}
