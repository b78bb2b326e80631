package domain

import (
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field length limits, counted in code points.
const (
	MaxNameLen    = 100
	MaxSubjectLen = 200
	MaxMessageLen = 1000
)

// SubmissionRequest carries the raw candidate fields exactly as extracted
// from a request body, before any normalization.
type SubmissionRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// RequestMeta is the request-scoped context captured alongside a
// submission. SourceIP is best-effort and may reflect a proxy address;
// ClientAgent is the declared User-Agent string, unvalidated.
type RequestMeta struct {
	SourceIP    string
	ClientAgent string
}

// Submission is the validated, normalized representation of one
// contact-form request. It is written once and never updated.
type Submission struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name" validate:"required,max=100"`
	Email       string             `bson:"email" json:"email" validate:"required,contact_email"`
	Subject     string             `bson:"subject" json:"subject" validate:"required,max=200"`
	Message     string             `bson:"message" json:"message" validate:"required,max=1000"`
	ReceivedAt  time.Time          `bson:"received_at" json:"receivedAt"`
	SourceIP    string             `bson:"source_ip,omitempty" json:"sourceIp,omitempty"`
	ClientAgent string             `bson:"client_agent,omitempty" json:"clientAgent,omitempty"`
}

var scrub = bluemonday.StrictPolicy()

// cleanField trims surrounding whitespace and strips any HTML markup.
// The policy entity-escapes its output, so unescape to store plain text.
func cleanField(s string) string {
	return strings.TrimSpace(html.UnescapeString(scrub.Sanitize(s)))
}

// NewSubmission normalizes raw request fields into a Submission.
// ReceivedAt stays zero; the record store stamps it at persistence time.
func NewSubmission(req SubmissionRequest, meta RequestMeta) *Submission {
	return &Submission{
		Name:        cleanField(req.Name),
		Email:       strings.ToLower(cleanField(req.Email)),
		Subject:     cleanField(req.Subject),
		Message:     cleanField(req.Message),
		SourceIP:    meta.SourceIP,
		ClientAgent: meta.ClientAgent,
	}
}
