package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/contactrelay/contact-api/internal/domain"
	apperrors "github.com/contactrelay/contact-api/internal/errors"
)

// documentValidationFailure is the server error code MongoDB returns when
// a write violates a collection's JSON schema.
const documentValidationFailure = 121

// SaveSubmission stamps ReceivedAt and inserts the record, returning the
// generated identifier. Length limits are re-checked here so an
// over-long field is rejected as validation-class even if it slipped
// past the request-side Validator.
func (s *Storage) SaveSubmission(ctx context.Context, sub *domain.Submission) (string, error) {
	if err := checkLengths(sub); err != nil {
		return "", err
	}

	sub.ReceivedAt = time.Now().UTC()

	res, err := s.submissions.InsertOne(ctx, sub)
	if err != nil {
		return "", classify(err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	sub.ID = oid
	return oid.Hex(), nil
}

func checkLengths(sub *domain.Submission) error {
	limits := []struct {
		field string
		value string
		max   int
	}{
		{"Name", sub.Name, domain.MaxNameLen},
		{"Subject", sub.Subject, domain.MaxSubjectLen},
		{"Message", sub.Message, domain.MaxMessageLen},
	}
	for _, l := range limits {
		if utf8.RuneCountInString(l.value) > l.max {
			return &apperrors.ValidationError{
				Field:   l.field,
				Message: fmt.Sprintf("%s must be at most %d characters", l.field, l.max),
			}
		}
	}
	return nil
}

// classify splits store failures into validation-class (client-caused,
// maps to 400) and connectivity-class (maps to a generic 500).
func classify(err error) error {
	var srvErr mongo.ServerError
	if errors.As(err, &srvErr) && srvErr.HasErrorCode(documentValidationFailure) {
		return &apperrors.ValidationError{Message: "Submission was rejected by the record store"}
	}
	return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
}
