package mongo

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/contactrelay/contact-api/internal/domain"
	apperrors "github.com/contactrelay/contact-api/internal/errors"
)

func validSubmission() *domain.Submission {
	return &domain.Submission{
		Name:    "Jane",
		Email:   "jane@example.com",
		Subject: "Hello",
		Message: "A message",
	}
}

func TestCheckLengths(t *testing.T) {
	t.Run("within limits", func(t *testing.T) {
		assert.NoError(t, checkLengths(validSubmission()))
	})

	t.Run("counts code points, not bytes", func(t *testing.T) {
		sub := validSubmission()
		sub.Name = strings.Repeat("ü", domain.MaxNameLen)
		assert.NoError(t, checkLengths(sub))
	})

	t.Run("over-long message is validation-class", func(t *testing.T) {
		sub := validSubmission()
		sub.Message = strings.Repeat("x", domain.MaxMessageLen+1)

		err := checkLengths(sub)
		var vErr *apperrors.ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Equal(t, "Message", vErr.Field)
	})

	t.Run("over-long subject is validation-class", func(t *testing.T) {
		sub := validSubmission()
		sub.Subject = strings.Repeat("x", domain.MaxSubjectLen+1)

		err := checkLengths(sub)
		var vErr *apperrors.ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Equal(t, "Subject", vErr.Field)
	})
}

func TestClassify(t *testing.T) {
	t.Run("schema rejection maps to validation", func(t *testing.T) {
		err := classify(mongo.CommandError{Code: documentValidationFailure})

		var vErr *apperrors.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("anything else maps to store-unavailable", func(t *testing.T) {
		err := classify(errors.New("connection refused"))
		assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	})

	t.Run("other server codes are not validation", func(t *testing.T) {
		err := classify(mongo.CommandError{Code: 11000})

		var vErr *apperrors.ValidationError
		assert.False(t, errors.As(err, &vErr))
		assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	})
}
