package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactrelay/contact-api/internal/config"
	"github.com/contactrelay/contact-api/internal/domain"
	apperrors "github.com/contactrelay/contact-api/internal/errors"
)

// MockContactService implements service.ContactService
type MockContactService struct {
	SubmitFunc  func(ctx context.Context, req domain.SubmissionRequest, meta domain.RequestMeta) (string, error)
	SubmitCalls int
}

func (m *MockContactService) Submit(ctx context.Context, req domain.SubmissionRequest, meta domain.RequestMeta) (string, error) {
	m.SubmitCalls++
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, req, meta)
	}
	return "id-1", nil
}

func setupContactHandler(contact *MockContactService) *Handler {
	return New(contact, &MockHealthChecker{}, &config.Config{})
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestContactHandler(t *testing.T) {
	validJSON := []byte(`{"name":"Jane Doe","email":"jane@example.com","subject":"Hello","message":"Hi there"}`)

	t.Run("successful JSON submission", func(t *testing.T) {
		mock := &MockContactService{
			SubmitFunc: func(ctx context.Context, req domain.SubmissionRequest, meta domain.RequestMeta) (string, error) {
				assert.Equal(t, "Jane Doe", req.Name)
				assert.Equal(t, "jane@example.com", req.Email)
				assert.Equal(t, "Hello", req.Subject)
				assert.Equal(t, "Hi there", req.Message)
				assert.NotEmpty(t, meta.SourceIP)
				return "abc123", nil
			},
		}
		h := setupContactHandler(mock)

		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBuffer(validJSON))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "test-agent/1.0")
		rr := httptest.NewRecorder()

		h.Contact(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decodeEnvelope(t, rr.Body)
		assert.True(t, resp.Success)
		assert.Equal(t, "Thank you! Your message has been sent successfully.", resp.Message)
		assert.Equal(t, 1, mock.SubmitCalls)
	})

	t.Run("successful form-encoded submission", func(t *testing.T) {
		mock := &MockContactService{
			SubmitFunc: func(ctx context.Context, req domain.SubmissionRequest, meta domain.RequestMeta) (string, error) {
				assert.Equal(t, "Jane Doe", req.Name)
				assert.Equal(t, "Hi there", req.Message)
				return "abc123", nil
			},
		}
		h := setupContactHandler(mock)

		form := url.Values{
			"name":    {"Jane Doe"},
			"email":   {"jane@example.com"},
			"subject": {"Hello"},
			"message": {"Hi there"},
		}
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()

		h.Contact(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, decodeEnvelope(t, rr.Body).Success)
	})

	t.Run("non-string JSON fields are treated as empty", func(t *testing.T) {
		var got domain.SubmissionRequest
		mock := &MockContactService{
			SubmitFunc: func(ctx context.Context, req domain.SubmissionRequest, meta domain.RequestMeta) (string, error) {
				got = req
				return "", &apperrors.ValidationError{Message: "Name is required"}
			},
		}
		h := setupContactHandler(mock)

		body := []byte(`{"name":42,"email":"jane@example.com","subject":null,"message":"Hi"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		h.Contact(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, got.Name)
		assert.Empty(t, got.Subject)
		assert.Equal(t, "Hi", got.Message)
	})

	t.Run("invalid JSON body", func(t *testing.T) {
		mock := &MockContactService{}
		h := setupContactHandler(mock)

		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{invalid::}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		h.Contact(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeEnvelope(t, rr.Body)
		assert.False(t, resp.Success)
		assert.Equal(t, 0, mock.SubmitCalls, "service must not run for an undecodable body")
	})

	t.Run("validation failure returns 400 with the reason", func(t *testing.T) {
		mock := &MockContactService{
			SubmitFunc: func(ctx context.Context, req domain.SubmissionRequest, meta domain.RequestMeta) (string, error) {
				return "", &apperrors.ValidationError{Field: "Email", Message: "Please provide a valid email address"}
			},
		}
		h := setupContactHandler(mock)

		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBuffer(validJSON))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		h.Contact(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeEnvelope(t, rr.Body)
		assert.False(t, resp.Success)
		assert.Equal(t, "Please provide a valid email address", resp.Message)
	})

	t.Run("store failure returns generic 500 without internal detail", func(t *testing.T) {
		storeErr := fmt.Errorf("%w: dial tcp 10.0.0.5:27017: connection refused", apperrors.ErrStoreUnavailable)
		mock := &MockContactService{
			SubmitFunc: func(ctx context.Context, req domain.SubmissionRequest, meta domain.RequestMeta) (string, error) {
				return "", storeErr
			},
		}
		h := setupContactHandler(mock)

		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBuffer(validJSON))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		h.Contact(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		resp := decodeEnvelope(t, rr.Body)
		assert.False(t, resp.Success)
		assert.Equal(t, "Something went wrong. Please try again later.", resp.Message)
		assert.NotContains(t, rr.Body.String(), "connection refused")
		assert.NotContains(t, rr.Body.String(), "27017")
	})

	t.Run("status-carrying error maps to its own code and message", func(t *testing.T) {
		mock := &MockContactService{
			SubmitFunc: func(ctx context.Context, req domain.SubmissionRequest, meta domain.RequestMeta) (string, error) {
				return "", &apperrors.ErrorWithStatusCode{Message: "Submissions are temporarily paused", StatusCode: http.StatusServiceUnavailable}
			},
		}
		h := setupContactHandler(mock)

		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBuffer(validJSON))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		h.Contact(rr, req)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		resp := decodeEnvelope(t, rr.Body)
		assert.False(t, resp.Success)
		assert.Equal(t, "Submissions are temporarily paused", resp.Message)
	})

	t.Run("mail auth failure returns the distinct unavailable message", func(t *testing.T) {
		mock := &MockContactService{
			SubmitFunc: func(ctx context.Context, req domain.SubmissionRequest, meta domain.RequestMeta) (string, error) {
				return "abc123", fmt.Errorf("%w: 535 5.7.8 bad credentials", apperrors.ErrMailAuth)
			},
		}
		h := setupContactHandler(mock)

		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBuffer(validJSON))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		h.Contact(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		resp := decodeEnvelope(t, rr.Body)
		assert.False(t, resp.Success)
		assert.Equal(t, "Email service is currently unavailable. Please try again later.", resp.Message)
		assert.NotContains(t, rr.Body.String(), "535")
	})
}
