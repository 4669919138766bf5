package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-notification/internal/domain/event"
	"github.com/oksasatya/go-user-notification/pkg/i18n"
)

type sentEmail struct {
	kind, to, subject, text, name, lang string
}

type fakeEmailSender struct {
	err    error
	sent   []sentEmail
	events []event.UserEvent
}

func (f *fakeEmailSender) SendEmail(_ context.Context, to, subject, text, lang string) error {
	f.sent = append(f.sent, sentEmail{kind: "send", to: to, subject: subject, text: text, lang: lang})
	return f.err
}

func (f *fakeEmailSender) HandleUserEvent(_ context.Context, ev *event.UserEvent) error {
	f.events = append(f.events, *ev)
	return f.err
}

func (f *fakeEmailSender) SendWelcomeEmail(_ context.Context, email, name, lang string) error {
	f.sent = append(f.sent, sentEmail{kind: "welcome", to: email, name: name, lang: lang})
	return f.err
}

func (f *fakeEmailSender) SendAccountDeletedEmail(_ context.Context, email, name, lang string) error {
	f.sent = append(f.sent, sentEmail{kind: "deleted", to: email, name: name, lang: lang})
	return f.err
}

func newEmailRouter(t *testing.T, svc EmailSender) *gin.Engine {
	t.Helper()
	catalog, err := i18n.NewCatalog(quietLogger())
	require.NoError(t, err)

	h := NewEmailHandler(svc, catalog, quietLogger())
	r := gin.New()
	g := r.Group("/api/email")
	g.POST("/user-event", h.UserEvent)
	g.POST("/send", h.Send)
	g.POST("/welcome", h.Welcome)
	g.POST("/account-deleted", h.AccountDeleted)
	g.POST("/direct", h.Direct)
	g.GET("/supported-languages", h.SupportedLanguages)
	g.GET("/health", h.Health)
	return r
}

func TestEmailHandler_UserEvent(t *testing.T) {
	t.Run("processed", func(t *testing.T) {
		svc := &fakeEmailSender{}
		w, env := do(newEmailRouter(t, svc), http.MethodPost, "/api/email/user-event",
			`{"operation":"CREATE","email":"john@example.com","username":"John","language":"ru"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Notification processed successfully", env.Message)
		require.Len(t, svc.events, 1)
		assert.Equal(t, event.NewCreated("john@example.com", "John", "ru"), svc.events[0])
	})

	t.Run("send failure", func(t *testing.T) {
		svc := &fakeEmailSender{err: errors.New("failed to send email to: john@example.com")}
		w, env := do(newEmailRouter(t, svc), http.MethodPost, "/api/email/user-event",
			`{"operation":"DELETE","email":"john@example.com","username":"John"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to process notification: failed to send email to: john@example.com", env.Message)
	})

	t.Run("dotless domain is accepted", func(t *testing.T) {
		svc := &fakeEmailSender{}
		w, _ := do(newEmailRouter(t, svc), http.MethodPost, "/api/email/user-event",
			`{"operation":"CREATE","email":"a@b","username":"A"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, svc.events, 1)
		assert.Equal(t, "a@b", svc.events[0].Email)
	})

	t.Run("missing operation is left to the service", func(t *testing.T) {
		svc := &fakeEmailSender{}
		w, _ := do(newEmailRouter(t, svc), http.MethodPost, "/api/email/user-event", `{"email":"john@example.com"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, svc.events, 1)
		assert.Empty(t, svc.events[0].Operation)
	})

	t.Run("malformed json", func(t *testing.T) {
		svc := &fakeEmailSender{}
		w, _ := do(newEmailRouter(t, svc), http.MethodPost, "/api/email/user-event", `{"operation":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, svc.events)
	})
}

func TestEmailHandler_Send(t *testing.T) {
	t.Run("default language", func(t *testing.T) {
		svc := &fakeEmailSender{}
		w, env := do(newEmailRouter(t, svc), http.MethodPost, "/api/email/send",
			`{"to":"john@example.com","subject":"Hi","message":"Hello"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Email sent successfully in en", env.Message)
		assert.Equal(t, []sentEmail{{kind: "send", to: "john@example.com", subject: "Hi", text: "Hello", lang: "en"}}, svc.sent)
	})

	t.Run("language from query", func(t *testing.T) {
		svc := &fakeEmailSender{}
		w, env := do(newEmailRouter(t, svc), http.MethodPost, "/api/email/send?lang=es",
			`{"to":"john@example.com","subject":"Hola","message":"Hola"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Email sent successfully in es", env.Message)
	})

	t.Run("validation", func(t *testing.T) {
		svc := &fakeEmailSender{}
		w, env := do(newEmailRouter(t, svc), http.MethodPost, "/api/email/send",
			`{"to":"invalid-email","subject":"","message":""}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
		assert.Empty(t, svc.sent)
	})

	t.Run("failure", func(t *testing.T) {
		svc := &fakeEmailSender{err: errors.New("smtp down")}
		w, env := do(newEmailRouter(t, svc), http.MethodPost, "/api/email/send",
			`{"to":"john@example.com","subject":"Hi","message":"Hello"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to send email: smtp down", env.Message)
	})
}

func TestEmailHandler_Welcome(t *testing.T) {
	q := url.Values{"email": {"john@example.com"}, "username": {"John"}, "lang": {"ru"}}

	t.Run("sent", func(t *testing.T) {
		svc := &fakeEmailSender{}
		w, env := do(newEmailRouter(t, svc), http.MethodPost, "/api/email/welcome?"+q.Encode(), "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Welcome email sent successfully in ru", env.Message)
		assert.Equal(t, []sentEmail{{kind: "welcome", to: "john@example.com", name: "John", lang: "ru"}}, svc.sent)
	})

	t.Run("unsupported language", func(t *testing.T) {
		svc := &fakeEmailSender{}
		w, env := do(newEmailRouter(t, svc), http.MethodPost, "/api/email/welcome?email=john@example.com&username=John&lang=fr", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Unsupported language: fr. Supported: en, ru, es", env.Message)
		assert.Empty(t, svc.sent)
	})

	t.Run("missing username", func(t *testing.T) {
		svc := &fakeEmailSender{}
		w, _ := do(newEmailRouter(t, svc), http.MethodPost, "/api/email/welcome?email=john@example.com", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("failure", func(t *testing.T) {
		svc := &fakeEmailSender{err: errors.New("boom")}
		w, env := do(newEmailRouter(t, svc), http.MethodPost, "/api/email/welcome?"+q.Encode(), "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to send welcome email: boom", env.Message)
	})
}

func TestEmailHandler_AccountDeleted(t *testing.T) {
	svc := &fakeEmailSender{}
	w, env := do(newEmailRouter(t, svc), http.MethodPost, "/api/email/account-deleted?email=john@example.com&username=John", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Account deletion email sent successfully in en", env.Message)
	assert.Equal(t, []sentEmail{{kind: "deleted", to: "john@example.com", name: "John", lang: "en"}}, svc.sent)
}

func TestEmailHandler_Direct(t *testing.T) {
	svc := &fakeEmailSender{}
	q := url.Values{"to": {"john@example.com"}, "subject": {"Hi"}, "message": {"Hello there"}, "lang": {"es"}}
	w, env := do(newEmailRouter(t, svc), http.MethodPost, "/api/email/direct?"+q.Encode(), "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Email sent successfully in es", env.Message)
	assert.Equal(t, []sentEmail{{kind: "send", to: "john@example.com", subject: "Hi", text: "Hello there", lang: "es"}}, svc.sent)

	w, _ = do(newEmailRouter(t, svc), http.MethodPost, "/api/email/direct?to=john@example.com", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmailHandler_SupportedLanguages(t *testing.T) {
	w, env := do(newEmailRouter(t, &fakeEmailSender{}), http.MethodGet, "/api/email/supported-languages", "")

	require.Equal(t, http.StatusOK, w.Code)
	var langs []LanguageInfo
	require.NoError(t, json.Unmarshal(env.Data, &langs))
	assert.Equal(t, []LanguageInfo{
		{Code: "en", DisplayName: "English"},
		{Code: "ru", DisplayName: "Русский"},
		{Code: "es", DisplayName: "Español"},
	}, langs)
}

func TestEmailHandler_Health(t *testing.T) {
	w := httptest.NewRecorder()
	newEmailRouter(t, &fakeEmailSender{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/email/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Email service is running")
}
