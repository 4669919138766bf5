package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-notification/internal/domain/event"
	"github.com/oksasatya/go-user-notification/pkg/i18n"
	"github.com/oksasatya/go-user-notification/pkg/response"
	"github.com/oksasatya/go-user-notification/pkg/validation"
)

// EmailSender is the notification use case surface exposed over REST.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, text, lang string) error
	HandleUserEvent(ctx context.Context, ev *event.UserEvent) error
	SendWelcomeEmail(ctx context.Context, email, name, lang string) error
	SendAccountDeletedEmail(ctx context.Context, email, name, lang string) error
}

type LanguageNamer interface {
	DisplayName(code, locale string) string
}

type EmailHandler struct {
	Svc    EmailSender
	Names  LanguageNamer
	Logger *logrus.Logger
}

func NewEmailHandler(svc EmailSender, names LanguageNamer, logger *logrus.Logger) *EmailHandler {
	return &EmailHandler{Svc: svc, Names: names, Logger: logger}
}

type sendEmailRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type directEmailQuery struct {
	To      string `form:"to" binding:"required"`
	Subject string `form:"subject" binding:"required"`
	Message string `form:"message" binding:"required"`
	Lang    string `form:"lang" binding:"omitempty,max=35"`
}

type recipientQuery struct {
	Email    string `form:"email" binding:"required"`
	Username string `form:"username" binding:"required"`
	Lang     string `form:"lang" binding:"omitempty,max=35"`
}

type LanguageInfo struct {
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
}

// UserEvent processes a user event posted by the user service.
func (h *EmailHandler) UserEvent(c *gin.Context) {
	var ev event.UserEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	log := h.log().WithFields(logrus.Fields{"operation": ev.Operation, "email": ev.Email, "language": ev.Language})
	log.Info("received REST user event")

	// the caller timing out must not abort a send that is mid-retry
	if err := h.Svc.HandleUserEvent(context.WithoutCancel(c.Request.Context()), &ev); err != nil {
		log.WithError(err).Error("failed to process REST user event")
		response.Error[any](c, http.StatusInternalServerError, "Failed to process notification: "+err.Error(), nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Notification processed successfully", nil)
}

// Send delivers an arbitrary email; lang comes from the query string.
func (h *EmailHandler) Send(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	lang := c.DefaultQuery("lang", i18n.DefaultLocale)
	h.send(c, req.To, req.Subject, req.Message, lang)
}

// Direct is Send with every field taken from the query string.
func (h *EmailHandler) Direct(c *gin.Context) {
	var q directEmailQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid parameters", validation.ToDetails(err))
		return
	}
	h.send(c, q.To, q.Subject, q.Message, langOrDefault(q.Lang))
}

func (h *EmailHandler) send(c *gin.Context, to, subject, message, lang string) {
	log := h.log().WithFields(logrus.Fields{"to": to, "language": lang})
	log.Info("received email send request")

	if err := h.Svc.SendEmail(c.Request.Context(), to, subject, message, lang); err != nil {
		log.WithError(err).Error("failed to send email")
		response.Error[any](c, http.StatusInternalServerError, "Failed to send email: "+err.Error(), nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Email sent successfully in "+lang, nil)
}

func (h *EmailHandler) Welcome(c *gin.Context) {
	q, ok := bindRecipient(c)
	if !ok {
		return
	}
	h.log().WithFields(logrus.Fields{"email": q.Email, "language": q.Lang}).Info("sending welcome email")

	if err := h.Svc.SendWelcomeEmail(c.Request.Context(), q.Email, q.Username, q.Lang); err != nil {
		h.log().WithError(err).WithField("email", q.Email).Error("failed to send welcome email")
		response.Error[any](c, http.StatusInternalServerError, "Failed to send welcome email: "+err.Error(), nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Welcome email sent successfully in "+q.Lang, nil)
}

func (h *EmailHandler) AccountDeleted(c *gin.Context) {
	q, ok := bindRecipient(c)
	if !ok {
		return
	}
	h.log().WithFields(logrus.Fields{"email": q.Email, "language": q.Lang}).Info("sending account deletion email")

	if err := h.Svc.SendAccountDeletedEmail(c.Request.Context(), q.Email, q.Username, q.Lang); err != nil {
		h.log().WithError(err).WithField("email", q.Email).Error("failed to send account deletion email")
		response.Error[any](c, http.StatusInternalServerError, "Failed to send account deletion email: "+err.Error(), nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Account deletion email sent successfully in "+q.Lang, nil)
}

// SupportedLanguages lists each language with its name in that language.
func (h *EmailHandler) SupportedLanguages(c *gin.Context) {
	codes := i18n.Supported()
	out := make([]LanguageInfo, 0, len(codes))
	for _, code := range codes {
		name := code
		if h.Names != nil {
			name = h.Names.DisplayName(code, code)
		}
		out = append(out, LanguageInfo{Code: code, DisplayName: name})
	}
	response.Success(c, http.StatusOK, out, "supported languages", nil)
}

func (h *EmailHandler) Health(c *gin.Context) {
	response.Success[any](c, http.StatusOK, nil, "Email service is running", nil)
}

func bindRecipient(c *gin.Context) (recipientQuery, bool) {
	var q recipientQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid parameters", validation.ToDetails(err))
		return q, false
	}
	q.Lang = langOrDefault(q.Lang)
	if !i18n.IsSupported(q.Lang) {
		response.Error[any](c, http.StatusBadRequest,
			"Unsupported language: "+q.Lang+". Supported: "+strings.Join(i18n.Supported(), ", "), nil)
		return q, false
	}
	return q, true
}

func langOrDefault(lang string) string {
	if strings.TrimSpace(lang) == "" {
		return i18n.DefaultLocale
	}
	return lang
}

func (h *EmailHandler) log() *logrus.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return logrus.StandardLogger()
}
