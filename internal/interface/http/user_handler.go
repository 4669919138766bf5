package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-notification/internal/application/dto"
	"github.com/oksasatya/go-user-notification/internal/domain/entity"
	"github.com/oksasatya/go-user-notification/internal/infrastructure/search"
	"github.com/oksasatya/go-user-notification/pkg/i18n"
	"github.com/oksasatya/go-user-notification/pkg/metrics"
	"github.com/oksasatya/go-user-notification/pkg/response"
	"github.com/oksasatya/go-user-notification/pkg/validation"
)

// UserService is the user facade the handler drives.
type UserService interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error)
	GetUserByID(ctx context.Context, id int64) (dto.UserResponse, bool, error)
	GetUserByEmail(ctx context.Context, email string) (dto.UserResponse, bool, error)
	GetAllUsers(ctx context.Context) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, req dto.UpdateUserRequest) (dto.UserResponse, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
}

// UserNotifier receives lifecycle changes after they are committed.
type UserNotifier interface {
	UserCreated(ctx context.Context, u dto.UserResponse, lang string)
	UserUpdated(ctx context.Context, u dto.UserResponse, lang string)
	UserDeleted(ctx context.Context, u dto.UserResponse, lang string)
}

type UserSearcher interface {
	Search(ctx context.Context, q string, size int) ([]search.Document, error)
}

type UserHandler struct {
	Svc      UserService
	Notifier UserNotifier
	Search   UserSearcher
	Logger   *logrus.Logger
	Metrics  *metrics.AppMetrics
}

func NewUserHandler(svc UserService, notifier UserNotifier, searcher UserSearcher, logger *logrus.Logger, m *metrics.AppMetrics) *UserHandler {
	return &UserHandler{Svc: svc, Notifier: notifier, Search: searcher, Logger: logger, Metrics: m}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.CreateUser(c.Request.Context(), req)
	h.Metrics.RecordUserOperation("create", err)
	if err != nil {
		h.fail(c, err)
		return
	}
	if h.Notifier != nil {
		h.Notifier.UserCreated(c.Request.Context(), u, requestLanguage(c))
	}
	response.Success(c, http.StatusCreated, u, "user created", nil)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.GetAllUsers(c.Request.Context())
	h.Metrics.RecordUserOperation("list", err)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, users, "users", map[string]any{"count": len(users)})
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, found, err := h.Svc.GetUserByID(c.Request.Context(), id)
	h.Metrics.RecordUserOperation("get_by_id", err)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !found {
		response.Error[any](c, http.StatusNotFound, "User not found with id: "+strconv.FormatInt(id, 10), nil)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

func (h *UserHandler) GetByEmail(c *gin.Context) {
	email := c.Param("email")
	u, found, err := h.Svc.GetUserByEmail(c.Request.Context(), email)
	h.Metrics.RecordUserOperation("get_by_email", err)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !found {
		response.Error[any](c, http.StatusNotFound, "User not found with email: "+email, nil)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if req.ID != id {
		response.Error[any](c, http.StatusBadRequest, "Path ID and request body ID must match", nil)
		return
	}

	u, err := h.Svc.UpdateUser(c.Request.Context(), req)
	h.Metrics.RecordUserOperation("update", err)
	if err != nil {
		h.fail(c, err)
		return
	}
	if h.Notifier != nil {
		h.Notifier.UserUpdated(c.Request.Context(), u, requestLanguage(c))
	}
	response.Success(c, http.StatusOK, u, "user updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	// the deletion event needs the email and name of the removed user
	existing, _, err := h.Svc.GetUserByID(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	deleted, err := h.Svc.DeleteUser(ctx, id)
	h.Metrics.RecordUserOperation("delete", err)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !deleted {
		response.Error[any](c, http.StatusNotFound, "User not found with id: "+strconv.FormatInt(id, 10), nil)
		return
	}
	if h.Notifier != nil && existing.ID != 0 {
		h.Notifier.UserDeleted(ctx, existing, requestLanguage(c))
	}
	c.Status(http.StatusNoContent)
}

// SearchUsers queries the search index. Without an index it answers with an empty list.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	if h.Search == nil {
		response.Success(c, http.StatusOK, []search.Document{}, "search", map[string]any{"count": 0})
		return
	}
	docs, err := h.Search.Search(c.Request.Context(), q, size)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("q", q).Warn("user search failed")
		}
		response.Error[any](c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, docs, "search", map[string]any{"count": len(docs)})
}

// fail maps business failures to 4xx and everything else to 500.
func (h *UserHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidFormat), errors.Is(err, entity.ErrInvalidArgument):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, entity.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, entity.ErrDuplicateEmail):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).WithFields(logrus.Fields{
				"method": c.Request.Method,
				"path":   c.FullPath(),
			}).Error("user request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "Invalid user ID", map[string]string{"id": "must be a number"})
		return 0, false
	}
	return id, true
}

// requestLanguage takes the first Accept-Language tag, for example "ru" from
// "ru-RU,ru;q=0.9,en;q=0.8". Unsupported languages resolve to English.
func requestLanguage(c *gin.Context) string {
	header := c.GetHeader("Accept-Language")
	first, _, _ := strings.Cut(header, ",")
	tag, _, _ := strings.Cut(first, ";")
	return i18n.ResolveLocale(strings.TrimSpace(tag))
}
