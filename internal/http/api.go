// Package http exposes the REST API over the draft and publish services.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"post-muse/internal/domain"
	"post-muse/internal/draft"
	"post-muse/internal/publisher"
	"post-muse/internal/service"
	"post-muse/internal/storage"
	"post-muse/internal/vault"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users      service.UserService
	drafts     service.DraftService
	posts      service.PostService
	dispatcher *publisher.Dispatcher
	vault      *vault.Vault
	archive    *storage.Archiver
	logger     *logrus.Logger
	jwtSecret  string
	ratePerSec float64
	rateBurst  int
}

func NewHandler(users service.UserService, drafts service.DraftService, posts service.PostService, dispatcher *publisher.Dispatcher, tokenVault *vault.Vault, archive *storage.Archiver, logger *logrus.Logger, jwtSecret string, ratePerSec float64, rateBurst int) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:      users,
		drafts:     drafts,
		posts:      posts,
		dispatcher: dispatcher,
		vault:      tokenVault,
		archive:    archive,
		logger:     logger,
		jwtSecret:  jwtSecret,
		ratePerSec: ratePerSec,
		rateBurst:  rateBurst,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/user", h.register)
		api.POST("/login", h.login)
		api.GET("/tones", h.listTones)
		api.GET("/platforms", h.listPlatforms)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		authed := api.Group("")
		authed.Use(authMiddleware(h.users, h.jwtSecret))
		authed.Use(rateLimitMiddleware(h.ratePerSec, h.rateBurst))
		{
			authed.GET("/user", h.getUser)
			authed.POST("/generate", h.generateDrafts)
			authed.POST("/draft", h.saveDraft)
			authed.GET("/drafts", h.listDrafts)
			authed.DELETE("/draft/:id", h.deleteDraft)
			authed.POST("/post", h.publishPost)
			authed.GET("/posts", h.listPosts)
			authed.DELETE("/post/:id", h.deletePost)
			authed.PUT("/tokens", h.storeToken)
			authed.GET("/archive", h.listArchive)
		}
	}
}

type registerRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Admin           bool   `json:"admin"`
	AdminSecret     string `json:"admin_secret"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type generateRequest struct {
	Platform string `json:"platform" binding:"required"`
	Topic    string `json:"topic" binding:"required"`
	Tone     string `json:"tone" binding:"required"`
	Hashtags string `json:"hashtags"`
	Insight  string `json:"insight"`
}

type saveDraftRequest struct {
	Platform string `json:"platform" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

type publishRequest struct {
	Content   string   `json:"content" binding:"required"`
	Platforms []string `json:"platforms" binding:"required"`
}

type storeTokenRequest struct {
	Platform string `json:"platform" binding:"required"`
	Token    string `json:"token" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Password, req.ConfirmPassword, req.AdminSecret, req.Admin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAdminSecret):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidInput),
			errors.Is(err, service.ErrUserAlreadyExists),
			errors.Is(err, service.ErrPasswordMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.logger.WithField("user_id", user.ID).Info("user registered")
	c.JSON(http.StatusCreated, userToResponse(user, true))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, userToResponse(user, true))
}

func (h *Handler) getUser(c *gin.Context) {
	c.JSON(http.StatusOK, userToResponse(currentUser(c), false))
}

func (h *Handler) listTones(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tones": draft.Tones()})
}

func (h *Handler) listPlatforms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"platforms": domain.Platforms})
}

func (h *Handler) generateDrafts(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vars := map[string]string{
		"topic":    req.Topic,
		"tone":     req.Tone,
		"hashtags": req.Hashtags,
		"insight":  req.Insight,
	}

	drafts, err := h.drafts.Generate(c.Request.Context(), req.Platform, vars)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPlatform) || errors.Is(err, draft.ErrMissingVariable) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if drafts == nil {
		drafts = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"platform": req.Platform, "drafts": drafts})
}

func (h *Handler) saveDraft(c *gin.Context) {
	var req saveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.drafts.Save(c.Request.Context(), currentUser(c).ID, req.Platform, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPlatform) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, draftToResponse(*saved))
}

func (h *Handler) listDrafts(c *gin.Context) {
	drafts, err := h.drafts.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]DraftResponse, len(drafts))
	for i := range drafts {
		resp[i] = draftToResponse(drafts[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) deleteDraft(c *gin.Context) {
	id := c.Param("id")
	if err := h.drafts.Delete(c.Request.Context(), id, currentUser(c).ID); err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) publishPost(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.dispatcher.Publish(c.Request.Context(), currentUser(c), req.Content, req.Platforms)
	if err != nil {
		switch {
		case errors.Is(err, publisher.ErrQuotaExceeded):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		case errors.Is(err, publisher.ErrInvalidPlatform), errors.Is(err, publisher.ErrEmptyContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, postToResponse(*post))
}

func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]PostResponse, len(posts))
	for i := range posts {
		resp[i] = postToResponse(posts[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) deletePost(c *gin.Context) {
	id := c.Param("id")
	if err := h.posts.Delete(c.Request.Context(), id, currentUser(c).ID); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) storeToken(c *gin.Context) {
	var req storeTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !domain.ValidPlatform(req.Platform) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid platform: " + req.Platform})
		return
	}

	if err := h.vault.Store(c.Request.Context(), currentUser(c).ID, req.Platform, req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stored": req.Platform})
}

func (h *Handler) listArchive(c *gin.Context) {
	if !currentUser(c).IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin tier required"})
		return
	}
	if h.archive == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "archive storage not configured"})
		return
	}

	objects, err := h.archive.ListArchived(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]ArchiveObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}

type UserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Tier         string `json:"tier"`
	QuotaUsed    int    `json:"quota_used"`
	QuotaLimit   int    `json:"quota_limit"`
	QuotaResetAt string `json:"quota_reset_at"`
	CreatedAt    string `json:"created_at"`
	AccessToken  string `json:"access_token,omitempty"`
}

type DraftResponse struct {
	ID        string `json:"id"`
	Platform  string `json:"platform"`
	Content   string `json:"content"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type PostResponse struct {
	ID        string                   `json:"id"`
	Content   string                   `json:"content"`
	Platforms []string                 `json:"platforms"`
	Outcomes  []domain.PlatformOutcome `json:"outcomes"`
	CreatedAt string                   `json:"created_at"`
}

type ArchiveObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func objectToResponse(obj storage.ObjectInfo) ArchiveObjectResponse {
	resp := ArchiveObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}

func userToResponse(user *domain.User, withToken bool) UserResponse {
	limit := domain.FreeTierMonthlyCap
	if user.IsAdmin() {
		limit = 0
	}
	resp := UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Tier:         string(user.Tier),
		QuotaUsed:    user.QuotaCount,
		QuotaLimit:   limit,
		QuotaResetAt: user.QuotaResetAt.Format(time.RFC3339),
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
	}
	if withToken {
		resp.AccessToken = user.AccessToken
	}
	return resp
}

func draftToResponse(d domain.Draft) DraftResponse {
	return DraftResponse{
		ID:        d.ID,
		Platform:  d.Platform,
		Content:   d.Content,
		Status:    string(d.Status),
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
}

func postToResponse(p domain.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Content:   p.Content,
		Platforms: p.Platforms,
		Outcomes:  p.Outcomes,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}
