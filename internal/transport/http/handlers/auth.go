package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arklim/selfstudy-web/internal/core/domain"
	"github.com/arklim/selfstudy-web/internal/core/port"
	"github.com/arklim/selfstudy-web/internal/usecase"
)

// AuthHandler exposes the session lifecycle endpoints.
type AuthHandler struct {
	sessions *usecase.SessionService
	profiles *usecase.ProfileService
	mapper   *ErrorMapper
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(sessions *usecase.SessionService, profiles *usecase.ProfileService, mapper *ErrorMapper) *AuthHandler {
	return &AuthHandler{sessions: sessions, profiles: profiles, mapper: mapper}
}

// RegisterRoutes binds session routes, applying optional middleware ahead of
// the login handler.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, loginMiddlewares ...gin.HandlerFunc) {
	if len(loginMiddlewares) > 0 {
		chain := append([]gin.HandlerFunc{}, loginMiddlewares...)
		chain = append(chain, h.login)
		r.POST("/login", chain...)
	} else {
		r.POST("/login", h.login)
	}

	r.POST("/logout", h.logout)
	r.POST("/refresh", h.refresh)
	r.POST("/signup", h.signup)
	r.GET("/session", h.session)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email and password are required"))
		return
	}

	if err := h.sessions.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		h.mapper.Respond(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid email or password"},
		}, http.StatusBadGateway, "login is temporarily unavailable")
		return
	}

	c.JSON(http.StatusOK, h.sessionState(c))
}

func (h *AuthHandler) logout(c *gin.Context) {
	if err := h.sessions.Logout(); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to clear session"))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "signed out"})
}

func (h *AuthHandler) refresh(c *gin.Context) {
	if err := h.sessions.RefreshAccess(c.Request.Context()); err != nil {
		h.mapper.Respond(c, err, nil, http.StatusBadGateway, "failed to refresh session")
		return
	}

	c.JSON(http.StatusOK, h.sessionState(c))
}

func (h *AuthHandler) signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid signup payload"))
		return
	}

	input := port.SignupInput{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Phone:    req.Phone,
		City:     req.City,
		Role:     domain.Role(strings.TrimSpace(req.Role)),
	}

	if err := h.profiles.Signup(c.Request.Context(), input); err != nil {
		h.mapper.Respond(c, err, []ErrorCase{
			{Err: usecase.ErrEmailRequired, Status: http.StatusBadRequest, Message: "email is required"},
			{Err: usecase.ErrPasswordRequired, Status: http.StatusBadRequest, Message: "password is required"},
			{Err: usecase.ErrInvalidRole, Status: http.StatusBadRequest, Message: "role must be student or teacher"},
		}, http.StatusBadGateway, "failed to register account")
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{Message: "account registered"})
}

// session reports the current session so the client can route between the
// anonymous and authenticated shells.
func (h *AuthHandler) session(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionState(c))
}

func (h *AuthHandler) sessionState(c *gin.Context) SessionStateResponse {
	resp := SessionStateResponse{
		State:         string(h.sessions.State()),
		Authenticated: h.sessions.Authenticated(),
	}

	if !resp.Authenticated {
		return resp
	}

	identity, err := h.sessions.Identity(c.Request.Context())
	if err == nil {
		resp.SubjectID = identity.SubjectID
		resp.Role = string(identity.Role)
	}

	return resp
}
