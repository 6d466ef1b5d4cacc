package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arklim/selfstudy-web/internal/core/port"
	"github.com/arklim/selfstudy-web/internal/usecase"
)

// maxAvatarBytes caps avatar uploads forwarded to the platform.
const maxAvatarBytes = 4 << 20

// ProfileHandler exposes the profile and teachers screens.
type ProfileHandler struct {
	profiles *usecase.ProfileService
	mapper   *ErrorMapper
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(profiles *usecase.ProfileService, mapper *ErrorMapper) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, mapper: mapper}
}

// RegisterRoutes binds the profile routes.
func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.me)
	r.PUT("/profile", h.update)
}

// RegisterPublicRoutes binds the routes available without a session.
func (h *ProfileHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/teachers", h.teachers)
}

func (h *ProfileHandler) me(c *gin.Context) {
	profile, err := h.profiles.Me(c.Request.Context())
	if err != nil {
		h.mapper.Respond(c, err, nil, http.StatusBadGateway, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, newProfilePayload(*profile))
}

// update accepts either a JSON body or a multipart form; the multipart form
// is how the avatar travels.
func (h *ProfileHandler) update(c *gin.Context) {
	var (
		input port.ProfileUpdate
		err   error
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		input, err = h.bindMultipartUpdate(c)
	} else {
		input, err = h.bindJSONUpdate(c)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), input)
	if err != nil {
		h.mapper.Respond(c, err, nil, http.StatusBadGateway, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, newProfilePayload(*profile))
}

func (h *ProfileHandler) bindJSONUpdate(c *gin.Context) (port.ProfileUpdate, error) {
	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return port.ProfileUpdate{}, err
	}

	return port.ProfileUpdate{Name: req.Name, Phone: req.Phone, City: req.City}, nil
}

func (h *ProfileHandler) bindMultipartUpdate(c *gin.Context) (port.ProfileUpdate, error) {
	var input port.ProfileUpdate

	if v, ok := c.GetPostForm("name"); ok {
		input.Name = &v
	}
	if v, ok := c.GetPostForm("phone"); ok {
		input.Phone = &v
	}
	if v, ok := c.GetPostForm("city"); ok {
		input.City = &v
	}

	header, err := c.FormFile("avatar")
	if err != nil {
		if err == http.ErrMissingFile {
			return input, nil
		}
		return port.ProfileUpdate{}, err
	}

	file, err := header.Open()
	if err != nil {
		return port.ProfileUpdate{}, err
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes))
	if err != nil {
		return port.ProfileUpdate{}, err
	}

	input.Avatar = &port.Upload{FileName: header.Filename, Content: content}
	return input, nil
}

func (h *ProfileHandler) teachers(c *gin.Context) {
	teachers, err := h.profiles.Teachers(c.Request.Context())
	if err != nil {
		h.mapper.Respond(c, err, nil, http.StatusBadGateway, "failed to load teachers")
		return
	}

	payload := make([]TeacherPayload, 0, len(teachers))
	for _, teacher := range teachers {
		payload = append(payload, newTeacherPayload(teacher))
	}

	c.JSON(http.StatusOK, payload)
}
