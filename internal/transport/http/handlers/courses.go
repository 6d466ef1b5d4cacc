package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arklim/selfstudy-web/internal/core/port"
	"github.com/arklim/selfstudy-web/internal/usecase"
)

// maxIllustrationBytes caps material illustration uploads.
const maxIllustrationBytes = 8 << 20

// CourseHandler exposes the course catalogue and course page endpoints.
type CourseHandler struct {
	courses *usecase.CourseService
	mapper  *ErrorMapper
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses *usecase.CourseService, mapper *ErrorMapper) *CourseHandler {
	return &CourseHandler{courses: courses, mapper: mapper}
}

// RegisterPublicRoutes binds the routes available without a session.
func (h *CourseHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/courses", h.list)
}

// RegisterRoutes binds the session-gated course routes.
func (h *CourseHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/courses/my", h.mine)
	r.GET("/courses/:id", h.detail)
	r.POST("/courses", h.create)
	r.PATCH("/courses/:id", h.edit)
	r.POST("/courses/:id/enroll", h.enroll)
	r.GET("/courses/:id/materials", h.materials)
	r.POST("/courses/:id/materials", h.addMaterial)
	r.GET("/materials/:id", h.material)
}

func (h *CourseHandler) list(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		h.mapper.Respond(c, err, nil, http.StatusBadGateway, "failed to load courses")
		return
	}

	c.JSON(http.StatusOK, newCourseSummaries(courses))
}

func (h *CourseHandler) mine(c *gin.Context) {
	courses, err := h.courses.Mine(c.Request.Context())
	if err != nil {
		h.mapper.Respond(c, err, nil, http.StatusBadGateway, "failed to load your courses")
		return
	}

	c.JSON(http.StatusOK, newCourseSummaries(courses))
}

func (h *CourseHandler) detail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.courses.Detail(c.Request.Context(), id)
	if err != nil {
		h.mapper.Respond(c, err, nil, http.StatusBadGateway, "failed to load course")
		return
	}

	c.JSON(http.StatusOK, newCourseDetail(view))
}

func (h *CourseHandler) create(c *gin.Context) {
	var req CourseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "title is required"))
		return
	}

	course, err := h.courses.Create(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		h.mapper.Respond(c, err, []ErrorCase{
			{Err: usecase.ErrTitleRequired, Status: http.StatusBadRequest, Message: "title is required"},
		}, http.StatusBadGateway, "failed to create course")
		return
	}

	c.JSON(http.StatusCreated, newCoursePayload(*course))
}

func (h *CourseHandler) edit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req CourseEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid course payload"))
		return
	}

	course, err := h.courses.Edit(c.Request.Context(), id, port.CourseEdit{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.mapper.Respond(c, err, []ErrorCase{
			{Err: usecase.ErrTitleRequired, Status: http.StatusBadRequest, Message: "title must not be empty"},
		}, http.StatusBadGateway, "failed to edit course")
		return
	}

	c.JSON(http.StatusOK, newCoursePayload(*course))
}

func (h *CourseHandler) enroll(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.courses.Enroll(c.Request.Context(), id)
	if err != nil {
		h.mapper.Respond(c, err, []ErrorCase{
			{Err: usecase.ErrEnrollNotOffered, Status: http.StatusConflict, Message: "enrollment is not offered for this account"},
		}, http.StatusBadGateway, "failed to enroll")
		return
	}

	c.JSON(http.StatusOK, newCourseDetail(view))
}

func (h *CourseHandler) materials(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	materials, err := h.courses.Materials(c.Request.Context(), id)
	if err != nil {
		h.mapper.Respond(c, err, nil, http.StatusBadGateway, "failed to load materials")
		return
	}

	payload := make([]MaterialPayload, 0, len(materials))
	for _, material := range materials {
		payload = append(payload, newMaterialPayload(material))
	}

	c.JSON(http.StatusOK, payload)
}

// addMaterial accepts a multipart form so the illustration can ride along
// with the text fields.
func (h *CourseHandler) addMaterial(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	input := port.MaterialInput{
		Title:     strings.TrimSpace(c.PostForm("title")),
		Content:   c.PostForm("content"),
		VideoLink: strings.TrimSpace(c.PostForm("video_link")),
	}

	if header, err := c.FormFile("illustration"); err == nil {
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid illustration upload"))
			return
		}
		content, err := io.ReadAll(io.LimitReader(file, maxIllustrationBytes))
		file.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid illustration upload"))
			return
		}
		input.Illustration = &port.Upload{FileName: header.Filename, Content: content}
	}

	material, err := h.courses.AddMaterial(c.Request.Context(), id, input)
	if err != nil {
		h.mapper.Respond(c, err, []ErrorCase{
			{Err: usecase.ErrTitleRequired, Status: http.StatusBadRequest, Message: "title is required"},
		}, http.StatusBadGateway, "failed to add material")
		return
	}

	c.JSON(http.StatusCreated, newMaterialPayload(*material))
}

func (h *CourseHandler) material(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	material, err := h.courses.Material(c.Request.Context(), id)
	if err != nil {
		h.mapper.Respond(c, err, nil, http.StatusBadGateway, "failed to load material")
		return
	}

	c.JSON(http.StatusOK, newMaterialPayload(*material))
}

// pathID parses the :id path parameter, responding 400 on garbage.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid id"))
		return 0, false
	}
	return id, true
}
