package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/selfstudy-web/internal/usecase"
)

// AssessmentHandler exposes the test screens.
type AssessmentHandler struct {
	assessments *usecase.AssessmentService
	mapper      *ErrorMapper
}

// NewAssessmentHandler constructs AssessmentHandler.
func NewAssessmentHandler(assessments *usecase.AssessmentService, mapper *ErrorMapper) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments, mapper: mapper}
}

// RegisterRoutes binds the test routes.
func (h *AssessmentHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/courses/:id/tests", h.list)
	r.GET("/tests/:id", h.detail)
	r.POST("/tests/:id/submit", h.submit)
}

func (h *AssessmentHandler) list(c *gin.Context) {
	courseID, ok := pathID(c)
	if !ok {
		return
	}

	tests, err := h.assessments.Tests(c.Request.Context(), courseID)
	if err != nil {
		h.mapper.Respond(c, err, nil, http.StatusBadGateway, "failed to load tests")
		return
	}

	payload := make([]TestSummary, 0, len(tests))
	for _, test := range tests {
		payload = append(payload, TestSummary{ID: test.ID, Title: test.Title})
	}

	c.JSON(http.StatusOK, payload)
}

func (h *AssessmentHandler) detail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	test, err := h.assessments.Test(c.Request.Context(), id)
	if err != nil {
		h.mapper.Respond(c, err, nil, http.StatusBadGateway, "failed to load test")
		return
	}

	resp := TestDetailResponse{
		ID:        test.ID,
		Title:     test.Title,
		Questions: make([]QuestionPayload, 0, len(test.Questions)),
	}
	for _, question := range test.Questions {
		resp.Questions = append(resp.Questions, QuestionPayload{ID: question.ID, Text: question.Text})
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AssessmentHandler) submit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req TestSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "answers are required"))
		return
	}

	if err := h.assessments.Submit(c.Request.Context(), id, req.Answers); err != nil {
		h.mapper.Respond(c, err, []ErrorCase{
			{Err: usecase.ErrNoAnswers, Status: http.StatusBadRequest, Message: "answers are required"},
		}, http.StatusBadGateway, "failed to submit answers")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "answers submitted"})
}
