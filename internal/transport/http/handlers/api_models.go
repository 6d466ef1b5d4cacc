package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arklim/selfstudy-web/internal/core/domain"
	"github.com/arklim/selfstudy-web/internal/usecase"
)

// descriptionWordLimit caps course descriptions in list views.
const descriptionWordLimit = 20

// ErrorResponse represents a generic error payload with trace ID for debugging.
// Redirect, when set, tells the client which screen to navigate to.
type ErrorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
	TraceID  string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionStateResponse reports the client session state for view routing.
type SessionStateResponse struct {
	State         string `json:"state"`
	Authenticated bool   `json:"authenticated"`
	SubjectID     string `json:"subject_id,omitempty"`
	Role          string `json:"role,omitempty"`
}

// SignupRequest defines the account registration payload.
type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	Role     string `json:"role"`
}

// ProfileUpdateRequest carries the editable profile fields.
type ProfileUpdateRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	City  *string `json:"city,omitempty"`
}

// ProfilePayload is the profile screen view model.
type ProfilePayload struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	City   string `json:"city,omitempty"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// OwnerPayload identifies a course owner in view models.
type OwnerPayload struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// CourseSummary is the course card shown on list screens. Description is
// truncated so cards stay uniform.
type CourseSummary struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Owner       *OwnerPayload `json:"owner,omitempty"`
}

// CourseDetailResponse is the course page view model: the course plus the
// permission flags the screen renders controls from.
type CourseDetailResponse struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Owner       *OwnerPayload     `json:"owner,omitempty"`
	Materials   []MaterialPayload `json:"materials"`
	CanManage   bool              `json:"can_manage"`
	CanEnroll   bool              `json:"can_enroll"`
	Enrolled    bool              `json:"enrolled"`
	// Roster is present only when the caller can manage the course.
	Roster []string `json:"roster,omitempty"`
}

// CoursePayload is the full course representation with an untruncated
// description, used by the edit screen.
type CoursePayload struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Owner       *OwnerPayload `json:"owner,omitempty"`
}

// CourseCreateRequest defines the payload for creating a course.
type CourseCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// CourseEditRequest defines the payload for editing a course.
type CourseEditRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// MaterialPayload summarizes a material on the course page.
type MaterialPayload struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	VideoLink string `json:"video_link,omitempty"`
}

// TestSummary lists a test on the course page.
type TestSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// TestDetailResponse is the test-taking screen view model.
type TestDetailResponse struct {
	ID        int64             `json:"id"`
	Title     string            `json:"title"`
	Questions []QuestionPayload `json:"questions"`
}

// QuestionPayload is one question on the test screen.
type QuestionPayload struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// TestSubmitRequest carries the answers keyed by question id.
type TestSubmitRequest struct {
	Answers map[int64]string `json:"answers" binding:"required"`
}

// TeacherPayload is one entry on the teachers screen.
type TeacherPayload struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Avatar  string          `json:"avatar,omitempty"`
	Courses []CourseSummary `json:"courses"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string `json:"status"`
	StartedAt string `json:"started_at"`
}

// ReadyResponse describes readiness probe results with dependency checks.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// TruncateWords keeps at most limit whitespace-separated words, appending an
// ellipsis when text was cut. Text at or under the limit is returned verbatim.
func TruncateWords(text string, limit int) string {
	if limit <= 0 {
		return ""
	}

	words := strings.Fields(text)
	if len(words) <= limit {
		return text
	}

	return strings.Join(words[:limit], " ") + "…"
}

func newOwnerPayload(owner domain.OwnerRef) *OwnerPayload {
	if !owner.Present() {
		return nil
	}
	return &OwnerPayload{ID: owner.ID, Name: owner.Name}
}

func newCourseSummary(course domain.Course) CourseSummary {
	return CourseSummary{
		ID:          course.ID,
		Title:       course.Title,
		Description: TruncateWords(course.Description, descriptionWordLimit),
		Owner:       newOwnerPayload(course.Owner),
	}
}

func newCourseSummaries(courses []domain.Course) []CourseSummary {
	summaries := make([]CourseSummary, 0, len(courses))
	for _, course := range courses {
		summaries = append(summaries, newCourseSummary(course))
	}
	return summaries
}

func newCoursePayload(course domain.Course) CoursePayload {
	return CoursePayload{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Owner:       newOwnerPayload(course.Owner),
	}
}

func newMaterialPayload(material domain.Material) MaterialPayload {
	return MaterialPayload{
		ID:        material.ID,
		Title:     material.Title,
		Content:   material.Content,
		VideoLink: material.VideoLink,
	}
}

func newCourseDetail(view *usecase.CourseView) CourseDetailResponse {
	resp := CourseDetailResponse{
		ID:          view.Course.ID,
		Title:       view.Course.Title,
		Description: view.Course.Description,
		Owner:       newOwnerPayload(view.Course.Owner),
		Materials:   make([]MaterialPayload, 0, len(view.Course.Materials)),
		CanManage:   view.CanManage,
		CanEnroll:   view.CanEnroll,
		Enrolled:    view.Enrolled,
		Roster:      view.Roster,
	}

	for _, material := range view.Course.Materials {
		resp.Materials = append(resp.Materials, newMaterialPayload(material))
	}

	return resp
}

func newProfilePayload(profile domain.Profile) ProfilePayload {
	return ProfilePayload{
		ID:     profile.ID,
		Name:   profile.Name,
		Email:  profile.Email,
		Phone:  profile.Phone,
		City:   profile.City,
		Role:   string(profile.Role),
		Avatar: profile.Avatar,
	}
}

func newTeacherPayload(teacher domain.Teacher) TeacherPayload {
	return TeacherPayload{
		ID:      teacher.ID,
		Name:    teacher.Name,
		Avatar:  teacher.Avatar,
		Courses: newCourseSummaries(teacher.Courses),
	}
}
