package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arklim/selfstudy-web/internal/core/domain"
	"github.com/arklim/selfstudy-web/internal/core/port"
)

var (
	// ErrPermissionDenied indicates the caller may not perform the action on
	// this resource.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrTitleRequired indicates a course or material was submitted without a
	// title.
	ErrTitleRequired = errors.New("title is required")
	// ErrEnrollNotOffered indicates the enroll action is not available to the
	// caller (teachers, admins, and course owners do not enroll).
	ErrEnrollNotOffered = errors.New("enrollment is not offered")
)

// CourseService drives the course screens: catalogue, detail with permission
// flags, and the owner-gated mutations.
type CourseService struct {
	courses port.CourseRepository
	session *SessionService
	log     *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(courses port.CourseRepository, session *SessionService, log *zap.Logger) *CourseService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CourseService{courses: courses, session: session, log: log}
}

// CourseView is a course enriched with the caller's affordances, computed
// only after both the course and the identity have fully arrived.
type CourseView struct {
	Course    domain.Course
	Identity  domain.Identity
	CanManage bool
	CanEnroll bool
	Enrolled  bool
	// Roster is populated only for callers allowed to manage the course.
	Roster []string
}

// List returns the public catalogue.
func (s *CourseService) List(ctx context.Context) ([]domain.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// Mine returns the courses relevant to the caller.
func (s *CourseService) Mine(ctx context.Context) ([]domain.Course, error) {
	courses, err := s.courses.Mine(ctx)
	if err != nil {
		return nil, fmt.Errorf("list my courses: %w", err)
	}
	return courses, nil
}

// Detail loads one course together with the caller identity. The two fetches
// run concurrently and the permission flags are evaluated only once both have
// resolved; evaluating on partial data is how the old per-screen checks went
// wrong.
func (s *CourseService) Detail(ctx context.Context, id int64) (*CourseView, error) {
	var (
		course   *domain.Course
		identity domain.Identity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.courses.Get(gctx, id)
		if err != nil {
			return fmt.Errorf("get course %d: %w", id, err)
		}
		course = c
		return nil
	})
	g.Go(func() error {
		ident, err := s.session.Identity(gctx)
		if err != nil {
			return err
		}
		identity = ident
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &CourseView{
		Course:    *course,
		Identity:  identity,
		CanManage: CanManage(identity, *course),
		CanEnroll: CanEnroll(identity, *course),
		Enrolled:  course.IsEnrolled(identity.SubjectID),
	}
	if view.CanManage {
		view.Roster = course.EnrolledIDs()
	}
	return view, nil
}

// Create provisions a course. Only teachers and admins may create.
func (s *CourseService) Create(ctx context.Context, title, description string) (*domain.Course, error) {
	identity, err := s.session.Identity(ctx)
	if err != nil {
		return nil, err
	}
	if identity.Role != domain.RoleTeacher && identity.Role != domain.RoleAdmin {
		return nil, ErrPermissionDenied
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	course, err := s.courses.Create(ctx, title, strings.TrimSpace(description))
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.log.Info("course created",
		zap.Int64("course_id", course.ID),
		zap.String("subject_id", identity.SubjectID),
	)
	return course, nil
}

// Edit updates the course's title and description, gated on management
// rights.
func (s *CourseService) Edit(ctx context.Context, id int64, input port.CourseEdit) (*domain.Course, error) {
	view, err := s.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !view.CanManage {
		return nil, ErrPermissionDenied
	}

	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		if trimmed == "" {
			return nil, ErrTitleRequired
		}
		input.Title = &trimmed
	}

	course, err := s.courses.Edit(ctx, id, input)
	if err != nil {
		return nil, fmt.Errorf("edit course %d: %w", id, err)
	}
	return course, nil
}

// Enroll adds the caller to the course and returns the refreshed view. Once
// the subject is in the enrolled set the action is a no-op, so a double
// submit cannot fail.
func (s *CourseService) Enroll(ctx context.Context, id int64) (*CourseView, error) {
	view, err := s.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	if view.Enrolled {
		return view, nil
	}
	if !view.CanEnroll {
		return nil, ErrEnrollNotOffered
	}

	if err := s.courses.Enroll(ctx, id); err != nil {
		return nil, fmt.Errorf("enroll in course %d: %w", id, err)
	}

	// Full refresh so the enrolled set and the affordance flags are
	// recomputed from platform data rather than patched locally.
	return s.Detail(ctx, id)
}

// Materials lists a course's materials.
func (s *CourseService) Materials(ctx context.Context, courseID int64) ([]domain.Material, error) {
	materials, err := s.courses.Materials(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list materials for course %d: %w", courseID, err)
	}
	return materials, nil
}

// AddMaterial uploads a material to the course, gated on management rights.
func (s *CourseService) AddMaterial(ctx context.Context, courseID int64, input port.MaterialInput) (*domain.Material, error) {
	view, err := s.Detail(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !view.CanManage {
		return nil, ErrPermissionDenied
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	material, err := s.courses.AddMaterial(ctx, courseID, input)
	if err != nil {
		return nil, fmt.Errorf("add material to course %d: %w", courseID, err)
	}

	s.log.Info("material added",
		zap.Int64("course_id", courseID),
		zap.Int64("material_id", material.ID),
	)
	return material, nil
}

// Material fetches one material.
func (s *CourseService) Material(ctx context.Context, id int64) (*domain.Material, error) {
	material, err := s.courses.Material(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get material %d: %w", id, err)
	}
	return material, nil
}
