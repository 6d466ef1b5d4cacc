package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/arklim/selfstudy-web/internal/core/domain"
	"github.com/arklim/selfstudy-web/internal/core/port"
	"github.com/arklim/selfstudy-web/internal/repository/memory"
)

type fakeCourseRepo struct {
	course  *domain.Course
	getErr  error
	created *domain.Course

	enrollCalls int
	enrollErr   error

	material *domain.Material
}

func (f *fakeCourseRepo) List(ctx context.Context) ([]domain.Course, error) { return nil, nil }

func (f *fakeCourseRepo) Get(ctx context.Context, id int64) (*domain.Course, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.course
	return &copied, nil
}

func (f *fakeCourseRepo) Mine(ctx context.Context) ([]domain.Course, error) { return nil, nil }

func (f *fakeCourseRepo) Create(ctx context.Context, title, description string) (*domain.Course, error) {
	f.created = &domain.Course{ID: 99, Title: title, Description: description}
	return f.created, nil
}

func (f *fakeCourseRepo) Edit(ctx context.Context, id int64, input port.CourseEdit) (*domain.Course, error) {
	copied := *f.course
	if input.Title != nil {
		copied.Title = *input.Title
	}
	if input.Description != nil {
		copied.Description = *input.Description
	}
	return &copied, nil
}

func (f *fakeCourseRepo) Enroll(ctx context.Context, id int64) error {
	f.enrollCalls++
	if f.enrollErr != nil {
		return f.enrollErr
	}
	f.course.Enrolled = append(f.course.Enrolled, "5")
	return nil
}

func (f *fakeCourseRepo) Materials(ctx context.Context, courseID int64) ([]domain.Material, error) {
	return f.course.Materials, nil
}

func (f *fakeCourseRepo) AddMaterial(ctx context.Context, courseID int64, input port.MaterialInput) (*domain.Material, error) {
	f.material = &domain.Material{ID: 42, Title: input.Title, Content: input.Content}
	return f.material, nil
}

func (f *fakeCourseRepo) Material(ctx context.Context, id int64) (*domain.Material, error) {
	return f.material, nil
}

func newCourseServiceWithSession(t *testing.T, repo *fakeCourseRepo, claims string) *CourseService {
	t.Helper()
	store := memory.NewSessionStore()
	if claims != "" {
		if err := store.Set(testToken(claims), "r1"); err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}

	log := zaptest.NewLogger(t)
	sessions := NewSessionService(store, &fakeTokenExchanger{}, &fakeAccountRepo{}, log)
	return NewCourseService(repo, sessions, log)
}

func TestDetailComputesFlagsForOwner(t *testing.T) {
	repo := &fakeCourseRepo{course: &domain.Course{
		ID:       7,
		Title:    "Go",
		Owner:    domain.OwnerRef{ID: "5"},
		Enrolled: []json.Number{"11", "12"},
	}}
	svc := newCourseServiceWithSession(t, repo, `{"user_id":5,"role":"teacher"}`)

	view, err := svc.Detail(context.Background(), 7)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}

	if !view.CanManage {
		t.Fatal("owner must manage the course")
	}
	if view.CanEnroll {
		t.Fatal("teachers must not see the enroll action")
	}
	if view.Enrolled {
		t.Fatal("owner is not in the enrolled set")
	}
	if len(view.Roster) != 2 || view.Roster[0] != "11" || view.Roster[1] != "12" {
		t.Fatalf("expected the manager to see the roster, got %v", view.Roster)
	}
}

func TestDetailHidesRosterFromNonManagers(t *testing.T) {
	repo := &fakeCourseRepo{course: &domain.Course{
		ID:       7,
		Owner:    domain.OwnerRef{ID: "9"},
		Enrolled: []json.Number{"11"},
	}}
	svc := newCourseServiceWithSession(t, repo, `{"user_id":5,"role":"student"}`)

	view, err := svc.Detail(context.Background(), 7)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if view.Roster != nil {
		t.Fatalf("students must not see the roster, got %v", view.Roster)
	}
}

func TestDetailWithoutSession(t *testing.T) {
	repo := &fakeCourseRepo{course: &domain.Course{ID: 7}}
	svc := newCourseServiceWithSession(t, repo, "")

	if _, err := svc.Detail(context.Background(), 7); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestDetailPropagatesCourseError(t *testing.T) {
	sentinel := errors.New("platform down")
	repo := &fakeCourseRepo{getErr: sentinel}
	svc := newCourseServiceWithSession(t, repo, `{"user_id":5,"role":"student"}`)

	if _, err := svc.Detail(context.Background(), 7); !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped platform error, got %v", err)
	}
}

func TestCreateGatedByRole(t *testing.T) {
	repo := &fakeCourseRepo{}
	svc := newCourseServiceWithSession(t, repo, `{"user_id":5,"role":"student"}`)

	if _, err := svc.Create(context.Background(), "Go", "desc"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for student, got %v", err)
	}

	svc = newCourseServiceWithSession(t, repo, `{"user_id":5,"role":"teacher"}`)
	course, err := svc.Create(context.Background(), "  Go  ", "desc")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if course.Title != "Go" {
		t.Fatalf("expected trimmed title, got %q", course.Title)
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	svc := newCourseServiceWithSession(t, &fakeCourseRepo{}, `{"user_id":5,"role":"teacher"}`)

	if _, err := svc.Create(context.Background(), "   ", "desc"); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}

func TestEditDeniedForNonOwner(t *testing.T) {
	repo := &fakeCourseRepo{course: &domain.Course{ID: 7, Owner: domain.OwnerRef{ID: "8"}}}
	svc := newCourseServiceWithSession(t, repo, `{"user_id":5,"role":"teacher"}`)

	title := "New"
	if _, err := svc.Edit(context.Background(), 7, port.CourseEdit{Title: &title}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestEditRejectsBlankTitle(t *testing.T) {
	repo := &fakeCourseRepo{course: &domain.Course{ID: 7, Owner: domain.OwnerRef{ID: "5"}}}
	svc := newCourseServiceWithSession(t, repo, `{"user_id":5,"role":"teacher"}`)

	blank := "   "
	if _, err := svc.Edit(context.Background(), 7, port.CourseEdit{Title: &blank}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}

func TestEnrollAndRefresh(t *testing.T) {
	repo := &fakeCourseRepo{course: &domain.Course{
		ID:    7,
		Owner: domain.OwnerRef{ID: "8"},
	}}
	svc := newCourseServiceWithSession(t, repo, `{"user_id":5,"role":"student"}`)

	view, err := svc.Enroll(context.Background(), 7)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if repo.enrollCalls != 1 {
		t.Fatalf("expected one enroll call, got %d", repo.enrollCalls)
	}
	if !view.Enrolled {
		t.Fatal("refreshed view must show the enrollment")
	}
	if view.CanEnroll {
		t.Fatal("enrolled subject must not see the enroll action")
	}
}

func TestEnrollIsIdempotent(t *testing.T) {
	repo := &fakeCourseRepo{course: &domain.Course{
		ID:       7,
		Owner:    domain.OwnerRef{ID: "8"},
		Enrolled: []json.Number{"5"},
	}}
	svc := newCourseServiceWithSession(t, repo, `{"user_id":5,"role":"student"}`)

	view, err := svc.Enroll(context.Background(), 7)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if repo.enrollCalls != 0 {
		t.Fatalf("already enrolled subject must not re-enroll, got %d calls", repo.enrollCalls)
	}
	if !view.Enrolled {
		t.Fatal("view must show the existing enrollment")
	}
}

func TestEnrollNotOfferedForTeachers(t *testing.T) {
	repo := &fakeCourseRepo{course: &domain.Course{ID: 7, Owner: domain.OwnerRef{ID: "8"}}}
	svc := newCourseServiceWithSession(t, repo, `{"user_id":5,"role":"teacher"}`)

	if _, err := svc.Enroll(context.Background(), 7); !errors.Is(err, ErrEnrollNotOffered) {
		t.Fatalf("expected ErrEnrollNotOffered, got %v", err)
	}
	if repo.enrollCalls != 0 {
		t.Fatalf("expected no enroll calls, got %d", repo.enrollCalls)
	}
}

func TestAddMaterialGatedOnManagement(t *testing.T) {
	repo := &fakeCourseRepo{course: &domain.Course{ID: 7, Owner: domain.OwnerRef{ID: "8"}}}
	svc := newCourseServiceWithSession(t, repo, `{"user_id":5,"role":"teacher"}`)

	input := port.MaterialInput{Title: "Intro"}
	if _, err := svc.AddMaterial(context.Background(), 7, input); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	repo.course.Owner = domain.OwnerRef{ID: "5"}
	material, err := svc.AddMaterial(context.Background(), 7, input)
	if err != nil {
		t.Fatalf("add material: %v", err)
	}
	if material.Title != "Intro" {
		t.Fatalf("unexpected material %+v", material)
	}
}

func TestAddMaterialRequiresTitle(t *testing.T) {
	repo := &fakeCourseRepo{course: &domain.Course{ID: 7, Owner: domain.OwnerRef{ID: "5"}}}
	svc := newCourseServiceWithSession(t, repo, `{"user_id":5,"role":"teacher"}`)

	if _, err := svc.AddMaterial(context.Background(), 7, port.MaterialInput{Title: "  "}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}
