package usecase

import "github.com/arklim/selfstudy-web/internal/core/domain"

// CanManage decides whether the identity may administer the course: edit it,
// add materials, or view the roster.
//
// Admins manage everything. Otherwise only the owner does: the role "teacher"
// grants nothing on courses the teacher does not own. Owner ids arrive
// normalized to strings (see domain.OwnerRef), so the comparison here is a
// plain string equality regardless of the wire shape.
//
// The decision is computed fresh for every evaluation and must not be cached:
// the owner field is re-normalized on each fetch and a cached decision can
// outlive the data it was derived from.
func CanManage(identity domain.Identity, course domain.Course) bool {
	if identity.Role == domain.RoleAdmin {
		return true
	}

	owner := course.Owner
	return owner.Present() && owner.ID == identity.SubjectID
}

// CanEnroll decides whether the enroll action is offered. Separate from
// management: only plain viewers who are not yet in the enrolled set get the
// control.
func CanEnroll(identity domain.Identity, course domain.Course) bool {
	if identity.Role == domain.RoleTeacher || identity.Role == domain.RoleAdmin {
		return false
	}
	return !course.IsEnrolled(identity.SubjectID)
}
