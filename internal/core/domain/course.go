package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OwnerRef is the course owner as delivered by the platform. The API is not
// consistent about the shape: some endpoints return a bare numeric id while
// others embed the owner object. Both forms normalize to a string id at
// decode time so no comparison downstream has to care.
type OwnerRef struct {
	ID   string
	Name string
}

// UnmarshalJSON accepts a bare number, a bare string, an embedded object with
// an id field, or null.
func (o *OwnerRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*o = OwnerRef{}
		return nil
	}

	switch trimmed[0] {
	case '{':
		var obj struct {
			ID   json.Number `json:"id"`
			Name string      `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("decode owner object: %w", err)
		}
		*o = OwnerRef{ID: obj.ID.String(), Name: obj.Name}
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("decode owner id: %w", err)
		}
		*o = OwnerRef{ID: strings.TrimSpace(id)}
	default:
		var id json.Number
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("decode owner id: %w", err)
		}
		*o = OwnerRef{ID: id.String()}
	}

	return nil
}

// MarshalJSON re-emits the normalized object form.
func (o OwnerRef) MarshalJSON() ([]byte, error) {
	if o.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name,omitempty"`
	}{ID: o.ID, Name: o.Name})
}

// Present reports whether the reference carries an owner id.
func (o OwnerRef) Present() bool {
	return o.ID != ""
}

// Course is a course resource. Owner is immutable after creation from the
// client's point of view.
type Course struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Owner       OwnerRef      `json:"owner"`
	Materials   []Material    `json:"materials,omitempty"`
	Enrolled    []json.Number `json:"enrolled_students,omitempty"`
}

// IsEnrolled reports whether the subject appears in the course's enrolled set.
func (c Course) IsEnrolled(subjectID string) bool {
	if subjectID == "" {
		return false
	}
	for _, id := range c.Enrolled {
		if id.String() == subjectID {
			return true
		}
	}
	return false
}

// EnrolledIDs returns the enrolled subject ids normalized to strings.
func (c Course) EnrolledIDs() []string {
	if len(c.Enrolled) == 0 {
		return nil
	}
	ids := make([]string, len(c.Enrolled))
	for i, id := range c.Enrolled {
		ids[i] = id.String()
	}
	return ids
}

// Material is a unit of course content, associated 1:N with a course.
type Material struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Illustration string `json:"illustration,omitempty"`
	VideoLink    string `json:"video_link,omitempty"`
}
