package models

import "encoding/json"

// Course is a course as returned by the backend
type Course struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Owner       *Member  `json:"owner,omitempty"`
	Teachers    []Member `json:"teachers,omitempty"`
	Students    []Member `json:"students,omitempty"`
	Archived    bool     `json:"archived"`
}

// UnmarshalJSON accepts the id under either "id" or "_id"
func (c *Course) UnmarshalJSON(data []byte) error {
	type alias Course
	aux := struct {
		*alias
		MongoID ID `json:"_id"`
	}{alias: (*alias)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = aux.MongoID
	}
	return nil
}

// HasStudent reports whether the user with id is enrolled
func (c *Course) HasStudent(id ID) bool {
	for _, s := range c.Students {
		if s.ID == id {
			return true
		}
	}
	return false
}

// TeacherNames lists the course instructors
func (c *Course) TeacherNames() []string {
	names := make([]string, 0, len(c.Teachers))
	for _, t := range c.Teachers {
		names = append(names, t.Name)
	}
	return names
}

// CoursePage is one page of GET /courses
type CoursePage struct {
	Courses    []Course `json:"courses"`
	TotalPages int      `json:"totalPages"`
}

// CourseUpdate is the body of PUT /courses/{id}
type CourseUpdate struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Archived    bool   `json:"archived"`
}

// CourseArchive is the body of PATCH /courses/{id}/archive
type CourseArchive struct {
	Archived bool `json:"archived"`
}
