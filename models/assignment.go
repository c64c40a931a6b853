package models

import "encoding/json"

// Completion records a student finishing an assignment
type Completion struct {
	StudentID   ID        `json:"student_id"`
	StudentName string    `json:"student_name,omitempty"`
	CompletedAt Timestamp `json:"completed_at"`
}

// Assignment is an assignment as returned by the backend
type Assignment struct {
	ID                ID           `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description,omitempty"`
	Deadline          *Timestamp   `json:"deadline,omitempty"`
	CourseID          ID           `json:"course_id"`
	Teacher           *Member      `json:"teacher,omitempty"`
	StudentsCompleted []Completion `json:"students_completed,omitempty"`
}

// UnmarshalJSON accepts the id under either "id" or "_id"
func (a *Assignment) UnmarshalJSON(data []byte) error {
	type alias Assignment
	aux := struct {
		*alias
		MongoID ID `json:"_id"`
	}{alias: (*alias)(a)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = aux.MongoID
	}
	return nil
}

// CompletedBy reports whether the student has completed the assignment
func (a *Assignment) CompletedBy(studentID ID) bool {
	for _, c := range a.StudentsCompleted {
		if c.StudentID == studentID {
			return true
		}
	}
	return false
}

// AssignmentCreate is the body of POST /assignments
type AssignmentCreate struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description,omitempty"`
	Deadline    *Timestamp `json:"deadline,omitempty"`
	TeacherID   string     `json:"teacher_id" validate:"required"`
	CourseID    string     `json:"course_id" validate:"required"`
}
