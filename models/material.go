package models

import "encoding/json"

// Material is a study material attached to a course
type Material struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	FileURL     string    `json:"file_url"`
	FileType    string    `json:"file_type"`
	FileSize    int64     `json:"file_size"`
	CourseID    ID        `json:"course_id"`
	UploadedAt  Timestamp `json:"uploaded_at"`
}

// UnmarshalJSON accepts the id under either "id" or "_id"
func (m *Material) UnmarshalJSON(data []byte) error {
	type alias Material
	aux := struct {
		*alias
		MongoID ID `json:"_id"`
	}{alias: (*alias)(m)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = aux.MongoID
	}
	return nil
}

// MaterialCreate describes an upload to POST /materials
type MaterialCreate struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description,omitempty"`
	CourseID    string `json:"course_id" validate:"required"`
	FileName    string `json:"file_name" validate:"required"`
}
