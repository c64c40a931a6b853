package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{"string", `"665f1c2e9b1e8a3d4c2b1a00"`, "665f1c2e9b1e8a3d4c2b1a00", false},
		{"integer", `42`, "42", false},
		{"null", `null`, "", false},
		{"bool", `true`, "", true},
		{"object", `{"a":1}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", `"2026-03-01T12:00:00Z"`, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		{"naive", `"2026-03-01T12:00:00"`, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		{"naive with micros", `"2026-03-01T12:00:00.123456"`, time.Date(2026, 3, 1, 12, 0, 0, 123456000, time.UTC)},
		{"date only", `"2026-03-01"`, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"null", `null`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestCourse_UnmarshalJSON(t *testing.T) {
	payload := `{
		"_id": "c1",
		"name": "Distributed Systems",
		"description": "Consensus and friends",
		"owner": {"_id": "t1", "name": "Ada", "role": "teacher"},
		"teachers": [{"id": "t1", "name": "Ada"}, {"_id": "t2", "name": "Grace"}],
		"students": [{"_id": "s1"}, {"id": 42}],
		"archived": true
	}`

	var c Course
	require.NoError(t, json.Unmarshal([]byte(payload), &c))

	assert.Equal(t, ID("c1"), c.ID)
	require.NotNil(t, c.Owner)
	assert.Equal(t, ID("t1"), c.Owner.ID)
	assert.Equal(t, []string{"Ada", "Grace"}, c.TeacherNames())
	assert.True(t, c.HasStudent("s1"))
	assert.True(t, c.HasStudent("42"))
	assert.False(t, c.HasStudent("s2"))
	assert.True(t, c.Archived)
}

func TestCoursePage_UnmarshalJSON(t *testing.T) {
	var page CoursePage
	require.NoError(t, json.Unmarshal([]byte(`{"courses":[{"id":"c1","name":"Go","description":"","teachers":[]}],"totalPages":3}`), &page))

	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Courses, 1)
	assert.Equal(t, ID("c1"), page.Courses[0].ID)
}

func TestAssignment_CompletedBy(t *testing.T) {
	payload := `{
		"_id": "a1",
		"title": "Raft",
		"deadline": "2026-04-01T23:59:00",
		"course_id": "c1",
		"teacher": {"_id": "t1", "name": "Ada", "role": "teacher"},
		"students_completed": [{"student_id": "s1", "student_name": "Lin", "completed_at": "2026-03-02T10:00:00"}]
	}`

	var a Assignment
	require.NoError(t, json.Unmarshal([]byte(payload), &a))

	assert.Equal(t, ID("a1"), a.ID)
	require.NotNil(t, a.Deadline)
	assert.Equal(t, 2026, a.Deadline.Year())
	assert.True(t, a.CompletedBy("s1"))
	assert.False(t, a.CompletedBy("s2"))
}

func TestMaterial_UnmarshalJSON(t *testing.T) {
	var m Material
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"m1","title":"Slides","file_url":"uploads/s.pdf","file_type":"application/pdf","file_size":2048,"course_id":"c1","uploaded_at":"2026-03-01T09:00:00"}`), &m))

	assert.Equal(t, ID("m1"), m.ID)
	assert.Equal(t, int64(2048), m.FileSize)
	assert.Equal(t, ID("c1"), m.CourseID)
}

func TestUser_FullName(t *testing.T) {
	tests := []struct {
		user User
		want string
	}{
		{User{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{User{FirstName: "Ada"}, "Ada"},
		{User{LastName: "Lovelace"}, "Lovelace"},
		{User{}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.user.FullName())
	}
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
}
