package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func sampleCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := New(testNow)
	require.NoError(t, c.Add(College{ID: "city-college", Name: "City College", Courses: []string{"BCom", "BBA"}}, testNow))
	require.NoError(t, c.Add(College{ID: "hill-college", Name: "Hill College"}, testNow))
	return c
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "colleges.json")
	c := sampleCatalog(t)

	require.NoError(t, c.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", loaded.Version)
	assert.Equal(t, "2024-06-01T09:00:00Z", loaded.LastUpdated)
	require.Len(t, loaded.Colleges, 2)
	assert.Equal(t, []string{"BCom", "BBA"}, loaded.Colleges[0].Courses)
	assert.Equal(t, []string{}, loaded.Colleges[1].Courses)
}

func TestAdd_NilCoursesSavedAsEmptyList(t *testing.T) {
	c := New(testNow)
	require.NoError(t, c.Add(College{ID: "lake-college", Name: "Lake College"}, testNow))

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"courses":[]`)

	_, err = Parse(data)
	assert.NoError(t, err)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestParse_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"version":`},
		{"missing colleges", `{"version":"1.0.0"}`},
		{"bad id", `{"version":"1.0.0","colleges":[{"id":"City College","name":"City College"}]}`},
		{"empty name", `{"version":"1.0.0","colleges":[{"id":"city","name":""}]}`},
		{"numeric course", `{"version":"1.0.0","colleges":[{"id":"city","name":"City","courses":[1]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestAdd(t *testing.T) {
	c := sampleCatalog(t)
	later := testNow.Add(time.Hour)

	assert.ErrorContains(t, c.Add(College{ID: "city-college", Name: "Other"}, later), "already exists")
	assert.ErrorContains(t, c.Add(College{ID: "other", Name: "City College"}, later), "already exists as city-college")
	assert.Error(t, c.Add(College{ID: "x"}, later))
	assert.Equal(t, "2024-06-01T09:00:00Z", c.LastUpdated)

	require.NoError(t, c.Add(College{ID: "lake-college", Name: "Lake College"}, later))
	assert.Equal(t, "2024-06-01T10:00:00Z", c.LastUpdated)
	assert.Len(t, c.Colleges, 3)
}

func TestAddCourse(t *testing.T) {
	c := sampleCatalog(t)

	require.NoError(t, c.AddCourse("hill-college", " BSc Nursing ", testNow))
	assert.Equal(t, []string{"BSc Nursing"}, c.Colleges[1].Courses)

	assert.ErrorContains(t, c.AddCourse("hill-college", "BSc Nursing", testNow), "already offers")
	assert.ErrorContains(t, c.AddCourse("missing", "BA", testNow), "not found")
	assert.Error(t, c.AddCourse("hill-college", "  ", testNow))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, sampleCatalog(t).Validate())
	assert.ErrorContains(t, New(testNow).Validate(), "no colleges")

	dupID := sampleCatalog(t)
	dupID.Colleges = append(dupID.Colleges, College{ID: "city-college", Name: "Another"})
	assert.ErrorContains(t, dupID.Validate(), "duplicate college ID")

	dupName := sampleCatalog(t)
	dupName.Colleges = append(dupName.Colleges, College{ID: "another", Name: "Hill College"})
	assert.ErrorContains(t, dupName.Validate(), "duplicate college name")

	dupCourse := sampleCatalog(t)
	dupCourse.Colleges[0].Courses = append(dupCourse.Colleges[0].Courses, "BCom")
	assert.ErrorContains(t, dupCourse.Validate(), "lists BCom twice")
}

func TestCollege_Document(t *testing.T) {
	doc := College{ID: "hill-college", Name: "Hill College"}.Document()
	assert.Equal(t, "Hill College", doc.Name)
	assert.NotNil(t, doc.Courses)
	assert.Empty(t, doc.Courses)
}
