// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"student-enrollment/internal/common/validation"
)

// New returns an empty catalog stamped with now.
func New(now time.Time) *Catalog {
	return &Catalog{
		Version:     "1.0.0",
		LastUpdated: now.Format(time.RFC3339),
		Colleges:    []College{},
	}
}

// Load reads path and checks it against the catalog schema.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	res, err := validation.CatalogSchema.ValidateBytes(data)
	if err != nil {
		return nil, fmt.Errorf("catalog is not valid JSON: %w", err)
	}
	if !res.Valid {
		msgs := make([]string, 0, len(res.Errors))
		for _, e := range res.Errors {
			msgs = append(msgs, e.Field+": "+e.Message)
		}
		return nil, fmt.Errorf("catalog does not match schema: %s", strings.Join(msgs, "; "))
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Save writes the catalog as indented JSON, creating parent directories.
func (c *Catalog) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}

func (c *Catalog) find(id string) int {
	for i := range c.Colleges {
		if c.Colleges[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends a college. IDs and names must be unique.
func (c *Catalog) Add(college College, now time.Time) error {
	if college.ID == "" || college.Name == "" {
		return fmt.Errorf("college id and name are required")
	}
	if c.find(college.ID) >= 0 {
		return fmt.Errorf("college with ID %s already exists", college.ID)
	}
	for _, existing := range c.Colleges {
		if existing.Name == college.Name {
			return fmt.Errorf("college named %q already exists as %s", college.Name, existing.ID)
		}
	}

	if college.Courses == nil {
		college.Courses = []string{}
	}
	c.Colleges = append(c.Colleges, college)
	c.LastUpdated = now.Format(time.RFC3339)
	return nil
}

// AddCourse appends course to the college with id. Adding a course twice is
// an error.
func (c *Catalog) AddCourse(id, course string, now time.Time) error {
	i := c.find(id)
	if i < 0 {
		return fmt.Errorf("college with ID %s not found", id)
	}
	course = strings.TrimSpace(course)
	if course == "" {
		return fmt.Errorf("course name is required")
	}
	for _, existing := range c.Colleges[i].Courses {
		if existing == course {
			return fmt.Errorf("college %s already offers %s", id, course)
		}
	}

	c.Colleges[i].Courses = append(c.Colleges[i].Courses, course)
	c.LastUpdated = now.Format(time.RFC3339)
	return nil
}

// Validate checks the rules the schema cannot express: at least one college,
// unique IDs, unique names and no repeated course within a college.
func (c *Catalog) Validate() error {
	if len(c.Colleges) == 0 {
		return fmt.Errorf("catalog contains no colleges")
	}

	ids := make(map[string]bool)
	names := make(map[string]bool)
	for _, college := range c.Colleges {
		if ids[college.ID] {
			return fmt.Errorf("duplicate college ID: %s", college.ID)
		}
		ids[college.ID] = true

		if names[college.Name] {
			return fmt.Errorf("duplicate college name: %s", college.Name)
		}
		names[college.Name] = true

		courses := make(map[string]bool)
		for _, course := range college.Courses {
			if courses[course] {
				return fmt.Errorf("college %s lists %s twice", college.ID, course)
			}
			courses[course] = true
		}
	}
	return nil
}
