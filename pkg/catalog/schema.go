// pkg/catalog/schema.go
package catalog

// Catalog is the versioned file of colleges seeded into the reference
// collection.
type Catalog struct {
	Version     string    `json:"version"`
	LastUpdated string    `json:"lastUpdated"`
	Colleges    []College `json:"colleges"`
}

// College is one catalog entry. ID becomes the document key.
type College struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Courses []string `json:"courses"`
}

// Document is the stored body of a college; the key is not repeated.
type Document struct {
	Name    string   `json:"name"`
	Courses []string `json:"courses"`
}

func (c College) Document() Document {
	courses := c.Courses
	if courses == nil {
		courses = []string{}
	}
	return Document{Name: c.Name, Courses: courses}
}
