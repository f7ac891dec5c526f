package models

// CollegeOption is one entry of the college reference collection.
type CollegeOption struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Courses []string `json:"courses"`
}

// CollegeByName returns the college whose Name matches, if any.
func CollegeByName(colleges []CollegeOption, name string) (CollegeOption, bool) {
	for _, c := range colleges {
		if c.Name == name {
			return c, true
		}
	}
	return CollegeOption{}, false
}

// CoursesFor returns the course list of the named college, or nil when no
// college is chosen or the name is unknown.
func CoursesFor(colleges []CollegeOption, name string) []string {
	if name == "" {
		return nil
	}
	c, ok := CollegeByName(colleges, name)
	if !ok {
		return nil
	}
	return c.Courses
}
