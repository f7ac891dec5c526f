// cmd/tools/college-seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"student-enrollment/internal/common/config"
	"student-enrollment/internal/common/logger"
	"student-enrollment/internal/store"
	"student-enrollment/pkg/catalog"
)

var catalogPath string

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	courseCmd := flag.NewFlagSet("add-course", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	pushCmd := flag.NewFlagSet("push", flag.ExitOnError)

	for _, fs := range []*flag.FlagSet{addCmd, courseCmd, listCmd, validateCmd, pushCmd} {
		fs.StringVar(&catalogPath, "path", "configs/colleges.json", "Path to catalog file")
	}

	// Add command flags
	idAdd := addCmd.String("id", "", "College ID (e.g., city-college)")
	name := addCmd.String("name", "", "Display name (e.g., City College)")
	courses := addCmd.String("courses", "", "Comma separated course names")

	// Add-course command flags
	idCourse := courseCmd.String("id", "", "College ID to extend")
	course := courseCmd.String("course", "", "Course name")

	// Push command flags
	collection := pushCmd.String("collection", "", "Target collection (defaults to enrollment.college_collection)")
	timeout := pushCmd.Duration("timeout", 30*time.Second, "Overall push timeout")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *name == "" {
			fmt.Println("Error: id and name are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		college := catalog.College{ID: *idAdd, Name: *name, Courses: splitCourses(*courses)}
		if err := addCollege(college); err != nil {
			fmt.Printf("Error adding college: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added college: %s\n", *idAdd)

	case "add-course":
		courseCmd.Parse(os.Args[2:])
		if *idCourse == "" || *course == "" {
			fmt.Println("Error: id and course are required for add-course.")
			courseCmd.Usage()
			os.Exit(1)
		}
		if err := addCourse(*idCourse, *course); err != nil {
			fmt.Printf("Error adding course: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added course %s to %s\n", *course, *idCourse)

	case "list":
		listCmd.Parse(os.Args[2:])
		cat, err := catalog.Load(catalogPath)
		if err != nil {
			fmt.Printf("Error loading catalog: %v\n", err)
			os.Exit(1)
		}
		for _, c := range cat.Colleges {
			fmt.Printf("%-24s %-32s %s\n", c.ID, c.Name, strings.Join(c.Courses, ", "))
		}

	case "validate":
		validateCmd.Parse(os.Args[2:])
		n, err := validateCatalog()
		if err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Catalog validation passed. Found %d colleges.\n", n)

	case "push":
		pushCmd.Parse(os.Args[2:])
		n, err := pushFromConfig(*collection, *timeout)
		if err != nil {
			fmt.Printf("Push failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Pushed %d colleges.\n", n)

	case "help":
		fallthrough
	default:
		help()
	}
}

func splitCourses(raw string) []string {
	out := []string{}
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func addCollege(college catalog.College) error {
	now := time.Now()
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		cat = catalog.New(now)
	}

	if err := cat.Add(college, now); err != nil {
		return err
	}
	return cat.Save(catalogPath)
}

func addCourse(id, course string) error {
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	if err := cat.AddCourse(id, course, time.Now()); err != nil {
		return err
	}
	return cat.Save(catalogPath)
}

func validateCatalog() (int, error) {
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return 0, fmt.Errorf("failed to load catalog: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return 0, err
	}
	return len(cat.Colleges), nil
}

func pushFromConfig(collection string, timeout time.Duration) (int, error) {
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return 0, fmt.Errorf("failed to load catalog: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return 0, err
	}

	cfg, err := config.Load()
	if err != nil {
		return 0, err
	}
	if collection == "" {
		collection = cfg.Enrollment.CollegeCollection
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	be, err := store.Open(ctx, cfg, log)
	if err != nil {
		return 0, err
	}
	defer be.Close()

	return push(ctx, be.Store, collection, cat, log)
}

// push writes every catalog college under its ID. Existing documents are
// overwritten; documents not in the catalog are left alone.
func push(ctx context.Context, st store.Store, collection string, cat *catalog.Catalog, log logger.Logger) (int, error) {
	for i, c := range cat.Colleges {
		doc, err := store.NewDocument(c.ID, c.Document())
		if err != nil {
			return i, err
		}
		if err := st.Set(ctx, collection, c.ID, doc); err != nil {
			return i, fmt.Errorf("write college %s: %w", c.ID, err)
		}
		log.Info("college written", map[string]interface{}{
			"collection": collection,
			"id":         c.ID,
			"courses":    len(c.Courses),
		})
	}
	return len(cat.Colleges), nil
}

func help() {
	fmt.Print(`
Usage: college-seeder <command> [flags]

Commands:
  add         Add a college to the catalog file
  add-course  Add a course to an existing college
  list        Print the catalog
  validate    Validate the catalog file
  push        Write the catalog into the configured document store
  help        Show this help message

Examples:
  college-seeder add -id city-college -name "City College" -courses "BCom,BBA"
  college-seeder add-course -id city-college -course "BCA"
  college-seeder validate -path configs/colleges.json
  college-seeder push -collection blr-college

Use 'college-seeder <command> -h' for more information about a command.

`)
}
