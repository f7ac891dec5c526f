package models

// Select-list values offered by the details form.
var (
	GenderOptions            = []string{"Male", "Female", "Other"}
	ReligionOptions          = []string{"Hindu", "Muslim", "Christian", "Other"}
	LastQualificationOptions = []string{"SSLC", "Plus Two", "Degree", "Diploma"}
)

// ReferenceTypeOptions returns ReferenceTypes as plain strings.
func ReferenceTypeOptions() []string {
	out := make([]string, 0, len(ReferenceTypes))
	for _, t := range ReferenceTypes {
		out = append(out, string(t))
	}
	return out
}
