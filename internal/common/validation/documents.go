package validation

// CollegeSchema describes a document of the college collection. Courses may
// be absent; extra keys are allowed.
var CollegeSchema = MustCompile("college", `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"courses": {
			"type": "array",
			"items": {"type": "string", "minLength": 1}
		}
	}
}`)

// StudentPayloadSchema describes the JSON body accepted by the enrollment
// API. It only checks shape; field rules live in the enrollment validator.
var StudentPayloadSchema = MustCompile("student-payload", `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["studentId"],
	"additionalProperties": {"type": "string"},
	"properties": {
		"studentId": {"type": "string"},
		"reference": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"userType": {"type": "string", "enum": ["", "Direct", "Associate", "Consultancy"]},
				"userName": {"type": "string"},
				"consultancyName": {"type": "string"}
			}
		}
	}
}`)

// CatalogSchema describes the college catalog file maintained by the seeder.
var CatalogSchema = MustCompile("college-catalog", `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["version", "colleges"],
	"properties": {
		"version": {"type": "string"},
		"lastUpdated": {"type": "string"},
		"colleges": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "name"],
				"properties": {
					"id": {"type": "string", "pattern": "^[a-z0-9][a-z0-9-]*$"},
					"name": {"type": "string", "minLength": 1},
					"courses": {"type": "array", "items": {"type": "string", "minLength": 1}}
				}
			}
		}
	}
}`)
