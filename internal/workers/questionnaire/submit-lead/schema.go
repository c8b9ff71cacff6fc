// internal/workers/questionnaire/submit-lead/schema.go
package submitlead

import "taxrefund-workers/internal/common/validation"

// inputSchema checks formats the step validator does not: the mobile phone
// pattern, the e-mail format and the enum codes.
var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["answers"],
	"properties": {
		"answers": {
			"type": "object",
			"required": ["personalDetails"],
			"properties": {
				"maritalStatus": {"enum": ["single", "married", "divorced", "widowed"]},
				"employmentStatus": {"enum": ["employed", "selfEmployed", "unemployed", "bothEmployedAndSelfEmployed"]},
				"income": {"enum": ["above7000", "below7000"]},
				"severancePayWithdrawn": {"type": "boolean"},
				"jobHistory": {"enum": ["changed", "same"]},
				"additionalCriteria": {"type": "array", "items": {"type": "string"}},
				"personalDetails": {
					"type": "object",
					"required": ["firstName", "lastName", "idNumber", "birthDate", "address", "phone", "email"],
					"properties": {
						"firstName": {"type": "string", "minLength": 1, "maxLength": 100},
						"lastName": {"type": "string", "minLength": 1, "maxLength": 100},
						"idNumber": {"type": "string", "pattern": "^\\s*\\d{9}\\s*$"},
						"birthDate": {"type": "string", "pattern": "^\\s*\\d{4}-\\d{2}-\\d{2}\\s*$"},
						"address": {"type": "string", "minLength": 1, "maxLength": 200},
						"phone": {"type": "string", "pattern": "^\\s*05\\d{8}\\s*$"},
						"email": {"type": "string", "pattern": "^\\s*[^\\s@]+@[^\\s@]+\\.[^\\s@]+\\s*$"}
					}
				}
			}
		}
	}
}`)
