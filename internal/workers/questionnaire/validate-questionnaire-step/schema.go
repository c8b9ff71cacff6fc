// internal/workers/questionnaire/validate-questionnaire-step/schema.go
package validatequestionnairestep

import "taxrefund-workers/internal/common/validation"

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["step", "answers"],
	"properties": {
		"step": {"type": "integer", "minimum": 0},
		"answers": {"type": "object"}
	}
}`)
