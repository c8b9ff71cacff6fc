package questionnaire

import (
	"strings"
	"time"
)

// Step indexes of the questionnaire.
const (
	StepMaritalStatus = iota
	StepEmploymentStatus
	StepIncome
	StepJobHistory
	StepAdditionalCriteria
	StepContactDetails

	StepCount
)

// MinimumAge is the youngest applicant accepted on the contact step.
const MinimumAge = 18

// BirthDateLayout is the wire format of ContactDetails.BirthDate.
const BirthDateLayout = "2006-01-02"

// Field error codes.
const (
	CodeMissingRequired = "MISSING_REQUIRED"
	CodeInvalidFormat   = "INVALID_FORMAT"
	CodeInvalidChecksum = "INVALID_CHECKSUM"
	CodeUnderage        = "UNDERAGE"
	CodeFutureDate      = "FUTURE_DATE"
	CodeUnknownStep     = "UNKNOWN_STEP"
)

// FieldError describes one reason a step is incomplete.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// IsStepComplete reports whether the step's required answers are present
// under the canonical policy.
func IsStepComplete(step int, answers AnswerSet) bool {
	return DefaultPolicy.IsStepComplete(step, answers)
}

// IsStepComplete reports whether the step's required answers are present.
func (p Policy) IsStepComplete(step int, answers AnswerSet) bool {
	return len(p.StepErrors(step, answers)) == 0
}

// StepErrors lists what blocks the step under the canonical policy.
func StepErrors(step int, answers AnswerSet) []FieldError {
	return DefaultPolicy.StepErrors(step, answers)
}

// StepErrors lists what blocks the step. An empty result means complete.
func (p Policy) StepErrors(step int, answers AnswerSet) []FieldError {
	var errs []FieldError
	missing := func(field, message string) {
		errs = append(errs, FieldError{Field: field, Code: CodeMissingRequired, Message: message})
	}

	switch step {
	case StepMaritalStatus:
		if !answers.MaritalStatus.Valid() {
			missing("maritalStatus", "נא לבחור מצב משפחתי")
		}
	case StepEmploymentStatus:
		if !normalizeEmployment(answers.EmploymentStatus).Valid() {
			missing("employmentStatus", "נא לבחור סטטוס תעסוקה")
		}
	case StepIncome:
		if !answers.Income.Valid() {
			missing("income", "נא לבחור טווח הכנסה")
		}
		if p.AskSeverancePay && answers.SeverancePayWithdrawn == nil {
			missing("severancePayWithdrawn", "נא לענות על שאלת כספי הפיצויים")
		}
	case StepJobHistory:
		if !answers.JobHistory.Valid() {
			missing("jobHistory", "נא לבחור האם החלפת מקום עבודה")
		}
	case StepAdditionalCriteria:
		// optional
	case StepContactDetails:
		errs = append(errs, contactErrors(answers.ContactDetails)...)
	default:
		errs = append(errs, FieldError{Field: "step", Code: CodeUnknownStep, Message: "שלב לא קיים"})
	}
	return errs
}

func contactErrors(c ContactDetails) []FieldError {
	var errs []FieldError
	required := []struct {
		field string
		value string
	}{
		{"firstName", c.FirstName},
		{"lastName", c.LastName},
		{"idNumber", c.NationalID},
		{"birthDate", c.BirthDate},
		{"address", c.Address},
		{"phone", c.Phone},
		{"email", c.Email},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, FieldError{Field: "personalDetails." + r.field, Code: CodeMissingRequired, Message: "שדה חובה"})
		}
	}

	if id := strings.TrimSpace(c.NationalID); id != "" {
		if !isNineDigits(id) {
			errs = append(errs, FieldError{Field: "personalDetails.idNumber", Code: CodeInvalidFormat, Message: "מספר תעודת זהות חייב להכיל 9 ספרות"})
		} else if !ValidNationalID(id) {
			errs = append(errs, FieldError{Field: "personalDetails.idNumber", Code: CodeInvalidChecksum, Message: "מספר תעודת זהות לא תקין"})
		}
	}

	if bd := strings.TrimSpace(c.BirthDate); bd != "" {
		if fe := birthDateError(bd, timeNow()); fe != nil {
			errs = append(errs, *fe)
		}
	}
	return errs
}

func birthDateError(value string, now time.Time) *FieldError {
	birth, err := time.Parse(BirthDateLayout, value)
	if err != nil {
		return &FieldError{Field: "personalDetails.birthDate", Code: CodeInvalidFormat, Message: "תאריך לידה לא תקין"}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if birth.After(today) {
		return &FieldError{Field: "personalDetails.birthDate", Code: CodeFutureDate, Message: "תאריך לא יכול להיות עתידי"}
	}
	if !IsAdult(birth, now) {
		return &FieldError{Field: "personalDetails.birthDate", Code: CodeUnderage, Message: "גיל מינימלי הוא 18"}
	}
	return nil
}

// IsAdult reports whether someone born on birth is at least MinimumAge on now's date.
// On Feb 29 the cutoff is Feb 28 when the cutoff year has no leap day.
func IsAdult(birth, now time.Time) bool {
	cutoff := time.Date(now.Year()-MinimumAge, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if cutoff.Month() != now.Month() {
		cutoff = time.Date(cutoff.Year(), cutoff.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	}
	b := time.Date(birth.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	return !b.After(cutoff)
}

// ValidNationalID checks a 9-digit ID number: each digit is weighted 1,2,1,2...,
// products above 9 have 9 subtracted, and the sum must be divisible by 10.
func ValidNationalID(id string) bool {
	if !isNineDigits(id) {
		return false
	}
	sum := 0
	for i, r := range id {
		v := int(r-'0') * (i%2 + 1)
		if v > 9 {
			v -= 9
		}
		sum += v
	}
	return sum%10 == 0
}

func isNineDigits(s string) bool {
	if len(s) != 9 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
