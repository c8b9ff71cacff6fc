// Package questionnaire holds the tax-refund qualification engine: the answer
// model, lead scoring, eligibility gates, step validation and the lead summary.
//
// Every function in this package is pure. Callers own the AnswerSet and pass
// snapshots by value; nothing here mutates or caches state between calls.
package questionnaire

import (
	"encoding/json"
	"strings"
)

type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "single"
	MaritalMarried  MaritalStatus = "married"
	MaritalDivorced MaritalStatus = "divorced"
	MaritalWidowed  MaritalStatus = "widowed"
)

func (m MaritalStatus) Valid() bool {
	switch m {
	case MaritalSingle, MaritalMarried, MaritalDivorced, MaritalWidowed:
		return true
	}
	return false
}

type EmploymentStatus string

const (
	EmploymentEmployed     EmploymentStatus = "employed"
	EmploymentSelfEmployed EmploymentStatus = "selfEmployed"
	EmploymentUnemployed   EmploymentStatus = "unemployed"
	EmploymentBoth         EmploymentStatus = "bothEmployedAndSelfEmployed"

	// legacyNotEmployed is the code older form builds sent for "did not work".
	legacyNotEmployed EmploymentStatus = "notEmployed"
)

func (e EmploymentStatus) Valid() bool {
	switch e {
	case EmploymentEmployed, EmploymentSelfEmployed, EmploymentUnemployed, EmploymentBoth:
		return true
	}
	return false
}

// UnmarshalJSON normalizes the legacy "notEmployed" code.
func (e *EmploymentStatus) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*e = normalizeEmployment(EmploymentStatus(s))
	return nil
}

// UnmarshalYAML normalizes the legacy code for answer files.
func (e *EmploymentStatus) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	*e = normalizeEmployment(EmploymentStatus(s))
	return nil
}

func normalizeEmployment(e EmploymentStatus) EmploymentStatus {
	if e == legacyNotEmployed {
		return EmploymentUnemployed
	}
	return e
}

type Income string

const (
	IncomeAbove7000 Income = "above7000"
	IncomeBelow7000 Income = "below7000"
)

func (i Income) Valid() bool {
	return i == IncomeAbove7000 || i == IncomeBelow7000
}

type JobHistory string

const (
	JobHistoryChanged JobHistory = "changed"
	JobHistorySame    JobHistory = "same"
)

func (j JobHistory) Valid() bool {
	return j == JobHistoryChanged || j == JobHistorySame
}

// Criterion is one of the additional qualifying life events.
type Criterion string

const (
	CriterionPensionWithdrawal Criterion = "pensionWithdrawal"
	CriterionUnemployment      Criterion = "unemployment"
	CriterionPropertyTax       Criterion = "propertyTax"
	CriterionSecurities        Criterion = "securities"
	CriterionRentalIncome      Criterion = "rentalIncome"
	CriterionOver60            Criterion = "over60"
	CriterionLifeInsurance     Criterion = "lifeInsurance"
	CriterionPensionDeposit    Criterion = "pensionDeposit"
	CriterionDonations         Criterion = "donations"
	CriterionDisability        Criterion = "disability"
	CriterionMilitaryService   Criterion = "militaryService"
	CriterionEducation         Criterion = "education"
	CriterionNewImmigrant      Criterion = "newImmigrant"
)

// CriteriaVocabulary lists every recognized criterion in display order.
var CriteriaVocabulary = []Criterion{
	CriterionPensionWithdrawal,
	CriterionUnemployment,
	CriterionPropertyTax,
	CriterionSecurities,
	CriterionRentalIncome,
	CriterionOver60,
	CriterionLifeInsurance,
	CriterionPensionDeposit,
	CriterionDonations,
	CriterionDisability,
	CriterionMilitaryService,
	CriterionEducation,
	CriterionNewImmigrant,
}

func (c Criterion) Valid() bool {
	for _, known := range CriteriaVocabulary {
		if c == known {
			return true
		}
	}
	return false
}

// ContactDetails is collected on the last step.
type ContactDetails struct {
	FirstName  string `json:"firstName" yaml:"firstName"`
	LastName   string `json:"lastName" yaml:"lastName"`
	NationalID string `json:"idNumber" yaml:"idNumber"`
	BirthDate  string `json:"birthDate" yaml:"birthDate"` // YYYY-MM-DD
	Address    string `json:"address" yaml:"address"`
	Phone      string `json:"phone" yaml:"phone"`
	Email      string `json:"email" yaml:"email"`

	MarketingConsent bool `json:"marketingConsent,omitempty" yaml:"marketingConsent,omitempty"`
	TermsAccepted    bool `json:"termsAccepted,omitempty" yaml:"termsAccepted,omitempty"`
}

// FullName joins the trimmed first and last names.
func (c ContactDetails) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// AnswerSet is the accumulated questionnaire state.
type AnswerSet struct {
	MaritalStatus         MaritalStatus    `json:"maritalStatus,omitempty" yaml:"maritalStatus,omitempty"`
	EmploymentStatus      EmploymentStatus `json:"employmentStatus,omitempty" yaml:"employmentStatus,omitempty"`
	Income                Income           `json:"income,omitempty" yaml:"income,omitempty"`
	SeverancePayWithdrawn *bool            `json:"severancePayWithdrawn,omitempty" yaml:"severancePayWithdrawn,omitempty"`
	JobHistory            JobHistory       `json:"jobHistory,omitempty" yaml:"jobHistory,omitempty"`
	AdditionalCriteria    []Criterion      `json:"additionalCriteria,omitempty" yaml:"additionalCriteria,omitempty"`
	ContactDetails        ContactDetails   `json:"personalDetails" yaml:"personalDetails"`
}

// RecognizedCriteria returns the distinct recognized criteria in the order
// they were selected. Unknown codes are dropped.
func (a AnswerSet) RecognizedCriteria() []Criterion {
	seen := make(map[Criterion]bool, len(a.AdditionalCriteria))
	out := make([]Criterion, 0, len(a.AdditionalCriteria))
	for _, c := range a.AdditionalCriteria {
		if !c.Valid() || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// WithCriteria returns a copy with the criteria replaced. The input slice is
// copied so later changes by the caller do not leak into the snapshot.
func (a AnswerSet) WithCriteria(criteria ...Criterion) AnswerSet {
	a.AdditionalCriteria = append([]Criterion(nil), criteria...)
	return a
}

// WithSeverancePay returns a copy with the severance answer set.
func (a AnswerSet) WithSeverancePay(withdrawn bool) AnswerSet {
	v := withdrawn
	a.SeverancePayWithdrawn = &v
	return a
}

// Clone returns a deep copy of the answer set.
func (a AnswerSet) Clone() AnswerSet {
	out := a
	if a.AdditionalCriteria != nil {
		out.AdditionalCriteria = append([]Criterion(nil), a.AdditionalCriteria...)
	}
	if a.SeverancePayWithdrawn != nil {
		v := *a.SeverancePayWithdrawn
		out.SeverancePayWithdrawn = &v
	}
	return out
}

// Bool returns a pointer to v, for building answer sets in code.
func Bool(v bool) *bool {
	return &v
}
