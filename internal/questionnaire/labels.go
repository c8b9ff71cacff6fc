package questionnaire

// Hebrew display labels used in the lead summary and score breakdown.

var maritalLabels = map[MaritalStatus]string{
	MaritalMarried:  "נשוי/אה",
	MaritalSingle:   "רווק/ה",
	MaritalDivorced: "גרוש/ה",
	MaritalWidowed:  "אלמן/ה",
}

var employmentLabels = map[EmploymentStatus]string{
	EmploymentEmployed:     "שכיר",
	EmploymentSelfEmployed: "עצמאי",
	EmploymentBoth:         "שכיר + עצמאי",
	EmploymentUnemployed:   "לא עובד",
}

var incomeLabels = map[Income]string{
	IncomeAbove7000: `מעל 7,000 ש"ח`,
	IncomeBelow7000: `מתחת ל-7,000 ש"ח`,
}

var criterionLabels = map[Criterion]string{
	CriterionPensionWithdrawal: "משיכת כספי פנסיה / פיצויים",
	CriterionUnemployment:      "קבלת דמי אבטלה",
	CriterionPropertyTax:       "מכירת נכס",
	CriterionSecurities:        "מסחר בניירות ערך",
	CriterionRentalIncome:      "הכנסה משכר דירה",
	CriterionOver60:            "גיל 60 ומעלה",
	CriterionLifeInsurance:     "ביטוח חיים",
	CriterionPensionDeposit:    "הפקדה לקופת גמל",
	CriterionDonations:         "תרומות",
	CriterionDisability:        "נכות",
	CriterionMilitaryService:   `שחרור מצה"ל`,
	CriterionEducation:         "סיום לימודים",
	CriterionNewImmigrant:      "עלייה חדשה",
}

var tierLabels = map[Tier]string{
	TierVeryStrong: "ליד איכותי מאוד",
	TierStrong:     "ליד איכותי",
	TierMedium:     "ליד בינוני",
	TierWeak:       "ליד חלש",
}

func (m MaritalStatus) Label() string    { return maritalLabels[m] }
func (e EmploymentStatus) Label() string { return employmentLabels[e] }
func (i Income) Label() string           { return incomeLabels[i] }

// Label falls back to the raw code for unknown criteria.
func (c Criterion) Label() string {
	if l, ok := criterionLabels[c]; ok {
		return l
	}
	return string(c)
}

func (t Tier) Label() string { return tierLabels[t] }

func yesNoLabel(v *bool) string {
	switch {
	case v == nil:
		return ""
	case *v:
		return "כן"
	default:
		return "לא"
	}
}
