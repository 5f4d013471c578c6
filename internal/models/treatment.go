package models

// Treatment is a single treatment recommendation for a disease. Fields vary
// by treatment type, so most are optional.
type Treatment struct {
	Type               string `json:"type"`
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	Dosage             string `json:"dosage,omitempty"`
	Frequency          string `json:"frequency,omitempty"`
	Safety             string `json:"safety,omitempty"`
	OrganicAlternative string `json:"organic_alternative,omitempty"`
	Effectiveness      string `json:"effectiveness,omitempty"`
	Contact            string `json:"contact,omitempty"`
}

// CaseSummary is a reference to a historical case of the same disease.
type CaseSummary struct {
	CaseID           string `json:"case_id"`
	Location         string `json:"location"`
	Date             string `json:"date"`
	Severity         string `json:"severity"`
	TreatmentApplied string `json:"treatment_applied"`
	Outcome          string `json:"outcome"`
}
