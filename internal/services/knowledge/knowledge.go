package knowledge

import (
	"context"

	"github.com/mkulima-ai/leafscan/internal/models"
)

// Library maps disease labels to treatment entries and reference cases.
// Implementations never fail outward and never return an empty treatment
// list: an unknown label yields exactly one generic fallback entry, which
// keeps the diagnosis enrichment step unconditional.
type Library interface {
	RecommendationsFor(ctx context.Context, disease string) []models.Treatment
	SimilarCasesFor(ctx context.Context, disease string, limit int) []models.CaseSummary
}

// StaticLibrary serves treatments and cases from an in-memory table. It is
// the default knowledge source; a database- or service-backed Library can
// be swapped in behind the same interface.
type StaticLibrary struct {
	treatments map[string][]models.Treatment
	cases      map[string][]models.CaseSummary
}

func NewStaticLibrary() *StaticLibrary {
	return &StaticLibrary{
		treatments: seedTreatments(),
		cases:      seedCases(),
	}
}

func (l *StaticLibrary) RecommendationsFor(ctx context.Context, disease string) []models.Treatment {
	if entries, ok := l.treatments[disease]; ok {
		return entries
	}
	return []models.Treatment{fallbackTreatment(disease)}
}

func (l *StaticLibrary) SimilarCasesFor(ctx context.Context, disease string, limit int) []models.CaseSummary {
	cases, ok := l.cases[disease]
	if !ok {
		cases = l.cases["general"]
	}
	if limit > 0 && limit < len(cases) {
		cases = cases[:limit]
	}
	return cases
}

func fallbackTreatment(disease string) models.Treatment {
	return models.Treatment{
		Type:        "general",
		Name:        "Consult agricultural expert",
		Description: "No specific treatment found for " + disease + ". Please consult your local agricultural extension officer.",
		Contact:     "Call 0111-222-333 for expert advice",
	}
}

func seedTreatments() map[string][]models.Treatment {
	return map[string][]models.Treatment{
		"tomato_early_blight": {
			{
				Type:               "chemical",
				Name:               "Chlorothalonil",
				Dosage:             "Apply 1-2 lbs per acre",
				Frequency:          "Every 7-10 days",
				Safety:             "Wear protective equipment",
				OrganicAlternative: "Copper-based fungicides",
			},
			{
				Type:          "cultural",
				Name:          "Crop rotation",
				Description:   "Rotate with non-solanaceous crops",
				Effectiveness: "High",
			},
		},
		"maize_rust": {
			{
				Type:      "chemical",
				Name:      "Triazole fungicides",
				Dosage:    "Apply as per manufacturer instructions",
				Frequency: "At first sign of disease",
				Safety:    "Follow label instructions",
			},
		},
		"healthy": {
			{
				Type:        "preventive",
				Name:        "Routine monitoring",
				Description: "No disease detected. Continue regular scouting and balanced fertilization.",
			},
		},
	}
}

func seedCases() map[string][]models.CaseSummary {
	general := []models.CaseSummary{
		{
			CaseID:           "case_001",
			Location:         "Central Province",
			Date:             "2023-10-15",
			Severity:         "medium",
			TreatmentApplied: "Copper fungicide",
			Outcome:          "Recovered",
		},
		{
			CaseID:           "case_002",
			Location:         "Rift Valley",
			Date:             "2023-09-22",
			Severity:         "high",
			TreatmentApplied: "Systemic fungicide",
			Outcome:          "Partial recovery",
		},
	}
	return map[string][]models.CaseSummary{
		"general": general,
		"tomato_early_blight": {
			{
				CaseID:           "case_010",
				Location:         "Central Province",
				Date:             "2023-11-02",
				Severity:         "medium",
				TreatmentApplied: "Chlorothalonil",
				Outcome:          "Recovered",
			},
		},
	}
}
