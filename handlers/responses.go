package handlers

import (
	"math"
	"slices"
	"time"

	"github.com/giygas/immunization-calendar/catalog/entities"
	"github.com/giygas/immunization-calendar/interfaces"
)

// DiseaseResponse is the JSON form of a disease
type DiseaseResponse struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Recommendation string `json:"recommendation"`
	DefaultVaccine int    `json:"default_vaccine"`
	Checked        bool   `json:"checked"`
}

// DoseSchemeResponse is the JSON form of a dosing scheme. Offsets are in days.
type DoseSchemeResponse struct {
	DoseCount          int                          `json:"dose_count"`
	MinOffsets         map[int]int                  `json:"min_offsets,omitempty"`
	RecommendedOffsets map[int]entities.OffsetRange `json:"recommended_offsets,omitempty"`
	MaxAgeDays         *int                         `json:"max_age_days,omitempty"` // absent when unbounded
}

// VaccineResponse is the JSON form of a vaccine
type VaccineResponse struct {
	ID                 int                  `json:"id"`
	Name               string               `json:"name"`
	Description        string               `json:"description,omitempty"`
	Diseases           []int                `json:"diseases"`
	Tags               []string             `json:"tags"`
	Selected           bool                 `json:"selected"`
	DoseNames          []string             `json:"dose_names"`
	Scheme             DoseSchemeResponse   `json:"scheme"`
	AlternativeSchemes []DoseSchemeResponse `json:"alternative_schemes,omitempty"`
}

// SchemeResponse is the JSON form of a base scheme in listings
type SchemeResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Checked  bool   `json:"checked"`
	Diseases []int  `json:"diseases"`
	Vaccines []int  `json:"vaccines"`
}

// SchemeDetailResponse is a base scheme with its records expanded
type SchemeDetailResponse struct {
	ID       int               `json:"id"`
	Name     string            `json:"name"`
	Checked  bool              `json:"checked"`
	Diseases []DiseaseResponse `json:"diseases"`
	Vaccines []VaccineResponse `json:"vaccines"`
}

// SelectionResponse lists what the user has currently chosen
type SelectionResponse struct {
	ActiveScheme     *int  `json:"active_scheme"`
	SelectedVaccines []int `json:"selected_vaccines"`
	CheckedSchemes   []int `json:"checked_schemes"`
	CheckedDiseases  []int `json:"checked_diseases"`
}

// SubmissionResponse acknowledges a form submission
type SubmissionResponse struct {
	SubmissionID string   `json:"submission_id"`
	ReceivedAt   string   `json:"received_at"`
	Vaccines     []string `json:"vaccines"`
}

// HealthResponse is the body of /health
type HealthResponse struct {
	Status string         `json:"status"`
	Data   map[string]any `json:"data"`
}

type selectedRequest struct {
	Selected *bool `json:"selected"`
}

type checkedRequest struct {
	Checked *bool `json:"checked"`
}

type schemeIndexRequest struct {
	Index *int `json:"index"`
}

type formRequest struct {
	Fields map[string]string `json:"fields"`
}

func newDiseaseResponse(d *entities.Disease) DiseaseResponse {
	return DiseaseResponse{
		ID:             int(d.ID),
		Name:           d.Name,
		Recommendation: string(d.Recommendation),
		DefaultVaccine: int(d.DefaultVaccine()),
		Checked:        d.Checked(),
	}
}

func newDoseSchemeResponse(s entities.VaccineScheme) DoseSchemeResponse {
	resp := DoseSchemeResponse{
		DoseCount:          s.DoseCount,
		MinOffsets:         s.MinOffsets,
		RecommendedOffsets: s.RecommendedOffsets,
	}
	if s.MaxAge != math.MaxInt {
		maxAge := s.MaxAge
		resp.MaxAgeDays = &maxAge
	}
	return resp
}

func newVaccineResponse(v *entities.VaccineType) VaccineResponse {
	scheme := v.Scheme()

	resp := VaccineResponse{
		ID:          int(v.ID),
		Name:        v.Name,
		Description: v.Description,
		Diseases:    make([]int, 0, len(v.Diseases())),
		Tags:        make([]string, 0, len(v.Tags())),
		Selected:    v.Selected(),
		DoseNames:   make([]string, scheme.DoseCount),
		Scheme:      newDoseSchemeResponse(scheme),
	}
	for _, id := range v.Diseases() {
		resp.Diseases = append(resp.Diseases, int(id))
	}
	for _, tag := range v.Tags() {
		resp.Tags = append(resp.Tags, string(tag))
	}
	for i := range scheme.DoseCount {
		resp.DoseNames[i] = v.AltName(i)
	}
	for _, alt := range v.Schemes() {
		resp.AlternativeSchemes = append(resp.AlternativeSchemes, newDoseSchemeResponse(alt))
	}
	return resp
}

func newVaccineResponses(vaccines []*entities.VaccineType) []VaccineResponse {
	out := make([]VaccineResponse, 0, len(vaccines))
	for _, v := range vaccines {
		out = append(out, newVaccineResponse(v))
	}
	return out
}

func newSchemeResponse(s *entities.BaseScheme) SchemeResponse {
	resp := SchemeResponse{
		ID:       int(s.ID),
		Name:     s.Name,
		Checked:  s.Checked(),
		Diseases: make([]int, 0, len(s.Diseases())),
		Vaccines: make([]int, 0, len(s.Vaccines())),
	}
	for _, d := range s.Diseases() {
		resp.Diseases = append(resp.Diseases, int(d.ID))
	}
	for _, v := range s.Vaccines() {
		resp.Vaccines = append(resp.Vaccines, int(v.ID))
	}
	return resp
}

func newSchemeDetailResponse(s *entities.BaseScheme) SchemeDetailResponse {
	resp := SchemeDetailResponse{
		ID:       int(s.ID),
		Name:     s.Name,
		Checked:  s.Checked(),
		Diseases: make([]DiseaseResponse, 0, len(s.Diseases())),
		Vaccines: newVaccineResponses(s.Vaccines()),
	}
	for _, d := range s.Diseases() {
		resp.Diseases = append(resp.Diseases, newDiseaseResponse(d))
	}
	return resp
}

func newSubmissionResponse(sub interfaces.Submission) SubmissionResponse {
	return SubmissionResponse{
		SubmissionID: sub.ID,
		ReceivedAt:   sub.ReceivedAt.UTC().Format(time.RFC3339),
		Vaccines:     slices.Clone(sub.Vaccines),
	}
}
