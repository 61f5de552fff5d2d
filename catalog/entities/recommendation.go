// Package entities holds the data model of the immunization calendar: diseases,
// vaccine products with their dosing schemes, and the base schemes composed from them.
package entities

import "fmt"

// Recommendation is the vaccination urgency tier of a disease.
type Recommendation string

const (
	Mandatory   Recommendation = "MANDATORY"
	Recommended Recommendation = "RECOMMENDED"
	Optional    Recommendation = "OPTIONAL"
)

// ParseRecommendation maps a tier name to its Recommendation.
func ParseRecommendation(s string) (Recommendation, error) {
	switch r := Recommendation(s); r {
	case Mandatory, Recommended, Optional:
		return r, nil
	}
	return "", fmt.Errorf("unknown recommendation tier: %q", s)
}

// VaccineTag marks the route of administration and live-attenuated products.
type VaccineTag string

const (
	TagOral          VaccineTag = "ORAL"
	TagIntramuscular VaccineTag = "INTRAMUSCULAR"
	TagSubcutaneous  VaccineTag = "SUBCUTANEOUS"
	TagIntranasal    VaccineTag = "INTRANASAL"
	TagLive          VaccineTag = "LIVE"
)
