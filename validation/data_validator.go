// Package validation checks catalog integrity before loading and validates user
// input for the immunization calendar API.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/giygas/immunization-calendar/catalog"
	"github.com/giygas/immunization-calendar/catalog/entities"
	"github.com/giygas/immunization-calendar/composer"
	"github.com/giygas/immunization-calendar/interfaces"
)

var ErrEmptyCatalog = errors.New("catalog is empty")

// Pre-compiled regex patterns, compiled once at package initialization
var (
	// Search input: letters in any script, digits and safe punctuation. Vaccine
	// names are compared after Unicode normalisation, so accents are fine.
	inputRegex = regexp.MustCompile(`^[\p{L}0-9\s\-\.\+'()]+$`)

	// Form field names
	fieldNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]{1,64}$`)

	// Markup and script injection, checked in search input and form values
	markupPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "onmouseover=", "onfocus=", "onblur=", "onchange=", "onsubmit=",
		"eval(", "expression(", "url(", "import ", "@import", "binding(", "behavior(",
	}

	// Dangerous patterns as strings (faster than regex for simple substring matching)
	dangerousPatterns = append(append([]string{}, markupPatterns...),
		// SQL injection patterns
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"update set", "--", "/*", "*/", "xp_", "sp_", "exec(", "execute(",
		// Command injection patterns
		"; ", "| ", "& ", "`", "$(", "${",
		// Path traversal patterns
		"../", "..\\", "%2e%2e", "file://",
		// LDAP injection patterns
		"*)(", "*|(", "*)%",
		// NoSQL injection patterns
		"{$ne:", "{$gt:", "{$where:", "{$or:", "{$regex:", "{$expr:",
	)
)

const (
	maxNameLength   = 200
	maxFormFields   = 50
	maxFormValueLen = 500
	maxIDDigits     = 6
)

// DataValidatorImpl implements interfaces.CatalogValidator and interfaces.InputValidator
type DataValidatorImpl struct{}

var (
	_ interfaces.CatalogValidator = (*DataValidatorImpl)(nil)
	_ interfaces.InputValidator   = (*DataValidatorImpl)(nil)
)

// NewDataValidator creates a new data validator
func NewDataValidator() *DataValidatorImpl {
	return &DataValidatorImpl{}
}

// ValidateVaccine checks a single vaccine record
func (v *DataValidatorImpl) ValidateVaccine(vaccine *entities.VaccineType) error {
	if vaccine == nil {
		return fmt.Errorf("vaccine is nil")
	}

	if strings.TrimSpace(vaccine.Name) == "" {
		return fmt.Errorf("empty name for vaccine %d", vaccine.ID)
	}

	if len(vaccine.Name) > maxNameLength {
		return fmt.Errorf("name too long for vaccine %d: %d characters", vaccine.ID, len(vaccine.Name))
	}

	if err := vaccine.Scheme().Validate(); err != nil {
		return fmt.Errorf("vaccine %s: %w", vaccine.Name, err)
	}

	for i, s := range vaccine.Schemes() {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("vaccine %s alternative scheme %d: %w", vaccine.Name, i, err)
		}
	}

	return nil
}

// ValidateCatalog performs comprehensive catalog validation. catalog.New already
// refuses unresolved relations; this adds the rules composition and lookup by
// name rely on.
func (v *DataValidatorImpl) ValidateCatalog(cat *catalog.Catalog) error {
	vaccines := cat.Vaccines()
	diseases := cat.Diseases()

	if len(vaccines) == 0 || len(diseases) == 0 {
		return fmt.Errorf("%w: %d vaccines, %d diseases", ErrEmptyCatalog, len(vaccines), len(diseases))
	}

	names := make(map[string]string, len(vaccines))
	for _, vaccine := range vaccines {
		if err := v.ValidateVaccine(vaccine); err != nil {
			return fmt.Errorf("invalid vaccine %d: %w", vaccine.ID, err)
		}

		key := catalog.NormalizeName(vaccine.Name)
		if other, exists := names[key]; exists {
			return fmt.Errorf("vaccine names %q and %q are indistinguishable", other, vaccine.Name)
		}
		names[key] = vaccine.Name
	}

	for _, d := range diseases {
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("empty name for disease %d", d.ID)
		}

		if _, err := entities.ParseRecommendation(string(d.Recommendation)); err != nil {
			return fmt.Errorf("disease %s: %w", d.Name, err)
		}

		def := cat.DefaultVaccine(d)
		if def == nil || !def.Covers(d.ID) {
			return fmt.Errorf("disease %s: default vaccine does not cover it", d.Name)
		}
	}

	return nil
}

// ReportCatalogQuality lists records that load fine but are probably mistakes
func (v *DataValidatorImpl) ReportCatalogQuality(
	cat *catalog.Catalog,
	schemes []*entities.BaseScheme,
	polyvalent []string,
) *interfaces.CatalogQualityReport {
	report := &interfaces.CatalogQualityReport{
		VaccinesWithoutDiseases: []string{},
		UnusedVaccines:          []string{},
		MissingPolyvalent:       []string{},
		EmptySchemes:            []string{},
	}

	defaults := make(map[entities.VaccineID]bool)
	for _, d := range cat.Diseases() {
		defaults[d.DefaultVaccine()] = true
	}

	polyvalentIDs := make(map[entities.VaccineID]bool)
	for _, name := range polyvalent {
		if vaccine, ok := cat.VaccineByName(name); ok {
			polyvalentIDs[vaccine.ID] = true
		} else {
			report.MissingPolyvalent = append(report.MissingPolyvalent, name)
		}
	}

	for _, vaccine := range cat.Vaccines() {
		if len(vaccine.Diseases()) == 0 {
			report.VaccinesWithoutDiseases = append(report.VaccinesWithoutDiseases, vaccine.Name)
			continue
		}
		if !defaults[vaccine.ID] && !polyvalentIDs[vaccine.ID] {
			report.UnusedVaccines = append(report.UnusedVaccines, vaccine.Name)
		}
	}

	for _, s := range schemes {
		if s.IsEmpty() && s.ID != composer.NoVaccinationScheme {
			report.EmptySchemes = append(report.EmptySchemes, s.Name)
		}
	}

	return report
}

// ValidateInput validates user input strings with enhanced security
func (v *DataValidatorImpl) ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if len(input) < 3 {
		return fmt.Errorf("input too short: minimum 3 characters")
	}

	if len(input) > 50 {
		return fmt.Errorf("input too long: maximum 50 characters")
	}

	// Word count validation to prevent DoS attacks with many short words
	words := strings.Fields(input)
	if len(words) > 6 {
		return fmt.Errorf("search query too complex: maximum 6 words allowed")
	}

	if containsAny(input, dangerousPatterns) {
		return fmt.Errorf("input contains potentially dangerous content")
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters. Only letters, numbers, spaces, hyphens, apostrophes, periods, parentheses and plus sign are allowed")
	}

	// Additional checks for repeated characters (potential DoS)
	if v.hasExcessiveRepetition(input) {
		return fmt.Errorf("input contains excessive character repetition")
	}

	return nil
}

// ValidateID validates numeric path identifiers
// No regex used - strconv.Atoi() validates numeric format for free
func (v *DataValidatorImpl) ValidateID(input string) (int, error) {
	trimmedInput := strings.TrimSpace(input)
	if trimmedInput == "" {
		return -1, fmt.Errorf("input cannot be empty")
	}

	// Reject if original input contained whitespace (spaces, tabs, etc.)
	if len(input) != len(trimmedInput) {
		return -1, fmt.Errorf("input contains invalid characters. Only numeric characters are allowed")
	}

	if len(trimmedInput) > maxIDDigits {
		return -1, fmt.Errorf("id should have at most %d digits", maxIDDigits)
	}

	id, err := strconv.Atoi(trimmedInput)
	if err != nil || id < 0 || trimmedInput[0] == '+' {
		return -1, fmt.Errorf("input contains invalid characters. Only numeric characters are allowed")
	}

	return id, nil
}

// ValidateForm validates submitted form fields
func (v *DataValidatorImpl) ValidateForm(form entities.Form) error {
	if len(form) > maxFormFields {
		return fmt.Errorf("form has too many fields: maximum %d", maxFormFields)
	}

	for field, value := range form {
		if !fieldNameRegex.MatchString(field) {
			return fmt.Errorf("invalid form field name %q", field)
		}

		if len(value) > maxFormValueLen {
			return fmt.Errorf("form field %s too long: maximum %d characters", field, maxFormValueLen)
		}

		if containsAny(value, markupPatterns) {
			return fmt.Errorf("form field %s contains potentially dangerous content", field)
		}
	}

	return nil
}

func containsAny(input string, patterns []string) bool {
	lowerInput := strings.ToLower(input)
	for _, pattern := range patterns {
		if strings.Contains(lowerInput, pattern) {
			return true
		}
	}
	return false
}

// hasExcessiveRepetition checks for potential DoS patterns with excessive character repetition
func (v *DataValidatorImpl) hasExcessiveRepetition(input string) bool {
	// Check for the same character repeated more than 10 times consecutively
	for i := 0; i < len(input)-10; i++ {
		allSame := true
		for j := 1; j <= 10; j++ {
			if input[i] != input[i+j] {
				allSame = false
				break
			}
		}
		if allSame {
			return true
		}
	}
	return false
}
