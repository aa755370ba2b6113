package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CategoryRule maps category-label keywords onto a canonical category. Rules
// are evaluated in file order and the first match wins.
type CategoryRule struct {
	Keywords []string `json:"keywords"`
	Category string   `json:"category"`
}

// Rules holds the data tables driving classification, search and filtering.
type Rules struct {
	categoryRules    []CategoryRule
	locationSynonyms map[string][]string
	careTypeTerms    map[string][]string
	resourceTerms    map[string][]string
	stopWords        map[string]struct{}
}

// LoadRules reads all rule tables from a config directory.
func LoadRules(configDir string) (*Rules, error) {
	r := &Rules{
		locationSynonyms: make(map[string][]string),
		careTypeTerms:    make(map[string][]string),
		resourceTerms:    make(map[string][]string),
		stopWords:        make(map[string]struct{}),
	}

	if err := loadJSON(filepath.Join(configDir, "category_rules.json"), &r.categoryRules); err != nil {
		return nil, fmt.Errorf("failed to load category rules: %w", err)
	}
	if err := loadJSON(filepath.Join(configDir, "location_synonyms.json"), &r.locationSynonyms); err != nil {
		return nil, fmt.Errorf("failed to load location synonyms: %w", err)
	}
	if err := loadJSON(filepath.Join(configDir, "care_type_synonyms.json"), &r.careTypeTerms); err != nil {
		return nil, fmt.Errorf("failed to load care type synonyms: %w", err)
	}
	if err := loadJSON(filepath.Join(configDir, "resource_category_synonyms.json"), &r.resourceTerms); err != nil {
		return nil, fmt.Errorf("failed to load resource category synonyms: %w", err)
	}

	var stopWords []string
	if err := loadJSON(filepath.Join(configDir, "stop_words.json"), &stopWords); err != nil {
		return nil, fmt.Errorf("failed to load stop words: %w", err)
	}
	for _, w := range stopWords {
		r.stopWords[strings.ToLower(w)] = struct{}{}
	}

	return r, nil
}

func loadJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// DeriveCategory maps a free-form category label onto a canonical category by
// case-insensitive substring match. Unmatched labels map to "other".
func (r *Rules) DeriveCategory(label string) string {
	lowered := strings.ToLower(label)
	for _, rule := range r.categoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, kw) {
				return rule.Category
			}
		}
	}
	return "other"
}

// LocationCities returns the city list for a region code. Unknown codes fall
// back to the code itself with underscores read as spaces, so an ad-hoc city
// name still filters.
func (r *Rules) LocationCities(code string) []string {
	if cities, ok := r.locationSynonyms[code]; ok {
		return cities
	}
	return []string{strings.ReplaceAll(strings.ToLower(code), "_", " ")}
}

// CareTypeTerms returns the match terms for a care type code, with the same
// underscores-to-spaces fallback as locations.
func (r *Rules) CareTypeTerms(code string) []string {
	if terms, ok := r.careTypeTerms[code]; ok {
		return terms
	}
	return []string{strings.ReplaceAll(strings.ToLower(code), "_", " ")}
}

// ResourceCategoryTerms returns the match terms for a resource category code.
func (r *Rules) ResourceCategoryTerms(code string) []string {
	if terms, ok := r.resourceTerms[code]; ok {
		return terms
	}
	return []string{strings.ReplaceAll(strings.ToLower(code), "_", " ")}
}

// IsStopWord reports whether a normalized token carries no search meaning.
func (r *Rules) IsStopWord(token string) bool {
	_, ok := r.stopWords[token]
	return ok
}
