// Package ud converts source-specific grammar tags into the Universal
// Dependencies part-of-speech and morphological feature schema.
package ud

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrUnknownTag is returned when a native tag has no entry in the mapping
// table of the active category.
var ErrUnknownTag = errors.New("native tag not found in mapping")

// Tag is the native grammar-tag representation produced by an external
// analyzer. Mystem emits a flat grammar string; OpenCorpora-style analyzers
// emit structured grammemes. Only the fields of the active variant are set.
type Tag struct {
	// Flat is the raw Mystem grammar string, e.g. "S,муж,неод=им,ед".
	Flat string `json:"flat,omitempty"`

	POS     string `json:"pos,omitempty"`
	Case    string `json:"case,omitempty"`
	Number  string `json:"number,omitempty"`
	Gender  string `json:"gender,omitempty"`
	Animacy string `json:"animacy,omitempty"`
}

// Converter maps a native grammar tag to a UD part-of-speech string and a
// UD feature string.
type Converter interface {
	ConvertPOS(t Tag) (string, error)
	ConvertMorphologicalTags(t Tag) (string, error)
}

var (
	mystemPOS      = regexp.MustCompile(`[A-Z]+`)
	mystemGrammeme = regexp.MustCompile(`[а-я]+`)
)

// featPriority is the fixed category order used by the Mystem converter to
// resolve grammemes that are ambiguous across categories. The first
// category containing the grammeme wins.
var featPriority = []string{
	CategoryCase,
	CategoryNumber,
	CategoryGender,
	CategoryAnimacy,
	CategoryTense,
}

// MystemConverter converts flat Mystem grammar strings.
type MystemConverter struct {
	mapping Mapping
}

var _ Converter = (*MystemConverter)(nil)

// NewMystemConverter creates a converter over the given mapping table.
func NewMystemConverter(mapping Mapping) *MystemConverter {
	return &MystemConverter{mapping: mapping}
}

// ConvertPOS extracts the first run of uppercase letters from the flat tag
// and looks it up in the pos table.
func (c *MystemConverter) ConvertPOS(t Tag) (string, error) {
	native := mystemPOS.FindString(t.Flat)
	if native == "" {
		return "", fmt.Errorf("%w: no POS in %q", ErrUnknownTag, t.Flat)
	}

	pos, ok := c.mapping[CategoryPOS][native]
	if !ok {
		return "", fmt.Errorf("%w: pos %q", ErrUnknownTag, native)
	}
	return pos, nil
}

// ConvertMorphologicalTags extracts all lowercase grammeme runs from the
// flat tag and resolves each against the categories in priority order. At
// most one value per category is kept. The result is pipe-joined and sorted
// by category name.
func (c *MystemConverter) ConvertMorphologicalTags(t Tag) (string, error) {
	resolved := map[string]string{}

	for _, grammeme := range mystemGrammeme.FindAllString(t.Flat, -1) {
		for _, category := range featPriority {
			if _, filled := resolved[category]; filled {
				continue
			}
			if value, ok := c.mapping[category][grammeme]; ok {
				resolved[category] = value
				break
			}
		}
	}

	categories := make([]string, 0, len(resolved))
	for category := range resolved {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	pairs := make([]string, 0, len(categories))
	for _, category := range categories {
		pairs = append(pairs, category+"="+resolved[category])
	}
	return strings.Join(pairs, "|"), nil
}

// OpenCorporaConverter converts structured OpenCorpora grammemes.
type OpenCorporaConverter struct {
	mapping Mapping
}

var _ Converter = (*OpenCorporaConverter)(nil)

// NewOpenCorporaConverter creates a converter over the given mapping table.
func NewOpenCorporaConverter(mapping Mapping) *OpenCorporaConverter {
	return &OpenCorporaConverter{mapping: mapping}
}

// ConvertPOS looks up the structured POS field in the pos table, falling
// back to the UNKN sentinel entry if absent.
func (c *OpenCorporaConverter) ConvertPOS(t Tag) (string, error) {
	if pos, ok := c.mapping[CategoryPOS][t.POS]; ok {
		return pos, nil
	}
	if pos, ok := c.mapping[CategoryPOS]["UNKN"]; ok {
		return pos, nil
	}
	return "", fmt.Errorf("%w: pos %q and no UNKN sentinel", ErrUnknownTag, t.POS)
}

// ConvertMorphologicalTags reads the four structured grammeme fields in
// declaration order. Each present and mappable field contributes one pair.
// The output is pipe-joined in field order, deliberately unsorted.
func (c *OpenCorporaConverter) ConvertMorphologicalTags(t Tag) (string, error) {
	fields := []struct {
		category string
		value    string
	}{
		{CategoryCase, t.Case},
		{CategoryNumber, t.Number},
		{CategoryGender, t.Gender},
		{CategoryAnimacy, t.Animacy},
	}

	var pairs []string
	for _, field := range fields {
		if field.value == "" {
			continue
		}
		if mapped, ok := c.mapping[field.category][field.value]; ok {
			pairs = append(pairs, field.category+"="+mapped)
		}
	}
	return strings.Join(pairs, "|"), nil
}
