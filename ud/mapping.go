package ud

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
)

// Category names of the tag mapping table. The spelled-out list is also the
// set of categories a mapping file must define.
const (
	CategoryPOS     = "pos"
	CategoryCase    = "case"
	CategoryNumber  = "number"
	CategoryGender  = "gender"
	CategoryAnimacy = "animacy"
	CategoryTense   = "tense"
)

var requiredCategories = []string{
	CategoryPOS,
	CategoryCase,
	CategoryNumber,
	CategoryGender,
	CategoryAnimacy,
	CategoryTense,
}

// mappingFiles embeds the default tag mapping tables.
//
//go:embed mapping/mystem.json mapping/opencorpora.json
var mappingFiles embed.FS

// Mapping is a tag mapping table: category name -> native tag -> UD value.
// Read-only after load.
type Mapping map[string]map[string]string

// LoadMapping reads a mapping table from a JSON file and verifies that all
// required categories are present.
func LoadMapping(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping file: %w", err)
	}
	return parseMapping(data)
}

// MystemMapping returns the embedded default mapping for the Mystem tagset.
func MystemMapping() (Mapping, error) {
	return embeddedMapping("mapping/mystem.json")
}

// OpenCorporaMapping returns the embedded default mapping for the
// OpenCorpora tagset.
func OpenCorporaMapping() (Mapping, error) {
	return embeddedMapping("mapping/opencorpora.json")
}

func embeddedMapping(name string) (Mapping, error) {
	data, err := mappingFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read embedded mapping %s: %w", name, err)
	}
	return parseMapping(data)
}

func parseMapping(data []byte) (Mapping, error) {
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}

	for _, category := range requiredCategories {
		if _, ok := m[category]; !ok {
			return nil, fmt.Errorf("mapping is missing category %q", category)
		}
	}

	return m, nil
}
