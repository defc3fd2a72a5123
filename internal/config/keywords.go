package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/riskibarqy/arena-streams/internal/domain/match"
	"gopkg.in/yaml.v3"
)

// LoadKeywordSet reads cross-sport filter vocabularies from a YAML file:
//
//	rugby: ["rugby", "super rugby"]
//	afl: ["afl"]
//	nfl: ["nfl:", "nfl "]
//
// An empty path or an omitted list keeps the built-in defaults.
func LoadKeywordSet(path string) (match.KeywordSet, error) {
	defaults := match.DefaultKeywords()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return match.KeywordSet{}, fmt.Errorf("read FILTER_KEYWORDS_FILE: %w", err)
	}

	set, err := parseKeywordSet(data)
	if err != nil {
		return match.KeywordSet{}, fmt.Errorf("parse FILTER_KEYWORDS_FILE %s: %w", path, err)
	}
	return set.Merge(defaults), nil
}

func parseKeywordSet(data []byte) (match.KeywordSet, error) {
	var set match.KeywordSet
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&set); err != nil && !errors.Is(err, io.EOF) {
		return match.KeywordSet{}, err
	}
	return set, nil
}
