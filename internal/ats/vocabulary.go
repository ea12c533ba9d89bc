package ats

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/schemas"
	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var defaultVocabularyYAML []byte

// VocabularyEntry is one canonical skill and the alternate spellings that map to it.
type VocabularyEntry struct {
	Name     string   `yaml:"name" json:"name"`
	Category string   `yaml:"category,omitempty" json:"category,omitempty"`
	Aliases  []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

type vocabularyFile struct {
	Version int               `yaml:"version"`
	Skills  []VocabularyEntry `yaml:"skills"`
}

// Vocabulary is an immutable canonical-name to alias table.
type Vocabulary struct {
	entries []VocabularyEntry
	// lookup maps a normalized surface form (canonical or alias) to its canonical name.
	lookup   map[string]string
	aliases  map[string]bool
	maxWords int
}

var (
	defaultVocabulary     *Vocabulary
	defaultVocabularyErr  error
	defaultVocabularyOnce sync.Once
)

// DefaultVocabulary returns the embedded vocabulary.
func DefaultVocabulary() (*Vocabulary, error) {
	defaultVocabularyOnce.Do(func() {
		defaultVocabulary, defaultVocabularyErr = ParseVocabulary(defaultVocabularyYAML)
	})
	return defaultVocabulary, defaultVocabularyErr
}

// LoadVocabulary reads a YAML vocabulary file from disk.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Field: "vocabulary", Message: "failed to read " + path, Cause: err}
	}
	return ParseVocabulary(data)
}

// ParseVocabulary decodes and validates a YAML vocabulary document.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Field: "vocabulary", Message: "invalid YAML", Cause: err}
	}
	if err := schemas.ValidateValue(schemas.Vocabulary, doc); err != nil {
		return nil, &ConfigError{Field: "vocabulary", Message: "schema validation failed", Cause: err}
	}

	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &ConfigError{Field: "vocabulary", Message: "invalid YAML", Cause: err}
	}
	return NewVocabulary(file.Skills)
}

// NewVocabulary builds a vocabulary from entries. Every canonical name and
// alias must normalize to a non-empty term of at most three words, and no
// surface form may resolve to two different canonical names.
func NewVocabulary(entries []VocabularyEntry) (*Vocabulary, error) {
	if len(entries) == 0 {
		return nil, &ConfigError{Field: "vocabulary", Message: "no skills defined"}
	}

	v := &Vocabulary{
		entries: make([]VocabularyEntry, 0, len(entries)),
		lookup:  make(map[string]string),
		aliases: make(map[string]bool),
	}

	for i, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, &ConfigError{Field: fmt.Sprintf("vocabulary.skills[%d].name", i), Message: "must not be empty"}
		}
		if err := v.register(name, name); err != nil {
			return nil, err
		}
		for _, alias := range entry.Aliases {
			if err := v.register(alias, name); err != nil {
				return nil, err
			}
			v.aliases[normalizeTerm(alias)] = true
		}
		v.entries = append(v.entries, VocabularyEntry{Name: name, Category: entry.Category, Aliases: entry.Aliases})
	}

	return v, nil
}

func (v *Vocabulary) register(surface, canonical string) error {
	term := normalizeTerm(surface)
	if term == "" {
		return &ConfigError{Field: "vocabulary." + canonical, Message: fmt.Sprintf("term %q normalizes to nothing", surface)}
	}
	words := strings.Count(term, " ") + 1
	if words > maxPhraseSize {
		return &ConfigError{Field: "vocabulary." + canonical, Message: fmt.Sprintf("term %q is longer than %d words", surface, maxPhraseSize)}
	}
	if existing, ok := v.lookup[term]; ok && existing != canonical {
		return &ConfigError{
			Field:   "vocabulary." + canonical,
			Message: fmt.Sprintf("term %q already maps to %q", surface, existing),
		}
	}
	v.lookup[term] = canonical
	v.maxWords = max(v.maxWords, words)
	return nil
}

// Canonical resolves a normalized term (canonical or alias) to its canonical name.
func (v *Vocabulary) Canonical(term string) (string, bool) {
	name, ok := v.lookup[term]
	return name, ok
}

// IsAlias reports whether a normalized term is registered as an alias.
func (v *Vocabulary) IsAlias(term string) bool {
	return v.aliases[term]
}

// Entries returns a copy of the vocabulary entries.
func (v *Vocabulary) Entries() []VocabularyEntry {
	out := make([]VocabularyEntry, len(v.entries))
	copy(out, v.entries)
	return out
}

// Len returns the number of canonical skills.
func (v *Vocabulary) Len() int {
	return len(v.entries)
}

// normalizeTerm applies the same normalization as scanned text so that
// vocabulary keys line up with phrase tokens ("CI/CD" becomes "ci cd").
func normalizeTerm(s string) string {
	words := Normalize(s).Words
	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Text
	}
	return strings.Join(texts, " ")
}

// skillKey is the case-insensitive identity of a canonical name.
func skillKey(name string) string {
	return normalizeTerm(name)
}
