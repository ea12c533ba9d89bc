package ats

import (
	"strings"
	"unicode/utf8"
)

// Confidence values for the fixed-confidence match kinds.
const (
	ExactConfidence     = 1.0
	AliasConfidence     = 0.9
	SubstringConfidence = 0.8
)

// DefaultFuzzyThreshold is the minimum normalized similarity for a fuzzy match.
const DefaultFuzzyThreshold = 0.75

// MinFuzzyLength is the rune length both terms must reach before fuzzy
// matching applies. A three-letter term plus one inserted letter already
// scores 0.75 ("aws" and "laws"), so terms of three runes or fewer only
// match through the exact and alias stages.
const MinFuzzyLength = 4

// MinSubstringLength is the rune length the contained term must reach.
const MinSubstringLength = 3

// Strategy classifies a single job-description skill against a single resume
// candidate. It returns false when it does not apply to the pair.
type Strategy interface {
	Name() string
	Match(jd, candidate Skill) (MatchResult, bool)
}

// DefaultStrategies returns the exact, alias, fuzzy, substring chain.
func DefaultStrategies(vocab *Vocabulary, threshold float64) []Strategy {
	return []Strategy{
		ExactStrategy{},
		AliasStrategy{Vocab: vocab},
		FuzzyStrategy{Threshold: threshold, MinLength: MinFuzzyLength},
		SubstringStrategy{MinLength: MinSubstringLength},
	}
}

// ExactStrategy matches when both texts used the same spelling.
type ExactStrategy struct{}

func (ExactStrategy) Name() string { return "exact" }

func (ExactStrategy) Match(jd, candidate Skill) (MatchResult, bool) {
	for _, surface := range jd.Surfaces {
		if candidate.HasSurface(surface) {
			return MatchResult{
				Skill:      jd.Name,
				MatchedAs:  candidate.Name,
				Kind:       MatchExact,
				Confidence: ExactConfidence,
			}, true
		}
	}
	return MatchResult{}, false
}

// AliasStrategy matches different spellings of the same canonical skill,
// e.g. "JavaScript" in the job description and "JS" in the resume.
type AliasStrategy struct {
	Vocab *Vocabulary
}

func (AliasStrategy) Name() string { return "alias" }

func (s AliasStrategy) Match(jd, candidate Skill) (MatchResult, bool) {
	same := jd.Key == candidate.Key
	if !same && s.Vocab != nil {
		a, okA := s.Vocab.Canonical(jd.Key)
		b, okB := s.Vocab.Canonical(candidate.Key)
		same = okA && okB && a == b
	}
	if !same {
		return MatchResult{}, false
	}

	matchedAs := candidate.Name
	if len(candidate.Surfaces) > 0 {
		matchedAs = candidate.Surfaces[0]
	}
	return MatchResult{
		Skill:      jd.Name,
		MatchedAs:  matchedAs,
		Kind:       MatchAlias,
		Confidence: AliasConfidence,
	}, true
}

// FuzzyStrategy matches near-identical spellings by edit distance.
type FuzzyStrategy struct {
	Threshold float64
	MinLength int
}

func (FuzzyStrategy) Name() string { return "fuzzy" }

func (s FuzzyStrategy) Match(jd, candidate Skill) (MatchResult, bool) {
	shortest := min(utf8.RuneCountInString(jd.Key), utf8.RuneCountInString(candidate.Key))
	if shortest < s.MinLength {
		return MatchResult{}, false
	}
	sim := similarity(jd.Key, candidate.Key)
	if sim < s.Threshold {
		return MatchResult{}, false
	}
	return MatchResult{
		Skill:      jd.Name,
		MatchedAs:  candidate.Name,
		Kind:       MatchFuzzy,
		Confidence: sim,
	}, true
}

// SubstringStrategy matches when one extracted skill contains the other,
// e.g. "SQL" and "PostgreSQL". Residual resume words (lower-case words the
// extractor did not classify) are not considered.
type SubstringStrategy struct {
	MinLength int
}

func (SubstringStrategy) Name() string { return "substring" }

func (s SubstringStrategy) Match(jd, candidate Skill) (MatchResult, bool) {
	if candidate.Source == SourceResidual {
		return MatchResult{}, false
	}
	shorter, longer := jd.Key, candidate.Key
	if utf8.RuneCountInString(shorter) > utf8.RuneCountInString(longer) {
		shorter, longer = longer, shorter
	}
	if utf8.RuneCountInString(shorter) < s.MinLength || !strings.Contains(longer, shorter) {
		return MatchResult{}, false
	}
	return MatchResult{
		Skill:      jd.Name,
		MatchedAs:  candidate.Name,
		Kind:       MatchFuzzy,
		Confidence: SubstringConfidence,
	}, true
}
