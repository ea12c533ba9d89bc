package ats

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// acronymPattern matches surface forms like "AWS", "SOX" or "S3".
var acronymPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,5}$`)

// quarterPattern excludes "Q1".."Q4" from the letter+digit heuristic.
var quarterPattern = regexp.MustCompile(`^q[1-4]$`)

// Extractor finds skill terms in normalized text using a vocabulary plus
// lexical heuristics for technical terms the vocabulary does not know.
type Extractor struct {
	vocab *Vocabulary
}

// NewExtractor creates an extractor over the given vocabulary.
func NewExtractor(vocab *Vocabulary) *Extractor {
	return &Extractor{vocab: vocab}
}

type positionedSkill struct {
	pos   int
	skill Skill
}

type scanResult struct {
	found     []positionedSkill
	consumed  []bool
	vocabHits int
}

// Extract returns the skills present in tokens, unique by key and ordered by
// first occurrence. When the vocabulary finds nothing, every capitalized
// multi-character word is accepted as a candidate skill.
func (e *Extractor) Extract(tokens Tokens) *SkillSet {
	scan := e.scan(tokens)
	return collect(scan.found)
}

// ExtractCandidates returns the skills in tokens plus every remaining content
// word as a candidate. Capitalized words keep the fallback classification
// whether or not the vocabulary found anything, so adding a known skill to a
// resume never demotes them. Other words are residual candidates, which let
// misspelled skills ("Pyhton") take part in fuzzy matching.
func (e *Extractor) ExtractCandidates(tokens Tokens) *SkillSet {
	scan := e.scan(tokens)
	found := scan.found
	for i, w := range tokens.Words {
		if scan.consumed[i] || !isContentWord(w) {
			continue
		}
		if isCapitalized(w) {
			found = append(found, positionedSkill{pos: i, skill: fallbackSkill(w)})
			continue
		}
		found = append(found, positionedSkill{pos: i, skill: Skill{
			Name:     w.Text,
			Key:      w.Text,
			Surfaces: []string{w.Text},
			Source:   SourceResidual,
		}})
	}
	return collect(found)
}

func fallbackSkill(w Token) Skill {
	return Skill{
		Name:     w.Raw,
		Key:      w.Text,
		Surfaces: []string{w.Text},
		Source:   SourceFallback,
	}
}

func (e *Extractor) scan(tokens Tokens) scanResult {
	words := tokens.Words
	result := scanResult{consumed: make([]bool, len(words))}

	phrases := make(map[[2]int]Token, len(tokens.Phrases))
	for _, p := range tokens.Phrases {
		phrases[[2]int{p.Start, p.Size}] = p
	}

	for i := 0; i < len(words); {
		if size, skill, ok := e.matchVocabulary(words, phrases, i); ok {
			result.found = append(result.found, positionedSkill{pos: i, skill: skill})
			for j := i; j < i+size; j++ {
				result.consumed[j] = true
			}
			result.vocabHits++
			i += size
			continue
		}

		if w := words[i]; isTechnicalTerm(w) {
			result.found = append(result.found, positionedSkill{pos: i, skill: Skill{
				Name:     w.Raw,
				Key:      w.Text,
				Surfaces: []string{w.Text},
				Source:   SourceHeuristic,
			}})
			result.consumed[i] = true
		}
		i++
	}

	if result.vocabHits == 0 {
		for i, w := range words {
			if result.consumed[i] || !isCapitalized(w) {
				continue
			}
			result.found = append(result.found, positionedSkill{pos: i, skill: fallbackSkill(w)})
			result.consumed[i] = true
		}
	}

	return result
}

// matchVocabulary tries the longest phrase starting at position i first.
func (e *Extractor) matchVocabulary(words []Token, phrases map[[2]int]Token, i int) (int, Skill, bool) {
	longest := min(e.vocab.maxWords, len(words)-i)
	for size := longest; size >= 1; size-- {
		tok := words[i]
		if size > 1 {
			p, ok := phrases[[2]int{i, size}]
			if !ok {
				continue
			}
			tok = p
		}
		canonical, ok := e.vocab.Canonical(tok.Text)
		if !ok {
			continue
		}
		return size, Skill{
			Name:     canonical,
			Key:      skillKey(canonical),
			Surfaces: []string{tok.Text},
			Source:   SourceVocabulary,
		}, true
	}
	return 0, Skill{}, false
}

func collect(found []positionedSkill) *SkillSet {
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].pos < found[j].pos
	})
	set := NewSkillSet()
	for _, f := range found {
		set.Add(f.skill)
	}
	return set
}

// isTechnicalTerm applies the letter+digit, acronym and suffix heuristics.
func isTechnicalTerm(w Token) bool {
	if stopWords[w.Text] || utf8.RuneCountInString(w.Text) < 2 || quarterPattern.MatchString(w.Text) {
		return false
	}

	first, _ := utf8.DecodeRuneInString(w.Text)
	if unicode.IsLetter(first) && strings.ContainsFunc(w.Text, unicode.IsDigit) {
		return true
	}

	if acronymPattern.MatchString(w.Raw) {
		return true
	}

	if suffixFalsePositives[w.Text] {
		return false
	}
	for _, suffix := range heuristicSuffixes {
		if strings.HasSuffix(w.Text, suffix) && len(w.Text) > len(suffix)+1 {
			return true
		}
	}
	return false
}

func isCapitalized(w Token) bool {
	if stopWords[w.Text] || utf8.RuneCountInString(w.Raw) < 2 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(w.Raw)
	return unicode.IsUpper(first)
}

// isContentWord accepts non-stop words of two or more characters that are
// not purely numeric.
func isContentWord(w Token) bool {
	if stopWords[w.Text] || utf8.RuneCountInString(w.Text) < 2 {
		return false
	}
	return strings.ContainsFunc(w.Text, unicode.IsLetter)
}
