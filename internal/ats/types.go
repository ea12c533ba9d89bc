// Package ats implements the rule-based resume to job-description matching engine.
//
// Scoring is lexical and deterministic: both texts are normalized into word
// and phrase tokens, skills are extracted against a static vocabulary, every
// job-description skill is matched to the best resume candidate through an
// ordered strategy chain, and three section scores are blended into a final
// 0-100 score.
package ats

import "fmt"

// Token is a single normalized word or phrase.
type Token struct {
	Text  string // normalized, lower-case
	Raw   string // surface form before lower-casing
	Start int    // index of the first word
	Size  int    // number of words
}

// Tokens is the output of Normalize.
type Tokens struct {
	Words   []Token
	Phrases []Token // bigrams followed by trigrams
}

// Empty reports whether no word tokens were produced.
func (t Tokens) Empty() bool {
	return len(t.Words) == 0
}

// SkillSource records how a skill was found.
type SkillSource int

const (
	SourceVocabulary SkillSource = iota
	SourceHeuristic
	SourceFallback
	SourceResidual
)

func (s SkillSource) String() string {
	switch s {
	case SourceVocabulary:
		return "vocabulary"
	case SourceHeuristic:
		return "heuristic"
	case SourceFallback:
		return "fallback"
	case SourceResidual:
		return "residual"
	default:
		return "unknown"
	}
}

// Skill is an extracted, canonicalized skill term.
type Skill struct {
	Name     string   // display form (canonical name for vocabulary hits)
	Key      string   // case-insensitive identity
	Surfaces []string // distinct lower-cased forms seen in the text
	Source   SkillSource
}

// HasSurface reports whether the skill was written as s anywhere in the text.
func (s Skill) HasSurface(surface string) bool {
	for _, existing := range s.Surfaces {
		if existing == surface {
			return true
		}
	}
	return false
}

// SkillSet is an ordered, duplicate-free collection of skills.
// Order is first occurrence in the source text.
type SkillSet struct {
	items []Skill
	index map[string]int
}

// NewSkillSet returns an empty set.
func NewSkillSet() *SkillSet {
	return &SkillSet{index: make(map[string]int)}
}

// Add inserts a skill or merges its surface forms into the existing entry.
func (ss *SkillSet) Add(skill Skill) {
	if i, ok := ss.index[skill.Key]; ok {
		existing := &ss.items[i]
		for _, surface := range skill.Surfaces {
			if !existing.HasSurface(surface) {
				existing.Surfaces = append(existing.Surfaces, surface)
			}
		}
		return
	}
	ss.index[skill.Key] = len(ss.items)
	ss.items = append(ss.items, skill)
}

// Contains reports whether a skill with the given key is present.
func (ss *SkillSet) Contains(key string) bool {
	_, ok := ss.index[key]
	return ok
}

// Len returns the number of skills.
func (ss *SkillSet) Len() int {
	return len(ss.items)
}

// Skills returns the skills in first-occurrence order.
func (ss *SkillSet) Skills() []Skill {
	out := make([]Skill, len(ss.items))
	copy(out, ss.items)
	return out
}

// Names returns the display names in order.
func (ss *SkillSet) Names() []string {
	names := make([]string, len(ss.items))
	for i, s := range ss.items {
		names[i] = s.Name
	}
	return names
}

// MatchKind classifies how a job-description skill was satisfied.
type MatchKind int

const (
	MatchExact MatchKind = iota
	MatchAlias
	MatchFuzzy
	MatchUnmatched
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchAlias:
		return "alias"
	case MatchFuzzy:
		return "fuzzy"
	default:
		return "unmatched"
	}
}

// MarshalText renders the kind as its lower-case name in JSON.
func (k MatchKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the names produced by MarshalText.
func (k *MatchKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "exact":
		*k = MatchExact
	case "alias":
		*k = MatchAlias
	case "fuzzy":
		*k = MatchFuzzy
	case "unmatched":
		*k = MatchUnmatched
	default:
		return fmt.Errorf("unknown match kind %q", text)
	}
	return nil
}

// MatchResult is the outcome of matching one job-description skill.
type MatchResult struct {
	Skill      string    // job-description skill name
	MatchedAs  string    // resume candidate that satisfied it, empty when unmatched
	Kind       MatchKind
	Confidence float64 // 0..1
}

// Matched reports whether the skill found any resume counterpart.
func (m MatchResult) Matched() bool {
	return m.Kind != MatchUnmatched
}

// ScoreBreakdown carries the section scores before aggregation.
type ScoreBreakdown struct {
	SkillsScore     float64
	ExperienceScore float64
	TitleScore      float64
	Matches         []MatchResult
	NoJDSkills      bool
}

// Input is a single scoring request.
type Input struct {
	ResumeText         string
	JobDescriptionText string
	// JobTitle is optional; when empty title words are derived from the job description.
	JobTitle string
}

// MatchedSkill is the public view of a satisfied job-description skill.
type MatchedSkill struct {
	Skill      string    `json:"skill"`
	MatchedAs  string    `json:"matched_as"`
	Kind       MatchKind `json:"kind"`
	Confidence float64   `json:"confidence"`
}

// Result is the scoring output.
type Result struct {
	FinalScore        float64        `json:"final_score"`
	SkillsScore       float64        `json:"skills_score"`
	ExperienceScore   float64        `json:"experience_score"`
	TitleScore        float64        `json:"title_score"`
	MatchedSkills     []MatchedSkill `json:"matched_skills"`
	MissingSkills     []string       `json:"missing_skills"`
	InsufficientInput bool           `json:"insufficient_input"`
	NoJDSkills        bool           `json:"no_jd_skills"`
}

func emptyResult() *Result {
	return &Result{
		MatchedSkills: []MatchedSkill{},
		MissingSkills: []string{},
	}
}
