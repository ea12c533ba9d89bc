package ats

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
)

// Options configures an Engine. Zero values fall back to the defaults.
type Options struct {
	Vocabulary     *Vocabulary
	Weights        Weights
	FuzzyThreshold float64
	// Strategies replaces the default exact, alias, fuzzy, substring chain.
	Strategies []Strategy
}

// DefaultOptions returns the embedded vocabulary, 60/25/15 weights and a
// 0.75 fuzzy threshold.
func DefaultOptions() Options {
	return Options{
		Weights:        DefaultWeights(),
		FuzzyThreshold: DefaultFuzzyThreshold,
	}
}

// Engine scores resumes against job descriptions. It is immutable after
// construction and safe for concurrent use.
type Engine struct {
	vocab      *Vocabulary
	extractor  *Extractor
	weights    Weights
	threshold  float64
	strategies []Strategy
	// fingerprint identifies the scoring configuration in cache keys.
	fingerprint string
}

// New builds an engine, returning a *ConfigError for an invalid vocabulary,
// weight set or threshold.
func New(opts Options) (*Engine, error) {
	vocab := opts.Vocabulary
	if vocab == nil {
		var err error
		vocab, err = DefaultVocabulary()
		if err != nil {
			return nil, err
		}
	}

	weights := opts.Weights
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	threshold := opts.FuzzyThreshold
	if threshold == 0 {
		threshold = DefaultFuzzyThreshold
	}
	if !(threshold > 0 && threshold <= 1) {
		return nil, &ConfigError{Field: "fuzzy_threshold", Message: fmt.Sprintf("must be in (0, 1], got %v", threshold)}
	}

	strategies := opts.Strategies
	if len(strategies) == 0 {
		strategies = DefaultStrategies(vocab, threshold)
	}

	return &Engine{
		vocab:       vocab,
		extractor:   NewExtractor(vocab),
		weights:     weights,
		threshold:   threshold,
		strategies:  strategies,
		fingerprint: fingerprint(vocab, weights, threshold, strategies),
	}, nil
}

// fingerprint hashes everything that can change a score for the same input.
func fingerprint(vocab *Vocabulary, weights Weights, threshold float64, strategies []Strategy) string {
	h := sha256.New()
	fmt.Fprintf(h, "weights=%g/%g/%g\n", weights.Skills, weights.Experience, weights.Title)
	fmt.Fprintf(h, "threshold=%g\n", threshold)
	for _, s := range strategies {
		fmt.Fprintf(h, "strategy=%s\n", s.Name())
	}
	for _, entry := range vocab.entries {
		fmt.Fprintf(h, "skill=%s|%s|%s\n", entry.Name, entry.Category, strings.Join(entry.Aliases, ","))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

var (
	defaultEngine     *Engine
	defaultEngineErr  error
	defaultEngineOnce sync.Once
)

// Default returns a shared engine built from DefaultOptions.
func Default() (*Engine, error) {
	defaultEngineOnce.Do(func() {
		defaultEngine, defaultEngineErr = New(DefaultOptions())
	})
	return defaultEngine, defaultEngineErr
}

// MustDefault is Default for program start-up; a broken embedded vocabulary
// is fatal.
func MustDefault() *Engine {
	e, err := Default()
	if err != nil {
		panic(fmt.Sprintf("failed to build default ATS engine: %v", err))
	}
	return e
}

// Score scores a resume against a job description with the default engine.
func Score(resumeText, jobDescriptionText string) *Result {
	return MustDefault().Score(Input{ResumeText: resumeText, JobDescriptionText: jobDescriptionText})
}

// Vocabulary returns the engine's vocabulary.
func (e *Engine) Vocabulary() *Vocabulary { return e.vocab }

// Weights returns the engine's section weights.
func (e *Engine) Weights() Weights { return e.weights }

// FuzzyThreshold returns the engine's fuzzy similarity threshold.
func (e *Engine) FuzzyThreshold() float64 { return e.threshold }

// Fingerprint is a short hash of the vocabulary, weights, threshold and
// strategy chain. Two engines with the same fingerprint score identically.
func (e *Engine) Fingerprint() string { return e.fingerprint }

// ExtractSkills returns the skills found in text.
func (e *Engine) ExtractSkills(text string) []Skill {
	return e.extractor.Extract(Normalize(text)).Skills()
}

// Breakdown runs the pipeline up to, but not including, aggregation.
// The second return value is false when either text has no usable content.
func (e *Engine) Breakdown(in Input) (ScoreBreakdown, bool) {
	if strings.TrimSpace(in.ResumeText) == "" || strings.TrimSpace(in.JobDescriptionText) == "" {
		return ScoreBreakdown{}, false
	}
	resume := Normalize(in.ResumeText)
	jd := Normalize(in.JobDescriptionText)
	if resume.Empty() || jd.Empty() {
		return ScoreBreakdown{}, false
	}

	matches := MatchSkills(e.extractor.Extract(jd), e.extractor.ExtractCandidates(resume), e.strategies)
	skills, noJDSkills := SkillsScore(matches)

	return ScoreBreakdown{
		SkillsScore:     skills,
		ExperienceScore: ExperienceScore(resume, jd),
		TitleScore:      TitleScore(resume, jd, in.JobTitle),
		Matches:         matches,
		NoJDSkills:      noJDSkills,
	}, true
}

// Score produces the final result. Empty or whitespace-only input yields a
// zero score flagged as insufficient input.
func (e *Engine) Score(in Input) *Result {
	result := emptyResult()

	b, ok := e.Breakdown(in)
	if !ok {
		result.InsufficientInput = true
		return result
	}

	result.FinalScore = e.weights.Aggregate(b.SkillsScore, b.ExperienceScore, b.TitleScore)
	result.SkillsScore = roundHalfUp(b.SkillsScore, 2)
	result.ExperienceScore = roundHalfUp(b.ExperienceScore, 2)
	result.TitleScore = roundHalfUp(b.TitleScore, 2)
	result.NoJDSkills = b.NoJDSkills

	for _, m := range b.Matches {
		if !m.Matched() {
			result.MissingSkills = append(result.MissingSkills, m.Skill)
			continue
		}
		result.MatchedSkills = append(result.MatchedSkills, MatchedSkill{
			Skill:      m.Skill,
			MatchedAs:  m.MatchedAs,
			Kind:       m.Kind,
			Confidence: roundHalfUp(m.Confidence, 2),
		})
	}

	return result
}
