package ats

import (
	"sort"
	"unicode/utf8"
)

type candidateMatch struct {
	result MatchResult
	key    string
}

// MatchSkills returns one MatchResult per job-description skill, in
// job-description order.
//
// Each resume candidate is classified by the first strategy in the chain
// that applies to the pair. Candidates are then ranked by confidence
// (highest first), match kind, shorter candidate and finally candidate text,
// and the best one is kept. Adding candidates can therefore never lower a
// skill's confidence.
func MatchSkills(jd, resume *SkillSet, strategies []Strategy) []MatchResult {
	resumeSkills := resume.Skills()
	results := make([]MatchResult, 0, jd.Len())

	for _, want := range jd.Skills() {
		var candidates []candidateMatch
		for _, have := range resumeSkills {
			for _, strategy := range strategies {
				if r, ok := strategy.Match(want, have); ok {
					candidates = append(candidates, candidateMatch{result: r, key: have.Key})
					break
				}
			}
		}

		if len(candidates) == 0 {
			results = append(results, MatchResult{
				Skill: want.Name,
				Kind:  MatchUnmatched,
			})
			continue
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			a, b := candidates[i], candidates[j]
			if a.result.Confidence != b.result.Confidence {
				return a.result.Confidence > b.result.Confidence
			}
			if a.result.Kind != b.result.Kind {
				return a.result.Kind < b.result.Kind
			}
			la, lb := utf8.RuneCountInString(a.key), utf8.RuneCountInString(b.key)
			if la != lb {
				return la < lb
			}
			return a.key < b.key
		})
		results = append(results, candidates[0].result)
	}

	return results
}
