package ats

import (
	"regexp"
	"strconv"
	"strings"
)

// Title section credit levels.
const (
	FullCredit = 100.0
	HalfCredit = 50.0
	NoCredit   = 0.0
)

// maxTitleContext is how many words before a role noun are taken as part of
// a job title derived from the job description.
const maxTitleContext = 2

var yearsPattern = regexp.MustCompile(`(?:^|\s)(\d{1,2})\+?\s*(?:years?|yrs?)\b`)

var levelWords = toSet(
	"senior", "sr", "lead", "principal", "staff", "manager", "director", "head",
	"architect", "leadership", "led", "managed", "mentored",
)

var experienceWords = toSet("experience", "experienced")

var roleNouns = toSet(
	"engineer", "developer", "analyst", "scientist", "manager", "designer",
	"architect", "consultant", "administrator", "specialist", "intern", "tester",
	"programmer", "lead", "director", "associate", "officer", "coordinator",
)

var degreeWords = toSet(
	"bachelor", "bachelors", "master", "masters", "phd", "ph.d", "doctorate",
	"b.s", "m.s", "bsc", "msc", "b.sc", "m.sc", "b.tech", "m.tech", "btech",
	"mtech", "b.e", "m.e", "mba", "degree", "diploma", "certified",
	"certification", "certifications", "certificate",
)

// SkillsScore is the mean match confidence over job-description skills,
// scaled to 0-100. With no job-description skills it returns 0 and true.
func SkillsScore(matches []MatchResult) (float64, bool) {
	if len(matches) == 0 {
		return 0, true
	}
	var sum float64
	for _, m := range matches {
		sum += m.Confidence
	}
	return clamp(sum/float64(len(matches))*100, 0, 100), false
}

// ExperienceScore compares seniority and duration indicators in the resume
// against the baseline set by the job description's own indicators.
func ExperienceScore(resume, jd Tokens) float64 {
	resumeCount := indicatorCount(resume)
	jdCount := indicatorCount(jd)

	levelRatio := min(float64(resumeCount)/float64(max(jdCount, 1)), 1)

	jdYears, resumeYears := statedYears(jd), statedYears(resume)
	var yearsRatio float64
	switch {
	case jdYears > 0:
		yearsRatio = min(float64(resumeYears)/float64(jdYears), 1)
	case resumeYears > 0:
		yearsRatio = 1
	default:
		yearsRatio = levelRatio
	}

	return clamp(100*(levelRatio+yearsRatio)/2, 0, 100)
}

// TitleScore awards full, half or no credit from title-word overlap and the
// presence of degree or certification keywords in the resume.
func TitleScore(resume, jd Tokens, jobTitle string) float64 {
	titleWords := deriveTitleWords(jd, jobTitle)

	resumeWords := make(map[string]bool, len(resume.Words))
	hasDegree := false
	for _, w := range resume.Words {
		resumeWords[w.Text] = true
		if degreeWords[w.Text] {
			hasDegree = true
		}
	}

	overlap := 0
	for _, tw := range titleWords {
		if resumeWords[tw] {
			overlap++
		}
	}

	strongTitle := overlap > 0 && overlap >= min(2, len(titleWords))
	weakTitle := overlap > 0 && !strongTitle

	switch {
	case strongTitle, weakTitle && hasDegree:
		return FullCredit
	case weakTitle, hasDegree:
		return HalfCredit
	default:
		return NoCredit
	}
}

// deriveTitleWords returns the distinct content words of the job title. An
// empty title is derived from the first role noun in the job description
// together with up to two non-stop words right before it.
func deriveTitleWords(jd Tokens, jobTitle string) []string {
	var words []string
	if strings.TrimSpace(jobTitle) != "" {
		for _, w := range Normalize(jobTitle).Words {
			if !stopWords[w.Text] {
				words = append(words, w.Text)
			}
		}
		return dedupe(words)
	}

	for i, w := range jd.Words {
		if !roleNouns[w.Text] {
			continue
		}
		start := i
		for start > 0 && i-start < maxTitleContext && !stopWords[jd.Words[start-1].Text] {
			start--
		}
		for _, t := range jd.Words[start : i+1] {
			words = append(words, t.Text)
		}
		break
	}
	return dedupe(words)
}

func indicatorCount(tokens Tokens) int {
	count := 0
	for _, w := range tokens.Words {
		if levelWords[w.Text] || experienceWords[w.Text] {
			count++
		}
	}
	return count + len(yearsPattern.FindAllString(joinWords(tokens), -1))
}

// statedYears returns the largest "N years" figure in the text, or 0.
func statedYears(tokens Tokens) int {
	best := 0
	for _, m := range yearsPattern.FindAllStringSubmatch(joinWords(tokens), -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			best = max(best, n)
		}
	}
	return best
}

func joinWords(tokens Tokens) string {
	texts := make([]string, len(tokens.Words))
	for i, w := range tokens.Words {
		texts[i] = w.Text
	}
	return strings.Join(texts, " ")
}

func dedupe(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := words[:0]
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
