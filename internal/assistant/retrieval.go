package assistant

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/llm"
)

const (
	// DefaultTopK is how many passages the chat prompt receives.
	DefaultTopK = 6
	// resumeChunkChars bounds one resume passage.
	resumeChunkChars = 700
	// descriptionExcerptChars bounds the job description inside an application passage.
	descriptionExcerptChars = 600
)

// Passage sources.
const (
	SourceApplication = "application"
	SourceResume      = "resume"
)

// Passage is one retrievable piece of a user's data.
type Passage struct {
	Source string
	Text   string
	Score  float64
}

// Passages splits a user's applications and resume into retrievable
// passages: one per application, and resume text grouped by line into
// chunks of at most resumeChunkChars.
func Passages(apps []db.Application, resume string) []Passage {
	out := make([]Passage, 0, len(apps)+4)
	for _, a := range apps {
		out = append(out, Passage{Source: SourceApplication, Text: applicationPassage(a)})
	}
	for _, chunk := range chunkResume(resume) {
		out = append(out, Passage{Source: SourceResume, Text: chunk})
	}
	return out
}

func applicationPassage(a db.Application) string {
	var sb strings.Builder
	sb.WriteString(a.CompanyName)
	if a.JobTitle != "" {
		fmt.Fprintf(&sb, " - %s", a.JobTitle)
	}
	fmt.Fprintf(&sb, " | Status: %s | Applied: %s", a.Status, a.AppliedAt.Format("2006-01-02"))
	if a.Location != "" {
		fmt.Fprintf(&sb, " | Location: %s", a.Location)
	}
	if a.ATSScore != nil && *a.ATSScore != "" {
		fmt.Fprintf(&sb, " | ATS score: %s", *a.ATSScore)
	}
	if notes := strings.TrimSpace(a.Notes); notes != "" {
		fmt.Fprintf(&sb, " | Notes: %s", notes)
	}
	if jd := strings.TrimSpace(a.JobDescription); jd != "" {
		fmt.Fprintf(&sb, "\nJob description: %s", llm.Truncate(strings.Join(strings.Fields(jd), " "), descriptionExcerptChars))
	}
	return sb.String()
}

// chunkResume groups non-blank lines into chunks. A single line longer than
// the limit becomes its own chunk.
func chunkResume(resume string) []string {
	var (
		chunks  []string
		current strings.Builder
	)
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}
	for _, line := range strings.Split(resume, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+1+len(line) > resumeChunkChars {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	flush()
	return chunks
}

// Retriever ranks passages by embedding similarity to a query.
type Retriever struct {
	embedder llm.Embedder
	topK     int
}

// NewRetriever creates a retriever returning at most topK passages. A
// non-positive topK uses DefaultTopK.
func NewRetriever(embedder llm.Embedder, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{embedder: embedder, topK: topK}
}

// Retrieve returns the passages most similar to query, best first. The query
// and passages are embedded in one call. Passages with no positive
// similarity are dropped.
func (r *Retriever) Retrieve(ctx context.Context, query string, passages []Passage) ([]Passage, error) {
	if strings.TrimSpace(query) == "" || len(passages) == 0 {
		return nil, nil
	}

	texts := make([]string, 0, len(passages)+1)
	texts = append(texts, query)
	for _, p := range passages {
		texts = append(texts, p.Text)
	}
	vectors, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, &APICallError{Message: "failed to embed chat context", Cause: err}
	}
	if len(vectors) != len(texts) {
		return nil, &APICallError{Message: fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(vectors))}
	}

	ranked := make([]Passage, 0, len(passages))
	for i, p := range passages {
		p.Score = cosine(vectors[0], vectors[i+1])
		if p.Score > 0 {
			ranked = append(ranked, p)
		}
	}
	slices.SortStableFunc(ranked, func(a, b Passage) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(ranked) > r.topK {
		ranked = ranked[:r.topK]
	}
	return ranked, nil
}

// cosine is the cosine similarity of two vectors, or 0 when their lengths
// differ or either is all zeros.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// RenderPassages formats retrieved passages for the chat prompt.
func RenderPassages(passages []Passage) string {
	var sb strings.Builder
	for i, p := range passages {
		fmt.Fprintf(&sb, "[%d] (%s) %s\n", i+1, p.Source, p.Text)
	}
	return sb.String()
}

// SearchApplications returns the applications a message names directly, by
// company name or by status, in their stored order.
func SearchApplications(message string, apps []db.Application) []db.Application {
	lower := strings.ToLower(message)
	var statuses []string
	for _, status := range db.Statuses {
		if strings.Contains(lower, strings.ToLower(status)) {
			statuses = append(statuses, status)
		}
	}

	var out []db.Application
	for _, a := range apps {
		company := strings.ToLower(strings.TrimSpace(a.CompanyName))
		if (len(company) > 1 && containsWord(lower, company)) || slices.Contains(statuses, a.Status) {
			out = append(out, a)
		}
	}
	return out
}

// containsWord reports whether phrase occurs in s bounded by non-letters.
func containsWord(s, phrase string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], phrase)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(phrase)
		if (start == 0 || !isWordByte(s[start-1])) && (end == len(s) || !isWordByte(s[end])) {
			return true
		}
		i = start + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
