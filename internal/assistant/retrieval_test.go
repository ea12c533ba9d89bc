package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keywordEmbedder embeds a text as keyword counts over a fixed vocabulary.
type keywordEmbedder struct {
	keywords []string
	err      error
	short    bool
	calls    [][]string
}

func newKeywordEmbedder() *keywordEmbedder {
	return &keywordEmbedder{keywords: []string{"kafka", "react", "kubernetes", "stripe", "globex", "offer", "rejected"}}
}

func (k *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	k.calls = append(k.calls, texts)
	if k.err != nil {
		return nil, k.err
	}
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		lower := strings.ToLower(text)
		vec := make([]float32, len(k.keywords))
		for i, kw := range k.keywords {
			vec[i] = float32(strings.Count(lower, kw))
		}
		out = append(out, vec)
	}
	if k.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

var (
	retrievalDate = time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	stripeScore   = "82.50"

	retrievalApps = []db.Application{
		{
			CompanyName:    "Stripe",
			JobTitle:       "Backend Engineer",
			Status:         db.StatusInterviewScheduled,
			Location:       "Bengaluru",
			ATSScore:       &stripeScore,
			Notes:          "Referral from Anu",
			JobDescription: "Build payment services in Go.\n\nKafka and Kubernetes experience required.",
			AppliedAt:      retrievalDate,
		},
		{CompanyName: "Globex", JobTitle: "Frontend Developer", Status: db.StatusRejected, JobDescription: "React and TypeScript", AppliedAt: retrievalDate},
		{CompanyName: "Initech", Status: db.StatusApplied, AppliedAt: retrievalDate},
	}

	retrievalResume = "Priya Raman\nSenior Engineer\n\nBuilt Kafka pipelines processing 2M events per day\nShipped React dashboards"
)

func TestPassages(t *testing.T) {
	passages := Passages(retrievalApps, retrievalResume)
	require.Len(t, passages, 4)

	assert.Equal(t, SourceApplication, passages[0].Source)
	assert.Equal(t,
		"Stripe - Backend Engineer | Status: Interview Scheduled | Applied: 2026-05-04 | Location: Bengaluru | ATS score: 82.50 | Notes: Referral from Anu\n"+
			"Job description: Build payment services in Go. Kafka and Kubernetes experience required.",
		passages[0].Text)
	assert.Equal(t, "Initech | Status: Applied | Applied: 2026-05-04", passages[2].Text)

	assert.Equal(t, SourceResume, passages[3].Source)
	assert.Equal(t, "Priya Raman\nSenior Engineer\nBuilt Kafka pipelines processing 2M events per day\nShipped React dashboards", passages[3].Text)

	assert.Empty(t, Passages(nil, "  \n\n "))
}

func TestPassages_LongDescriptionIsExcerpted(t *testing.T) {
	app := db.Application{CompanyName: "Acme", Status: db.StatusApplied, JobDescription: strings.Repeat("word ", 400), AppliedAt: retrievalDate}

	text := Passages([]db.Application{app}, "")[0].Text
	_, excerpt, ok := strings.Cut(text, "Job description: ")
	require.True(t, ok)
	assert.Equal(t, descriptionExcerptChars+len("..."), len(excerpt))
}

func TestChunkResume(t *testing.T) {
	line := strings.Repeat("a", 300)
	long := strings.Repeat("b", resumeChunkChars+50)

	tests := []struct {
		name   string
		resume string
		want   []string
	}{
		{name: "empty", resume: "", want: nil},
		{name: "blank lines dropped", resume: "Go\n\n  Rust  \n", want: []string{"Go\nRust"}},
		{name: "split at limit", resume: line + "\n" + line + "\n" + line, want: []string{line + "\n" + line, line}},
		{name: "oversized line alone", resume: "Go\n" + long + "\nRust", want: []string{"Go", long, "Rust"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chunkResume(tt.resume)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRetriever_Retrieve(t *testing.T) {
	embedder := newKeywordEmbedder()
	passages := Passages(retrievalApps, retrievalResume)

	t.Run("ranks by similarity", func(t *testing.T) {
		got, err := NewRetriever(embedder, 0).Retrieve(context.Background(), "What Kafka work have I done?", passages)
		require.NoError(t, err)
		require.Len(t, got, 2, "passages without kafka score zero and are dropped")
		assert.Equal(t, SourceResume, got[0].Source)
		assert.Contains(t, got[1].Text, "Stripe")
		assert.GreaterOrEqual(t, got[0].Score, got[1].Score)

		last := embedder.calls[len(embedder.calls)-1]
		assert.Equal(t, "What Kafka work have I done?", last[0], "query is embedded first")
		assert.Len(t, last, len(passages)+1)
	})

	t.Run("top k", func(t *testing.T) {
		got, err := NewRetriever(embedder, 1).Retrieve(context.Background(), "kafka react kubernetes globex", passages)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("nothing to rank", func(t *testing.T) {
		calls := len(embedder.calls)
		got, err := NewRetriever(embedder, 3).Retrieve(context.Background(), "kafka", nil)
		require.NoError(t, err)
		assert.Nil(t, got)
		got, err = NewRetriever(embedder, 3).Retrieve(context.Background(), "  ", passages)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Len(t, embedder.calls, calls)
	})
}

func TestRetriever_Errors(t *testing.T) {
	passages := Passages(retrievalApps, retrievalResume)

	tests := []struct {
		name     string
		embedder *keywordEmbedder
		wantErr  string
	}{
		{name: "embedding fails", embedder: &keywordEmbedder{err: errors.New("quota exceeded")}, wantErr: "quota exceeded"},
		{name: "count mismatch", embedder: &keywordEmbedder{keywords: []string{"kafka"}, short: true}, wantErr: "expected 5 embeddings, got 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRetriever(tt.embedder, 3).Retrieve(context.Background(), "kafka", passages)
			var apiErr *APICallError
			require.ErrorAs(t, err, &apiErr)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "scaled", a: []float32{1, 1}, b: []float32{3, 3}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 1}, want: 0},
		{name: "length mismatch", a: []float32{1}, b: []float32{1, 1}, want: 0},
		{name: "empty", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRenderPassages(t *testing.T) {
	out := RenderPassages([]Passage{
		{Source: SourceResume, Text: "Built Kafka pipelines"},
		{Source: SourceApplication, Text: "Stripe - Backend Engineer"},
	})
	assert.Equal(t, "[1] (resume) Built Kafka pipelines\n[2] (application) Stripe - Backend Engineer\n", out)
	assert.Empty(t, RenderPassages(nil))
}

func TestSearchApplications(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{name: "company name", message: "When did I apply to stripe?", want: []string{"Stripe"}},
		{name: "status", message: "Which applications were Rejected?", want: []string{"Globex"}},
		{name: "company and status", message: "Compare Initech with my interview scheduled ones", want: []string{"Stripe", "Initech"}},
		{name: "company inside a longer word", message: "I like stripes", want: nil},
		{name: "no match", message: "How do I prepare for system design?", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, a := range SearchApplications(tt.message, retrievalApps) {
				got = append(got, a.CompanyName)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChat_RetrievalGroundsPrompt(t *testing.T) {
	client := &fakeClient{response: "You built Kafka pipelines."}
	embedder := newKeywordEmbedder()
	svc := New(client, nil, WithRetriever(NewRetriever(embedder, 2)))

	_, err := svc.Chat(context.Background(), ChatRequest{
		Message:      "What Kafka experience should I mention to Stripe?",
		UserName:     "Priya",
		Applications: retrievalApps,
		Resume:       retrievalResume,
	})
	require.NoError(t, err)

	system := client.requests[0].System
	assert.Contains(t, system, "MOST RELEVANT USER DATA FOR THIS MESSAGE:\n[1] ")
	assert.Contains(t, system, "Built Kafka pipelines processing 2M events per day")
	assert.Contains(t, system, "APPLICATIONS NAMED IN THIS MESSAGE:\nTotal applications: 1")
	assert.NotContains(t, system, "USER RESUME:", "retrieved passages replace the full resume")
	assert.Contains(t, system, "Total applications: 3", "the status summary is kept")
}

func TestChat_RetrievalFallsBackToFullResume(t *testing.T) {
	tests := []struct {
		name     string
		embedder *keywordEmbedder
		message  string
	}{
		{name: "embedding fails", embedder: &keywordEmbedder{err: errors.New("unavailable")}, message: "What Kafka work have I done?"},
		{name: "nothing similar", embedder: newKeywordEmbedder(), message: "How should I negotiate salary?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{response: "ok"}
			svc := New(client, nil, WithRetriever(NewRetriever(tt.embedder, 2)))

			resp, err := svc.Chat(context.Background(), ChatRequest{
				Message:      tt.message,
				UserName:     "Priya",
				Applications: retrievalApps,
				Resume:       retrievalResume,
			})
			require.NoError(t, err)
			assert.Equal(t, QueryLLM, resp.QueryType)

			system := client.requests[0].System
			assert.Contains(t, system, "USER RESUME:\nPriya Raman")
			assert.NotContains(t, system, "MOST RELEVANT USER DATA")
		})
	}
}

func TestChat_GuestSkipsRetrieval(t *testing.T) {
	embedder := newKeywordEmbedder()
	svc := New(&fakeClient{response: "ATS means applicant tracking system."}, nil, WithRetriever(NewRetriever(embedder, 2)))

	_, err := svc.Chat(context.Background(), ChatRequest{Message: "What does kafka mean on a resume?"})
	require.NoError(t, err)
	assert.Empty(t, embedder.calls)
}
