// Package assistant generates interview preparation material and answers
// chat questions through the LLM client.
package assistant

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/llm"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/prompts"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/schemas"
	"go.uber.org/zap"
)

const (
	// QuestionCount is how many interview questions are generated.
	QuestionCount = 20
	// ConceptualCount is how many of them are conceptual; the rest are coding.
	ConceptualCount = 10
	// ProjectCount is how many project ideas are generated.
	ProjectCount = 5
	// MaxInputChars caps resume and job description text sent to the model.
	MaxInputChars = 20000

	defaultCompany = "Company"
	defaultTitle   = "Position"
)

// Service wraps an LLM client with the assistant prompts.
type Service struct {
	client    llm.Client
	retriever *Retriever
	logger    *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithRetriever grounds chat replies in the passages of the user's data most
// similar to each message instead of the full resume.
func WithRetriever(r *Retriever) Option {
	return func(s *Service) { s.retriever = r }
}

// New creates a Service. A nil logger discards output.
func New(client llm.Client, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{client: client, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Question is one generated interview question.
type Question struct {
	Number   int    `json:"number"`
	Type     string `json:"type"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Code     string `json:"code,omitempty"`
}

// QuestionsRequest is the input for InterviewQuestions.
type QuestionsRequest struct {
	Resume         string
	JobDescription string
	CompanyName    string
	JobTitle       string
}

// InterviewQuestions generates conceptual and coding questions tailored to
// the resume and job description.
func (s *Service) InterviewQuestions(ctx context.Context, req QuestionsRequest) ([]Question, error) {
	if strings.TrimSpace(req.Resume) == "" {
		return nil, &InputError{Field: "resume", Message: "resume text is required"}
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return nil, &InputError{Field: "job_description", Message: "job description is required"}
	}

	prompt, err := prompts.Render(prompts.Assistant, "interview-questions", map[string]any{
		"Count":          QuestionCount,
		"Conceptual":     ConceptualCount,
		"CompanyName":    orDefault(req.CompanyName, defaultCompany),
		"JobTitle":       orDefault(req.JobTitle, defaultTitle),
		"Resume":         llm.Truncate(req.Resume, MaxInputChars),
		"JobDescription": llm.Truncate(req.JobDescription, MaxInputChars),
	})
	if err != nil {
		return nil, err
	}

	var questions []Question
	if err := s.generateValidated(ctx, prompt, 0.7, schemas.InterviewQuestions, "interview questions", &questions); err != nil {
		return nil, err
	}

	s.logger.Info("generated interview questions",
		zap.String("company", req.CompanyName),
		zap.Int("count", len(questions)),
	)
	return questions, nil
}

// Project is one generated portfolio project idea.
type Project struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Technologies     []string `json:"technologies"`
	ImpressiveReason string   `json:"impressive_reason"`
}

// ProjectsRequest is the input for ProjectIdeas.
type ProjectsRequest struct {
	JobDescription string
	CompanyName    string
	JobTitle       string
}

// ProjectIdeas suggests portfolio projects for a job description.
func (s *Service) ProjectIdeas(ctx context.Context, req ProjectsRequest) ([]Project, error) {
	if strings.TrimSpace(req.JobDescription) == "" {
		return nil, &InputError{Field: "job_description", Message: "job description is required"}
	}

	prompt, err := prompts.Render(prompts.Assistant, "project-ideas", map[string]any{
		"Count":          ProjectCount,
		"CompanyName":    orDefault(req.CompanyName, defaultCompany),
		"JobTitle":       orDefault(req.JobTitle, defaultTitle),
		"JobDescription": llm.Truncate(req.JobDescription, MaxInputChars),
	})
	if err != nil {
		return nil, err
	}

	var projects []Project
	if err := s.generateValidated(ctx, prompt, 0.8, schemas.ProjectIdeas, "project ideas", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CleanResumeText repairs spacing artifacts of PDF-extracted resume text.
func (s *Service) CleanResumeText(ctx context.Context, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", &InputError{Field: "resume", Message: "resume text is required"}
	}

	text, err := s.client.Generate(ctx, llm.Request{
		System:      prompts.MustGet(prompts.Assistant, "clean-resume"),
		Prompt:      llm.Truncate(raw, MaxInputChars),
		Temperature: 0.1,
	}, llm.TierLite)
	if err != nil {
		return "", &APICallError{Message: "failed to clean resume", Cause: err}
	}
	return strings.TrimSpace(text), nil
}

// generateValidated asks for JSON, checks it against schemaName and decodes it into out.
func (s *Service) generateValidated(ctx context.Context, prompt string, temperature float32, schemaName, what string, out any) error {
	raw, err := s.client.Generate(ctx, llm.Request{
		System:      prompts.MustGet(prompts.Assistant, "json-only-system"),
		Prompt:      prompt,
		Temperature: temperature,
		JSON:        true,
	}, llm.TierStandard)
	if err != nil {
		return &APICallError{Message: "failed to generate " + what, Cause: err}
	}

	var doc any
	if err := llm.DecodeJSON(raw, what, &doc); err != nil {
		s.logger.Warn("unparseable LLM response", zap.String("what", what), zap.Error(err))
		return err
	}
	if err := schemas.ValidateValue(schemaName, doc); err != nil {
		return &llm.ParseError{What: what, Err: err}
	}

	// Re-encode the validated document into the typed result.
	data, err := json.Marshal(doc)
	if err != nil {
		return &llm.ParseError{What: what, Err: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &llm.ParseError{What: what, Err: err}
	}
	return nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
