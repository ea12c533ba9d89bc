package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/llm"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/prompts"
	"go.uber.org/zap"
)

// Chat reply kinds.
const (
	QueryGreeting      = "greeting"
	QueryPraise        = "praise"
	QueryLLM           = "llm_powered"
	QueryErrorFallback = "error_fallback"
)

const signupNudge = "Want to unlock more features? Sign up or log in to access personalized job tracking, AI-powered skill analysis, and interview preparation tools!"

var (
	greetings   = []string{"hi", "hello", "hey", "yo", "sup", "howdy", "hola", "hii", "hiii", "heyyy"}
	praiseWords = []string{"awesome", "brilliant", "thanks", "thank you", "perfect", "nice", "amazing", "cool", "great", "excellent"}

	productPhrases = []string{"this product", "this website", "this application", "this app", "this platform"}

	leadingGreeting = regexp.MustCompile(`(?is)^\s*(?:hi|hello|hey|sure|absolutely|greetings|welcome)\b.*?[,.!]\s*`)
)

// ChatRequest is one user message plus its context. UserName is empty for
// guests.
type ChatRequest struct {
	Message      string
	History      []llm.Message
	UserName     string
	MessageCount int
	Applications []db.Application
	Resume       string
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Response  string `json:"response"`
	QueryType string `json:"query_type"`
}

// Chat answers a message. Greetings and praise are answered without calling
// the model, and a failed model call degrades to a canned reply.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, &InputError{Field: "message", Message: "message is required"}
	}

	lower := strings.ToLower(strings.TrimSpace(req.Message))
	authenticated := req.UserName != ""

	if isGreeting(lower) {
		if authenticated {
			prefix := "Hi"
			if req.MessageCount > 0 {
				prefix = "Hello"
			}
			return &ChatResponse{
				Response:  fmt.Sprintf("%s! **%s**,\n\nHow can I help you with Interview Vault today? Feel free to ask about your applications, job statistics, features, or anything else! 👋", prefix, req.UserName),
				QueryType: QueryGreeting,
			}, nil
		}
		return &ChatResponse{
			Response:  "Hello! 👋\n\nWelcome to Interview Vault! I can help answer your questions about our platform. To track applications, score your resume and prepare for interviews, please sign up or log in!",
			QueryType: QueryGreeting,
		}, nil
	}

	if isPraise(lower) {
		if authenticated {
			return &ChatResponse{
				Response:  fmt.Sprintf("Sure **%s**,\n\nThank you so much! 🙏✨ It's my pleasure to assist you. If you have any more questions, I'm always here to help!", req.UserName),
				QueryType: QueryPraise,
			}, nil
		}
		return &ChatResponse{
			Response:  "Thank you! 🙏✨ I'm glad I could help. " + signupNudge,
			QueryType: QueryPraise,
		}, nil
	}

	data := map[string]any{
		"UserName":             req.UserName,
		"Knowledge":            prompts.MustGet(prompts.Assistant, "knowledge-base"),
		"ApplicationSummary":   ApplicationSummary(req.Applications),
		"MatchingApplications": ApplicationSummary(SearchApplications(req.Message, req.Applications)),
		"RelevantContext":      "",
		"Resume":               llm.Truncate(req.Resume, MaxInputChars),
	}
	if relevant := s.retrieve(ctx, req); relevant != nil {
		data["RelevantContext"] = RenderPassages(relevant)
		data["Resume"] = ""
	}
	system, err := prompts.Render(prompts.Assistant, "chat-system", data)
	if err != nil {
		return nil, err
	}

	text, err := s.client.Generate(ctx, llm.Request{
		System:      system,
		Prompt:      replaceProductPhrases(req.Message),
		History:     req.History,
		Temperature: 0.7,
	}, llm.TierLite)
	if err != nil {
		s.logger.Error("chat generation failed", zap.Error(err))
		name := req.UserName
		if name == "" {
			name = "there"
		}
		return &ChatResponse{
			Response:  fmt.Sprintf("Sure **%s**,\n\nI'm experiencing some technical difficulties, but I'm still here to help. Please try asking your question again.", name),
			QueryType: QueryErrorFallback,
		}, nil
	}

	return &ChatResponse{Response: decorate(text, req), QueryType: QueryLLM}, nil
}

// retrieve ranks the user's passages against the message. It returns nil when
// retrieval is off, there is nothing to rank, or embedding fails, and the
// caller then falls back to the full resume.
func (s *Service) retrieve(ctx context.Context, req ChatRequest) []Passage {
	if s.retriever == nil {
		return nil
	}
	passages := Passages(req.Applications, req.Resume)
	if len(passages) == 0 {
		return nil
	}
	relevant, err := s.retriever.Retrieve(ctx, req.Message, passages)
	if err != nil {
		s.logger.Warn("chat retrieval failed, using full context", zap.Error(err))
		return nil
	}
	if len(relevant) == 0 {
		return nil
	}
	return relevant
}

// decorate enforces the greeting for signed-in users and the sign-up nudge for guests.
func decorate(text string, req ChatRequest) string {
	text = strings.TrimSpace(text)
	if req.UserName == "" {
		lower := strings.ToLower(text)
		if !strings.Contains(lower, "sign up") && !strings.Contains(lower, "log in") {
			text += "\n\n" + signupNudge
		}
		return text
	}

	body := strings.TrimSpace(leadingGreeting.ReplaceAllString(text, ""))
	prefix := "Hi"
	if req.MessageCount > 0 {
		prefix = "Sure"
	}
	return fmt.Sprintf("%s **%s**,\n\n%s", prefix, req.UserName, body)
}

func isGreeting(lower string) bool {
	for _, g := range greetings {
		if lower == g || lower == g+"!" || lower == g+"?" {
			return true
		}
	}
	return false
}

func isPraise(lower string) bool {
	for _, p := range praiseWords {
		if lower == p || (strings.HasPrefix(lower, p) && len(lower) < len(p)+10) {
			return true
		}
	}
	return false
}

func replaceProductPhrases(message string) string {
	for _, phrase := range productPhrases {
		message = replaceFold(message, phrase, "Interview Vault")
	}
	return message
}

// replaceFold replaces every case-insensitive occurrence of old.
func replaceFold(s, old, replacement string) string {
	lower := strings.ToLower(s)
	if len(lower) != len(s) {
		return strings.ReplaceAll(s, old, replacement)
	}
	var sb strings.Builder
	i := 0
	for {
		j := strings.Index(lower[i:], old)
		if j < 0 {
			sb.WriteString(s[i:])
			return sb.String()
		}
		sb.WriteString(s[i : i+j])
		sb.WriteString(replacement)
		i += j + len(old)
	}
}

// ApplicationSummary renders a user's applications as grounding context for
// the chat model. It returns "" for no applications.
func ApplicationSummary(apps []db.Application) string {
	if len(apps) == 0 {
		return ""
	}

	var order []string
	byStatus := map[string][]db.Application{}
	for _, a := range apps {
		if _, ok := byStatus[a.Status]; !ok {
			order = append(order, a.Status)
		}
		byStatus[a.Status] = append(byStatus[a.Status], a)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total applications: %d\n", len(apps))
	counts := make([]string, 0, len(order))
	for _, status := range order {
		counts = append(counts, fmt.Sprintf("%s: %d", status, len(byStatus[status])))
	}
	fmt.Fprintf(&sb, "Status summary: %s\n", strings.Join(counts, ", "))

	n := 1
	for _, status := range order {
		fmt.Fprintf(&sb, "\n%s:\n", strings.ToUpper(status))
		for _, a := range byStatus[status] {
			fmt.Fprintf(&sb, "%d. %s", n, a.CompanyName)
			if a.JobTitle != "" {
				fmt.Fprintf(&sb, " - %s", a.JobTitle)
			}
			fmt.Fprintf(&sb, " (Applied: %s)\n", a.AppliedAt.Format("2006-01-02"))
			n++
		}
	}
	return sb.String()
}
