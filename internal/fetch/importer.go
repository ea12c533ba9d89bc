package fetch

import (
	"context"
	"errors"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/llm"
	"go.uber.org/zap"
)

// maxExtractionChars bounds the posting text sent for field extraction.
const maxExtractionChars = 12000

// ErrNoContent is returned when a page yields no description text.
var ErrNoContent = errors.New("no job description text found")

// PageCache stores extracted page text by URL.
type PageCache interface {
	GetPage(ctx context.Context, url string) (string, bool, error)
	SetPage(ctx context.Context, url, text string) error
}

// JobPosting is an imported job description with the tracker fields that
// could be read from it.
type JobPosting struct {
	URL         string   `json:"url"`
	Platform    Platform `json:"platform"`
	PageTitle   string   `json:"page_title,omitempty"`
	Description string   `json:"job_description"`
	CompanyName string   `json:"company_name"`
	JobTitle    string   `json:"job_title"`
	Location    string   `json:"location"`
	Industry    string   `json:"industry"`
	CompanySize string   `json:"company_size"`
	FromCache   bool     `json:"from_cache"`
	Rendered    bool     `json:"rendered"`
}

type postingFields struct {
	CompanyName string `json:"company_name"`
	JobTitle    string `json:"job_title"`
	Location    string `json:"location"`
	Industry    string `json:"industry"`
	CompanySize string `json:"company_size"`
}

// Importer turns a job posting URL into description text and prefilled
// application fields.
type Importer struct {
	client    *Client
	renderer  Renderer
	cache     PageCache
	extractor llm.Client
	logger    *zap.Logger
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithRenderer enables the headless browser fallback.
func WithRenderer(r Renderer) ImporterOption {
	return func(im *Importer) { im.renderer = r }
}

// WithPageCache caches extracted text by URL.
func WithPageCache(c PageCache) ImporterOption {
	return func(im *Importer) { im.cache = c }
}

// WithExtractor fills company, title and location through the LLM.
func WithExtractor(c llm.Client) ImporterOption {
	return func(im *Importer) { im.extractor = c }
}

// WithLogger sets the importer's logger.
func WithLogger(l *zap.Logger) ImporterOption {
	return func(im *Importer) { im.logger = l }
}

// NewImporter builds an Importer over client.
func NewImporter(client *Client, opts ...ImporterOption) *Importer {
	if client == nil {
		client = NewClient(nil)
	}
	im := &Importer{client: client, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Import fetches rawURL and extracts the posting. Field extraction failures
// leave the fields empty and are logged, never returned.
func (im *Importer) Import(ctx context.Context, rawURL string) (*JobPosting, error) {
	if _, err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	posting := &JobPosting{URL: rawURL, Platform: DetectPlatform(rawURL)}

	if im.cache != nil {
		text, ok, err := im.cache.GetPage(ctx, rawURL)
		if err != nil {
			im.logger.Warn("page cache read failed", zap.String("url", rawURL), zap.Error(err))
		}
		if ok {
			posting.Description = text
			posting.FromCache = true
		}
	}

	if !posting.FromCache {
		if err := im.load(ctx, posting); err != nil {
			return nil, err
		}
		if im.cache != nil {
			if err := im.cache.SetPage(ctx, rawURL, posting.Description); err != nil {
				im.logger.Warn("page cache write failed", zap.String("url", rawURL), zap.Error(err))
			}
		}
	}

	im.extractFields(ctx, posting)
	return posting, nil
}

func (im *Importer) load(ctx context.Context, posting *JobPosting) error {
	content := posting.Platform.ContentSelectors()
	noise := posting.Platform.NoiseSelectors()

	result, fetchErr := im.client.Get(ctx, posting.URL)
	if fetchErr == nil {
		text, err := ExtractMainText(result.HTML, content, noise...)
		if err != nil {
			return &Error{URL: posting.URL, Message: "failed to extract text", Cause: err}
		}
		posting.Description = text
		posting.PageTitle = PageTitle(result.HTML)
	}

	needsBrowser := fetchErr != nil || ShouldUseBrowser(posting.Description) || posting.Platform.RendersClientSide()
	if needsBrowser && im.renderer != nil {
		im.logger.Info("rendering job page in browser",
			zap.String("url", posting.URL),
			zap.Int("http_text_len", len(posting.Description)),
			zap.NamedError("fetch_error", fetchErr))

		html, err := im.renderer.Render(ctx, posting.URL)
		if err != nil {
			im.logger.Warn("browser rendering failed", zap.String("url", posting.URL), zap.Error(err))
		} else if text, err := ExtractMainText(html, content, noise...); err == nil && len(text) > len(posting.Description) {
			posting.Description = text
			posting.Rendered = true
			if title := PageTitle(html); title != "" {
				posting.PageTitle = title
			}
		}
	}

	if posting.Description == "" {
		if fetchErr != nil {
			return fetchErr
		}
		return &Error{URL: posting.URL, Message: "empty page", Cause: ErrNoContent}
	}
	return nil
}

func (im *Importer) extractFields(ctx context.Context, posting *JobPosting) {
	if im.extractor == nil {
		return
	}

	prompt := llm.BuildExtractionPrompt(llm.JobPostingSchema(), llm.Truncate(posting.Description, maxExtractionChars))
	raw, err := im.extractor.Generate(ctx, llm.Request{Prompt: prompt, JSON: true, Temperature: 0.1}, llm.TierLite)
	if err != nil {
		im.logger.Warn("job field extraction failed", zap.String("url", posting.URL), zap.Error(err))
		return
	}

	var fields postingFields
	if err := llm.DecodeJSON(raw, "job posting", &fields); err != nil {
		im.logger.Warn("job field extraction returned invalid JSON", zap.String("url", posting.URL), zap.Error(err))
		return
	}
	posting.CompanyName = fields.CompanyName
	posting.JobTitle = fields.JobTitle
	posting.Location = fields.Location
	posting.Industry = fields.Industry
	posting.CompanySize = fields.CompanySize
}
