package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformLinkedIn   Platform = "linkedin"
	PlatformIndeed     Platform = "indeed"
	PlatformNaukri     Platform = "naukri"
	PlatformUnknown    Platform = "unknown"
)

// platformHosts maps host suffixes to boards. Checked in order.
var platformHosts = []struct {
	suffix   string
	platform Platform
}{
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
	{"myworkdayjobs.com", PlatformWorkday},
	{"workday.com", PlatformWorkday},
	{"ashbyhq.com", PlatformAshby},
	{"linkedin.com", PlatformLinkedIn},
	{"indeed.com", PlatformIndeed},
	{"naukri.com", PlatformNaukri},
}

// DetectPlatform identifies the job board from a URL's host.
func DetectPlatform(rawURL string) Platform {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for _, h := range platformHosts {
		if host == h.suffix || strings.HasSuffix(host, "."+h.suffix) {
			return h.platform
		}
	}
	return PlatformUnknown
}

// RendersClientSide reports whether a board is known to need a browser.
func (p Platform) RendersClientSide() bool {
	switch p {
	case PlatformWorkday, PlatformAshby, PlatformNaukri:
		return true
	default:
		return false
	}
}

// ContentSelectors returns the description selectors for a board, most
// specific first.
func (p Platform) ContentSelectors() []string {
	var specific []string
	switch p {
	case PlatformGreenhouse:
		specific = []string{".job__description.body", ".job__description", "#content", ".job-post-container"}
	case PlatformLever:
		specific = []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description"}
	case PlatformWorkday:
		specific = []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']"}
	case PlatformAshby:
		specific = []string{"._descriptionText_", ".ashby-job-posting-right-pane"}
	case PlatformLinkedIn:
		specific = []string{".show-more-less-html__markup", ".description__text", ".jobs-description"}
	case PlatformIndeed:
		specific = []string{"#jobDescriptionText", ".jobsearch-JobComponent-description"}
	case PlatformNaukri:
		specific = []string{".styles_JDC__dang-inner-html__h0K4t", ".job-desc", ".dang-inner-html"}
	}
	return append(specific, JobPostingSelectors()...)
}

// NoiseSelectors returns selectors for application forms, EEO blocks and
// share widgets that are stripped before extraction.
func (p Platform) NoiseSelectors() []string {
	common := []string{
		"form",
		"#application-form",
		".application-form",
		".apply-button-container",
		"[data-testid='application-form']",
		".voluntary-disclosure",
		".eeo-statement",
		".eeo-section",
		".legal-disclosure",
		".social-share",
		".share-buttons",
		".cookie-consent",
		".gdpr-notice",
	}

	switch p {
	case PlatformGreenhouse:
		return append(common, ".application--wrapper", ".voluntary-self-id", "#usa_self_id_section")
	case PlatformLever:
		return append(common, ".apply-section", ".posting-apply")
	case PlatformWorkday:
		return append(common, "[data-automation-id='applyButton']", ".WDAF")
	case PlatformLinkedIn:
		return append(common, ".top-card-layout__cta-container", ".similar-jobs", ".sign-up-modal")
	case PlatformIndeed:
		return append(common, "#jobsearch-ViewJobButtons-container", ".jobsearch-RelatedLinks")
	default:
		return common
	}
}
