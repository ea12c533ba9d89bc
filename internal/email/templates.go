package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultSupportAddress is shown in every email footer.
const DefaultSupportAddress = "interviewvault.2026@gmail.com"

// MaxDigestApplications caps the recent-applications table of a digest.
const MaxDigestApplications = 10

// Brand carries the links shared by every template.
type Brand struct {
	AppURL  string
	Support string
}

// SignInData fills the new-login notice.
type SignInData struct {
	Brand
	Name      string
	Email     string
	LoginTime string
	Browser   string
	IPAddress string
}

// SignUpData fills the welcome email.
type SignUpData struct {
	Brand
	Name  string
	Email string
}

// OTPData fills the password reset email.
type OTPData struct {
	Brand
	Code             string
	ExpiresInMinutes int
}

// DigestData fills the scheduled summary email.
type DigestData struct {
	Brand
	Name           string
	Frequency      string
	FrequencyLower string
	Total          int
	HRScreening    int
	Selected       int
	Offers         int
	Recent         []db.Application
}

var frequencyLabels = map[string]string{
	db.FrequencyDaily:     "Daily",
	db.FrequencyWeekly:    "Weekly",
	db.FrequencyBiWeekly:  "Bi-Weekly",
	db.FrequencyMonthly:   "Monthly",
	db.FrequencyQuarterly: "Quarterly",
}

// FrequencyLabel returns the display label for a digest frequency.
func FrequencyLabel(frequency string) string {
	if label, ok := frequencyLabels[frequency]; ok {
		return label
	}
	return "Scheduled"
}

func badgeStyle(status string) template.CSS {
	switch status {
	case db.StatusHRScreeningDone:
		return "background: #3B82F6; color: white;"
	case db.StatusShortlisted, db.StatusInterviewScheduled, db.StatusInterviewRescheduled:
		return "background: #A855F7; color: white;"
	case db.StatusSelected, db.StatusOfferReleased:
		return "background: #10B981; color: white;"
	case db.StatusGhosted, db.StatusRejected:
		return "background: #EF4444; color: white;"
	default:
		return "background: #E5E7EB; color: #374151;"
	}
}

var (
	templatesOnce sync.Once
	templates     map[string]*template.Template
	templatesErr  error
)

func loadTemplates() (map[string]*template.Template, error) {
	templatesOnce.Do(func() {
		templates = make(map[string]*template.Template)
		funcs := template.FuncMap{"badgeStyle": badgeStyle}
		for _, name := range []string{"signin.html", "signup.html", "otp.html", "digest.html"} {
			t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
			if err != nil {
				templatesErr = fmt.Errorf("failed to parse email template %s: %w", name, err)
				return
			}
			templates[name] = t
		}
	})
	return templates, templatesErr
}

func render(name string, data any) (string, error) {
	all, err := loadTemplates()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := all[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("failed to render email template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Composer renders messages with a fixed brand.
type Composer struct {
	brand Brand
}

// NewComposer returns a Composer linking to appURL.
func NewComposer(appURL string) *Composer {
	return &Composer{brand: Brand{
		AppURL:  strings.TrimRight(appURL, "/"),
		Support: DefaultSupportAddress,
	}}
}

// SignIn renders the new-login notice. Empty fields get display defaults.
func (c *Composer) SignIn(d SignInData) (Message, error) {
	d.Brand = c.brand
	d.Name = orDefault(d.Name, "User")
	d.LoginTime = orDefault(d.LoginTime, time.Now().UTC().Format("2006-01-02 15:04:05"))
	d.Browser = orDefault(d.Browser, "Unknown")
	d.IPAddress = orDefault(d.IPAddress, "Not Available")

	html, err := render("signin.html", d)
	if err != nil {
		return Message{}, err
	}
	return Message{To: d.Email, ToName: d.Name, Subject: "🔐 New Login to Interview Vault", HTML: html}, nil
}

// SignUp renders the welcome email.
func (c *Composer) SignUp(d SignUpData) (Message, error) {
	d.Brand = c.brand
	d.Name = orDefault(d.Name, "Future Achiever")

	html, err := render("signup.html", d)
	if err != nil {
		return Message{}, err
	}
	return Message{To: d.Email, ToName: d.Name, Subject: "🎉 Welcome to Interview Vault!", HTML: html}, nil
}

// OTP renders the password reset code.
func (c *Composer) OTP(to, code string, ttl time.Duration) (Message, error) {
	html, err := render("otp.html", OTPData{
		Brand:            c.brand,
		Code:             code,
		ExpiresInMinutes: int(ttl.Minutes()),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, ToName: "User", Subject: "🔐 Your Password Reset OTP", HTML: html}, nil
}

// Digest renders the scheduled summary. Recent is trimmed to
// MaxDigestApplications.
func (c *Composer) Digest(to string, d DigestData) (Message, error) {
	d.Brand = c.brand
	d.Name = orDefault(d.Name, "there")
	label := FrequencyLabel(d.Frequency)
	d.Frequency = label
	d.FrequencyLower = strings.ToLower(label)
	if len(d.Recent) > MaxDigestApplications {
		d.Recent = d.Recent[:MaxDigestApplications]
	}

	html, err := render("digest.html", d)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		ToName:  d.Name,
		Subject: fmt.Sprintf("📊 Your %s Interview Vault Digest", label),
		HTML:    html,
	}, nil
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
