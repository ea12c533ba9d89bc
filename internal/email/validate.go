package email

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"sort"
	"strings"
)

var addressPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validation steps reported in Validation.Step.
const (
	StepFormat   = "format"
	StepDNS      = "dns"
	StepVerified = "verified"
)

// MXResolver looks up mail exchangers. *net.Resolver satisfies it.
type MXResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// Validation is the outcome of ValidateAddress.
type Validation struct {
	Valid     bool     `json:"valid"`
	Email     string   `json:"email"`
	Domain    string   `json:"domain,omitempty"`
	Step      string   `json:"step"`
	Reason    string   `json:"reason"`
	Error     string   `json:"error,omitempty"`
	MXRecords []string `json:"mxRecords,omitempty"`
}

// Validator checks that an address is well formed and that its domain
// accepts mail.
type Validator struct {
	resolver MXResolver
}

// NewValidator uses net.DefaultResolver when resolver is nil.
func NewValidator(resolver MXResolver) *Validator {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &Validator{resolver: resolver}
}

// ValidAddressFormat reports whether address matches the basic
// local@domain.tld shape.
func ValidAddressFormat(address string) bool {
	return addressPattern.MatchString(address)
}

// ValidateAddress runs the format check and then the MX lookup. Lookup
// failures are reported in the result, not as errors.
func (v *Validator) ValidateAddress(ctx context.Context, address string) Validation {
	address = strings.TrimSpace(address)
	if !ValidAddressFormat(address) {
		return Validation{Email: address, Step: StepFormat, Reason: "Invalid email format"}
	}

	domain := strings.ToLower(address[strings.LastIndex(address, "@")+1:])
	result := Validation{Email: address, Domain: domain, Step: StepDNS}

	records, err := v.resolver.LookupMX(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		switch {
		case errors.As(err, &dnsErr) && dnsErr.IsNotFound:
			result.Reason = "Domain does not exist"
			result.Error = "NXDOMAIN"
		default:
			result.Reason = fmt.Sprintf("DNS lookup failed: %v", err)
			result.Error = err.Error()
		}
		return result
	}
	if len(records) == 0 {
		result.Reason = "No MX records found"
		result.Error = "NO_ANSWER"
		return result
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].Pref < records[j].Pref })
	for _, mx := range records {
		result.MXRecords = append(result.MXRecords, strings.TrimSuffix(mx.Host, "."))
	}
	result.Valid = true
	result.Step = StepVerified
	result.Reason = "Email verified (DNS validation passed)"
	return result
}
