package email

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// OTPDigits is the length of a password reset code.
	OTPDigits = 6
	// DefaultOTPTTL is how long a code stays valid.
	DefaultOTPTTL = 10 * time.Minute
)

// ErrInvalidOTP is returned for a wrong, expired or tampered code.
var ErrInvalidOTP = errors.New("invalid or expired OTP")

// OTPClaims is the signed payload handed to the client with a code. The code
// itself never leaves the server except by email.
type OTPClaims struct {
	Email    string `json:"email"`
	CodeHash string `json:"code_hash"`
	jwt.RegisteredClaims
}

// OTPToken is returned to the client after a code is sent.
type OTPToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OTPIssuer creates and verifies password reset codes.
type OTPIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewOTPIssuer signs tokens with secret. A non-positive ttl falls back to
// DefaultOTPTTL.
func NewOTPIssuer(secret string, ttl time.Duration) (*OTPIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("OTP signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}
	return &OTPIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns the code lifetime.
func (o *OTPIssuer) TTL() time.Duration {
	return o.ttl
}

// GenerateCode returns a uniformly random numeric code of OTPDigits digits.
func GenerateCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < OTPDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%0*d", OTPDigits, n.Int64()), nil
}

// hashCode is keyed with the signing secret; the token is readable by the client.
func (o *OTPIssuer) hashCode(email, code string) string {
	mac := hmac.New(sha256.New, o.secret)
	mac.Write([]byte(normalizeEmail(email) + "." + code))
	return hex.EncodeToString(mac.Sum(nil))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Issue creates a code for email and the token that later proves it.
func (o *OTPIssuer) Issue(email string) (string, *OTPToken, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", nil, err
	}
	token, err := o.Sign(email, code)
	if err != nil {
		return "", nil, err
	}
	return code, token, nil
}

// Sign binds code to email in a signed token.
func (o *OTPIssuer) Sign(email, code string) (*OTPToken, error) {
	now := o.now()
	expiresAt := now.Add(o.ttl)
	claims := &OTPClaims{
		Email:    normalizeEmail(email),
		CodeHash: o.hashCode(email, code),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(o.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign OTP token: %w", err)
	}
	return &OTPToken{Token: signed, ExpiresAt: expiresAt.Truncate(time.Second)}, nil
}

// Verify checks code against a token issued for email.
func (o *OTPIssuer) Verify(token, email, code string) error {
	claims := &OTPClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return o.secret, nil
	}, jwt.WithTimeFunc(o.now))
	if err != nil || !parsed.Valid {
		return ErrInvalidOTP
	}
	if claims.Email != normalizeEmail(email) {
		return ErrInvalidOTP
	}
	if subtle.ConstantTimeCompare([]byte(claims.CodeHash), []byte(o.hashCode(email, code))) != 1 {
		return ErrInvalidOTP
	}
	return nil
}
