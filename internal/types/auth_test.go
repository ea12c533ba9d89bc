package types

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRequests_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request interface{ Validate() error }
		errTag  string
	}{
		{name: "register", request: &CreateUserRequest{Name: "Priya", Email: "priya@example.com", Password: "password123"}},
		{name: "register eight char password", request: &CreateUserRequest{Name: "Priya", Email: "priya@example.com", Password: "12345678"}},
		{name: "register missing name", request: &CreateUserRequest{Email: "priya@example.com", Password: "password123"}, errTag: "required"},
		{name: "register bad email", request: &CreateUserRequest{Name: "Priya", Email: "priya-at-example", Password: "password123"}, errTag: "email"},
		{name: "register short password", request: &CreateUserRequest{Name: "Priya", Email: "priya@example.com", Password: "short"}, errTag: "min"},
		{name: "register password past bcrypt limit", request: &CreateUserRequest{Name: "Priya", Email: "priya@example.com", Password: strings.Repeat("x", 73)}, errTag: "max"},
		{name: "register long name", request: &CreateUserRequest{Name: strings.Repeat("n", 101), Email: "priya@example.com", Password: "password123"}, errTag: "max"},
		{name: "login", request: &LoginRequest{Email: "priya@example.com", Password: "x"}},
		{name: "login missing password", request: &LoginRequest{Email: "priya@example.com"}, errTag: "required"},
		{name: "login bad email", request: &LoginRequest{Email: "priya", Password: "password123"}, errTag: "email"},
		{name: "password change", request: &UpdatePasswordRequest{CurrentPassword: "oldpassword1", NewPassword: "newpassword1"}},
		{name: "password change too short", request: &UpdatePasswordRequest{CurrentPassword: "oldpassword1", NewPassword: "short"}, errTag: "min"},
		{name: "password change reuses current", request: &UpdatePasswordRequest{CurrentPassword: "samepassword", NewPassword: "samepassword"}, errTag: "nefield"},
		{name: "password change missing current", request: &UpdatePasswordRequest{NewPassword: "newpassword1"}, errTag: "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.errTag == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errTag)
		})
	}
}

func TestLoginResponse_JSON(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	body, err := json.Marshal(LoginResponse{
		User:  &User{ID: userID, Name: "Priya", Email: "priya@example.com", PasswordSet: true, HasResume: true, CreatedAt: now, UpdatedAt: now},
		Token: "jwt-token",
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "jwt-token", decoded["token"])

	user, ok := decoded["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, userID.String(), user["id"])
	assert.Equal(t, true, user["has_resume"])
	assert.Equal(t, true, user["password_set"])
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "resume_text")
}

func TestUpdateResumeRequest_Validation(t *testing.T) {
	assert.NoError(t, Validate(&UpdateResumeRequest{ResumeText: "Go developer"}))
	assert.Error(t, Validate(&UpdateResumeRequest{}))
	assert.Error(t, Validate(&UpdateResumeRequest{ResumeText: strings.Repeat("a", 200001)}))
}

func TestVerifyOTPRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request VerifyOTPRequest
		wantErr bool
	}{
		{
			name:    "code only",
			request: VerifyOTPRequest{Email: "john@example.com", Code: "123456", Token: "tok"},
		},
		{
			name:    "code with new password",
			request: VerifyOTPRequest{Email: "john@example.com", Code: "012345", Token: "tok", NewPassword: "password123"},
		},
		{
			name:    "short code",
			request: VerifyOTPRequest{Email: "john@example.com", Code: "12345", Token: "tok"},
			wantErr: true,
		},
		{
			name:    "non numeric code",
			request: VerifyOTPRequest{Email: "john@example.com", Code: "12a456", Token: "tok"},
			wantErr: true,
		},
		{
			name:    "missing token",
			request: VerifyOTPRequest{Email: "john@example.com", Code: "123456"},
			wantErr: true,
		},
		{
			name:    "weak new password",
			request: VerifyOTPRequest{Email: "john@example.com", Code: "123456", Token: "tok", NewPassword: "short"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.request)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDigestPreferenceRequest_Validation(t *testing.T) {
	tests := []struct {
		name          string
		frequency     string
		scheduledTime string
		wantErr       bool
	}{
		{"daily at nine", "daily", "09:00", false},
		{"with seconds", "bi-weekly", "18:30:00", false},
		{"quarterly midnight", "quarterly", "00:00", false},
		{"unknown frequency", "yearly", "09:00", true},
		{"hour out of range", "weekly", "24:00", true},
		{"missing minutes", "weekly", "9", true},
		{"missing time", "monthly", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&DigestPreferenceRequest{Frequency: tt.frequency, ScheduledTime: tt.scheduledTime})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
