package server

import (
	"net/http"
	"strings"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/types"
	"go.uber.org/zap"
)

const otpSentMessage = "If an account exists for this address, a verification code has been sent"

func (s *Server) requireOTP() error {
	if s.otp == nil || !s.notifier.enabled() {
		return &ErrUnavailable{Feature: "password reset"}
	}
	return nil
}

// handleSendOTP emails a password reset code. The response is the same
// whether or not the address is registered.
func (s *Server) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	if err := s.requireOTP(); err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.SendOTPRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	address := strings.ToLower(strings.TrimSpace(req.Email))

	code, token, err := s.otp.Issue(address)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), address)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if user != nil {
		msg, err := s.notifier.composer.OTP(address, code, s.otp.TTL())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if err := s.notifier.send(r.Context(), msg); err != nil {
			s.fail(w, r, err)
			return
		}
	} else {
		s.logger.Debug("otp requested for unknown address")
	}

	s.jsonResponse(w, http.StatusOK, types.SendOTPResponse{
		Message:   otpSentMessage,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	})
}

// handleVerifyOTP checks a reset code. With new_password set it also
// resets the password and signs the user in.
func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	if s.otp == nil {
		s.fail(w, r, &ErrUnavailable{Feature: "password reset"})
		return
	}

	var req types.VerifyOTPRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.otp.Verify(req.Token, req.Email, req.Code); err != nil {
		s.fail(w, r, err)
		return
	}

	if req.NewPassword == "" {
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"valid":   true,
			"message": "OTP verified",
		})
		return
	}

	user, err := s.userService.ResetPassword(r.Context(), req.Email, req.NewPassword)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info("password reset", zap.String("user_id", user.ID.String()))
	s.jsonResponse(w, http.StatusOK, types.LoginResponse{User: user, Token: token})
}
