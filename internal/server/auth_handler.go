package server

import (
	"net"
	"net/http"
	"time"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/email"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxUserAgentLen bounds the browser string quoted in login notices.
const maxUserAgentLen = 160

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	notifier    *notifier
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService, notifier *notifier, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = newNotifier(nil, nil, logger)
	}
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		notifier:    notifier,
		logger:      logger,
	}
}

// Register handles user registration requests. A welcome email is sent in
// the background.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if err := decodeRequest(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.notifier.sendAsync(r.Context(), "signup", func(c *email.Composer) (email.Message, error) {
		return c.SignUp(email.SignUpData{Name: user.Name, Email: user.Email})
	})

	writeJSON(w, http.StatusCreated, types.LoginResponse{User: user, Token: token}, h.logger)
}

// Login handles user login requests. A new-login notice is sent in the
// background.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeRequest(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.fail(w, err)
		return
	}

	notice := email.SignInData{
		Name:      user.Name,
		Email:     user.Email,
		LoginTime: time.Now().UTC().Format("2006-01-02 15:04:05 UTC"),
		Browser:   truncateRunes(r.UserAgent(), maxUserAgentLen),
		IPAddress: remoteIP(r),
	}
	h.notifier.sendAsync(r.Context(), "signin", func(c *email.Composer) (email.Message, error) {
		return c.SignIn(notice)
	})

	writeJSON(w, http.StatusOK, types.LoginResponse{User: user, Token: token}, h.logger)
}

// UpdatePasswordWithUserID handles password update requests with an explicit user ID.
func (h *AuthHandler) UpdatePasswordWithUserID(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req types.UpdatePasswordRequest
	if err := decodeRequest(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"}, h.logger)
}

func (h *AuthHandler) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("auth request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": publicMessage(err, status)}, h.logger)
}

// handleUpdatePassword handles password update requests.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

func remoteIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
