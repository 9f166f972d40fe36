package http

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/elearning/internal/core/domain"
	"github.com/vncsmyrnk/elearning/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookies     Cookies
	logger      *zap.Logger
}

func NewAuthHandler(authService ports.AuthService, cookies Cookies, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
		logger:      logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register godoc
// @Summary      Starts a registration
// @Description  Mails a 4-digit activation code and returns the activation token that carries the pending account.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400,409,502
// @Router       /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	reg, err := h.authService.Register(r.Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, envelope{
		"message":         fmt.Sprintf("Please check your email: %s to activate your account.", reg.Email),
		"activationToken": reg.ActivationToken,
	})
}

type activateRequest struct {
	ActivationToken string `json:"activation_token"`
	ActivationCode  string `json:"activation_code"`
}

// Activate godoc
// @Summary      Activates a pending account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400,401,409
// @Router       /activate-user [post]
func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.authService.Activate(r.Context(), req.ActivationToken, req.ActivationCode)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, envelope{"user": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login godoc
// @Summary      Logs a user in
// @Description  Sets the access_token and refresh_token cookies and stores the session.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      400,401
// @Router       /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, pair, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.sendTokens(w, user, pair)
}

type socialAuthRequest struct {
	Credential string `json:"credential"`
}

// SocialAuth godoc
// @Summary      Logs a user in with a Google ID token
// @Description  Creates the account on first sign-in.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      400,401
// @Router       /social-auth [post]
func (h *AuthHandler) SocialAuth(w http.ResponseWriter, r *http.Request) {
	var req socialAuthRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, pair, err := h.authService.LoginWithGoogle(r.Context(), req.Credential)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.sendTokens(w, user, pair)
}

// Logout godoc
// @Summary      Logs the authenticated user out
// @Description  Clears both cookies and deletes the session
// @Tags         auth
// @Produce      json
// @Success      200
// @Failure      401
// @Router       /logout [get]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrUnauthenticated)
		return
	}

	if err := h.authService.Logout(r.Context(), user.ID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.cookies.Expire(w)
	writeJSON(w, http.StatusOK, envelope{"message": "Logged out successfully"})
}

// RefreshToken godoc
// @Summary      Renews the token pair
// @Description  Runs behind RefreshSession, which rotates both cookies. Fails when no refresh cookie was sent.
// @Tags         auth
// @Produce      json
// @Success      200
// @Failure      401
// @Router       /refresh-token [get]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token, ok := renewedAccessToken(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"accessToken": token})
}

func (h *AuthHandler) sendTokens(w http.ResponseWriter, user *domain.User, pair domain.TokenPair) {
	h.cookies.SetTokens(w, pair)
	writeJSON(w, http.StatusOK, envelope{
		"user":        user,
		"accessToken": pair.AccessToken,
	})
}
