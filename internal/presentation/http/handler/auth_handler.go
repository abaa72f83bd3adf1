package handler

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Senshu-NEst/NEst-backend/internal/application/service"
	"github.com/Senshu-NEst/NEst-backend/internal/presentation/http/dto/request"
	"github.com/Senshu-NEst/NEst-backend/internal/presentation/http/dto/response"
	"github.com/Senshu-NEst/NEst-backend/pkg/oauth"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	googleAuth  *oauth.GoogleOAuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, googleAuth *oauth.GoogleOAuthService) *AuthHandler {
	return &AuthHandler{authService: authService, googleAuth: googleAuth}
}

// StaffLogin handles register operator login
func (h *AuthHandler) StaffLogin(c *gin.Context) {
	var req request.StaffLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	tokens, err := h.authService.StaffLogin(c.Request.Context(), req.StaffCode, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", tokens)
}

// RefreshToken exchanges a refresh token for a fresh token pair
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Token refreshed successfully", tokens)
}

// Me returns the authenticated caller's profile
func (h *AuthHandler) Me(c *gin.Context) {
	token := GetBearerToken(c)
	if token == "" {
		response.Unauthorized(c, "Authorization header is required")
		return
	}

	profile, err := h.authService.Verify(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile retrieved successfully", profile)
}

// GoogleLogin redirects the browser to the Google consent screen
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state, err := generateState()
	if err != nil {
		response.InternalServerError(c, "Failed to generate state")
		return
	}

	c.SetCookie("oauth_state", state, 600, "/", "", false, true)

	url, err := h.authService.GoogleAuthURL(state)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback completes the Google sign-in flow
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	storedState, err := c.Cookie("oauth_state")
	if err != nil || state == "" || state != storedState {
		c.Redirect(http.StatusTemporaryRedirect, h.googleAuth.GetFrontendErrorURL()+"?error=invalid_state")
		return
	}

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusTemporaryRedirect, h.googleAuth.GetFrontendErrorURL()+"?error=missing_code")
		return
	}

	tokens, err := h.authService.GoogleSignIn(c.Request.Context(), code)
	if err != nil {
		c.Redirect(http.StatusTemporaryRedirect, h.googleAuth.GetFrontendErrorURL()+"?error=sign_in_failed")
		return
	}

	redirectURL := h.googleAuth.GetFrontendSuccessURL() +
		"?access_token=" + tokens.AccessToken +
		"&refresh_token=" + tokens.RefreshToken
	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
