package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/P4t4m8n/buff-buddy-api/internal/middleware"
	"github.com/P4t4m8n/buff-buddy-api/internal/models"
	"github.com/P4t4m8n/buff-buddy-api/internal/services"
	"github.com/P4t4m8n/buff-buddy-api/internal/validation"
	"github.com/P4t4m8n/buff-buddy-api/pkg/utils"
)

const (
	stateCookie    = "oauth_state"
	verifierCookie = "oauth_verifier"
	oauthCookieTTL = 10 * time.Minute
)

type authApplicationService interface {
	SignUp(ctx context.Context, input models.SignUpInput) (*services.AuthResult, error)
	SignIn(ctx context.Context, input models.SignInInput) (*services.AuthResult, error)
	UpdateProfile(ctx context.Context, actor models.Actor, input models.UpdateUserInput) (*models.SessionUser, error)
	ChangePassword(ctx context.Context, actor models.Actor, input models.ChangePasswordInput) error
	BeginExternalSignIn() (*services.ExternalAuthRequest, error)
	ExternalSignIn(ctx context.Context, code, verifier string) (*services.AuthResult, error)
}

type AuthHandler struct {
	service      authApplicationService
	logger       *zap.Logger
	secureCookie bool
	frontendURL  string
}

func NewAuthHandler(
	service authApplicationService,
	logger *zap.Logger,
	secureCookie bool,
	frontendURL string,
) *AuthHandler {
	return &AuthHandler{
		service:      service,
		logger:       logger,
		secureCookie: secureCookie,
		frontendURL:  frontendURL,
	}
}

func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	payload, err := decodeBody(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	input, err := validation.SignUp(payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := h.service.SignUp(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	h.setTokenCookie(c, result.Token)
	return respond(c, fiber.StatusCreated, "User created successfully", result.User)
}

func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	payload, err := decodeBody(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	input, err := validation.SignIn(payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := h.service.SignIn(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	h.setTokenCookie(c, result.Token)
	return respond(c, fiber.StatusOK, "Signed in successfully", result.User)
}

func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	h.clearCookie(c, middleware.TokenCookie, fiber.CookieSameSiteStrictMode)
	return respond(c, fiber.StatusOK, "Signed out successfully", nil)
}

func (h *AuthHandler) SessionUser(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return respondError(c, h.logger, services.ErrUnauthenticated)
	}
	return respond(c, fiber.StatusOK, "", user)
}

func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	payload, err := decodeBody(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	input, err := validation.UpdateUser(payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	user, err := h.service.UpdateProfile(c.UserContext(), middleware.Actor(c), input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respond(c, fiber.StatusOK, "Profile updated successfully", user)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	payload, err := decodeBody(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	input, err := validation.ChangePassword(payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.service.ChangePassword(c.UserContext(), middleware.Actor(c), input); err != nil {
		return respondError(c, h.logger, err)
	}
	return respond(c, fiber.StatusOK, "Password changed successfully", nil)
}

func (h *AuthHandler) GoogleRedirect(c *fiber.Ctx) error {
	request, err := h.service.BeginExternalSignIn()
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.setOAuthCookie(c, stateCookie, request.State)
	h.setOAuthCookie(c, verifierCookie, request.Verifier)
	return c.Redirect(request.URL, fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	state := c.Cookies(stateCookie)
	verifier := c.Cookies(verifierCookie)
	h.clearCookie(c, stateCookie, fiber.CookieSameSiteLaxMode)
	h.clearCookie(c, verifierCookie, fiber.CookieSameSiteLaxMode)

	if state == "" || c.Query("state") != state {
		return respondError(c, h.logger, validation.Errors{"state": "Invalid OAuth state"})
	}

	result, err := h.service.ExternalSignIn(c.UserContext(), c.Query("code"), verifier)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	h.setTokenCookie(c, result.Token)

	if h.frontendURL == "" {
		return respond(c, fiber.StatusOK, "Signed in successfully", result.User)
	}
	return c.Redirect(h.frontendURL, fiber.StatusSeeOther)
}

func (h *AuthHandler) setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(utils.TokenTTL.Seconds()),
		Expires:  time.Now().Add(utils.TokenTTL),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// setOAuthCookie uses Lax so the cookie survives the provider's redirect back.
func (h *AuthHandler) setOAuthCookie(c *fiber.Ctx, name, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(oauthCookieTTL.Seconds()),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookie(c *fiber.Ctx, name, sameSite string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: sameSite,
	})
}
