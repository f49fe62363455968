package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/liverool/volleymate/internal/httpx"
	"github.com/liverool/volleymate/internal/service"
)

// forgotPasswordMessage is deliberately identical whether or not the
// address exists, so the endpoint cannot be used to enumerate accounts.
const forgotPasswordMessage = "If the address is registered, a recovery code has been sent."

const confirmationMessage = "If the address is registered and unconfirmed, a new confirmation code has been sent."

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	if input.Email == "" || input.Password == "" {
		return httpx.BadRequest(c, "missing_credentials", "Email and password are required")
	}

	session, err := h.authService.Register(input)
	if err != nil {
		return httpx.BadRequest(c, "register_failed", err.Error())
	}

	setSessionCookies(c, session)
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input service.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	if input.Email == "" || input.Password == "" {
		return httpx.BadRequest(c, "missing_credentials", "Email and password are required")
	}

	session, err := h.authService.Login(input)
	if err != nil {
		// The unconfirmed-email case gets its own code so clients can
		// offer the resend-confirmation affordance.
		if errors.Is(err, service.ErrEmailNotConfirmed) {
			return httpx.Error(c, fiber.StatusUnauthorized, "email_not_confirmed", err.Error())
		}
		return httpx.Unauthorized(c, "invalid_credentials", err.Error())
	}

	setSessionCookies(c, session)
	return c.JSON(session)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := refreshTokenFrom(c)
	if token == "" {
		return httpx.Unauthorized(c, "missing_refresh_token", "Missing refresh token")
	}

	session, err := h.authService.Refresh(token)
	if err != nil {
		return httpx.Unauthorized(c, "invalid_refresh_token", "Invalid or expired refresh token")
	}

	setSessionCookies(c, session)
	return c.JSON(session)
}

// Logout always reports success; the server-side revocation is best-effort.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.authService.Logout(refreshTokenFrom(c))
	clearSessionCookies(c)
	return c.JSON(fiber.Map{"message": "logged out"})
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	code, err := h.authService.ForgotPassword(input.Email)
	if err == nil && code != "" {
		// No mailer is wired up; the code goes to the log for the
		// delivery channel to pick up.
		log.Printf("password recovery code for %s: %s", input.Email, code)
	}

	return c.JSON(fiber.Map{"message": forgotPasswordMessage})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input service.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	if input.Code == "" || input.NewPassword == "" {
		return httpx.BadRequest(c, "missing_fields", "Recovery code and new password are required")
	}

	session, err := h.authService.ResetPassword(input)
	if err != nil {
		return httpx.BadRequest(c, "reset_failed", err.Error())
	}

	setSessionCookies(c, session)
	return c.JSON(session)
}

func (h *AuthHandler) ResendConfirmation(c *fiber.Ctx) error {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	if code, err := h.authService.ResendConfirmation(input.Email); err == nil && code != "" {
		log.Printf("confirmation code for %s: %s", input.Email, code)
	}

	return c.JSON(fiber.Map{"message": confirmationMessage})
}

func (h *AuthHandler) ConfirmEmail(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return httpx.BadRequest(c, "missing_code", "Confirmation code is required")
	}
	if err := h.authService.ConfirmEmail(code); err != nil {
		return httpx.BadRequest(c, "confirm_failed", err.Error())
	}
	return c.JSON(fiber.Map{"message": "email confirmed"})
}

// CSRF issues a double-submit token for cookie-authenticated browsers.
func (h *AuthHandler) CSRF(c *fiber.Ctx) error {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return httpx.Internal(c, "csrf_failed")
	}
	token := hex.EncodeToString(buf)

	c.Cookie(&fiber.Cookie{
		Name:     "vm_csrf",
		Value:    token,
		Secure:   cookieSecure(),
		SameSite: "Lax",
		Expires:  time.Now().Add(24 * time.Hour),
	})
	return c.JSON(fiber.Map{"csrf": token})
}

func refreshTokenFrom(c *fiber.Ctx) string {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err == nil && input.RefreshToken != "" {
		return input.RefreshToken
	}
	return c.Cookies("vm_refresh")
}

func setSessionCookies(c *fiber.Ctx, session *service.AuthSession) {
	secure := cookieSecure()
	c.Cookie(&fiber.Cookie{
		Name:     "vm_access",
		Value:    session.AccessToken,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: "Lax",
		Expires:  time.Now().Add(24 * time.Hour),
	})
	c.Cookie(&fiber.Cookie{
		Name:     "vm_refresh",
		Value:    session.RefreshToken,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: "Lax",
		Path:     "/api/auth",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})
}

func clearSessionCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	c.Cookie(&fiber.Cookie{Name: "vm_access", Value: "", HTTPOnly: true, Expires: expired})
	c.Cookie(&fiber.Cookie{Name: "vm_refresh", Value: "", HTTPOnly: true, Path: "/api/auth", Expires: expired})
}

func cookieSecure() bool {
	return os.Getenv("COOKIE_SECURE") != "false"
}
