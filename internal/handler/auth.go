package handler // declare the package name; contains HTTP handlers

import (
	"context"  // context carries deadlines for database and Redis calls
	"errors"   // errors.Is matches repository sentinel errors
	"net/http" // HTTP status codes
	"strings"  // input normalization
	"time"     // request timeouts

	"github.com/labstack/echo/v4" // echo provides the HTTP context

	"github.com/agrimitra/farmer-assist/internal/config"
	"github.com/agrimitra/farmer-assist/internal/model"
	"github.com/agrimitra/farmer-assist/internal/repository"
	"github.com/agrimitra/farmer-assist/internal/utils"
)

// AuthHandler bundles the dependencies of the phone-OTP authentication
// endpoints: the user table, the Redis-backed OTP store and the values
// needed to mint access tokens.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	OTPs  *repository.OTPRepo
}

// NewAuthHandler wires an AuthHandler. It panics when a dependency is
// missing because the server cannot run without them.
func NewAuthHandler(cfg config.Config, users *repository.UserRepo, otps *repository.OTPRepo) *AuthHandler {
	if users == nil || otps == nil {
		panic("NewAuthHandler: nil dependency")
	}
	return &AuthHandler{Cfg: cfg, Users: users, OTPs: otps}
}

type signupReq struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required,min=6"`
	Role     string `json:"role"`
	Language string `json:"language"`
}

type phoneReq struct {
	Phone string `json:"phone" validate:"required"`
}

type otpVerifyReq struct {
	Phone string `json:"phone" validate:"required"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

type updateProfileReq struct {
	Name     string `json:"name"`
	Language string `json:"language"`
}

// Signup registers a new user by phone number and issues the first OTP.
// The account stays unverified until the code is confirmed. The code is
// returned in the response body so clients work without an SMS gateway;
// once one is wired in, only the message stays.
// TODO: route the code through the SMS provider instead of the response.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != model.RoleOfficer {
		role = model.RoleFarmer
	}
	lang := model.NormalizeLanguage(req.Language)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.Create(ctx, strings.TrimSpace(req.Name), req.Phone, role, lang); err != nil {
		if errors.Is(err, repository.ErrPhoneExists) {
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "phone already registered"})
		}
		c.Logger().Errorf("[auth] signup: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not create user"})
	}

	code, err := utils.NewOTPCode()
	if err != nil {
		c.Logger().Errorf("[auth] otp generate: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not issue OTP"})
	}
	if err := h.OTPs.Store(ctx, strings.TrimSpace(req.Phone), code); err != nil {
		c.Logger().Errorf("[auth] otp store: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not issue OTP"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "signup successful, please verify the OTP sent to your phone",
		"otp":     code,
	})
}

// SendOTP issues a fresh code to an already registered phone number,
// replacing any code still pending for it.
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req phoneReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByPhone(ctx, req.Phone); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "user not found"})
		}
		c.Logger().Errorf("[auth] send otp lookup: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not issue OTP"})
	}

	code, err := utils.NewOTPCode()
	if err != nil {
		c.Logger().Errorf("[auth] otp generate: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not issue OTP"})
	}
	if err := h.OTPs.Store(ctx, strings.TrimSpace(req.Phone), code); err != nil {
		c.Logger().Errorf("[auth] otp store: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not issue OTP"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "OTP sent",
		"otp":     code,
	})
}

// VerifyOTP checks the submitted code, marks the account verified and
// returns a signed access token. Codes are single-use: a second verify
// with the same code fails.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req otpVerifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	phone := strings.TrimSpace(req.Phone)
	if err := h.OTPs.Verify(ctx, phone, req.OTP); err != nil {
		if errors.Is(err, repository.ErrOTPInvalid) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid or expired OTP"})
		}
		c.Logger().Errorf("[auth] otp verify: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not verify OTP"})
	}

	user, err := h.Users.MarkVerified(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "user not found"})
		}
		c.Logger().Errorf("[auth] mark verified: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not verify OTP"})
	}

	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, user.ID, user.Role, h.Cfg.TokenTTLDays)
	if err != nil {
		c.Logger().Errorf("[auth] sign token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not issue token"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"token":      tok.Token,
		"expires_at": tok.Exp,
		"user":       toUserView(user),
	})
}

// Login issues a token for an already verified phone number. Phone-OTP
// auth has no password; verification state is the credential, so
// unverified accounts are directed back to the OTP flow.
func (h *AuthHandler) Login(c echo.Context) error {
	var req phoneReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.GetByPhone(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "user not found"})
		}
		c.Logger().Errorf("[auth] login lookup: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "login failed"})
	}
	if !user.IsVerified {
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "please verify your phone with the OTP before logging in"})
	}

	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, user.ID, user.Role, h.Cfg.TokenTTLDays)
	if err != nil {
		c.Logger().Errorf("[auth] sign token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not issue token"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"token":      tok.Token,
		"expires_at": tok.Exp,
		"user":       toUserView(user),
	})
}

// Profile returns the authenticated user's own record.
func (h *AuthHandler) Profile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "user not found"})
		}
		c.Logger().Errorf("[auth] profile: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not load profile"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": toUserView(user)})
}

// UpdateProfile changes the caller's display name and/or preferred
// language. Omitted fields keep their current value.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}

	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	current, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "user not found"})
		}
		c.Logger().Errorf("[auth] update profile lookup: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not update profile"})
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = current.Name
	}
	lang := current.Language
	if strings.TrimSpace(req.Language) != "" {
		if !model.ValidLanguage(strings.ToLower(strings.TrimSpace(req.Language))) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "unsupported language"})
		}
		lang = strings.ToLower(strings.TrimSpace(req.Language))
	}

	user, err := h.Users.UpdateProfile(ctx, uid, name, lang)
	if err != nil {
		c.Logger().Errorf("[auth] update profile: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not update profile"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": toUserView(user)})
}
