package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hosamatch/backend/internal/config"
	"github.com/hosamatch/backend/internal/middleware"
	"github.com/hosamatch/backend/internal/models"
	"github.com/hosamatch/backend/internal/services"
	"github.com/hosamatch/backend/pkg/logger"
	"github.com/hosamatch/backend/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type AuthHandler struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Access *services.AccessService
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, access *services.AccessService) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg, Access: access}
}

func (h *AuthHandler) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.Cfg.OAuth.ClientID,
		ClientSecret: h.Cfg.OAuth.ClientSecret,
		RedirectURL:  h.Cfg.OAuth.RedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

// tokenFor issues a session token, resolving the account record so the
// userID claim reflects current onboarding state.
func (h *AuthHandler) tokenFor(email, name, image string) (string, error) {
	userID := uuid.Nil
	var user models.User
	err := h.DB.First(&user, "email = ?", email).Error
	if err == nil {
		userID = user.ID
		name = user.Name
		image = user.Image
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return utils.GenerateToken(userID, email, name, image)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Image    string `json:"image"`
}

// Register creates a local sign-in credential. This is the development
// stand-in for the external identity provider; it does not create a
// member record.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return utils.Error(c, fiber.StatusBadRequest, "a valid email is required")
	}
	if len(req.Password) < 8 {
		return utils.Error(c, fiber.StatusBadRequest, "password must be at least 8 characters")
	}
	if req.Name == "" {
		return utils.Error(c, fiber.StatusBadRequest, "name is required")
	}

	var existing models.Credential
	if err := h.DB.First(&existing, "email = ?", req.Email).Error; err == nil {
		return utils.Error(c, fiber.StatusConflict, "email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Error(c, fiber.StatusInternalServerError, "failed checking email")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed hashing password")
	}

	credential := models.Credential{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Image:        strings.TrimSpace(req.Image),
	}
	if err := h.DB.Create(&credential).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating credential")
	}

	token, err := h.tokenFor(credential.Email, credential.Name, credential.Image)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed generating token")
	}

	logger.Info("credential_registered", map[string]interface{}{"email": credential.Email})
	return utils.JSON(c, fiber.StatusCreated, fiber.Map{"token": token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var credential models.Credential
	if err := h.DB.First(&credential, "email = ?", req.Email).Error; err != nil {
		return utils.Error(c, fiber.StatusUnauthorized, "invalid email or password")
	}
	if !utils.CheckPassword(credential.PasswordHash, req.Password) {
		return utils.Error(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	token, err := h.tokenFor(credential.Email, credential.Name, credential.Image)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed generating token")
	}

	return utils.JSON(c, fiber.StatusOK, fiber.Map{"token": token})
}

// Me resolves the session into the member record plus the dashboard
// page-guard data: whether an account exists and which school, if any,
// the user administers.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := middleware.GetSessionClaims(c)
	if claims == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.DB.First(&user, "email = ?", claims.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Data(c, fiber.StatusOK, fiber.Map{
				"newAccount": true,
				"email":      claims.Email,
				"name":       claims.Name,
				"image":      claims.Image,
			})
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed resolving session")
	}

	payload := fiber.Map{
		"newAccount": false,
		"user":       user,
	}
	if school, err := h.Access.AuthorizeDashboard(c.Context(), user.ID); err == nil {
		school.FillAdminIDs()
		payload["adminSchool"] = school
	} else if !errors.Is(err, services.ErrDenied) {
		return utils.Error(c, fiber.StatusInternalServerError, "failed resolving admin school")
	}

	return utils.Data(c, fiber.StatusOK, payload)
}

type createAccountRequest struct {
	Grade          int      `json:"grade"`
	School         string   `json:"school"`
	Labels         []string `json:"labels"`
	PreviousEvents []string `json:"previousEvents"`
}

// CreateAccount completes onboarding: it writes the member record for the
// signed-in identity. The client must refresh its session token afterwards
// so the userID claim picks up the new account.
func (h *AuthHandler) CreateAccount(c *fiber.Ctx) error {
	claims := middleware.GetSessionClaims(c)
	if claims == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req createAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if !models.ValidGrade(req.Grade) {
		return utils.Error(c, fiber.StatusBadRequest, "please select a grade")
	}
	for _, code := range req.PreviousEvents {
		if !models.KnownEventCode(code) {
			return utils.Error(c, fiber.StatusBadRequest, fmt.Sprintf("unknown event code %q", code))
		}
	}

	var schoolID *uuid.UUID
	if strings.TrimSpace(req.School) != "" {
		id, err := parseUUID(req.School)
		if err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "invalid school id")
		}
		var school models.School
		if err := h.DB.First(&school, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.Error(c, fiber.StatusBadRequest, "school not found")
			}
			return utils.Error(c, fiber.StatusInternalServerError, "failed checking school")
		}
		schoolID = &id
	}

	var existing models.User
	if err := h.DB.First(&existing, "email = ?", claims.Email).Error; err == nil {
		return utils.Error(c, fiber.StatusConflict, "account already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Error(c, fiber.StatusInternalServerError, "failed checking account")
	}

	user := models.User{
		Email:          claims.Email,
		Name:           claims.Name,
		Image:          claims.Image,
		SchoolID:       schoolID,
		Grade:          req.Grade,
		Labels:         models.Dedupe(req.Labels),
		PreviousEvents: models.Dedupe(req.PreviousEvents),
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating account")
	}

	logger.InfoWithUser(user.ID.String(), "account_created", map[string]interface{}{
		"email": user.Email,
		"grade": user.Grade,
	})

	return utils.Data(c, fiber.StatusCreated, user)
}

// Refresh reissues the session token with up-to-date claims. Called by the
// client right after onboarding so the transient Account-Created state
// always ends in a session that resolves to the member record.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	claims := middleware.GetSessionClaims(c)
	if claims == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	token, err := h.tokenFor(claims.Email, claims.Name, claims.Image)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed generating token")
	}

	return utils.JSON(c, fiber.StatusOK, fiber.Map{"token": token})
}

// GoogleRedirect hands the client the provider's authorization URL.
func (h *AuthHandler) GoogleRedirect(c *fiber.Ctx) error {
	if h.Cfg.OAuth.ClientID == "" {
		return utils.Error(c, fiber.StatusBadRequest, "google sign-in is not configured")
	}

	state := uuid.New().String()
	return utils.Data(c, fiber.StatusOK, fiber.Map{
		"url":   h.oauthConfig().AuthCodeURL(state),
		"state": state,
	})
}

type googleUserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleCallback exchanges the authorization code, resolves the identity,
// and redirects back to the frontend with a session token. Whether the
// identity already has a member record decides the onboarding redirect.
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	frontendURL := h.Cfg.Server.FrontendURL

	code := c.Query("code")
	if code == "" {
		return c.Redirect(frontendURL + "/auth/welcome?error=" + url.QueryEscape("authorization code is required"))
	}

	oauthToken, err := h.oauthConfig().Exchange(c.Context(), code)
	if err != nil {
		logger.Warn("oauth_exchange_failed", map[string]interface{}{"error": err.Error()})
		return c.Redirect(frontendURL + "/auth/welcome?error=" + url.QueryEscape("sign-in failed"))
	}

	client := h.oauthConfig().Client(c.Context(), oauthToken)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return c.Redirect(frontendURL + "/auth/welcome?error=" + url.QueryEscape("failed fetching profile"))
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Email == "" {
		return c.Redirect(frontendURL + "/auth/welcome?error=" + url.QueryEscape("failed reading profile"))
	}

	token, err := h.tokenFor(strings.ToLower(info.Email), info.Name, info.Picture)
	if err != nil {
		return c.Redirect(frontendURL + "/auth/welcome?error=" + url.QueryEscape("failed generating token"))
	}

	newAccount := "false"
	if err := h.DB.First(&models.User{}, "email = ?", strings.ToLower(info.Email)).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		newAccount = "true"
	}

	logger.Info("sso_login_success", map[string]interface{}{
		"email":       info.Email,
		"new_account": newAccount,
	})

	return c.Redirect(frontendURL + "/auth/callback?token=" + url.QueryEscape(token) + "&newAccount=" + newAccount)
}
