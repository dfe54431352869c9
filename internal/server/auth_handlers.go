package server

import (
	"strconv"
	"strings"
	"time"

	"caerus/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Signup handles POST /api/auth/signup. Identity is verified by the mobile
// client against the external auth provider first; this endpoint records the
// account, creates the role profile and issues the API token.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		FirebaseUID string `json:"firebase_uid"`
		Email       string `json:"email"`
		Role        string `json:"role"`
		FullName    string `json:"full_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.FirebaseUID == "" || req.Email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("firebase_uid and email are required"))
	}

	role := models.Role(req.Role)
	if role != models.RoleFounder && role != models.RoleInvestor && role != models.RoleTalent {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("role must be founder, investor or talent"))
	}

	existing, err := s.userRepo.GetByFirebaseUID(c.UserContext(), req.FirebaseUID)
	if err != nil {
		return respondError(c, err)
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewValidationError("Account already exists"))
	}

	user := &models.User{
		FirebaseUID: req.FirebaseUID,
		Email:       req.Email,
		Role:        role,
	}
	if err := s.userRepo.Create(c.UserContext(), user); err != nil {
		return respondError(c, err)
	}

	// The role profile is created eagerly so every quota counter exists
	// from the first request.
	var profile interface{}
	switch role {
	case models.RoleFounder:
		profile = &models.FounderProfile{UserID: user.ID, FullName: req.FullName}
	case models.RoleInvestor:
		profile = &models.InvestorProfile{
			UserID:             user.ID,
			FullName:           req.FullName,
			FreeViewsRemaining: models.FreeViewAllotment,
		}
	case models.RoleTalent:
		profile = &models.TalentProfile{UserID: user.ID, FullName: req.FullName, Status: models.TalentStatusPending}
	}
	if err := s.userRepo.CreateProfile(c.UserContext(), profile); err != nil {
		return respondError(c, err)
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Sync handles POST /api/auth/sync. It exchanges a known provider UID for a
// fresh API token on app launch.
func (s *Server) Sync(c *fiber.Ctx) error {
	var req struct {
		FirebaseUID string `json:"firebase_uid"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.FirebaseUID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("firebase_uid is required"))
	}

	user, err := s.userRepo.GetByFirebaseUID(c.UserContext(), req.FirebaseUID)
	if err != nil {
		return respondError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Unknown account"))
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// generateToken issues a signed JWT with the user ID as subject.
func (s *Server) generateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
