package server

import (
	"time"

	"caerus/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)
	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{"user": user}
	switch user.Role {
	case models.RoleFounder:
		profile, err := s.userRepo.GetFounderProfile(c.UserContext(), userID)
		if err != nil {
			return respondError(c, err)
		}
		resp["profile"] = profile
	case models.RoleInvestor:
		profile, err := s.userRepo.GetInvestorProfile(c.UserContext(), userID)
		if err != nil {
			return respondError(c, err)
		}
		resp["profile"] = profile
	case models.RoleTalent:
		profile, err := s.userRepo.GetTalentProfile(c.UserContext(), userID)
		if err != nil {
			return respondError(c, err)
		}
		resp["profile"] = profile
	}
	return c.JSON(resp)
}

// UpdateMyProfile handles PUT /api/users/me.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)
	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		FullName    string `json:"full_name"`
		CompanyName string `json:"company_name"`
		FirmName    string `json:"firm_name"`
		LinkedinURL string `json:"linkedin_url"`
		Website     string `json:"website"`
		AvatarURL   string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
		if err := s.userRepo.Update(c.UserContext(), user); err != nil {
			return respondError(c, err)
		}
	}

	switch user.Role {
	case models.RoleFounder:
		profile, err := s.userRepo.GetFounderProfile(c.UserContext(), userID)
		if err != nil {
			return respondError(c, err)
		}
		if req.FullName != "" {
			profile.FullName = req.FullName
		}
		if req.CompanyName != "" {
			profile.CompanyName = req.CompanyName
		}
		if req.LinkedinURL != "" {
			profile.LinkedinURL = req.LinkedinURL
		}
		if req.Website != "" {
			profile.Website = req.Website
		}
		if err := s.userRepo.SaveProfile(c.UserContext(), profile); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"profile": profile})
	case models.RoleInvestor:
		profile, err := s.userRepo.GetInvestorProfile(c.UserContext(), userID)
		if err != nil {
			return respondError(c, err)
		}
		if req.FullName != "" {
			profile.FullName = req.FullName
		}
		if req.FirmName != "" {
			profile.FirmName = req.FirmName
		}
		if req.LinkedinURL != "" {
			profile.LinkedinURL = req.LinkedinURL
		}
		if req.Website != "" {
			profile.Website = req.Website
		}
		if err := s.userRepo.SaveProfile(c.UserContext(), profile); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"profile": profile})
	case models.RoleTalent:
		profile, err := s.userRepo.GetTalentProfile(c.UserContext(), userID)
		if err != nil {
			return respondError(c, err)
		}
		if req.FullName != "" {
			profile.FullName = req.FullName
		}
		if req.LinkedinURL != "" {
			profile.LinkedinURL = req.LinkedinURL
		}
		if err := s.userRepo.SaveProfile(c.UserContext(), profile); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"profile": profile})
	}

	return models.RespondWithError(c, fiber.StatusBadRequest,
		models.NewValidationError("Unknown role"))
}

// GetMyQuotas handles GET /api/users/me/quotas. It reports remaining
// allowances without consuming anything; the windows are evaluated lazily
// against the current instant, matching what a consumption call would see.
func (s *Server) GetMyQuotas(c *fiber.Ctx) error {
	userID := currentUserID(c)
	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	now := time.Now()

	var counters models.EngagementCounters
	resp := fiber.Map{}

	switch user.Role {
	case models.RoleFounder:
		profile, err := s.userRepo.GetFounderProfile(c.UserContext(), userID)
		if err != nil {
			return respondError(c, err)
		}
		counters = profile.EngagementCounters
	case models.RoleInvestor:
		profile, err := s.userRepo.GetInvestorProfile(c.UserContext(), userID)
		if err != nil {
			return respondError(c, err)
		}
		counters = profile.EngagementCounters
		resp["free_pitch_views_remaining"] = profile.FreeViewsRemaining

		sub, err := s.subRepo.ActiveForInvestor(c.UserContext(), userID, now)
		if err != nil {
			return respondError(c, err)
		}
		resp["entitled"] = sub != nil
	default:
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Talent accounts have no engagement quotas"))
	}

	// Peek the windows on an in-memory copy; nothing is persisted.
	counters.ResetDailyWindow(now)
	counters.ResetMonthlyWindow(now)

	talentViews := models.DailyTalentViewAllotment - counters.TalentViewsToday
	if talentViews < 0 {
		talentViews = 0
	}
	dms := models.MonthlyDMAllotment - counters.TalentDMsThisMonth
	if dms < 0 {
		dms = 0
	}

	resp["talent_views_remaining_today"] = talentViews
	resp["dms_remaining_this_month"] = dms
	return c.JSON(resp)
}

// UpdatePushToken handles PUT /api/users/me/push-token.
func (s *Server) UpdatePushToken(c *fiber.Ctx) error {
	var req struct {
		PushToken string `json:"push_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.userRepo.UpdatePushToken(c.UserContext(), currentUserID(c), req.PushToken); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
