package server

import (
	"caerus/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateStartup handles POST /api/startups.
func (s *Server) CreateStartup(c *fiber.Ctx) error {
	userID := currentUserID(c)
	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	if user.Role != models.RoleFounder {
		return respondError(c, models.NewUnauthorizedError("Only founders can register startups"))
	}

	var req struct {
		Name         string `json:"name"`
		Tagline      string `json:"tagline"`
		Website      string `json:"website"`
		Sector       string `json:"sector"`
		Stage        string `json:"stage"`
		Location     string `json:"location"`
		RoundSizeMin int    `json:"round_size_min"`
		RoundSizeMax int    `json:"round_size_max"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Startup name is required"))
	}

	startup := &models.Startup{
		FounderID:    userID,
		Name:         req.Name,
		Tagline:      req.Tagline,
		Website:      req.Website,
		Sector:       req.Sector,
		Stage:        req.Stage,
		Location:     req.Location,
		RoundSizeMin: req.RoundSizeMin,
		RoundSizeMax: req.RoundSizeMax,
	}
	if err := s.pitchRepo.CreateStartup(c.UserContext(), startup); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(startup)
}

// GetMyStartups handles GET /api/startups/me.
func (s *Server) GetMyStartups(c *fiber.Ctx) error {
	startups, err := s.pitchRepo.ListStartupsByFounder(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"startups": startups})
}

// CreatePitch handles POST /api/startups/:id/pitch. The video is uploaded to
// object storage by the client first; we record the key as a draft.
func (s *Server) CreatePitch(c *fiber.Ctx) error {
	startupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	startup, err := s.pitchRepo.GetStartup(c.UserContext(), startupID)
	if err != nil {
		return respondError(c, err)
	}
	if startup.FounderID != currentUserID(c) {
		return respondError(c, models.NewUnauthorizedError("Startup belongs to another founder"))
	}

	var req struct {
		VideoURL        string `json:"video_url"`
		ThumbnailURL    string `json:"thumbnail_url"`
		DurationSeconds int    `json:"duration_seconds"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.VideoURL == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("video_url is required"))
	}

	pitch := &models.Pitch{
		StartupID:       startupID,
		VideoURL:        req.VideoURL,
		ThumbnailURL:    req.ThumbnailURL,
		DurationSeconds: req.DurationSeconds,
		Status:          models.PitchStatusDraft,
	}
	if err := s.pitchRepo.CreatePitch(c.UserContext(), pitch); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pitch)
}

// PublishPitch handles POST /api/startups/:id/pitch/publish. Publishing the
// newest draft makes it visible in the investor feed.
func (s *Server) PublishPitch(c *fiber.Ctx) error {
	startupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	startup, err := s.pitchRepo.GetStartup(c.UserContext(), startupID)
	if err != nil {
		return respondError(c, err)
	}
	if startup.FounderID != currentUserID(c) {
		return respondError(c, models.NewUnauthorizedError("Startup belongs to another founder"))
	}

	var pitch models.Pitch
	if err := s.db.WithContext(c.UserContext()).
		Where("startup_id = ?", startupID).
		Order("created_at DESC").
		First(&pitch).Error; err != nil {
		return respondError(c, models.NewNotFoundError("Pitch for startup", startupID))
	}

	pitch.Status = models.PitchStatusPublished
	if err := s.pitchRepo.UpdatePitch(c.UserContext(), &pitch); err != nil {
		return respondError(c, err)
	}
	return c.JSON(pitch)
}

// GetPitchFeed handles GET /api/pitches. Investors see published pitches
// newest first, with already-unlocked cards marked so the client can skip
// the paywall check.
func (s *Server) GetPitchFeed(c *fiber.Ctx) error {
	userID := currentUserID(c)
	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	if user.Role != models.RoleInvestor {
		return respondError(c, models.NewUnauthorizedError("Only investors can browse the pitch feed"))
	}

	p := parsePagination(c, 20)
	pitches, err := s.pitchRepo.ListPublishedPitches(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}

	type feedItem struct {
		models.Pitch
		Unlocked bool `json:"unlocked"`
	}
	items := make([]feedItem, 0, len(pitches))
	for _, pitch := range pitches {
		viewed, err := s.pitchRepo.HasViewed(c.UserContext(), pitch.ID, userID)
		if err != nil {
			return respondError(c, err)
		}
		items = append(items, feedItem{Pitch: pitch, Unlocked: viewed})
	}
	return c.JSON(fiber.Map{"pitches": items})
}

// RequestPitchView handles POST /api/pitches/:id/view. A denial is a 402
// carrying the decision, so the client can raise the paywall.
func (s *Server) RequestPitchView(c *fiber.Ctx) error {
	pitchID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	decision, err := s.ledger.RequestPitchView(c.UserContext(), currentUserID(c), pitchID)
	if err != nil {
		return respondError(c, err)
	}
	if !decision.Allowed {
		return respondDenied(c, fiber.Map{"decision": decision})
	}

	pitch, err := s.pitchRepo.GetPitch(c.UserContext(), pitchID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"decision": decision,
		"pitch":    pitch,
	})
}

// GetTalentFeed handles GET /api/talent.
func (s *Server) GetTalentFeed(c *fiber.Ctx) error {
	userID := currentUserID(c)
	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	if user.Role != models.RoleFounder && user.Role != models.RoleInvestor {
		return respondError(c, models.NewUnauthorizedError("Only founders and investors can browse talent"))
	}

	p := parsePagination(c, 20)
	pitches, err := s.pitchRepo.ListBrowsableTalentPitches(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"talent_pitches": pitches})
}

// RequestTalentView handles POST /api/talent/pitches/:id/view.
func (s *Server) RequestTalentView(c *fiber.Ctx) error {
	pitchID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	decision, err := s.ledger.RequestTalentView(c.UserContext(), currentUserID(c), pitchID)
	if err != nil {
		return respondError(c, err)
	}
	if !decision.Allowed {
		return respondDenied(c, fiber.Map{"decision": decision})
	}

	pitch, err := s.pitchRepo.GetTalentPitch(c.UserContext(), pitchID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"decision":     decision,
		"talent_pitch": pitch,
	})
}
