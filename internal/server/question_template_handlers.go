package server

import (
	"caerus/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetQuestionTemplates handles GET /api/question-templates. The first read
// seeds the stock question set for the investor.
func (s *Server) GetQuestionTemplates(c *fiber.Ctx) error {
	userID := currentUserID(c)
	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	if user.Role != models.RoleInvestor {
		return respondError(c, models.NewUnauthorizedError("Only investors have question templates"))
	}

	templates, err := s.templateRepo.ListForInvestor(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"templates": templates})
}

// CreateQuestionTemplate handles POST /api/question-templates.
func (s *Server) CreateQuestionTemplate(c *fiber.Ctx) error {
	userID := currentUserID(c)
	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	if user.Role != models.RoleInvestor {
		return respondError(c, models.NewUnauthorizedError("Only investors have question templates"))
	}

	var req struct {
		QuestionText string `json:"question_text"`
		DisplayOrder int    `json:"display_order"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	template := &models.QuestionTemplate{
		InvestorID:   userID,
		QuestionText: req.QuestionText,
		DisplayOrder: req.DisplayOrder,
	}
	if err := s.templateRepo.Create(c.UserContext(), template); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(template)
}

// DeleteQuestionTemplate handles DELETE /api/question-templates/:id. Deletion
// is scoped to the caller's own templates.
func (s *Server) DeleteQuestionTemplate(c *fiber.Ctx) error {
	templateID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.templateRepo.Delete(c.UserContext(), templateID, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
