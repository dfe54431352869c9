package server

import (
	"caerus/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateTalentThread handles POST /api/talent/pitches/:id/threads. Opening a
// new thread consumes monthly DM quota; messaging an existing thread does
// not. A denial is a 402 and no thread is created.
func (s *Server) CreateTalentThread(c *fiber.Ctx) error {
	pitchID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	threadID, decision, err := s.ledger.CreateOrReuseTalentThread(
		c.UserContext(), currentUserID(c), pitchID, req.Message)
	if err != nil {
		return respondError(c, err)
	}
	if !decision.Allowed {
		return respondDenied(c, fiber.Map{"decision": decision})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"thread_id": threadID,
		"decision":  decision,
	})
}

// ListTalentThreads handles GET /api/talent/threads.
func (s *Server) ListTalentThreads(c *fiber.Ctx) error {
	threads, err := s.ledger.ListTalentThreads(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"threads": threads})
}

// GetTalentThreadMessages handles GET /api/talent/threads/:id/messages.
func (s *Server) GetTalentThreadMessages(c *fiber.Ctx) error {
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	messages, err := s.ledger.GetTalentMessages(c.UserContext(), threadID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// PostTalentThreadMessage handles POST /api/talent/threads/:id/messages.
func (s *Server) PostTalentThreadMessage(c *fiber.Ctx) error {
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	msgID, err := s.ledger.AppendTalentMessage(c.UserContext(), threadID, currentUserID(c), req.Body)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message_id": msgID})
}
