package server

import (
	"caerus/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateThread handles POST /api/qa/threads. Repeated requests for the same
// (founder, investor, startup) triple land on the existing thread.
func (s *Server) CreateThread(c *fiber.Ctx) error {
	var req struct {
		FounderID uint     `json:"founder_id"`
		StartupID uint     `json:"startup_id"`
		Questions []string `json:"questions"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.FounderID == 0 || req.StartupID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("founder_id and startup_id are required"))
	}
	if len(req.Questions) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("At least one question is required"))
	}

	threadID, err := s.ledger.CreateOrReuseThread(
		c.UserContext(), currentUserID(c), req.FounderID, req.StartupID, req.Questions)
	if err != nil {
		return respondError(c, err)
	}

	thread, err := s.ledger.GetThread(c.UserContext(), threadID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(thread)
}

// ListThreads handles GET /api/qa/threads.
func (s *Server) ListThreads(c *fiber.Ctx) error {
	userID := currentUserID(c)
	threads, err := s.ledger.ListThreads(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	type threadItem struct {
		models.QAThread
		UnreadCount int64 `json:"unread_count"`
	}
	items := make([]threadItem, 0, len(threads))
	for _, thread := range threads {
		unread, err := s.ledger.UnreadCount(c.UserContext(), thread.ID, userID)
		if err != nil {
			return respondError(c, err)
		}
		items = append(items, threadItem{QAThread: thread, UnreadCount: unread})
	}
	return c.JSON(fiber.Map{"threads": items})
}

// GetThread handles GET /api/qa/threads/:id.
func (s *Server) GetThread(c *fiber.Ctx) error {
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	thread, err := s.ledger.GetThread(c.UserContext(), threadID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(thread)
}

// GetThreadMessages handles GET /api/qa/threads/:id/messages. Reading marks
// the counterparty's messages as read.
func (s *Server) GetThreadMessages(c *fiber.Ctx) error {
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	messages, err := s.ledger.GetMessages(c.UserContext(), threadID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// PostThreadMessage handles POST /api/qa/threads/:id/messages.
func (s *Server) PostThreadMessage(c *fiber.Ctx) error {
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

	msgID, err := s.ledger.AppendMessage(c.UserContext(), threadID, currentUserID(c), req.Body)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message_id": msgID})
}

// TransitionThread handles POST /api/qa/threads/:id/status with body
// {"event": "connect"|"decline", "decline_message": "..."}.
func (s *Server) TransitionThread(c *fiber.Ctx) error {
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Event          string `json:"event"`
		DeclineMessage string `json:"decline_message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	status, err := s.ledger.TransitionStatus(
		c.UserContext(), threadID, currentUserID(c), models.ThreadEvent(req.Event), req.DeclineMessage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": status})
}

// OpenContact handles POST /api/qa/threads/:id/contact. The DM quota is
// charged here; a denial is a 402 and the thread stays interested.
func (s *Server) OpenContact(c *fiber.Ctx) error {
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	decision, status, err := s.ledger.OpenContact(c.UserContext(), threadID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if !decision.Allowed {
		return respondDenied(c, fiber.Map{
			"decision": decision,
			"status":   status,
		})
	}
	return c.JSON(fiber.Map{
		"decision": decision,
		"status":   status,
	})
}
