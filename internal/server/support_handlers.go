package server

import (
	"caerus/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateSupportTicket handles POST /api/support/tickets. Staff and assistant
// replies are appended out of band by the support tooling; the API only
// carries the user side of the conversation.
func (s *Server) CreateSupportTicket(c *fiber.Ctx) error {
	var req struct {
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ticket, err := s.ledger.CreateTicket(c.UserContext(), currentUserID(c), req.Subject, req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ticket": ticket})
}

// ListSupportTickets handles GET /api/support/tickets.
func (s *Server) ListSupportTickets(c *fiber.Ctx) error {
	tickets, err := s.ledger.ListTickets(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"tickets": tickets})
}

// GetSupportTicket handles GET /api/support/tickets/:id. The message trail
// comes back inline.
func (s *Server) GetSupportTicket(c *fiber.Ctx) error {
	ticketID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ticket, err := s.ledger.GetTicket(c.UserContext(), ticketID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ticket": ticket})
}

// PostSupportTicketMessage handles POST /api/support/tickets/:id/messages.
func (s *Server) PostSupportTicketMessage(c *fiber.Ctx) error {
	ticketID, err := s.parseID(c, "id")
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

	msgID, err := s.ledger.AppendTicketMessage(c.UserContext(), ticketID, currentUserID(c), req.Body)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message_id": msgID})
}
