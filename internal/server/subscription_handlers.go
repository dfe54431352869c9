package server

import (
	"time"

	"caerus/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetSubscriptionStatus handles GET /api/subscriptions/me.
func (s *Server) GetSubscriptionStatus(c *fiber.Ctx) error {
	userID := currentUserID(c)
	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	if user.Role != models.RoleInvestor {
		return respondError(c, models.NewUnauthorizedError("Only investors can subscribe"))
	}

	sub, err := s.subRepo.ActiveForInvestor(c.UserContext(), userID, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	if sub == nil {
		return c.JSON(fiber.Map{"entitled": false})
	}
	return c.JSON(fiber.Map{
		"entitled":     true,
		"subscription": sub,
	})
}

// RecordSubscription handles POST /api/subscriptions. The receipt was
// verified by the IAP pipeline upstream; this records the entitlement window
// it produced.
func (s *Server) RecordSubscription(c *fiber.Ctx) error {
	userID := currentUserID(c)
	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	if user.Role != models.RoleInvestor {
		return respondError(c, models.NewUnauthorizedError("Only investors can subscribe"))
	}

	var req struct {
		PlanType              string    `json:"plan_type"`
		TransactionID         string    `json:"transaction_id"`
		OriginalTransactionID string    `json:"original_transaction_id"`
		ExpiresAt             time.Time `json:"expires_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.TransactionID == "" || req.ExpiresAt.IsZero() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("transaction_id and expires_at are required"))
	}

	sub := &models.Subscription{
		InvestorID:                 userID,
		PlanType:                   req.PlanType,
		AppleTransactionID:         req.TransactionID,
		AppleOriginalTransactionID: req.OriginalTransactionID,
		Status:                     models.SubscriptionStatusActive,
		ExpiresAt:                  req.ExpiresAt,
	}
	if err := s.subRepo.Record(c.UserContext(), sub); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}
