package server

import (
	"errors"
	"log/slog"
	"strings"
	"unicode"

	"caerus/internal/middleware"
	"caerus/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "threadId" -> "thread ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// currentUserID reads the authenticated user ID set by the auth middleware.
func currentUserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}

// respondError maps an AppError code to its HTTP status and writes the
// standard error body. Quota denials never come through here; they are
// Decisions, answered with 402 by the handler.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if appErr, ok := err.(*models.AppError); ok {
		switch appErr.Code {
		case models.CodeNotFound:
			status = fiber.StatusNotFound
		case models.CodeValidation:
			status = fiber.StatusBadRequest
		case models.CodeUnauthorized, models.CodeNotParticipant:
			status = fiber.StatusForbidden
		case models.CodeInvalidTransition:
			status = fiber.StatusConflict
		}

		// These indicate a caller bug or tampering, not normal traffic.
		if appErr.Code == models.CodeInvalidTransition || appErr.Code == models.CodeNotParticipant {
			middleware.Logger.WarnContext(c.UserContext(), "rejected thread operation",
				slog.String("code", appErr.Code),
				slog.String("path", c.Path()),
				slog.Any("user_id", currentUserID(c)))
		}
	}
	return models.RespondWithError(c, status, err)
}

// respondDenied answers a quota denial with 402 Payment Required. Denials
// are expected traffic for free-tier users and are logged at info.
func respondDenied(c *fiber.Ctx, payload fiber.Map) error {
	middleware.Logger.InfoContext(c.UserContext(), "quota denied",
		slog.String("path", c.Path()),
		slog.Any("user_id", currentUserID(c)))
	return c.Status(fiber.StatusPaymentRequired).JSON(payload)
}
