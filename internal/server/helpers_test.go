package server

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeParam(t *testing.T) {
	cases := map[string]string{
		"id":        "ID",
		"threadId":  "thread ID",
		"startupId": "startup ID",
		"slug":      "slug",
	}
	for in, want := range cases {
		assert.Equal(t, want, humanizeParam(in), in)
	}
}

func TestSplitCamel(t *testing.T) {
	assert.Equal(t, []string{"question", "Template"}, splitCamel("questionTemplate"))
	assert.Equal(t, []string{"thread"}, splitCamel("thread"))
}

func TestParsePagination(t *testing.T) {
	app := fiber.New()

	var got Pagination
	app.Get("/items", func(c *fiber.Ctx) error {
		got = parsePagination(c, 20)
		return c.SendStatus(fiber.StatusOK)
	})

	cases := []struct {
		query string
		want  Pagination
	}{
		{"", Pagination{Limit: 20, Offset: 0}},
		{"?limit=50&offset=10", Pagination{Limit: 50, Offset: 10}},
		{"?limit=9999", Pagination{Limit: 100, Offset: 0}},
		{"?limit=-3&offset=-7", Pagination{Limit: 20, Offset: 0}},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(fiber.MethodGet, "/items"+tc.query, nil)
		_, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.query)
	}
}
