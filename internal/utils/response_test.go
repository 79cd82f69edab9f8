package utils_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/quiz-grading-api/internal/utils"
)

func TestResponseEnvelopes(t *testing.T) {
	cases := []struct {
		name    string
		handler fiber.Handler
		status  int
		want    map[string]interface{}
		absent  []string
	}{
		{
			name: "ok with pagination meta",
			handler: func(c *fiber.Ctx) error {
				return utils.OK(c, []string{"a"}, "", map[string]int{"page": 1})
			},
			status: fiber.StatusOK,
			want: map[string]interface{}{
				"success": true,
				"message": "success",
				"data":    []interface{}{"a"},
				"meta":    map[string]interface{}{"page": float64(1)},
			},
			absent: []string{"details"},
		},
		{
			name: "created keeps empty list data",
			handler: func(c *fiber.Ctx) error {
				return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "answer recorded", []int{})
			},
			status: fiber.StatusCreated,
			want: map[string]interface{}{
				"success": true,
				"message": "answer recorded",
				"data":    []interface{}{},
			},
			absent: []string{"meta", "details"},
		},
		{
			name: "fail with validation details",
			handler: func(c *fiber.Ctx) error {
				return utils.Fail(c, fiber.StatusBadRequest, "invalid payload", map[string]string{"question_id": "required"})
			},
			status: fiber.StatusBadRequest,
			want: map[string]interface{}{
				"success": false,
				"message": "invalid payload",
				"details": map[string]interface{}{"question_id": "required"},
			},
			absent: []string{"data"},
		},
		{
			name: "error defaults",
			handler: func(c *fiber.Ctx) error {
				return utils.SendError(c, 0, "")
			},
			status: fiber.StatusInternalServerError,
			want: map[string]interface{}{
				"success": false,
				"message": "error",
			},
			absent: []string{"data", "details"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", tc.handler)

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tc.status, resp.StatusCode)

			var payload map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
			for key, value := range tc.want {
				require.Equal(t, value, payload[key], key)
			}
			for _, key := range tc.absent {
				require.NotContains(t, payload, key)
			}
		})
	}
}
