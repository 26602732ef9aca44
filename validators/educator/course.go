package educatorValidator

import (
	"encoding/json"

	"lms/middleware"
	"lms/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// AddCourse parses the multipart authoring request: a courseData JSON field
// plus an optional thumbnail file handled by the controller.
func AddCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.FormValue("courseData")
		if raw == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "courseData is required!", nil)
		}

		payload := new(services.NewCourse)
		if err := json.Unmarshal([]byte(raw), payload); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid courseData JSON!", nil)
		}

		if err := validate.Struct(payload); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "A valid value is required!"
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", payload)
		return c.Next()
	}
}
