package userValidator

import (
	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// PurchaseRequest is the body of the purchase endpoint.
type PurchaseRequest struct {
	CourseID uint `json:"courseId" validate:"required,gt=0"`
}

func PurchaseCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PurchaseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := map[string]string{"courseId": "A valid course ID is required!"}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPurchase", reqData)
		return c.Next()
	}
}

// ProgressUpdateRequest is the body of the update-course-progress endpoint.
type ProgressUpdateRequest struct {
	CourseID  uint `json:"courseId" validate:"required,gt=0"`
	LectureID uint `json:"lectureId" validate:"required,gt=0"`
}

func UpdateCourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ProgressUpdateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "A valid value is required!"
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgressUpdate", reqData)
		return c.Next()
	}
}

// ProgressQueryRequest is the body of the get-course-progress endpoint.
type ProgressQueryRequest struct {
	CourseID uint `json:"courseId" validate:"required,gt=0"`
}

func GetCourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ProgressQueryRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := map[string]string{"courseId": "A valid course ID is required!"}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgressQuery", reqData)
		return c.Next()
	}
}

// RatingRequest is the body of the add-rating endpoint. Range enforcement is
// repeated inside the rating service; this keeps obviously bad requests off
// the service entirely.
type RatingRequest struct {
	CourseID uint `json:"courseId" validate:"required,gt=0"`
	Rating   int  `json:"rating" validate:"required,gte=1,lte=5"`
}

func AddRating() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RatingRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := map[string]string{"rating": "Rating must be between 1 and 5!"}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRating", reqData)
		return c.Next()
	}
}
