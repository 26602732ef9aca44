package controllers

import (
	"lms/config"
	"lms/middleware"
	"lms/services"
	userValidator "lms/validators/user"

	"github.com/gofiber/fiber/v2"
)

// UserController serves the authenticated learner endpoints.
type UserController struct {
	Users     *services.UserService
	Purchases *services.PurchaseService
	Progress  *services.ProgressService
	Ratings   *services.RatingService
}

// GetUserData returns the caller's account record
func (ctrl *UserController) GetUserData(c *fiber.Ctx) error {
	userID := c.Locals("userId").(string)

	user, err := ctrl.Users.ByID(userID)
	if err != nil {
		return middleware.JsonResponse(c, services.StatusCode(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", fiber.Map{
		"user": user,
	})
}

// GetEnrolledCourses returns the courses the caller is enrolled in
func (ctrl *UserController) GetEnrolledCourses(c *fiber.Ctx) error {
	userID := c.Locals("userId").(string)

	courses, err := ctrl.Users.EnrolledCourses(userID)
	if err != nil {
		return middleware.JsonResponse(c, services.StatusCode(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled courses fetched successfully!", fiber.Map{
		"enrolledCourses": courses,
	})
}

// PurchaseCourse opens a checkout session for the requested course and
// returns its entry URL. The created purchase stays pending until the
// payment webhook settles it.
func (ctrl *UserController) PurchaseCourse(c *fiber.Ctx) error {
	userID := c.Locals("userId").(string)

	reqData, ok := c.Locals("validatedPurchase").(*userValidator.PurchaseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	origin := c.Get("Origin")
	if origin == "" {
		origin = config.AppConfig.FrontendURL
	}

	sessionURL, err := ctrl.Purchases.Checkout(userID, reqData.CourseID, origin)
	if err != nil {
		return middleware.JsonResponse(c, services.StatusCode(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout session created!", fiber.Map{
		"sessionUrl": sessionURL,
	})
}

// UpdateCourseProgress marks one lecture complete for the caller
func (ctrl *UserController) UpdateCourseProgress(c *fiber.Ctx) error {
	userID := c.Locals("userId").(string)

	reqData, ok := c.Locals("validatedProgressUpdate").(*userValidator.ProgressUpdateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	progress, err := ctrl.Progress.MarkLectureComplete(userID, reqData.CourseID, reqData.LectureID)
	if err != nil {
		return middleware.JsonResponse(c, services.StatusCode(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated!", fiber.Map{
		"progressData": progress,
	})
}

// GetCourseProgress returns the caller's progress in a course; an absent
// record reads as empty progress
func (ctrl *UserController) GetCourseProgress(c *fiber.Ctx) error {
	userID := c.Locals("userId").(string)

	reqData, ok := c.Locals("validatedProgressQuery").(*userValidator.ProgressQueryRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	progress, err := ctrl.Progress.GetProgress(userID, reqData.CourseID)
	if err != nil {
		return middleware.JsonResponse(c, services.StatusCode(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched!", fiber.Map{
		"progressData": progress,
	})
}

// AddRating submits or replaces the caller's rating for a course
func (ctrl *UserController) AddRating(c *fiber.Ctx) error {
	userID := c.Locals("userId").(string)

	reqData, ok := c.Locals("validatedRating").(*userValidator.RatingRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := ctrl.Ratings.RateCourse(userID, reqData.CourseID, reqData.Rating); err != nil {
		return middleware.JsonResponse(c, services.StatusCode(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rating added successfully!", nil)
}
