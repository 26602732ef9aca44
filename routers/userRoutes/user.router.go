package userRoutes

import (
	controllers "lms/controllers/user"
	"lms/middleware"
	validators "lms/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up the authenticated learner routes
func SetupUserRoutes(app *fiber.App, ctrl *controllers.UserController) {
	userGroup := app.Group("/user", middleware.JWTMiddleware)

	userGroup.Get("/data", ctrl.GetUserData)
	userGroup.Get("/enrolled-courses", ctrl.GetEnrolledCourses)
	userGroup.Post("/purchase", validators.PurchaseCourse(), ctrl.PurchaseCourse)

	userGroup.Post("/update-course-progress", validators.UpdateCourseProgress(), ctrl.UpdateCourseProgress)
	userGroup.Post("/get-course-progress", validators.GetCourseProgress(), ctrl.GetCourseProgress)
	userGroup.Post("/add-rating", validators.AddRating(), ctrl.AddRating)
}
