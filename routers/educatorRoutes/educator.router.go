package educatorRoutes

import (
	controllers "lms/controllers/educator"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/educator"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupEducatorRoutes sets up the course authoring and sales routes. All but
// the role promotion require the educator role.
func SetupEducatorRoutes(app *fiber.App, db *gorm.DB, ctrl *controllers.EducatorController) {
	educatorGroup := app.Group("/educator", middleware.JWTMiddleware)

	educatorGroup.Post("/update-role", ctrl.UpdateRoleToEducator)

	educatorOnly := middleware.RequireRole(db, models.RoleEducator)
	educatorGroup.Post("/add-course", educatorOnly, validators.AddCourse(), ctrl.AddCourse)
	educatorGroup.Get("/courses", educatorOnly, ctrl.GetCourses)
	educatorGroup.Get("/dashboard", educatorOnly, ctrl.GetDashboard)
	educatorGroup.Get("/enrolled-students", educatorOnly, ctrl.GetEnrolledStudents)
}
