package controllers

import (
	"lms/middleware"
	"lms/models"
	"lms/services"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// EducatorController serves course authoring and the educator sales views.
type EducatorController struct {
	Users     *services.UserService
	Educators *services.EducatorService
}

// UpdateRoleToEducator promotes the caller to the educator role
func (ctrl *EducatorController) UpdateRoleToEducator(c *fiber.Ctx) error {
	userID := c.Locals("userId").(string)

	if err := ctrl.Users.SetRole(userID, models.RoleEducator); err != nil {
		return middleware.JsonResponse(c, services.StatusCode(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "You can publish a course now", nil)
}

// AddCourse creates a course from the validated authoring payload plus an
// optional thumbnail upload.
func (ctrl *EducatorController) AddCourse(c *fiber.Ctx) error {
	userID := c.Locals("userId").(string)

	payload, ok := c.Locals("validatedCourse").(*services.NewCourse)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	thumbnailURL := ""
	if file, err := c.FormFile("image"); err == nil {
		path, err := utils.SaveThumbnail(file)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store thumbnail!", nil)
		}
		thumbnailURL = utils.FileURL(path)
	}

	course, err := ctrl.Educators.AddCourse(userID, *payload, thumbnailURL)
	if err != nil {
		return middleware.JsonResponse(c, services.StatusCode(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course added", fiber.Map{
		"course": course,
	})
}

// GetCourses lists the educator's own courses
func (ctrl *EducatorController) GetCourses(c *fiber.Ctx) error {
	userID := c.Locals("userId").(string)

	courses, err := ctrl.Educators.CoursesByEducator(userID)
	if err != nil {
		return middleware.JsonResponse(c, services.StatusCode(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}

// GetDashboard aggregates earnings, course count and enrollments
func (ctrl *EducatorController) GetDashboard(c *fiber.Ctx) error {
	userID := c.Locals("userId").(string)

	dashboard, err := ctrl.Educators.DashboardData(userID)
	if err != nil {
		return middleware.JsonResponse(c, services.StatusCode(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"dashboardData": dashboard,
	})
}

// GetEnrolledStudents lists completed purchases of the educator's courses
func (ctrl *EducatorController) GetEnrolledStudents(c *fiber.Ctx) error {
	userID := c.Locals("userId").(string)

	students, err := ctrl.Educators.EnrolledStudents(userID)
	if err != nil {
		return middleware.JsonResponse(c, services.StatusCode(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled students fetched successfully!", fiber.Map{
		"enrolledStudents": students,
	})
}
