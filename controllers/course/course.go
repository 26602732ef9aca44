package controllers

import (
	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// CourseController serves the public catalog endpoints.
type CourseController struct {
	Courses *services.CourseService
}

// GetAllCourses lists published courses with educator and rating info
func (ctrl *CourseController) GetAllCourses(c *fiber.Ctx) error {
	courses, err := ctrl.Courses.ListPublished()
	if err != nil {
		return middleware.JsonResponse(c, services.StatusCode(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}

// GetCourseDetails returns one published course with its content tree.
// Lecture URLs stay hidden unless previewable or the caller is enrolled.
func (ctrl *CourseController) GetCourseDetails(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(string)
	courseID := c.Locals("courseID").(uint)

	course, err := ctrl.Courses.ByID(courseID, userID)
	if err != nil {
		return middleware.JsonResponse(c, services.StatusCode(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course": course,
	})
}
