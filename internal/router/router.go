package router // package router defines how HTTP routes are registered for the application

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/academic-records/internal/config"
	"github.com/iliyamo/academic-records/internal/handler"
	"github.com/iliyamo/academic-records/internal/middleware"
	"github.com/iliyamo/academic-records/internal/model"
)

// RegisterRoutes wires every endpoint with its middleware chain.  The
// auth chains attach per route, not via groups: group middleware on an
// empty prefix makes Echo register catch-all routes that swallow every
// unmatched request, which would hide its 404 and 405 answers (the
// method restriction on /update-grade/ relies on the latter).
func RegisterRoutes(e *echo.Echo, cfg config.Config, rdb *redis.Client,
	auth *handler.AuthHandler, admin *handler.AdminHandler,
	faculty *handler.FacultyHandler, student *handler.StudentHandler) {

	e.GET("/healthz", handler.Health)

	// Login is rate limited per client IP to slow credential stuffing.
	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	e.GET("/login/", auth.LoginForm)
	e.POST("/login/", auth.Login, rl)
	e.POST("/logout/", auth.Logout)

	session := middleware.SessionAuth(cfg.JWTSecret)
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	facultyOnly := middleware.RequireRole(model.RoleFaculty)
	studentOnly := middleware.RequireRole(model.RoleStudent)

	e.GET("/admin-panel/", admin.AdminPanel, session, adminOnly)
	e.POST("/add-user/", admin.AddUser, session, adminOnly)
	e.GET("/add-user/", admin.RedirectToPanel, session, adminOnly)

	e.POST("/add-course/", faculty.AddCourse, session, facultyOnly)
	e.GET("/faculty-profile/", faculty.Profile, session, facultyOnly)
	e.GET("/course/:courseId/students/", faculty.CourseStudents, session, facultyOnly)
	e.POST("/update-grade/", faculty.UpdateGrade, session, facultyOnly)

	// The catalog is the busiest read; cache it per user so one
	// student's enrolled markers never leak into another's view.
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.GET("/student/profile/", student.Profile, session, studentOnly)
	e.GET("/available-courses/", student.AvailableCourses, session, studentOnly, cache)
	e.POST("/enroll/:courseId/", student.Enroll, session, studentOnly)
}
