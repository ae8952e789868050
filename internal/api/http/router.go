package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/http/handlers"
	"github.com/spec-kit/attendance-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Employees      *handlers.EmployeesHandler
	Attendance     *handlers.AttendanceHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	api.Post("/auth/login", cfg.Users.Login)

	users := api.Group("/v1/users")
	users.Post("/signup", cfg.AuthMiddleware.OptionalGuardWithUser, cfg.Users.Signup)
	users.Post("/login", cfg.Users.Login)
	users.Post("/forgotPassword", cfg.Users.ForgotPassword)
	users.Patch("/resetPassword/:token", cfg.Users.ResetPassword)

	usersSelf := users.Group("", cfg.AuthMiddleware.GuardWithUser)
	usersSelf.Get("/me", cfg.Users.Me)
	usersSelf.Patch("/updateMyPassword", cfg.Users.UpdateMyPassword)
	usersSelf.Patch("/updateMe", cfg.Users.UpdateMe)
	usersSelf.Delete("/deleteMe", cfg.Users.DeleteMe)

	usersAdmin := users.Group("", cfg.AuthMiddleware.GuardWithUser, auth.RequirePermission(auth.ActionManageUsers))
	usersAdmin.Get("/", cfg.Users.List)
	usersAdmin.Post("/", cfg.Users.Signup)
	usersAdmin.Get("/:id", cfg.Users.Get)
	usersAdmin.Patch("/:id", cfg.Users.Update)
	usersAdmin.Delete("/:id", cfg.Users.Delete)

	employees := api.Group("/employees", cfg.AuthMiddleware.Guard, auth.RequirePermission(auth.ActionManageEmployees))
	employees.Get("/", cfg.Employees.List)
	employees.Post("/", cfg.Employees.Create)
	employees.Delete("/:id", cfg.Employees.Delete)

	attendance := api.Group("/attendance", cfg.AuthMiddleware.Guard)
	attendance.Get("/report", auth.RequirePermission(auth.ActionGenerateReports), cfg.Attendance.Report)
	attendance.Get("/export", auth.RequirePermission(auth.ActionExportReports), cfg.Attendance.Export)
	attendance.Get("/", auth.RequirePermission(auth.ActionRecordAttendance), cfg.Attendance.List)
	attendance.Post("/", auth.RequirePermission(auth.ActionRecordAttendance), cfg.Attendance.Create)
	attendance.Delete("/:id", auth.RequirePermission(auth.ActionDeleteAttendance), cfg.Attendance.Delete)

	// Legacy path kept for older clients.
	attendance.Post("/add-attendance/", auth.RequirePermission(auth.ActionRecordAttendance), cfg.Attendance.Create)

	stats := api.Group("/stats", cfg.AuthMiddleware.Guard, auth.RequirePermission(auth.ActionViewDashboard))
	stats.Get("/", cfg.Stats.Dashboard)
	stats.Get("/dashboard", cfg.Stats.Dashboard)
}
