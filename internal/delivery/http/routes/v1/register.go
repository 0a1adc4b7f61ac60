package v1

import (
	"log"

	"competency-hub/internal/config"
	"competency-hub/internal/database"
	"competency-hub/internal/delivery/http/handler"
	"competency-hub/internal/delivery/http/middleware"
	"competency-hub/internal/notify"
	"competency-hub/internal/pkg/jwt"
	"competency-hub/internal/repository"
	"competency-hub/internal/usecase"
	"competency-hub/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Register wires the v1 API: repositories over the shared pool,
// usecases on top, handlers on top of those. The notifier and hub are
// shared with the sweep scheduler, so they are built by the caller.
func Register(r fiber.Router, cfg config.Config, db database.DB, notifier notify.Sink, hub *ws.Hub) {
	if r == nil || db == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	levels := repository.NewPostgresLevelRepository(db)
	skills := repository.NewPostgresSkillRepository(db)
	employees := repository.NewPostgresEmployeeRepository(db)
	profiles := repository.NewPostgresRoleProfileRepository(db)
	ledger := repository.NewPostgresEmployeeSkillRepository(db)
	rules := repository.NewPostgresScoringRuleRepository(db)
	assessments := repository.NewPostgresAssessmentRepository(db)
	requests := repository.NewPostgresCourseRequestRepository(db)
	capabilities := repository.NewPostgresCapabilityRepository(db)
	users := repository.NewPostgresUserRepository(db)

	authUC := usecase.NewAuthUsecase(users, jwtSvc)
	catalogUC := usecase.NewCatalogUsecase(levels, skills)
	employeeSkillUC := usecase.NewEmployeeSkillUsecase(ledger, skills, employees, levels, profiles, capabilities, notifier, cfg.Policy)
	readinessUC := usecase.NewReadinessUsecase(employees, profiles, ledger, levels)
	scoringUC := usecase.NewScoringRuleUsecase(rules, levels)
	attemptUC := usecase.NewAttemptUsecase(assessments, ledger, rules, levels, cfg.Policy)
	requestUC := usecase.NewCourseRequestUsecase(requests, employees, capabilities, notifier, cfg.Policy)

	authGroup := r.Group("/auth")
	handler.NewAuthHandler(authUC).RegisterRoutes(authGroup)

	protected := r.Group("", authMw.Middleware())
	handler.NewCatalogHandler(catalogUC).RegisterRoutes(protected)
	handler.NewEmployeeSkillHandler(employeeSkillUC).RegisterRoutes(protected)
	handler.NewReadinessHandler(readinessUC).RegisterRoutes(protected)
	handler.NewScoringRuleHandler(scoringUC).RegisterRoutes(protected)
	handler.NewAttemptHandler(attemptUC).RegisterRoutes(protected)
	handler.NewCourseRequestHandler(requestUC).RegisterRoutes(protected)

	wsHandler := ws.NewHandler(hub, log.Default())
	protected.Get("/ws/notifications", wsHandler.HandleNotificationsWS)
}
