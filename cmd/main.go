package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hntrann/casepanel/config"
	"github.com/hntrann/casepanel/database"
	_ "github.com/hntrann/casepanel/docs" // Swagger docs - auto-generated
	chatctrl "github.com/hntrann/casepanel/internal/controller/chat"
	instructorctrl "github.com/hntrann/casepanel/internal/controller/instructor"
	"github.com/hntrann/casepanel/internal/logger"
	"github.com/hntrann/casepanel/internal/model"
	"github.com/hntrann/casepanel/internal/repository"
	"github.com/hntrann/casepanel/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Case Panel API
// @version 1.0
// @description Instructor control panel and chat-runtime contracts for AI-mediated case-study training. Covers roster buckets, assignment availability, chat-option resolution, scenario eligibility and evaluation rollups.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories layer
		fx.Provide(
			repository.NewSectionRepository,
			repository.NewCaseRepository,
			repository.NewCaseAssignmentRepository,
			repository.NewChatOptionsDefaultRepository,
			repository.NewScenarioRepository,
			repository.NewScenarioAssignmentRepository,
			repository.NewStudentRepository,
			repository.NewEvaluationRepository,
		),

		// Services layer
		fx.Provide(
			service.NewCatalogService,
			service.NewRosterService,
			service.NewOptionsService,
			service.NewAvailabilityService,
			service.NewAssignmentService,
			service.NewScenarioService,
			service.NewStatsService,
			service.NewRollupService,
			service.NewAdmissionService,
			service.NewGeminiEvaluator,
			service.NewEvaluationService,
		),

		// API controllers layer
		fx.Provide(
			instructorctrl.NewCatalogController,
			instructorctrl.NewAssignmentController,
			instructorctrl.NewOptionsController,
			instructorctrl.NewReportController,
			chatctrl.NewChatController,
		),

		fx.Invoke(ApplyLogLevel),
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func ApplyLogLevel(cfg *config.Config) {
	logger.SetLevel(cfg.LogLevel)
}

// RegisterRoutesAndStartServer configures API routes and manages the server
// lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	catalogCtrl *instructorctrl.CatalogController,
	assignmentCtrl *instructorctrl.AssignmentController,
	optionsCtrl *instructorctrl.OptionsController,
	reportCtrl *instructorctrl.ReportController,
	chatCtrl *chatctrl.ChatController,
) {
	// Instructor routes (prefixed with /api/v1/instructor)
	instructorGroup := router.Group("/api/v1/instructor")
	{
		instructorGroup.POST("/sections", catalogCtrl.CreateSection)
		instructorGroup.GET("/sections", catalogCtrl.ListSections)
		instructorGroup.PATCH("/sections/:section_id", catalogCtrl.UpdateSection)
		instructorGroup.POST("/cases", catalogCtrl.CreateCase)
		instructorGroup.GET("/cases", catalogCtrl.ListCases)
		instructorGroup.PATCH("/cases/:case_id", catalogCtrl.UpdateCase)
		instructorGroup.POST("/students", catalogCtrl.EnrollStudent)

		instructorGroup.GET("/sections/:section_id/assignments", assignmentCtrl.ListAssignments)
		instructorGroup.POST("/sections/:section_id/assignments", assignmentCtrl.CreateAssignment)
		instructorGroup.PATCH("/sections/:section_id/assignments/:case_id", assignmentCtrl.UpdateAssignment)
		instructorGroup.DELETE("/sections/:section_id/assignments/:case_id", assignmentCtrl.DeleteAssignment)
		instructorGroup.POST("/sections/:section_id/assignments/:case_id/activate", assignmentCtrl.ActivateAssignment)
		instructorGroup.PUT("/sections/:section_id/assignments/:case_id/manual-status", assignmentCtrl.SetManualStatus)

		instructorGroup.POST("/scenarios", assignmentCtrl.CreateScenario)
		instructorGroup.GET("/cases/:case_id/scenarios", assignmentCtrl.ListCaseScenarios)
		instructorGroup.POST("/sections/:section_id/assignments/:case_id/scenarios", assignmentCtrl.AssignScenario)
		instructorGroup.PUT("/sections/:section_id/assignments/:case_id/scenarios/order", assignmentCtrl.ReorderScenarios)
		instructorGroup.GET("/sections/:section_id/assignments/:case_id/scenarios/eligibility", assignmentCtrl.ScenarioEligibility)
		instructorGroup.DELETE("/sections/:section_id/assignments/:case_id/scenarios/:scenario_id", assignmentCtrl.UnassignScenario)

		instructorGroup.GET("/sections/:section_id/assignments/:case_id/options", optionsCtrl.GetResolvedOptions)
		instructorGroup.PUT("/sections/:section_id/assignments/:case_id/options", optionsCtrl.SetCustomOptions)
		instructorGroup.DELETE("/sections/:section_id/assignments/:case_id/options", optionsCtrl.ClearCustomOptions)
		instructorGroup.POST("/sections/:section_id/assignments/:case_id/options/apply-section", optionsCtrl.ApplyToSectionCases)
		instructorGroup.POST("/sections/:section_id/assignments/:case_id/options/apply-all", optionsCtrl.ApplyToAllSections)
		instructorGroup.POST("/options/defaults", optionsCtrl.SaveAsDefault)

		instructorGroup.GET("/roster", reportCtrl.GetRoster)
		instructorGroup.GET("/roster/counts", reportCtrl.GetSectionCounts)
		instructorGroup.GET("/rollup/:scope", reportCtrl.GetRollup)
		instructorGroup.GET("/rollup/:scope/stats", reportCtrl.GetStats)
		instructorGroup.PUT("/evaluations/:evaluation_id/allow-rechat", reportCtrl.SetAllowRechat)
	}

	// Chat runtime routes (prefixed with /api/v1/chat)
	chatGroup := router.Group("/api/v1/chat")
	{
		chatGroup.POST("/admission", chatCtrl.CheckAdmission)
		chatGroup.POST("/finished", chatCtrl.ChatFinished)
		chatGroup.POST("/evaluations", chatCtrl.SubmitEvaluation)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Case Panel API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Section{},
		&model.Case{},
		&model.CaseAssignment{},
		&model.ChatOptionsDefault{},
		&model.Scenario{},
		&model.ScenarioAssignment{},
		&model.Student{},
		&model.Evaluation{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}

	// The global options default must always exist; seed it from the
	// built-in record on first boot.
	var count int64
	if err := db.Model(&model.ChatOptionsDefault{}).Where("scope = ?", model.ScopeGlobal).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		seed := model.ChatOptionsDefault{Scope: model.ScopeGlobal, Options: model.BuiltinChatOptions()}
		if err := db.Create(&seed).Error; err != nil {
			log.Error().Err(err).Msg("Failed to seed global chat options default")
			return err
		}
		log.Info().Msg("Seeded global chat options default")
	}

	log.Info().Msg("Database migration completed successfully.")
	return nil
}
