package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	common_api "go-los/internal/common/api"
	"go-los/internal/config"
	"go-los/internal/database"
	"go-los/internal/features/account"
	"go-los/internal/features/application"
	"go-los/internal/features/audit"
	"go-los/internal/features/cam"
	"go-los/internal/features/collection"
	"go-los/internal/features/dashboard"
	"go-los/internal/features/disbursal"
	"go-los/internal/features/dpd"
	"go-los/internal/features/employee"
	"go-los/internal/features/lead"
	"go-los/internal/features/sanction"
	"go-los/internal/features/sequence"
	"go-los/internal/features/verification"
	"go-los/internal/features/workflow"
	"go-los/internal/logger"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for _, route := range routes {
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(
	lc fx.Lifecycle,
	employees employee.EmployeeRepository,
	sanctions sanction.SanctionRepository,
	disbursals disbursal.DisbursalRepository,
	closed collection.ClosedRepository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := employees.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure employee indexes: %v", err)
				}
				if err := sanctions.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure sanction indexes: %v", err)
				}
				if err := disbursals.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure disbursal indexes: %v", err)
				}
				if err := closed.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure ledger indexes: %v", err)
				}
			}()
			return nil
		},
	})
}

// SeedLoanCounter initialises the loan-number counter from the highest
// number already issued, so numbering keeps climbing across deploys.
func SeedLoanCounter(
	lc fx.Lifecycle,
	cfg *config.Config,
	sanctions sanction.SanctionRepository,
	sequences sequence.SequenceRepository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			highest, err := sanctions.HighestLoanNo(ctx)
			if err != nil {
				return err
			}
			var from int64
			if suffix := strings.TrimPrefix(highest, cfg.LoanPrefix); suffix != highest {
				if n, err := strconv.ParseInt(suffix, 10, 64); err == nil {
					from = n
				}
			}
			return sequences.Seed(ctx, sequence.LoanCounter, from)
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			employee.NewEmployeeRepository,
			audit.NewAuditRepository,
			lead.NewLeadRepository,
			application.NewApplicationRepository,
			cam.NewCamRepository,
			sequence.NewSequenceRepository,
			sanction.NewSanctionRepository,
			disbursal.NewDisbursalRepository,
			collection.NewClosedRepository,

			// Initialize Service
			audit.NewAuditService,
			employee.NewEmployeeService,
			lead.NewLeadService,
			application.NewApplicationService,
			sanction.NewSanctionService,
			disbursal.NewDisbursalService,
			collection.NewCollectionService,
			account.NewAccountService,
			workflow.NewWorkflowService,
			dashboard.NewDashboardService,
			verification.NewHttpVerificationClient,
			dpd.NewScheduler,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(r application.ApplicationRepository) lead.ApplicationCreator { return r },
			func(r sanction.SanctionRepository) application.SanctionCreator { return r },
			func(r disbursal.DisbursalRepository) sanction.DisbursalCreator { return r },
			func(db *database.MongodbDB) database.TxRunner { return db },
			func(c *verification.HttpVerificationClient) verification.PanVerifier { return c },
			func(c *verification.HttpVerificationClient) verification.AadhaarClient { return c },
			func(c *verification.HttpVerificationClient) verification.BankVerifier { return c },

			// Initialize Controller
			employee.NewEmployeeController,
			audit.NewAuditController,
			lead.NewLeadController,
			application.NewApplicationController,
			cam.NewCamController,
			sanction.NewSanctionController,
			disbursal.NewDisbursalController,
			collection.NewCollectionController,
			account.NewAccountController,
			workflow.NewWorkflowController,
			dashboard.NewDashboardController,
			verification.NewVerificationController,

			// Initialize API Routes
			AsRoute(employee.NewEmployeeApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(lead.NewLeadApi),
			AsRoute(application.NewApplicationApi),
			AsRoute(cam.NewCamApi),
			AsRoute(sanction.NewSanctionApi),
			AsRoute(disbursal.NewDisbursalApi),
			AsRoute(collection.NewCollectionApi),
			AsRoute(account.NewAccountApi),
			AsRoute(workflow.NewWorkflowApi),
			AsRoute(dashboard.NewDashboardApi),
			AsRoute(verification.NewVerificationApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			SeedLoanCounter,
			InitializeIndexes,
			func(*dpd.Scheduler) {},
		),
	)

	app.Run()
}
