package main

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/ellarises/webapp/internal/config"
	"github.com/ellarises/webapp/internal/handlers"
	"github.com/ellarises/webapp/internal/middleware"
	"github.com/ellarises/webapp/internal/repository"
	"github.com/ellarises/webapp/internal/tasks"
	"github.com/ellarises/webapp/internal/web"
	"github.com/ellarises/webapp/pkg/db"
	"github.com/ellarises/webapp/pkg/job"
	"github.com/ellarises/webapp/pkg/logger"
	"github.com/ellarises/webapp/pkg/mailer"
	"github.com/ellarises/webapp/pkg/mailer/resend"
	"github.com/ellarises/webapp/pkg/redis"
	"github.com/ellarises/webapp/pkg/session"
)

//go:embed assets
var assets embed.FS

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.NewWithSentry(cfg.Sentry, middleware.RequestIDExtractor()).
		With("component", "server")

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	// Dial Postgres and Redis in parallel; both must be up before serving.
	var (
		pool        *pgxpool.Pool
		redisClient goredis.UniversalClient
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pool, err = db.Connect(gctx, cfg.Database)
		return err
	})
	g.Go(func() error {
		var err error
		redisClient, err = redis.Open(gctx, cfg.RedisURL)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := repository.Migrate(ctx, pool, log); err != nil {
		return err
	}

	users := repository.NewUserRepository(pool)
	participants := repository.NewParticipantRepository(pool)
	events := repository.NewEventRepository(pool)
	surveys := repository.NewSurveyRepository(pool)
	milestones := repository.NewMilestoneRepository(pool)
	donations := repository.NewDonationRepository(pool)
	contacts := repository.NewContactMessageRepository(pool)

	templatesFS, err := fs.Sub(tasks.TemplatesFS, "templates")
	if err != nil {
		return err
	}
	mail := mailer.New(
		resend.New(cfg.Resend),
		mailer.NewRenderer(templatesFS),
		mailer.Config{FallbackSubject: "Ella Rises", DefaultLayout: "base.html"},
	)

	sessionStore := session.NewRedisStore(redisClient)

	app := web.New(
		web.WithCustomLogger(log.With("component", "web")),
		web.WithMiddleware(
			middleware.RequestID(),
			middleware.Recover(),
		),
		web.WithSession(sessionStore,
			web.WithSessionMaxAge(cfg.SessionMaxAge),
			web.WithSessionSecure(cfg.SessionCookieSecure),
		),
		web.WithJobs(pool,
			job.WithLogger(log.With("component", "jobs")),
			job.WithMaxWorkers(25),
			job.WithQueue(tasks.MailQueue, 5),
			job.WithTask(tasks.NewDonationReceipt(donations, mail)),
			job.WithTask(tasks.NewContactNotification(mail, cfg.ContactNotifyEmail)),
			job.WithScheduledTask(tasks.NewSessionSweep(sessionStore, log)),
		),
		web.WithStaticFiles("/static", assets, "assets/static"),
		web.WithHandlers(
			handlers.NewPages(contacts, donations),
			handlers.NewAuth(users),
			handlers.NewUsers(users),
			handlers.NewParticipants(participants),
			handlers.NewEvents(events),
			handlers.NewSurveys(surveys, participants, events),
			handlers.NewMilestones(milestones, participants),
			handlers.NewDonations(donations),
		),
		web.WithErrorHandler(handlers.ErrorHandler),
		web.WithNotFoundHandler(handlers.NotFoundHandler),
		web.WithMethodNotAllowedHandler(handlers.MethodNotAllowedHandler),
		web.WithHealthChecks(
			web.WithReadinessCheck("db", db.Healthcheck(pool)),
			web.WithReadinessCheck("redis", redis.Healthcheck(redisClient)),
		),
	)

	log.Info("starting server", "port", cfg.Port, "env", cfg.Env)
	return app.Run(":"+cfg.Port,
		web.Logger(log),
		web.WithContext(ctx),
		web.ShutdownHook(db.Shutdown(pool)),
		web.ShutdownHook(redis.Shutdown(redisClient)),
	)
}
