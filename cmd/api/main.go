package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/asesor-crm/internal/config"
	"github.com/xavierca1/asesor-crm/internal/entity"
	"github.com/xavierca1/asesor-crm/internal/infra/database"
	"github.com/xavierca1/asesor-crm/internal/infra/http/handlers"
	"github.com/xavierca1/asesor-crm/internal/infra/integration/whatsapp"
	"github.com/xavierca1/asesor-crm/internal/infra/mail"
	"github.com/xavierca1/asesor-crm/internal/infra/memory"
	"github.com/xavierca1/asesor-crm/internal/infra/queue"
	"github.com/xavierca1/asesor-crm/internal/infra/worker"
	"github.com/xavierca1/asesor-crm/internal/logger"
	"github.com/xavierca1/asesor-crm/internal/usecase"
)

type leadStore interface {
	entity.LeadRepositoryInterface
	worker.StaleLeadFinder
}

type repositories struct {
	leads        leadStore
	appointments entity.AppointmentRepositoryInterface
	rentals      entity.RentalApplicationRepositoryInterface
	profiles     entity.AdvisorProfileRepositoryInterface
	activity     entity.ActivityLogRepositoryInterface
	storage      string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Repositórios
	var (
		repos repositories
		db    handlers.Pinger
	)
	if cfg.UseMemoryStore() {
		log.Warn("⚠️ DATABASE_URL vazia, usando repositórios em memória")
		store := memory.NewStore()
		repos = repositories{
			leads:        store.Leads(),
			appointments: store.Appointments(),
			rentals:      store.RentalApplications(),
			profiles:     store.AdvisorProfiles(),
			activity:     store.ActivityLog(),
			storage:      "memory",
		}
	} else {
		conn, err := database.NewDBConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("falha ao conectar no Postgres: %w", err)
		}
		defer conn.Close()
		db = conn
		repos = postgresRepositories(conn)
	}

	// 2. Fila de eventos
	var (
		events usecase.LeadEventPublisher = queue.NoopProducer{}
		broker handlers.BrokerConn
		rabbit *queue.RabbitMQ
	)
	if cfg.RabbitMQURL != "" {
		rabbit, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Warn("⚠️ RabbitMQ indisponível, eventos desligados", zap.Error(err))
		} else {
			defer rabbit.Close()
			events = queue.NewProducer(rabbit.Ch)
			broker = rabbit.Conn
		}
	}

	// 3. UseCases
	createLead := usecase.NewCreateLeadUseCase(repos.leads, repos.activity, events, log)
	updateStatus := usecase.NewUpdateLeadStatusUseCase(repos.leads, events, log)
	profiles := usecase.NewAdvisorProfileUseCase(repos.profiles, log)
	closeLead := usecase.NewCloseLeadUseCase(repos.leads, updateStatus, profiles, log)
	appointments := usecase.NewAppointmentUseCase(repos.appointments, events, log)
	rentals := usecase.NewAssignRentalApplicationUseCase(repos.rentals)
	activity := usecase.NewGetActivityLogsUseCase(repos.activity)
	queries := usecase.NewLeadQueryUseCase(repos.leads)

	// 4. Handlers
	leadHandler := handlers.NewLeadHandler(createLead, updateStatus, closeLead, queries, log)
	defer leadHandler.Stop()

	router := handlers.NewRouter(handlers.RouterConfig{
		Leads:          leadHandler,
		Appointments:   handlers.NewAppointmentHandler(appointments, rentals, log),
		Advisors:       handlers.NewAdvisorHandler(profiles, activity, log),
		Health:         handlers.NewHealthHandler(db, broker, repos.storage),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("🔥 Asesor CRM rodando", zap.String("addr", srv.Addr), zap.String("storage", repos.storage))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// 5. Workers
	if rabbit != nil {
		notifiers := buildNotifiers(cfg, log)
		if len(notifiers) > 0 {
			w := queue.NewWorker(rabbit.Ch, notifiers, log)
			g.Go(func() error { return w.Start(gctx, queue.QueueName) })
		} else {
			log.Warn("⚠️ nenhum canal de notificação configurado, worker desligado")
		}
	}

	if cfg.StaleLeadAfter > 0 {
		stale := worker.NewStaleLeadWorker(repos.leads, updateStatus, cfg.StaleLeadAfter, cfg.StaleLeadSchedule, log)
		g.Go(func() error { return stale.Start(gctx) })
	}

	if err := g.Wait(); err != nil {
		log.Error("❌ encerrando com erro", zap.Error(err))
		return err
	}
	log.Info("👋 servidor encerrado")
	return nil
}

func buildNotifiers(cfg *config.Config, log *zap.Logger) queue.Notifiers {
	var notifiers queue.Notifiers
	if cfg.MailEnabled() {
		notifiers = append(notifiers, mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.MailNotifyTo))
	}
	if cfg.WhatsAppEnabled() {
		client := whatsapp.NewClient(cfg.WhatsAppToken, cfg.WhatsAppPhoneID, cfg.WhatsAppAPIURL, log)
		notifiers = append(notifiers, whatsapp.NewNotifier(client, cfg.WhatsAppNotifyTo, cfg.WhatsAppTemplate))
	}
	return notifiers
}

func postgresRepositories(db *sql.DB) repositories {
	return repositories{
		leads:        database.NewLeadRepository(db),
		appointments: database.NewAppointmentRepository(db),
		rentals:      database.NewRentalApplicationRepository(db),
		profiles:     database.NewAdvisorProfileRepository(db),
		activity:     database.NewActivityLogRepository(db),
		storage:      "postgres",
	}
}
