package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/storedesk/ticketbot/internal/category"
	"github.com/storedesk/ticketbot/internal/config"
	"github.com/storedesk/ticketbot/internal/database"
	"github.com/storedesk/ticketbot/internal/discord"
	"github.com/storedesk/ticketbot/internal/handler"
	"github.com/storedesk/ticketbot/internal/kafka"
	"github.com/storedesk/ticketbot/internal/router"
	"github.com/storedesk/ticketbot/internal/service"
	"github.com/storedesk/ticketbot/internal/ticket"
)

// App wires the Discord bot, the ticket engine and the HTTP admin API
// (mode serve).
type App struct {
	cfg      *config.Config
	session  *discordgo.Session
	engine   *ticket.Engine
	producer *kafka.Producer
	httpSrv  *http.Server
}

// New builds the application: validates config, migrates and opens the
// database, builds the engine and registers the Discord handlers.
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	ticketStore := service.NewTicketStore(db)
	productSvc := service.NewProductService(db)
	producer := kafka.NewProducer(kafka.ParseBrokers(cfg.Kafka.Brokers), cfg.Kafka.Topic)

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}

	var staffRoles []string
	if cfg.Discord.StaffRoleID != "" {
		staffRoles = []string{cfg.Discord.StaffRoleID}
	}
	registry := category.NewRegistry(category.Defaults(staffRoles))

	settings := ticket.Settings{
		SpaceID:      cfg.Discord.GuildID,
		SuperuserID:  cfg.Discord.AdminID,
		StaffRoleIDs: staffRoles,
		ParentID:     cfg.Discord.TicketParentID,
		PixKey:       cfg.Pix.Key,
		PixDeadline:  cfg.Pix.Deadline,
	}
	engine := ticket.NewEngine(settings, registry, discord.NewClient(session, cfg.Discord.GuildID), ticketStore, producer)

	bot := discord.NewBot(cfg, engine, productSvc)
	bot.Register(session)

	mux := router.New(
		handler.NewTicketHandler(ticketStore),
		handler.NewProductHandler(productSvc),
	)
	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &App{
		cfg:      cfg,
		session:  session,
		engine:   engine,
		producer: producer,
		httpSrv:  httpSrv,
	}, nil
}

// Run opens the gateway connection and the HTTP listener, blocks until
// ctx is cancelled, then shuts both down.
func (a *App) Run(ctx context.Context) error {
	if err := a.session.Open(); err != nil {
		return fmt.Errorf("discord open: %w", err)
	}

	// Rebuild the ticket index from the live channel list before taking
	// interactions; a failure here is survivable (the guard re-scans).
	bootCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := a.engine.Bootstrap(bootCtx); err != nil {
		log.Printf("application: index bootstrap: %v", err)
	}
	cancel()

	log.Printf("HTTP server listening on %s", a.httpSrv.Addr)
	log.Printf("  Swagger UI:    http://localhost:%s/swagger", a.cfg.HTTPPort)
	log.Printf("  Health:        http://localhost:%s/health", a.cfg.HTTPPort)
	log.Printf("  API v1:        http://localhost:%s/api/v1/", a.cfg.HTTPPort)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if err := a.producer.Close(); err != nil {
		log.Printf("kafka close: %v", err)
	}
	if err := a.session.Close(); err != nil {
		return fmt.Errorf("discord close: %w", err)
	}
	return nil
}
