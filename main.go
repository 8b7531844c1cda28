package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	v1 "github.com/classfund/backend/internal/controllers/v1"
	"github.com/classfund/backend/internal/events"
	"github.com/classfund/backend/internal/gateway"
	"github.com/classfund/backend/internal/ledger"
	"github.com/classfund/backend/internal/models"
	"github.com/classfund/backend/internal/notify"
	"github.com/classfund/backend/internal/planner"
	"github.com/classfund/backend/internal/pubsub"
	"github.com/classfund/backend/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Local development configuration can be kept in a .env file. Its
	// absence is fine, the environment is used as-is then.
	_ = godotenv.Load()

	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	// Create data directory
	dataDir := filepath.Join(".", "data")
	err := os.MkdirAll(dataDir, os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database and migrate the schema
	err = models.Connect("data/gorm.db?_pragma=foreign_keys(1)")
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	gw := gateway.New(models.DB)

	// Transaction events go to a broker when one is configured
	var publisher ledger.Publisher = events.NopPublisher{}
	if url, ok := os.LookupEnv("AMQP_URL"); ok {
		amqpPublisher, err := events.NewAMQPPublisher(url, "classfund", "transactions")
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
		defer amqpPublisher.Close()

		publisher = amqpPublisher
		log.Info().Msg("transaction events are published to AMQP")
	}

	ctx := context.Background()

	// Hydrate the planner from the latest persisted collection record
	plan := planner.New(gw)
	record, err := plan.FetchLatestRecord(ctx)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	if record != nil {
		plan.Restore(*record)
	}

	// Hydrate the ledger from the persisted students and class entries
	store := ledger.NewStore()
	students, err := gw.FetchAllStudents(ctx)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	classLog, err := gw.FetchClassEntries(ctx)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	store.Restore(students, classLog)
	log.Info().Int("students", store.StudentCount()).Msg("ledger hydrated")

	co := v1.Controller{
		Store:       store,
		Processor:   ledger.NewProcessor(store, gw, plan, publisher),
		Planner:     plan,
		Engine:      notify.NewEngine(),
		Broadcaster: pubsub.NewBroadcaster(),
	}

	r, teardown, err := router.Config()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer teardown()
	router.AttachRoutes(co, r.Group("/"))

	port, ok := os.LookupEnv("PORT")
	if !ok {
		port = "8080"
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(signalCtx)

	group.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("backend startup complete")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
