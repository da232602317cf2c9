package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"

	"github.com/jengzang/geofield-backend-go/internal/api"
	"github.com/jengzang/geofield-backend-go/internal/config"
	"github.com/jengzang/geofield-backend-go/internal/database"
	"github.com/jengzang/geofield-backend-go/internal/repository"
	"github.com/jengzang/geofield-backend-go/internal/service"
)

func main() {
	var opts config.Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()
	gin.SetMode(gin.ReleaseMode)

	calibration, err := config.Load(opts.CalibrationFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load calibration")
	}
	engineCfg, err := calibration.EngineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid calibration")
	}

	records, layers, closeStore, err := openStore(opts)
	if err != nil {
		log.Fatal().Err(err).Str("store", opts.Store).Msg("Failed to open store")
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws := service.NewWorkspace(engineCfg)
	if err := ws.Load(ctx, records, layers); err != nil {
		log.Fatal().Err(err).Msg("Failed to load workspace")
	}

	recordService := service.NewRecordService(ws, records)
	router := api.SetupRouter(api.Services{
		Records:      recordService,
		Layers:       service.NewLayerService(ws, layers),
		Measurements: service.NewMeasurementService(ws, recordService),
		Analysis:     service.NewAnalysisService(ws),
		Workspace:    ws,
	}, api.RouterOptions{RateLimit: opts.RateLimit, RateBurst: opts.RateBurst})

	srv := &http.Server{
		Addr:              opts.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	log.Info().
		Str("addr", srv.Addr).
		Str("store", opts.Store).
		Str("datum", engineCfg.Transformer.Datum().Name).
		Msg("Server started")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Server stopped")
}

func openStore(opts config.Options) (repository.RecordRepository, repository.LayerRepository, func(), error) {
	switch opts.Store {
	case config.StoreBolt:
		if err := ensureDir(opts.BoltPath); err != nil {
			return nil, nil, nil, err
		}
		db, err := repository.OpenBolt(opts.BoltPath)
		if err != nil {
			return nil, nil, nil, err
		}
		return repository.NewBoltRecordRepository(db), repository.NewBoltLayerRepository(db), closer(db), nil
	default:
		if err := ensureDir(opts.DBPath); err != nil {
			return nil, nil, nil, err
		}
		db, err := database.Open(database.Config{Path: opts.DBPath})
		if err != nil {
			return nil, nil, nil, err
		}
		return repository.NewSQLiteRecordRepository(db), repository.NewSQLiteLayerRepository(db), func() { db.Close() }, nil
	}
}

func closer(db *bolt.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close bolt store")
		}
	}
}
