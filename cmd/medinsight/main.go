package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medinsight/medinsight/internal/config"
	"github.com/medinsight/medinsight/internal/domain/predict"
	"github.com/medinsight/medinsight/internal/domain/summary"
	"github.com/medinsight/medinsight/internal/platform/metrics"
	"github.com/medinsight/medinsight/internal/platform/middleware"
	"github.com/medinsight/medinsight/internal/platform/nlp"
	"github.com/medinsight/medinsight/internal/platform/report"
)

const version = "0.1.0"

// maxBodySize caps HTTP request bodies; history blobs are free text of
// unbounded length.
const maxBodySize = "1M"

func main() {
	rootCmd := &cobra.Command{
		Use:   "medinsight",
		Short: "Patient history summarizer and risk prediction engine",
	}

	rootCmd.AddCommand(summarizeCmd())
	rootCmd.AddCommand(predictCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the process logger on stderr: stdout carries the JSON
// result payload for the batch subcommands.
func newLogger() zerolog.Logger {
	if os.Getenv("ENV") == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func summarizeCmd() *cobra.Command {
	var mode string
	var pdfPath string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize a patient history read from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags parsed fine; from here failures surface as the JSON
			// error envelope, not cobra's error printer.
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			cfg, err := config.Load()
			if err != nil {
				return fail(os.Stderr, fmt.Errorf("Processing failed: %w", err))
			}
			svc := summary.NewService(newEntityExtractor(cfg))
			renderer := report.NewRenderer(cfg.PDFFontPath)
			return runSummarize(svc, renderer, os.Stdin, os.Stdout, os.Stderr, mode, pdfPath)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "emergency", "Summary mode: emergency, simple, or entities")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Also render the summary as a PDF at this path")
	return cmd
}

func predictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predict",
		Short: "Predict condition risks from patient data read from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return runPredict(predict.NewService(), os.Stdin, os.Stdout, os.Stderr)
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// errorResult is the wire shape of a failed invocation.
type errorResult struct {
	Error string `json:"error"`
}

// fail writes the error envelope to errOut and returns err, so the process
// exits non-zero while stderr carries the documented JSON error shape.
func fail(errOut io.Writer, err error) error {
	_ = json.NewEncoder(errOut).Encode(errorResult{Error: err.Error()})
	return err
}

// runSummarize executes one summarize invocation: a single JSON payload on
// in, a single JSON document on out. Error message prefixes are part of the
// wire contract.
func runSummarize(svc *summary.Service, renderer summary.DocumentRenderer, in io.Reader, out, errOut io.Writer, modeFlag, pdfPath string) error {
	mode, err := summary.ParseMode(modeFlag)
	if err != nil {
		return fail(errOut, fmt.Errorf("Processing failed: %w", err))
	}

	var req summary.Request
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fail(errOut, fmt.Errorf("Processing failed: %w", err))
	}

	now := time.Now()
	rep, err := svc.Summarize(context.Background(), req.History, summary.Options{
		Mode:          mode,
		EmergencyMode: req.Emergency(),
		Now:           now,
	})
	if err != nil {
		return fail(errOut, fmt.Errorf("Processing failed: %w", err))
	}

	if pdfPath != "" {
		pdf, err := renderer.Render(report.Document{
			Title:     "Patient Medical Summary",
			Hospital:  rep.Hospital,
			Doctor:    rep.Doctor,
			Generated: now,
			Body:      rep.Summary,
		})
		if err != nil {
			return fail(errOut, fmt.Errorf("Processing failed: %w", err))
		}
		if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
			return fail(errOut, fmt.Errorf("Processing failed: %w", err))
		}
	}

	return json.NewEncoder(out).Encode(summary.Response{Summary: rep.Summary})
}

// runPredict executes one predict invocation. A payload without patientData
// reports the bare sentinel message; everything else wraps the cause.
func runPredict(svc *predict.Service, in io.Reader, out, errOut io.Writer) error {
	var req predict.Request
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fail(errOut, fmt.Errorf("Prediction failed: %w", err))
	}

	result, err := svc.Predict(req.PatientData)
	if err != nil {
		if errors.Is(err, predict.ErrNoPatientData) {
			return fail(errOut, err)
		}
		return fail(errOut, fmt.Errorf("Prediction failed: %w", err))
	}

	return json.NewEncoder(out).Encode(predict.Response{Prediction: result})
}

// newEntityExtractor builds the NLP client when one is configured. Returning
// nil keeps the entities summary mode on its rule-table fallback.
func newEntityExtractor(cfg *config.Config) summary.EntityExtractor {
	if !cfg.NLPEnabled() {
		return nil
	}
	opts := []nlp.ClientOption{
		nlp.WithTimeout(cfg.NLPTimeout()),
		nlp.WithMinConfidence(cfg.NLPMinConfidence),
	}
	if cfg.NLPAPIKey != "" {
		opts = append(opts, nlp.WithAPIKey(cfg.NLPAPIKey))
	}
	return nlp.NewClient(cfg.NLPBaseURL, opts...)
}

func runServer() error {
	// Logger
	logger := newLogger()

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	extractor := newEntityExtractor(cfg)
	if cfg.NLPEnabled() {
		logger.Info().Str("base_url", cfg.NLPBaseURL).Msg("entity extraction service configured")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(maxBodySize))
	e.Use(metrics.Middleware())
	e.Use(middleware.Audit(logger))

	// API group
	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))
	apiV1.Use(middleware.RequestTimeout(cfg.RequestTimeout()))

	summary.NewHandler(summary.NewService(extractor), report.NewRenderer(cfg.PDFFontPath)).RegisterRoutes(apiV1)
	predict.NewHandler(predict.NewService()).RegisterRoutes(apiV1)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
