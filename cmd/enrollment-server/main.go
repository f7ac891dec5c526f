// cmd/enrollment-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	awsclient "student-enrollment/internal/common/aws"
	"student-enrollment/internal/common/camunda"
	"student-enrollment/internal/common/config"
	httpclient "student-enrollment/internal/common/http"
	"student-enrollment/internal/common/logger"
	"student-enrollment/internal/common/observability"
	"student-enrollment/internal/common/zoho"
	"student-enrollment/internal/crm"
	"student-enrollment/internal/enrollment"
	"student-enrollment/internal/notification"
	"student-enrollment/internal/store"
	"student-enrollment/internal/web"
	"student-enrollment/internal/workflow"
)

const sessionSweepInterval = time.Minute

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// buildHooks returns the enabled post-enrollment integrations and a cleanup
// for the ones holding connections.
func buildHooks(ctx context.Context, cfg *config.Config, log logger.Logger, zapLog *zap.Logger) ([]enrollment.Hook, func()) {
	var hooks []enrollment.Hook
	cleanup := func() {}

	aws := cfg.Integrations.AWS
	if aws.SES.Enabled || aws.SNS.Enabled {
		var ses awsclient.SESService
		var sns awsclient.SNSService

		if aws.SES.Enabled {
			c, err := awsclient.NewSESClient(ctx, aws.Region)
			if err != nil {
				zapLog.Fatal("ses client failed", zap.Error(err))
			}
			ses = c
		}
		if aws.SNS.Enabled {
			c, err := awsclient.NewSNSClient(ctx, aws.Region)
			if err != nil {
				zapLog.Fatal("sns client failed", zap.Error(err))
			}
			sns = c
		}

		hooks = append(hooks, notification.NewNotifier(notification.Config{
			EmailEnabled: aws.SES.Enabled,
			SMSEnabled:   aws.SNS.Enabled,
			FromEmail:    aws.SES.FromEmail,
			SenderID:     aws.SNS.DefaultSMSSenderID,
			CountryCode:  aws.SNS.CountryCode,
		}, ses, sns, log))
		zapLog.Info("Notification hook enabled",
			zap.Bool("email", aws.SES.Enabled),
			zap.Bool("sms", aws.SNS.Enabled),
		)
	}

	if z := cfg.Integrations.Zoho; z.Enabled {
		client := zoho.NewCRMClient(z.BaseURL, z.AuthToken, httpclient.NewClient(config.GetDuration(z.Timeout)))
		hooks = append(hooks, crm.NewLeadSync(client, log))
		zapLog.Info("Zoho lead sync enabled", zap.String("baseUrl", z.BaseURL))
	}

	if c := cfg.Camunda; c.Enabled {
		var zeebe *camunda.Client
		err := retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         c.BrokerAddress,
				UsePlaintextConnection: true,
				ConnectionTimeout:      10 * time.Second,
				RequestTimeout:         config.GetDuration(c.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}

		hooks = append(hooks, workflow.NewFollowup(zeebe, c.ProcessID, log))
		cleanup = func() {
			if err := zeebe.Close(); err != nil {
				zapLog.Error("Error closing Zeebe client", zap.Error(err))
			}
		}
		zapLog.Info("Camunda follow-up enabled", zap.String("processId", c.ProcessID))
	}

	return hooks, cleanup
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting enrollment server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("store", cfg.Store.Driver),
	)

	obs := observability.New(cfg.App.Name, observability.TracingOptions{
		Enabled:        cfg.Tracing.Enabled,
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
		SampleRatio:    cfg.Tracing.SampleRatio,
		Environment:    cfg.App.Environment,
	}, log)
	defer obs.Shutdown()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	be, err := store.Open(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("store failed after retries", zap.Error(err))
	}
	defer be.Close()
	zapLog.Info("Document store ready", zap.String("driver", cfg.Store.Driver))

	docs := store.NewInstrumented(be.Store, cfg.Store.Driver, obs.Tracer())

	hooks, closeHooks := buildHooks(ctx, cfg, log, zapLog)
	defer closeHooks()

	storeTimeout := config.GetDuration(cfg.Enrollment.StoreTimeout)
	svc := enrollment.NewService(docs, enrollment.Options{
		StudentCollection: cfg.Enrollment.StudentCollection,
		StoreTimeout:      storeTimeout,
		CreatedBy:         cfg.Enrollment.CreatedBy,
		InitialStatus:     cfg.Enrollment.InitialStatus,
	}, hooks, obs, log)
	loader := enrollment.NewReferenceLoader(docs, cfg.Enrollment.CollegeCollection, storeTimeout, obs, log)

	sessions := web.NewRegistry(config.GetDuration(cfg.Server.SessionTTL), cfg.Server.SecureCookies, func(id string) *enrollment.Session {
		return enrollment.NewSession(id, svc, loader)
	})
	go sessions.Run(ctx, sessionSweepInterval)

	server, err := web.NewServer(svc, loader, sessions, be.Pinger, log)
	if err != nil {
		zapLog.Fatal("web server setup failed", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           server.Routes(),
		ReadHeaderTimeout: config.GetDuration(cfg.Server.ReadHeaderTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	stop()
	svc.Wait()

	zapLog.Info("Enrollment server stopped gracefully")
}
