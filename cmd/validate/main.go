// Copyright 2026 Chainborn
//
// validate is a reference embedding application for the license validator
// core: it wires every component together, runs one validation pass, and
// optionally keeps running as a small daemon that re-validates on an
// interval while serving Prometheus metrics. Flag parsing, phased startup
// logging, and the signal-driven graceful shutdown are grounded on the
// ancestor codebase's root main.go.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainborn/license-core/pkg/audit"
	"github.com/chainborn/license-core/pkg/binding"
	"github.com/chainborn/license-core/pkg/cache"
	"github.com/chainborn/license-core/pkg/envelope"
	"github.com/chainborn/license-core/pkg/metrics"
	"github.com/chainborn/license-core/pkg/mirror"
	"github.com/chainborn/license-core/pkg/orchestrator"
	"github.com/chainborn/license-core/pkg/policy"
	"github.com/chainborn/license-core/pkg/vconfig"
	"github.com/chainborn/license-core/pkg/verifier"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	var (
		productID     = flag.String("product-id", "", "Product id to validate the loaded proof against (required)")
		verifierKind  = flag.String("verifier", "mock", "Verifier backend: mock, gnark, or sidecar")
		sidecarSocket = flag.String("verifier-socket", "", "Unix socket path for the sidecar verifier backend")
		strictness    = flag.String("strictness", "strict", "Validation strictness: strict or permissive")
		daemon        = flag.Bool("daemon", false, "Keep running, re-validating on -interval until terminated")
		interval      = flag.Duration("interval", 30*time.Second, "Re-validation interval in -daemon mode")
		showHelp      = flag.Bool("help", false, "Show this help message")
	)
	flag.Parse()

	if *showHelp {
		printHelp()
		return
	}
	if *productID == "" {
		log.Fatal("missing required flag -product-id")
	}

	cfg := vconfig.Load()
	if overridesPath := vconfig.ConfigFilePath(); overridesPath != "" {
		overrides, err := vconfig.LoadFileOverrides(overridesPath)
		if err != nil {
			log.Fatalf("failed to load config file: %v", err)
		}
		overrides.Apply(cfg)
	}

	log.Printf("[Phase 1] policy directory: %s, cache directory: %s", cfg.PolicyDir, cfg.CacheDir)

	policyStore := policy.NewStore(cfg.PolicyDir)
	validationCache := cache.New(cfg.CacheDir, cache.WithMaxEntries(cfg.CacheMaxEntries))
	if validationCache.Degraded() {
		log.Printf("[Phase 1] validation cache running in degraded mode, every lookup will miss")
	}

	gateway, err := buildGateway(*verifierKind, *sidecarSocket, cfg.VerifierTimeout)
	if err != nil {
		log.Fatalf("failed to construct verifier backend: %v", err)
	}
	log.Printf("[Phase 1] verifier backend: %s", *verifierKind)

	comparator := binding.NewComparator()
	collector := binding.NewCollector(cfg.BindingEnvPrefix)
	orch := orchestrator.New(policyStore, validationCache, gateway, comparator, collector)

	log.Println("[Phase 2] connecting to audit trail database...")
	auditStore := audit.NewStore(cfg.AuditDatabaseURL)
	if auditStore.Enabled() {
		log.Println("[Phase 2] audit trail connected")
	} else {
		log.Println("[Phase 2] audit trail disabled, running degraded")
	}
	defer auditStore.Close()

	log.Println("[Phase 3] initializing result mirror...")
	mirrorClient, err := mirror.NewClient(context.Background(), mirror.ClientConfig{
		ProjectID:       cfg.FirebaseProjectID,
		CredentialsFile: cfg.FirebaseCredentialsFile,
		Enabled:         cfg.FirestoreEnabled,
	})
	if err != nil {
		log.Fatalf("failed to construct result mirror client: %v", err)
	}
	syncService := mirror.NewSyncService(mirrorClient)
	defer syncService.Close()

	var recorder *metrics.Recorder
	var metricsServer *http.Server
	if cfg.MetricsEnabled {
		recorder = metrics.New()
		mux := http.NewServeMux()
		mux.Handle("/metrics", recorder.Handler())
		metricsServer = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			log.Printf("[Phase 4] metrics listening on %s", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("metrics server error: %v", err)
			}
		}()
	}

	loader := envelope.NewLoader(cfg.DefaultProofPath)
	proof, err := loader.Load()
	if err != nil {
		log.Fatalf("failed to load proof envelope: %v", err)
	}

	vctx := orchestrator.Context{
		ProductID:  *productID,
		Strictness: orchestrator.Strictness(*strictness),
	}

	runOnce := func() orchestrator.Result {
		result := orch.Validate(context.Background(), proof, vctx)

		if recorder != nil {
			recorder.ObserveValidation(result.IsValid)
			for range result.Errors {
				recorder.ObserveValidationError("validation_failed")
			}
		}

		event := auditEvent(*productID, result)
		auditStore.Record(context.Background(), event)
		syncService.Mirror(mirror.OutcomeEvent{
			ProductID:   *productID,
			IsValid:     result.IsValid,
			ValidatedAt: result.ValidatedAt,
			ExpiresAt:   result.ExpiresAt,
		})

		return result
	}

	result := runOnce()
	printResult(result)
	if !*daemon {
		if !result.IsValid {
			os.Exit(1)
		}
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("[Phase 5] running in daemon mode, re-validating every %s", *interval)
	for {
		select {
		case <-ticker.C:
			printResult(runOnce())
		case <-quit:
			log.Println("shutting down...")
			if metricsServer != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := metricsServer.Shutdown(shutdownCtx); err != nil {
					log.Printf("metrics server shutdown error: %v", err)
				}
			}
			return
		}
	}
}

func buildGateway(kind, sidecarSocket string, timeout time.Duration) (verifier.Gateway, error) {
	switch kind {
	case "mock":
		return &verifier.MockGateway{}, nil
	case "gnark":
		return verifier.NewGnarkGateway(), nil
	case "sidecar":
		if sidecarSocket == "" {
			return nil, fmt.Errorf("-verifier-socket is required for the sidecar backend")
		}
		return verifier.NewSidecarGateway(sidecarSocket, verifier.WithTimeout(timeout)), nil
	default:
		return nil, fmt.Errorf("unknown verifier backend %q", kind)
	}
}

func auditEvent(productID string, result orchestrator.Result) *audit.Event {
	cacheKey := ""
	if result.CacheKey != nil {
		cacheKey = *result.CacheKey
	}
	var expiresAt *time.Time
	if result.ExpiresAt != nil {
		expiresAt = result.ExpiresAt
	}
	return &audit.Event{
		ProductID:   productID,
		CacheKey:    cacheKey,
		IsValid:     result.IsValid,
		Errors:      result.Errors,
		ValidatedAt: result.ValidatedAt,
		ExpiresAt:   expiresAt,
	}
}

func printResult(result orchestrator.Result) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Printf("failed to marshal result: %v", err)
		return
	}
	fmt.Println(string(data))
}

func printHelp() {
	fmt.Println("Chainborn License Validator")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  validate -product-id=ID [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -product-id=ID          Product to validate the loaded proof against (required)")
	fmt.Println("  -verifier=KIND          Verifier backend: mock, gnark, sidecar (default mock)")
	fmt.Println("  -verifier-socket=PATH   Unix socket path for the sidecar backend")
	fmt.Println("  -strictness=MODE        strict or permissive (default strict)")
	fmt.Println("  -daemon                 Keep running and re-validate on -interval")
	fmt.Println("  -interval=DURATION      Re-validation interval in daemon mode (default 30s)")
	fmt.Println("  -help                   Show this help message")
}
