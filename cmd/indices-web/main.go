package main

import (
	"context"
	"errors"
	"flag"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "svw.info/indices/internal/adapters/http"
	"svw.info/indices/internal/domain"
	"svw.info/indices/internal/generator"
	"svw.info/indices/internal/hint"
	"svw.info/indices/internal/infrastructure/storage"
	"svw.info/indices/internal/platform/config"
	"svw.info/indices/internal/platform/otel"
	"svw.info/indices/internal/solver"
	"svw.info/indices/internal/usecase"
	"svw.info/indices/web"
)

// statusWriter captures HTTP status and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// requestLogger logs method, path, status, bytes, and duration in a human-readable format.
func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		dur := time.Since(start)
		logger.Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"bytes", sw.bytes,
			"dur", dur.Round(time.Millisecond),
		)
	})
}

// outcomeLogger is the host hook: strikes and solves are reported as they happen.
type outcomeLogger struct{ logger *slog.Logger }

func (l outcomeLogger) OnOutcome(id string, r domain.Result) {
	switch r.Outcome {
	case domain.OutcomeStrike:
		l.logger.Warn("strike", "id", id, "stage", r.Stage+1)
	case domain.OutcomeModuleSolved:
		l.logger.Info("solve", "id", id)
	}
}

func main() {
	env, err := config.Load()
	if err != nil {
		config.Exitf("indices-web: %v", err)
	}
	addr := flag.String("addr", env.Addr, "listen address")
	levelStr := flag.String("log-level", env.LogLevel, "debug|info|warn|error")
	variant := flag.String("variant", env.DefaultVariant, "preset the UI starts with")
	flag.Parse()

	lvl, err := config.Level(*levelStr)
	if err != nil {
		config.Exitf("indices-web: %v", err)
	}
	if _, err := domain.Preset(*variant); err != nil {
		config.Exitf("indices-web: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, "indices-web")
	if err != nil {
		logger.Error("tracing setup failed", "err", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	// Wire providers → use cases → HTTP adapter
	finder := solver.New()
	uc := usecase.NewService(generator.Seeded(finder), hint.NewRoots(finder), storage.NewMemory(), logger)
	uc.Listener = outcomeLogger{logger: logger}
	uc.StrikeDelay = env.StrikeDelay
	uc.StageDelay = env.StageDelay
	h := httpadapter.New(uc)

	tmpl := web.Templates()

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(web.StaticFS())))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := web.IndexData{Variants: domain.Variants(), Default: *variant}
		if err := web.RenderIndex(tmpl, w, data); err != nil {
			http.Error(w, template.HTMLEscapeString(err.Error()), http.StatusInternalServerError)
		}
	})
	h.Register(mux)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           requestLogger(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	logger.Info("listening", "addr", *addr, "variant", *variant)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
