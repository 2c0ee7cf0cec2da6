package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/config"
	"github.com/ayusman/airsketch/internal/gesture"
	"github.com/ayusman/airsketch/internal/server"
	"github.com/ayusman/airsketch/internal/shapes"
	"github.com/ayusman/airsketch/internal/store"
	"github.com/ayusman/airsketch/internal/tray"
	"github.com/ayusman/airsketch/pkg/logger"
	"github.com/ayusman/airsketch/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	recognize := flag.String("recognize", "", "recognize the stroke in a JSON file and exit")
	noCamera := flag.Bool("no-camera", false, "serve the API without starting the camera pipeline")
	withTray := flag.Bool("tray", false, "show the system tray menu")
	flag.Parse()

	// A missing .env is fine.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, *configPath)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	m := metrics.NewManager()
	engine := gesture.New(cfg.Engine, gesture.WithObserver(m), gesture.WithLogger(log.Named("gesture")))
	if err := loadTemplates(engine, cfg); err != nil {
		log.Error(ctx, "failed to load templates", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "templates loaded", logger.Int("count", engine.Templates().Len()))

	if *recognize != "" {
		if err := recognizeFile(engine, *recognize, os.Stdout); err != nil {
			log.Error(ctx, "recognition failed", logger.String("file", *recognize), logger.Error(err))
			os.Exit(1)
		}
		return
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Error(ctx, "failed to create data directory", logger.String("dir", cfg.DataDir), logger.Error(err))
		os.Exit(1)
	}
	st, err := store.New(cfg.DBPath())
	if err != nil {
		log.Error(ctx, "failed to open store", logger.String("path", cfg.DBPath()), logger.Error(err))
		os.Exit(1)
	}
	defer st.Close()

	a := app.New(app.FromConfig(cfg), app.WithStore(st), app.WithEngine(engine), app.WithLogger(log.Named("app")))
	if err := a.DiscoverPlugins(); err != nil {
		log.Warn(ctx, "plugin discovery failed", logger.String("dir", cfg.Plugins.Dir), logger.Error(err))
	}
	defer a.Stop()

	if !*noCamera {
		if err := a.Start(); err != nil {
			log.Error(ctx, "camera pipeline not started", logger.Error(err))
		}
	}

	staticDir := cfg.Server.StaticDir
	if staticDir == "" {
		staticDir = findWebDir(cfg.DataDir)
	}
	if staticDir != "" {
		log.Info(ctx, "serving static files", logger.String("dir", staticDir))
	}

	handler := server.New(server.Config{
		StaticDir: staticDir,
		Store:     st,
		Engine:    engine,
		Plugins:   a.PluginManager(),
		Events:    a,
		Metrics:   m,
	})
	defer handler.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	if *withTray {
		runTray(ctx, stop, a, dashboardURL(cfg.Server.Addr))
	} else {
		<-ctx.Done()
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// loadTemplates registers the built-in shapes and the optional template file.
func loadTemplates(e *gesture.Engine, cfg *config.Config) error {
	if cfg.Builtin {
		if err := shapes.Register(e, shapes.Builtin()); err != nil {
			return err
		}
	}
	if cfg.TemplatesFile != "" {
		set, err := shapes.LoadFile(cfg.TemplatesFile)
		if err != nil {
			return err
		}
		if err := shapes.Register(e, set); err != nil {
			return err
		}
	}
	return nil
}

// runTray blocks in the tray menu until it quits or ctx is done.
func runTray(ctx context.Context, stop context.CancelFunc, a *app.App, url string) {
	tr := tray.New(a)
	unsubscribe := a.Subscribe(tr.ShowEvent)
	defer unsubscribe()

	tr.OnQuit(stop)
	tr.OnSettings(func() {
		if err := openBrowser(url); err != nil {
			logger.Get().Warn(ctx, "failed to open dashboard", logger.String("url", url), logger.Error(err))
		}
	})

	go func() {
		<-ctx.Done()
		tr.Quit()
	}()
	tr.Run()
}

// dashboardURL turns a listen address into a browsable URL.
func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// findWebDir searches for the web directory in common locations.
// It checks "web", "../web", "../../web" and <dataDir>/web, returning the
// first existing directory or "" when none is found.
func findWebDir(dataDir string) string {
	candidates := []string{"web", "../web", "../../web"}
	if dataDir != "" {
		candidates = append(candidates, filepath.Join(dataDir, "web"))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
