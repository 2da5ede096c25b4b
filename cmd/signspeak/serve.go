package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ayusman/signspeak/internal/app"
	"github.com/ayusman/signspeak/internal/config"
	"github.com/ayusman/signspeak/internal/metrics"
	"github.com/ayusman/signspeak/internal/server"
	"github.com/ayusman/signspeak/internal/store"
	"github.com/ayusman/signspeak/internal/translator"
	"github.com/ayusman/signspeak/internal/tray"
)

func newServeCmd(v *viper.Viper, configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the translator with its web UI and API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, *configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("addr", "", "listen address (overrides listen_addr)")
	cmd.Flags().Bool("tray", false, "show the system tray menu")
	v.BindPFlag("listen_addr", cmd.Flags().Lookup("addr"))
	v.BindPFlag("tray", cmd.Flags().Lookup("tray"))

	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	log := logrus.WithField("component", "main")
	log.Info("SignSpeak - sign language translator")

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	m := metrics.New()

	a, err := app.New(app.Options{Config: cfg, Store: st, Metrics: m})
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	if err := a.DiscoverPlugins(); err != nil {
		log.WithError(err).Warn("plugin discovery failed")
	}
	for _, p := range a.PluginManager().List() {
		log.WithFields(logrus.Fields{"plugin": p.Manifest.Name, "actions": p.Manifest.Actions}).Info("loaded plugin")
	}

	webDir := cfg.StaticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		log.WithField("dir", webDir).Info("serving static files")
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Engine:    a,
		Frames:    a,
		Metrics:   m,
	})
	a.OnFrame(srv.Live().Publish)

	if err := a.Start(); err != nil {
		// The API and the /api/frames input keep working without a camera.
		log.WithError(err).Warn("camera unavailable, recognition pipeline not started")
	}
	defer a.Stop()

	if !cfg.Tray {
		return srv.ListenAndServe(ctx, cfg.ListenAddr)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx, cfg.ListenAddr) }()

	t := newTray(ctx, a, cfg.ListenAddr, stop)
	go func() {
		<-ctx.Done()
		t.Quit()
	}()
	t.Run()

	stop()
	return <-errCh
}

// newTray wires the tray menu to the application.
func newTray(ctx context.Context, a *app.App, addr string, quit func()) *tray.Tray {
	log := logrus.WithField("component", "tray")
	t := tray.New()
	t.SetEnabled(a.IsEnabled())

	t.OnToggle(a.SetEnabled)
	t.OnSpeak(func() {
		if err := a.Speak(ctx); err != nil {
			log.WithError(err).Warn("speak failed")
		}
	})
	t.OnClear(a.Clear)
	t.OnOpen(func() {
		if err := openBrowser(browserURL(addr)); err != nil {
			log.WithError(err).Warn("failed to open browser")
		}
	})
	t.OnQuit(quit)

	a.OnCommit(func(tok translator.Token) { t.SetLastToken(tok.Text) })
	return t
}

// browserURL turns a listen address into a local URL.
func browserURL(addr string) string {
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
// It checks: "web", "../web", "../../web", and ~/.signspeak/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeWebDir := filepath.Join(config.HomeDir(), "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
