package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/media-dashboard/backend/internal/api"
	"github.com/media-dashboard/backend/internal/config"
	"github.com/media-dashboard/backend/internal/dashboard"
	"github.com/media-dashboard/backend/internal/dataset"
	"github.com/media-dashboard/backend/internal/export"
	"github.com/media-dashboard/backend/internal/insight"
	"github.com/media-dashboard/backend/internal/render"
	"github.com/media-dashboard/backend/internal/session"
	"github.com/media-dashboard/backend/internal/storage"
	"github.com/media-dashboard/backend/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	configPath := filepath.Join(exeDir, "media-dashboard.yaml")
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		configPath = env
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	fileStore, err := storage.NewLocalStore(cfg.Storage.UploadsDirectory)
	if err != nil {
		fmt.Printf("Failed to initialize storage: %v\n", err)
		os.Exit(1)
	}

	provider := buildInsightProvider(cfg)

	var exporter dashboard.Exporter
	if cfg.Export.Enabled {
		exporter = export.NewRenderer(render.NewChartRenderer())
	} else {
		exporter = export.Unavailable{}
		fmt.Println("[Server] PDF export disabled by configuration")
	}

	sessions := session.NewManager(func() *dashboard.Controller {
		return dashboard.NewController(
			dataset.NewProcessor(fileStore, provider),
			exporter,
			dashboard.WithTimeouts(cfg.ProcessTimeout(), cfg.ExportTimeout()),
		)
	})
	go sessions.RunCleanup(context.Background(), cfg.CleanupInterval())

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.ErrorHandler

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/api/health" || strings.HasSuffix(path, "/state")
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/api/ws/")
		},
	}))
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, api.SessionHeader},
			ExposeHeaders: []string{api.SessionHeader, echo.HeaderContentDisposition},
		}))
	}

	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		Store:           fileStore,
		Sessions:        sessions,
		RecentLimit:     cfg.Storage.RecentFilesLimit,
		MaxUploadBytes:  cfg.MaxUploadBytes(),
		Version:         Version,
		ExportAvailable: cfg.Export.Enabled,
	}))

	embeddedMode := web.HasEmbeddedFiles()
	if embeddedMode {
		if err := web.RegisterStaticRoutes(e); err != nil {
			fmt.Printf("Warning: failed to register static routes: %v\n", err)
		} else {
			fmt.Println("Serving embedded frontend from binary")
		}
	}

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	fmt.Printf("\n")
	fmt.Printf("Media Mention Dashboard Server\n")
	fmt.Printf("  Version:    %s (built %s)\n", Version, BuildTime)
	fmt.Printf("  Config:     %s\n", configPath)
	fmt.Printf("  Listen:     http://%s\n", cfg.GetServerAddr())
	fmt.Printf("  Uploads:    %s\n", cfg.Storage.UploadsDirectory)
	fmt.Printf("\n")
	if embeddedMode {
		fmt.Printf("Open http://localhost:%d in your browser\n\n", cfg.Server.Port)
	}

	e.Logger.Fatal(e.StartServer(s))
}

// buildInsightProvider wires the Gemini client behind an LRU cache. With
// insights disabled or no API key present, every panel gets the static
// fallback text instead.
func buildInsightProvider(cfg *config.AppConfig) insight.Provider {
	if !cfg.Insight.Enabled {
		fmt.Println("[Server] insight generation disabled by configuration")
		return disabledProvider()
	}
	if cfg.Insight.APIKey == "" {
		fmt.Println("[Server] GEMINI_API_KEY not set, insight generation disabled")
		return disabledProvider()
	}

	gemini, err := insight.NewGeminiProvider(context.Background(), cfg.Insight.Model)
	if err != nil {
		fmt.Printf("[Server] failed to initialize Gemini client: %v\n", err)
		return disabledProvider()
	}

	cached, err := insight.NewCachedProvider(gemini, cfg.Insight.CacheSize)
	if err != nil {
		fmt.Printf("[Server] failed to initialize insight cache: %v\n", err)
		return gemini
	}
	fmt.Printf("[Server] insight generation enabled (model %s)\n", cfg.Insight.Model)
	return cached
}

func disabledProvider() insight.Provider {
	return insight.ProviderFunc(func(ctx context.Context, title, summary string) ([]string, error) {
		return []string{insight.FallbackNoInsights}, nil
	})
}
