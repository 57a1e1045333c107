package config

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath   = "config.yaml"
	defaultQuotesFile   = "quotes.txt"
	defaultBaseVideo    = "base.mp4"
	defaultOutputVideo  = "output.mp4"
	defaultTokenDir     = "."
	defaultCacheDir     = "./.cache"
	defaultMaxDuration  = 15
	defaultWidth        = 1080
	defaultHeight       = 1920
	defaultFPS          = 24
	defaultPlaceholder  = "#141E3C"
	defaultVideoCodec   = "libx264"
	defaultAudioCodec   = "aac"
	defaultFontPath     = "fonts/NotoNaskhArabic-Regular.ttf"
	defaultFontSize     = 70
	defaultMinFontSize  = 38
	defaultTextColor    = "#FFFFFF"
	defaultShadowColor  = "#000000"
	defaultShadowOffset = 2
	defaultMaxWidthPct  = 0.86
	defaultMaxHeightPct = 0.55
	defaultLineSpacing  = 14
	defaultAlign        = "center"
	defaultPositionMode = "preset"
	defaultPreset       = "center"
	defaultAnchorPct    = 0.5
	defaultScheduleTime = "09:00"
	defaultGCSPrefix    = "base-clips"
)

// FallbackQuote is returned by the quote selector when no quotes exist.
const FallbackQuote = "no quotes available"

// TikTokScopes are the Content Posting API scopes requested at authorization.
const TikTokScopes = "user.info.basic,video.publish,video.upload"

type Config struct {
	// Secrets come from the environment (or Secret Manager), never config.yaml.
	FacebookPageID      string `yaml:"-"`
	FacebookAccessToken string `yaml:"-"`
	TikTokClientKey     string `yaml:"-"`
	TikTokClientSecret  string `yaml:"-"`
	TikTokRedirectURI   string `yaml:"-"`
	YouTubeClientID     string `yaml:"-"`
	YouTubeClientSecret string `yaml:"-"`
	YouTubeRedirectURI  string `yaml:"-"`
	GCPProject          string `yaml:"-"`

	Paths   PathsConfig   `yaml:"paths"`
	Video   VideoConfig   `yaml:"video"`
	Overlay OverlayConfig `yaml:"text_overlay"`
	Publish PublishConfig `yaml:"publish"`
	Storage StorageConfig `yaml:"storage"`
}

type PathsConfig struct {
	QuotesFile  string `yaml:"quotes_file"`
	BaseVideo   string `yaml:"base_video"`
	OutputVideo string `yaml:"output_video"`
	TokenDir    string `yaml:"token_dir"`
}

type VideoConfig struct {
	MaxDurationSeconds int    `yaml:"max_duration_seconds"`
	Width              int    `yaml:"width"`
	Height             int    `yaml:"height"`
	FPS                int    `yaml:"fps"`
	PlaceholderColor   string `yaml:"placeholder_color"`
	VideoCodec         string `yaml:"video_codec"`
	AudioCodec         string `yaml:"audio_codec"`
}

type OverlayConfig struct {
	FontPath     string  `yaml:"font_path"`
	FontSize     int     `yaml:"font_size"`
	MinFontSize  int     `yaml:"min_font_size"`
	Color        string  `yaml:"color"`
	ShadowColor  string  `yaml:"shadow_color"`
	ShadowOffset int     `yaml:"shadow_offset"`
	MaxWidthPct  float64 `yaml:"max_width_pct"`
	MaxHeightPct float64 `yaml:"max_height_pct"`
	LineSpacing  int     `yaml:"line_spacing_px"`
	Align        string  `yaml:"align"`
	PositionMode string  `yaml:"position_mode"` // preset | manual
	Preset       string  `yaml:"preset"`        // top | center | bottom
	XPct         float64 `yaml:"x_pct"`
	YPct         float64 `yaml:"y_pct"`
}

type PublishConfig struct {
	Targets      TargetsConfig `yaml:"targets"`
	ScheduleTime string        `yaml:"schedule_time"`
}

type TargetsConfig struct {
	Facebook bool `yaml:"facebook"`
	TikTok   bool `yaml:"tiktok"`
	YouTube  bool `yaml:"youtube"`
}

type StorageConfig struct {
	GCSEnabled bool   `yaml:"gcs_enabled"`
	GCSBucket  string `yaml:"gcs_bucket"`
	GCSPrefix  string `yaml:"gcs_prefix"`
	CacheDir   string `yaml:"cache_dir"`
}

func Load(ctx context.Context) (*Config, error) {
	return LoadFile(ctx, defaultConfigPath)
}

// LoadFile builds the effective configuration: defaults, merged with the YAML
// file when present, with environment variables taking priority for secrets.
func LoadFile(ctx context.Context, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var override Config
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, err
		}
		cfg = Merge(cfg, override)
	case os.IsNotExist(err):
		slog.Warn("No config file found, using defaults", "path", path)
	default:
		return nil, err
	}

	applyEnv(&cfg)

	if cfg.GCPProject != "" {
		fillSecretsFromManager(ctx, &cfg)
	}

	return &cfg, nil
}

func Default() Config {
	return Config{
		Paths: PathsConfig{
			QuotesFile:  defaultQuotesFile,
			BaseVideo:   defaultBaseVideo,
			OutputVideo: defaultOutputVideo,
			TokenDir:    defaultTokenDir,
		},
		Video: VideoConfig{
			MaxDurationSeconds: defaultMaxDuration,
			Width:              defaultWidth,
			Height:             defaultHeight,
			FPS:                defaultFPS,
			PlaceholderColor:   defaultPlaceholder,
			VideoCodec:         defaultVideoCodec,
			AudioCodec:         defaultAudioCodec,
		},
		Overlay: OverlayConfig{
			FontPath:     defaultFontPath,
			FontSize:     defaultFontSize,
			MinFontSize:  defaultMinFontSize,
			Color:        defaultTextColor,
			ShadowColor:  defaultShadowColor,
			ShadowOffset: defaultShadowOffset,
			MaxWidthPct:  defaultMaxWidthPct,
			MaxHeightPct: defaultMaxHeightPct,
			LineSpacing:  defaultLineSpacing,
			Align:        defaultAlign,
			PositionMode: defaultPositionMode,
			Preset:       defaultPreset,
			XPct:         defaultAnchorPct,
			YPct:         defaultAnchorPct,
		},
		Publish: PublishConfig{
			Targets:      TargetsConfig{Facebook: true, YouTube: true},
			ScheduleTime: defaultScheduleTime,
		},
		Storage: StorageConfig{
			GCSPrefix: defaultGCSPrefix,
			CacheDir:  defaultCacheDir,
		},
	}
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.FacebookPageID, "FACEBOOK_PAGE_ID")
	setFromEnv(&cfg.FacebookAccessToken, "FACEBOOK_ACCESS_TOKEN")
	setFromEnv(&cfg.TikTokClientKey, "TIKTOK_CLIENT_KEY")
	setFromEnv(&cfg.TikTokClientSecret, "TIKTOK_CLIENT_SECRET")
	setFromEnv(&cfg.TikTokRedirectURI, "TIKTOK_REDIRECT_URI")
	setFromEnv(&cfg.YouTubeClientID, "YOUTUBE_CLIENT_ID")
	setFromEnv(&cfg.YouTubeClientSecret, "YOUTUBE_CLIENT_SECRET")
	setFromEnv(&cfg.YouTubeRedirectURI, "GOOGLE_REDIRECT_URI")
	setFromEnv(&cfg.GCPProject, "GOOGLE_CLOUD_PROJECT")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Save writes the non-secret sections back to the config file. Client secrets
// never land in the file; token managers own credential persistence.
func Save(path string, cfg *Config) error {
	out := Config{
		Paths:   cfg.Paths,
		Video:   cfg.Video,
		Overlay: cfg.Overlay,
		Publish: cfg.Publish,
		Storage: cfg.Storage,
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
