package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	FirmName  string
	Addr      string
	BaseURL   string
	DataDir   string
	Log       LogConfig
	Session   SessionConfig
	Email     EmailConfig
	Upload    UploadConfig
	Chat      ChatConfig
	SeedUsers []SeedUser
}

type LogConfig struct {
	Level  string
	Format string
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type EmailConfig struct {
	FromEmail    string
	ResendAPIKey string
	SMTPEnabled  bool
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPass     string
}

type UploadConfig struct {
	MaxBytes     int64
	TickInterval time.Duration
	MinStep      int
	MaxStep      int
}

type ChatConfig struct {
	ReplyDelay time.Duration
}

// SeedUser is an account created at startup if its email is not yet known.
type SeedUser struct {
	Name     string
	Email    string
	Role     string
	Password string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("firm_name", "KAP Santoso & Rekan")
	v.SetDefault("addr", ":8080")
	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("data_dir", "data")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", 7*24*time.Hour)
	v.SetDefault("email.from_email", "Portal <portal@resend.dev>")
	v.SetDefault("email.resend_api_key", "")
	v.SetDefault("email.smtp_enabled", false)
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", "587")
	v.SetDefault("email.smtp_user", "")
	v.SetDefault("email.smtp_pass", "")
	v.SetDefault("upload.max_bytes", 10*1024*1024)
	v.SetDefault("upload.tick_interval", 200*time.Millisecond)
	v.SetDefault("upload.min_step", 5)
	v.SetDefault("upload.max_step", 25)
	v.SetDefault("chat.reply_delay", 2*time.Second)
}

// Flags registers the command line flags understood by Load.
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a config file (yaml, json or toml)")
	fs.String("addr", ":8080", "listen address")
	fs.String("base-url", "http://localhost:8080", "public base URL used in emails")
	fs.String("data-dir", "data", "directory for the identity database")
	fs.String("log-level", "info", "log level")
}

// Load resolves configuration from defaults, an optional config file,
// PORTAL_* environment variables and flags, in increasing precedence.
func Load(fs *pflag.FlagSet) (*viper.Viper, Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for key, flag := range map[string]string{
			"addr":      "addr",
			"base_url":  "base-url",
			"data_dir":  "data-dir",
			"log.level": "log-level",
		} {
			if f := fs.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, Config{}, fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
		}
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return nil, Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, Config{}, err
	}
	return v, cfg, nil
}

func decode(v *viper.Viper) (Config, error) {
	cfg := Config{
		FirmName: v.GetString("firm_name"),
		Addr:     v.GetString("addr"),
		BaseURL:  strings.TrimRight(v.GetString("base_url"), "/"),
		DataDir:  v.GetString("data_dir"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Session: SessionConfig{
			Secret: v.GetString("session.secret"),
			TTL:    v.GetDuration("session.ttl"),
		},
		Email: EmailConfig{
			FromEmail:    v.GetString("email.from_email"),
			ResendAPIKey: v.GetString("email.resend_api_key"),
			SMTPEnabled:  v.GetBool("email.smtp_enabled"),
			SMTPHost:     v.GetString("email.smtp_host"),
			SMTPPort:     v.GetString("email.smtp_port"),
			SMTPUser:     v.GetString("email.smtp_user"),
			SMTPPass:     v.GetString("email.smtp_pass"),
		},
		Upload: UploadConfig{
			MaxBytes:     v.GetInt64("upload.max_bytes"),
			TickInterval: v.GetDuration("upload.tick_interval"),
			MinStep:      v.GetInt("upload.min_step"),
			MaxStep:      v.GetInt("upload.max_step"),
		},
		Chat: ChatConfig{
			ReplyDelay: v.GetDuration("chat.reply_delay"),
		},
	}
	if err := v.UnmarshalKey("seed_users", &cfg.SeedUsers); err != nil {
		return Config{}, fmt.Errorf("decode seed_users: %w", err)
	}

	if cfg.Upload.MaxBytes <= 0 {
		return Config{}, fmt.Errorf("upload max_bytes must be positive, got %d", cfg.Upload.MaxBytes)
	}
	if cfg.Upload.MinStep < 1 || cfg.Upload.MaxStep < cfg.Upload.MinStep {
		return Config{}, fmt.Errorf("upload steps: min %d max %d", cfg.Upload.MinStep, cfg.Upload.MaxStep)
	}
	if cfg.Session.TTL <= 0 {
		return Config{}, fmt.Errorf("session ttl must be positive")
	}
	return cfg, nil
}

// Watch re-reads the config file on change and hands the new log level to
// onLevel. It does nothing when no config file was loaded.
func Watch(v *viper.Viper, onLevel func(string)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		level := v.GetString("log.level")
		log.Info().Str("file", e.Name).Str("level", level).Msg("config changed")
		onLevel(level)
	})
	v.WatchConfig()
}
