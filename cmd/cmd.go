package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	clearData  bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "hiring-gateway",
	Short: "Hiring Gateway",
	Long:  `Edge API gateway for the recruitment platform.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// envAliases are the variable names the hosting platform already exports.
// Each key still accepts its ENV_ prefixed form first.
var envAliases = map[string][]string{
	"environment":               {"ENVIRONMENT"},
	"http_server.port":          {"PORT"},
	"supabase.url":              {"NEXT_PUBLIC_SUPABASE_URL", "SUPABASE_URL"},
	"supabase.anon_key":         {"NEXT_PUBLIC_SUPABASE_ANON_KEY", "SUPABASE_ANON_KEY"},
	"supabase.service_role_key": {"SUPABASE_SERVICE_ROLE_KEY"},
	"supabase.jwt_secret":       {"SUPABASE_JWT_SECRET"},
	"database.source":           {"DATABASE_URL"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.base_url", "")
	v.SetDefault("http_server.allowed_origins", "*")
	v.SetDefault("http_server.read_header_timeout", 5*time.Second)
	v.SetDefault("http_server.read_timeout", 30*time.Second)
	v.SetDefault("http_server.idle_timeout", 60*time.Second)
	v.SetDefault("http_server.write_timeout", 30*time.Second)

	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.anon_key", "")
	v.SetDefault("supabase.service_role_key", "")
	v.SetDefault("supabase.jwt_secret", "")
	v.SetDefault("supabase.request_timeout", 15*time.Second)

	v.SetDefault("database.source", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 5*time.Minute)

	v.SetDefault("storage.driver", internal.StorageDriverSupabase)
	v.SetDefault("storage.resume_bucket", "resumes")
	v.SetDefault("storage.avatar_bucket", "avatars")
	v.SetDefault("storage.signed_url_ttl", time.Hour)
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.region", "")
	v.SetDefault("storage.s3.access_id", "")
	v.SetDefault("storage.s3.access_key", "")
	v.SetDefault("storage.s3.public_url", "")

	v.SetDefault("captcha.store", internal.CaptchaStoreMemory)
	v.SetDefault("captcha.ttl", 5*time.Minute)
	v.SetDefault("captcha.max_attempts", 5)
	v.SetDefault("captcha.hash_cost", 0)
	v.SetDefault("captcha.sweep_interval", time.Minute)

	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")

	v.SetDefault("pagination.default_limit", 20)
	v.SetDefault("pagination.max_limit", 100)
}

// loadConfig reads .env, then an optional config.yml under path, then the
// environment. Later sources win.
func loadConfig(path string) (*internal.Config, error) {
	// .env is optional; deployed environments export variables directly
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range envAliases {
		prefixed := "ENV_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, prefixed}, names...)...); err != nil {
			return nil, fmt.Errorf("error binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	return &cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory holding config.yml")
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
