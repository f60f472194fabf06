package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	JWT        JWTConfig
	Log        LogConfig
	Attendance AttendanceConfig
	Import     ImportConfig
	Payroll    PayrollConfig
	Statutory  StatutoryConfig
}

type AppConfig struct {
	Name string
	Env  string
}

type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ImportRateLimit float64 // requests per second per client
	ImportBurst     int
	MaxUploadBytes  int64
	IdempotencyTTL  time.Duration
}

type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxRetries  int
	AutoMigrate bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers      []string
	GroupID      string
	PollInterval time.Duration
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr or a file path
}

// AttendanceConfig describes the working shift used to classify clock times.
type AttendanceConfig struct {
	ShiftStart          string // HH:MM
	ShiftEnd            string // HH:MM
	LunchThresholdHours decimal.Decimal
	LunchBreakHours     decimal.Decimal
}

type ImportConfig struct {
	PreviewTTL    time.Duration
	BannerMarkers []string
	MaxRows       int
}

type PayrollConfig struct {
	HoursPerDay        int
	DaysPerMonth       int
	OvertimeMultiplier decimal.Decimal
	HolidayMultiplier  decimal.Decimal
	NightMultiplier    decimal.Decimal
	SummaryCacheTTL    time.Duration
}

type StatutoryConfig struct {
	Social  SocialInsuranceConfig
	Health  HealthInsuranceConfig
	Housing HousingFundConfig
}

type SocialInsuranceConfig struct {
	Strategy string // tiered | percentage
	Tiers    []TierConfig
	TierMax  decimal.Decimal
	Rate     decimal.Decimal
	Floor    decimal.Decimal
	Ceiling  decimal.Decimal
}

type TierConfig struct {
	UpTo   decimal.Decimal
	Amount decimal.Decimal
}

type HealthInsuranceConfig struct {
	Rate          decimal.Decimal
	EmployeeShare decimal.Decimal
	Floor         decimal.Decimal
	Ceiling       decimal.Decimal
}

type HousingFundConfig struct {
	Threshold decimal.Decimal
	RateLow   decimal.Decimal
	RateHigh  decimal.Decimal
	Cap       decimal.Decimal // zero means uncapped
}

// Load reads configuration with this priority (highest first):
//  1. PAYROLL_* environment variables (PAYROLL_DATABASE_HOST)
//  2. .env in the working directory
//  3. config.yaml in ., ./config or /etc/payroll
//  4. defaults below
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/payroll")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("PAYROLL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		HTTP: HTTPConfig{
			Port:            v.GetString("http.port"),
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			IdleTimeout:     v.GetDuration("http.idle_timeout"),
			ImportRateLimit: v.GetFloat64("http.import_rate_limit"),
			ImportBurst:     v.GetInt("http.import_burst"),
			MaxUploadBytes:  v.GetInt64("http.max_upload_bytes"),
			IdempotencyTTL:  v.GetDuration("http.idempotency_ttl"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("database.host"),
			Port:        v.GetString("database.port"),
			User:        v.GetString("database.user"),
			Password:    v.GetString("database.password"),
			Name:        v.GetString("database.name"),
			SSLMode:     v.GetString("database.sslmode"),
			MaxRetries:  v.GetInt("database.max_retries"),
			AutoMigrate: v.GetBool("database.auto_migrate"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(v.GetStringSlice("kafka.brokers")),
			GroupID:      v.GetString("kafka.group_id"),
			PollInterval: v.GetDuration("kafka.poll_interval"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			Issuer: v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Import: ImportConfig{
			PreviewTTL:    v.GetDuration("import.preview_ttl"),
			BannerMarkers: v.GetStringSlice("import.banner_markers"),
			MaxRows:       v.GetInt("import.max_rows"),
		},
		Attendance: AttendanceConfig{
			ShiftStart: v.GetString("attendance.shift_start"),
			ShiftEnd:   v.GetString("attendance.shift_end"),
		},
		Payroll: PayrollConfig{
			HoursPerDay:     v.GetInt("payroll.hours_per_day"),
			DaysPerMonth:    v.GetInt("payroll.days_per_month"),
			SummaryCacheTTL: v.GetDuration("payroll.summary_cache_ttl"),
		},
		Statutory: StatutoryConfig{
			Social: SocialInsuranceConfig{
				Strategy: strings.ToLower(v.GetString("statutory.social.strategy")),
			},
		},
	}

	d := decimalReader{v: v}
	cfg.Attendance.LunchThresholdHours = d.get("attendance.lunch_threshold_hours")
	cfg.Attendance.LunchBreakHours = d.get("attendance.lunch_break_hours")
	cfg.Payroll.OvertimeMultiplier = d.get("payroll.overtime_multiplier")
	cfg.Payroll.HolidayMultiplier = d.get("payroll.holiday_multiplier")
	cfg.Payroll.NightMultiplier = d.get("payroll.night_multiplier")

	cfg.Statutory.Social.TierMax = d.get("statutory.social.tier_max")
	cfg.Statutory.Social.Rate = d.get("statutory.social.rate")
	cfg.Statutory.Social.Floor = d.get("statutory.social.floor")
	cfg.Statutory.Social.Ceiling = d.get("statutory.social.ceiling")
	cfg.Statutory.Health = HealthInsuranceConfig{
		Rate:          d.get("statutory.health.rate"),
		EmployeeShare: d.get("statutory.health.employee_share"),
		Floor:         d.get("statutory.health.floor"),
		Ceiling:       d.get("statutory.health.ceiling"),
	}
	cfg.Statutory.Housing = HousingFundConfig{
		Threshold: d.get("statutory.housing.threshold"),
		RateLow:   d.get("statutory.housing.rate_low"),
		RateHigh:  d.get("statutory.housing.rate_high"),
		Cap:       d.get("statutory.housing.cap"),
	}

	tiers, err := parseTiers(v.GetStringSlice("statutory.social.tiers"))
	if err != nil {
		return nil, err
	}
	cfg.Statutory.Social.Tiers = tiers

	if d.err != nil {
		return nil, d.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Statutory.Social.Strategy {
	case "tiered", "percentage":
	default:
		return fmt.Errorf("statutory.social.strategy must be tiered or percentage, got %q", c.Statutory.Social.Strategy)
	}
	if c.Statutory.Social.Strategy == "tiered" && len(c.Statutory.Social.Tiers) == 0 {
		return errors.New("statutory.social.tiers is required for the tiered strategy")
	}
	if c.Payroll.HoursPerDay <= 0 || c.Payroll.DaysPerMonth <= 0 {
		return errors.New("payroll.hours_per_day and payroll.days_per_month must be positive")
	}
	if c.Import.PreviewTTL <= 0 {
		return errors.New("import.preview_ttl must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

type decimalReader struct {
	v   *viper.Viper
	err error
}

func (r *decimalReader) get(key string) decimal.Decimal {
	raw := strings.TrimSpace(r.v.GetString(key))
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%s: invalid decimal %q: %w", key, raw, err)
	}
	return d
}

// parseTiers reads "upTo:amount" pairs, e.g. "1000:50".
func parseTiers(raw []string) ([]TierConfig, error) {
	tiers := make([]TierConfig, 0, len(raw))
	for _, item := range splitList(raw) {
		upTo, amount, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("statutory.social.tiers: %q is not upTo:amount", item)
		}
		u, err := decimal.NewFromString(strings.TrimSpace(upTo))
		if err != nil {
			return nil, fmt.Errorf("statutory.social.tiers: %q: %w", item, err)
		}
		a, err := decimal.NewFromString(strings.TrimSpace(amount))
		if err != nil {
			return nil, fmt.Errorf("statutory.social.tiers: %q: %w", item, err)
		}
		tiers = append(tiers, TierConfig{UpTo: u, Amount: a})
	}
	return tiers, nil
}

// splitList accepts both yaml lists and comma separated env values.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
