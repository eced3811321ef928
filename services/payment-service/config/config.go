package config

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	awspkg "github.com/MD-HACKER07/atlanticenterprise-sub001/pkg/aws"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/middleware"
	"github.com/joho/godotenv"
)

const (
	EventBusNone  = "none"
	EventBusSNS   = "sns"
	EventBusSQS   = "sqs"
	EventBusKafka = "kafka"
)

// MaxRetryAttemptsLimit bounds MAX_RETRY_ATTEMPTS; the backoff doubles per attempt.
const MaxRetryAttemptsLimit = 10

// DefaultPort is the listen port when PORT is unset.
const DefaultPort = "8087"

// Config holds all configuration for the payment service. It is read once at
// startup and never reloaded.
type Config struct {
	Port string
	Env  string

	RazorpayKeyID     string
	RazorpayKeySecret string
	CheckoutScriptURL string
	DefaultCurrency   string
	PaymentCapture    bool
	RequestTimeout    time.Duration
	MaxRetryAttempts  int
	RetryDelay        time.Duration

	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	JWTSecret      string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	RedisURL   string
	ReceiptTTL time.Duration

	EventBus           string
	PaymentSNSTopicARN string
	PaymentSQSQueueURL string
	KafkaBrokers       []string
	KafkaTopic         string

	ResumeBucket     string
	ResumeURLExpires time.Duration

	// FreeInternshipIDs are internships whose applications are stored as waived.
	FreeInternshipIDs []string

	UseSecrets bool
}

// LoadConfig reads configuration from a .env file (when present) and environment
// variables, with optional Secrets Manager override.
func LoadConfig(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if cfg.UseSecrets {
		awsCfg, err := awspkg.LoadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		if err := cfg.ApplySecrets(ctx, awspkg.NewSecretsClient(awsCfg)); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv parses the environment without validating required values.
func FromEnv() (*Config, error) {
	p := &parser{}
	cfg := &Config{
		Port: getEnv("PORT", DefaultPort),
		Env:  getEnv("ENV", "development"),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		CheckoutScriptURL: getEnv("CHECKOUT_SCRIPT_URL", "https://checkout.razorpay.com/v1/checkout.js"),
		DefaultCurrency:   strings.ToUpper(getEnv("DEFAULT_CURRENCY", "INR")),
		PaymentCapture:    p.getBool("PAYMENT_CAPTURE", true),
		RequestTimeout:    p.getMillis("REQUEST_TIMEOUT_MS", 30000),
		MaxRetryAttempts:  p.getInt("MAX_RETRY_ATTEMPTS", 3),
		RetryDelay:        p.getMillis("RETRY_DELAY_MS", 1000),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", strings.Join(middleware.DefaultAllowedOrigins, ","))),
		RateLimitRPS:   p.getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: p.getInt("RATE_LIMIT_BURST", 10),
		JWTSecret:      os.Getenv("JWT_SECRET"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "Asia/Kolkata"),

		RedisURL:   os.Getenv("REDIS_URL"),
		ReceiptTTL: p.getSeconds("RECEIPT_CACHE_TTL", 24*60*60),

		EventBus:           strings.ToLower(getEnv("EVENT_BUS", EventBusNone)),
		PaymentSNSTopicARN: os.Getenv("PAYMENT_SNS_TOPIC_ARN"),
		PaymentSQSQueueURL: os.Getenv("PAYMENT_SQS_QUEUE_URL"),
		KafkaBrokers:       splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "payment-events"),

		ResumeBucket:     os.Getenv("RESUME_BUCKET"),
		ResumeURLExpires: p.getSeconds("RESUME_URL_EXPIRES", 900),

		FreeInternshipIDs: splitList(os.Getenv("FREE_INTERNSHIP_IDS")),

		UseSecrets: os.Getenv("AWS_USE_SECRETS") == "true",
	}
	if p.err != nil {
		return nil, p.err
	}
	return cfg, nil
}

// ApplySecrets overrides gateway and database credentials from Secrets Manager.
// Missing secrets keep the environment values.
func (c *Config) ApplySecrets(ctx context.Context, sm awspkg.SecretGetter) error {
	if v, err := sm.GetSecret(ctx, "payment/RAZORPAY_KEY_ID"); err == nil && v != "" {
		c.RazorpayKeyID = v
	}
	if v, err := sm.GetSecret(ctx, "payment/RAZORPAY_KEY_SECRET"); err == nil && v != "" {
		c.RazorpayKeySecret = v
	}
	if v, err := sm.GetSecret(ctx, "payment/JWT_SECRET"); err == nil && v != "" {
		c.JWTSecret = v
	}

	m, err := awspkg.GetSecretMap(ctx, sm, "payment/DB_CREDENTIALS")
	if err != nil {
		return nil
	}
	for key, dst := range map[string]*string{
		"POSTGRES_USER":     &c.PostgresUser,
		"POSTGRES_PASSWORD": &c.PostgresPassword,
		"POSTGRES_DB":       &c.PostgresDB,
		"POSTGRES_HOST":     &c.PostgresHost,
		"POSTGRES_PORT":     &c.PostgresPort,
	} {
		if v := m[key]; v != "" {
			*dst = v
		}
	}
	return nil
}

// Validate checks required values and cross-field consistency.
func (c *Config) Validate() error {
	var missing []string
	for name, v := range map[string]string{
		"RAZORPAY_KEY_ID":     c.RazorpayKeyID,
		"RAZORPAY_KEY_SECRET": c.RazorpayKeySecret,
		"POSTGRES_USER":       c.PostgresUser,
		"POSTGRES_PASSWORD":   c.PostgresPassword,
		"POSTGRES_DB":         c.PostgresDB,
		"POSTGRES_HOST":       c.PostgresHost,
	} {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if len(c.DefaultCurrency) != 3 {
		return fmt.Errorf("DEFAULT_CURRENCY must be a 3-letter ISO 4217 code, got %q", c.DefaultCurrency)
	}
	if c.MaxRetryAttempts < 1 || c.MaxRetryAttempts > MaxRetryAttemptsLimit {
		return fmt.Errorf("MAX_RETRY_ATTEMPTS must be between 1 and %d, got %d", MaxRetryAttemptsLimit, c.MaxRetryAttempts)
	}

	switch c.EventBus {
	case EventBusNone:
	case EventBusSNS:
		if c.PaymentSNSTopicARN == "" {
			return fmt.Errorf("EVENT_BUS=sns requires PAYMENT_SNS_TOPIC_ARN")
		}
	case EventBusSQS:
		if c.PaymentSQSQueueURL == "" {
			return fmt.Errorf("EVENT_BUS=sqs requires PAYMENT_SQS_QUEUE_URL")
		}
	case EventBusKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("EVENT_BUS=kafka requires KAFKA_BROKERS")
		}
	default:
		return fmt.Errorf("unknown EVENT_BUS %q", c.EventBus)
	}
	return nil
}

// PostgresDSN builds the lib/pq style DSN used by the GORM postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort, c.PostgresSSLMode, c.PostgresTimeZone,
	)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parser collects the first malformed numeric or boolean variable.
type parser struct {
	err error
}

func (p *parser) fail(key, val string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s=%q: %w", key, val, err)
	}
}

func (p *parser) getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		p.fail(key, val, err)
		return fallback
	}
	return n
}

func (p *parser) getFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		p.fail(key, val, err)
		return fallback
	}
	return f
}

func (p *parser) getBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		p.fail(key, val, err)
		return fallback
	}
	return b
}

func (p *parser) getMillis(key string, fallback int) time.Duration {
	return time.Duration(p.getInt(key, fallback)) * time.Millisecond
}

func (p *parser) getSeconds(key string, fallback int) time.Duration {
	return time.Duration(p.getInt(key, fallback)) * time.Second
}
