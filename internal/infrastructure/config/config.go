package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config is built once at startup and passed explicitly into every
// component. No collaborator client is constructed at package scope.
type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SessionSecret signs member session tokens.
	SessionSecret string `env:"SESSION_SECRET"`
	// AdminAPIKey gates the admin registration listing.
	AdminAPIKey string `env:"ADMIN_API_KEY"`
	// SiteBaseURL anchors the payment success/cancel redirect URLs.
	SiteBaseURL string `env:"SITE_BASE_URL, default=https://quantumdeviceconsortium.org"`
	// Persistence selects when registration rows are written:
	// "immediate" (at form submission) or "deferred" (at the payment webhook).
	Persistence string `env:"REGISTRATION_PERSISTENCE, default=deferred"`
	// JoinWebhookURL receives forwarded join-form submissions.
	JoinWebhookURL string `env:"JOIN_WEBHOOK_URL"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Stripe  StripeConfig
	Storage StorageConfig
	News    NewsConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=qdw_site"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type StripeConfig struct {
	SecretKey     string `env:"STRIPE_SECRET_KEY"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`

	PriceStudentInPerson      string `env:"STRIPE_PRICE_STUDENT_IN_PERSON"`
	PriceStudentOnline        string `env:"STRIPE_PRICE_STUDENT_ONLINE"`
	PriceProfessionalInPerson string `env:"STRIPE_PRICE_PROFESSIONAL_IN_PERSON"`
	PriceProfessionalOnline   string `env:"STRIPE_PRICE_PROFESSIONAL_ONLINE"`
}

type StorageConfig struct {
	Region        string `env:"S3_REGION, default=us-east-1"`
	Endpoint      string `env:"S3_ENDPOINT"`
	AccessKey     string `env:"S3_ACCESS_KEY"`
	SecretKey     string `env:"S3_SECRET_KEY"`
	Bucket        string `env:"S3_BUCKET, default=posters"`
	ArchiveBucket string `env:"S3_ARCHIVE_BUCKET"`
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
}

type NewsConfig struct {
	OpenAIKey   string `env:"OPENAI_API_KEY"`
	RateLimit   int    `env:"NEWS_RATE_LIMIT, default=50"`
	WindowHours int    `env:"NEWS_RATE_WINDOW_HOURS, default=24"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
