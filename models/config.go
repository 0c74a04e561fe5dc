package models

import "time"

// Config holds all configuration for the application
type Config struct {
	// Application
	AppName    string `mapstructure:"app_name"`
	AppVersion string `mapstructure:"app_version"`
	AppEnv     string `mapstructure:"app_env"`
	AppHost    string `mapstructure:"app_host"`
	AppPort    string `mapstructure:"app_port"`

	// JWT
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTExpiresIn time.Duration `mapstructure:"jwt_expires_in"`

	// Session cookie issued alongside the bearer token
	SessionCookieName string `mapstructure:"session_cookie_name"`

	// AWS
	AWSRegion           string `mapstructure:"aws_region"`
	AWSAccessKeyID      string `mapstructure:"aws_access_key_id"`
	AWSSecretAccessKey  string `mapstructure:"aws_secret_access_key"`
	DynamoDBEndpoint    string `mapstructure:"dynamodb_endpoint"`
	DynamoDBTablePrefix string `mapstructure:"dynamodb_table_prefix"`

	// Media storage
	S3Endpoint  string `mapstructure:"s3_endpoint"`
	MediaBucket string `mapstructure:"media_bucket"`

	// Redis (rate limiting)
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// CORS
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Rate Limiting
	RateLimitRequestsPerMinute int `mapstructure:"rate_limit_requests_per_minute"`

	// Base Path
	BasePath string `mapstructure:"basePath"`

	Tables []string `mapstructure:"tables"`
}
