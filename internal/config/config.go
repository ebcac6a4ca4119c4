package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Media    MediaConfig    `mapstructure:"media"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ReadTimeoutSeconds     int    `mapstructure:"read_timeout_seconds"     validate:"gte=0"`
	WriteTimeoutSeconds    int    `mapstructure:"write_timeout_seconds"    validate:"gte=0"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url"                       validate:"required"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
	AutoMigrate            bool   `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	Issuer               string `mapstructure:"issuer"                 validate:"required"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"gte=4,lte=31"`
}

// MediaConfig configures the S3-compatible bucket that hosts uploaded images
// and videos. Uploads are disabled when Bucket is empty.
type MediaConfig struct {
	Bucket           string `mapstructure:"bucket"`
	Endpoint         string `mapstructure:"endpoint"           validate:"omitempty,url"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	PublicBaseURL    string `mapstructure:"public_base_url"    validate:"required_with=Bucket,omitempty,url"`
	TransformBaseURL string `mapstructure:"transform_base_url" validate:"omitempty,url"`
	UsePathStyle     bool   `mapstructure:"use_path_style"`
}

// Enabled reports whether a bucket has been configured.
func (m MediaConfig) Enabled() bool {
	return m.Bucket != ""
}

// AdminConfig seeds the bootstrap admin at startup when Email and Password
// are both set.
type AdminConfig struct {
	Email    string `mapstructure:"email"    validate:"omitempty,email"`
	Name     string `mapstructure:"name"`
	Password string `mapstructure:"password" validate:"omitempty,min=6,max=72"`
}

// SeedRequested reports whether an admin seed is configured.
func (a AdminConfig) SeedRequested() bool {
	return a.Email != "" && a.Password != ""
}
