package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/fathima-sithara/social-service/internal/media"
	"github.com/fathima-sithara/social-service/internal/storage"
)

type AppConf struct {
	Env            string `mapstructure:"env"`
	Port           int    `mapstructure:"port"`
	ShutdownSecond int    `mapstructure:"shutdown_seconds"`
}

type MongoConf struct {
	URI               string `mapstructure:"uri"`
	Database          string `mapstructure:"database"`
	PostsCollection   string `mapstructure:"posts_collection"`
	StoriesCollection string `mapstructure:"stories_collection"`
	UsersCollection   string `mapstructure:"users_collection"`
	ConnectSeconds    int    `mapstructure:"connect_seconds"`
}

type CloudinaryConf struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	Domain    string `mapstructure:"domain"`
}

type MediaConf struct {
	StoryMaxBytes int64    `mapstructure:"story_max_bytes"`
	ImageMaxBytes int64    `mapstructure:"image_max_bytes"`
	VideoMaxBytes int64    `mapstructure:"video_max_bytes"`
	AllowedTypes  []string `mapstructure:"allowed_types"`
	AvatarSize    int      `mapstructure:"avatar_size"`
}

type SweeperConf struct {
	MaxAgeHours   int     `mapstructure:"max_age_hours"`
	Schedule      string  `mapstructure:"schedule"`
	RunOnStart    bool    `mapstructure:"run_on_start"`
	RatePerSecond float64 `mapstructure:"rate_per_second"`
}

type BreakerConf struct {
	MaxFailures     uint32 `mapstructure:"max_failures"`
	IntervalSeconds int    `mapstructure:"interval_seconds"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
}

type RedisConf struct {
	Addr                string `mapstructure:"addr"`
	Password            string `mapstructure:"password"`
	DB                  int    `mapstructure:"db"`
	UploadLimit         int    `mapstructure:"upload_limit"`
	UploadWindowSeconds int    `mapstructure:"upload_window_seconds"`
}

type JWTConf struct {
	PublicKeyPath string `mapstructure:"public_key_path"`
}

type Config struct {
	App        AppConf        `mapstructure:"app"`
	Mongo      MongoConf      `mapstructure:"mongodb"`
	Cloudinary CloudinaryConf `mapstructure:"cloudinary"`
	Media      MediaConf      `mapstructure:"media"`
	Sweeper    SweeperConf    `mapstructure:"sweeper"`
	Breaker    BreakerConf    `mapstructure:"breaker"`
	Redis      RedisConf      `mapstructure:"redis"`
	JWT        JWTConf        `mapstructure:"jwt"`
	Log        struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	// derived
	ShutdownTimeout time.Duration
	ConnectTimeout  time.Duration
	StoryMaxAge     time.Duration
	UploadWindow    time.Duration
}

func setDefaults(v *viper.Viper) {
	def := media.DefaultConfig()
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.shutdown_seconds", 15)
	v.SetDefault("mongodb.uri", "")
	v.SetDefault("mongodb.database", "social")
	v.SetDefault("mongodb.posts_collection", "posts")
	v.SetDefault("mongodb.stories_collection", "stories")
	v.SetDefault("mongodb.users_collection", "users")
	v.SetDefault("mongodb.connect_seconds", 30)
	v.SetDefault("cloudinary.cloud_name", "")
	v.SetDefault("cloudinary.api_key", "")
	v.SetDefault("cloudinary.api_secret", "")
	v.SetDefault("cloudinary.domain", def.Domain)
	v.SetDefault("media.story_max_bytes", def.StoryCeiling)
	v.SetDefault("media.image_max_bytes", def.ImageCeiling)
	v.SetDefault("media.video_max_bytes", def.VideoCeiling)
	v.SetDefault("media.allowed_types", def.AllowedTypes)
	v.SetDefault("media.avatar_size", 512)
	v.SetDefault("sweeper.max_age_hours", 48)
	v.SetDefault("sweeper.schedule", "0 * * * *")
	v.SetDefault("sweeper.run_on_start", true)
	v.SetDefault("sweeper.rate_per_second", 0)
	v.SetDefault("breaker.max_failures", 5)
	v.SetDefault("breaker.interval_seconds", 0)
	v.SetDefault("breaker.timeout_seconds", 30)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.upload_limit", 30)
	v.SetDefault("redis.upload_window_seconds", 60)
	v.SetDefault("jwt.public_key_path", "")
	v.SetDefault("log.level", "info")
}

// Load reads path (optional) over built-in defaults. A .env file in the
// working directory is loaded first; APP_-prefixed variables override
// everything, e.g. APP_CLOUDINARY_API_KEY.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.App.ShutdownSecond <= 0 {
		cfg.App.ShutdownSecond = 15
	}
	cfg.ShutdownTimeout = time.Duration(cfg.App.ShutdownSecond) * time.Second
	if cfg.Mongo.ConnectSeconds <= 0 {
		cfg.Mongo.ConnectSeconds = 30
	}
	cfg.ConnectTimeout = time.Duration(cfg.Mongo.ConnectSeconds) * time.Second
	if cfg.Sweeper.MaxAgeHours <= 0 {
		cfg.Sweeper.MaxAgeHours = 48
	}
	cfg.StoryMaxAge = time.Duration(cfg.Sweeper.MaxAgeHours) * time.Hour
	if cfg.Redis.UploadWindowSeconds <= 0 {
		cfg.Redis.UploadWindowSeconds = 60
	}
	cfg.UploadWindow = time.Duration(cfg.Redis.UploadWindowSeconds) * time.Second
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// MediaConfig is the immutable policy handed to the media manager.
func (c *Config) MediaConfig() media.Config {
	return media.Config{
		Domain:       c.Cloudinary.Domain,
		StoryCeiling: c.Media.StoryMaxBytes,
		ImageCeiling: c.Media.ImageMaxBytes,
		VideoCeiling: c.Media.VideoMaxBytes,
		AllowedTypes: append([]string(nil), c.Media.AllowedTypes...),
	}
}

func (c *Config) BreakerConfig() storage.BreakerConfig {
	return storage.BreakerConfig{
		MaxFailures: c.Breaker.MaxFailures,
		Interval:    time.Duration(c.Breaker.IntervalSeconds) * time.Second,
		Timeout:     time.Duration(c.Breaker.TimeoutSeconds) * time.Second,
	}
}
