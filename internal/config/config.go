package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret   string
		AdminSecret string
	}
	Crypto struct {
		// EncryptionKey is the process-wide vault secret. Key rotation is
		// not supported: changing it orphans every stored platform token.
		EncryptionKey string
	}
	Gemini struct {
		APIKey         string
		Model          string
		TimeoutSeconds int
		MaxConcurrent  int
	}
	Twitter struct {
		ConsumerKey       string
		ConsumerSecret    string
		AccessToken       string
		AccessTokenSecret string
	}
	Publish struct {
		PlatformTimeoutSeconds int
	}
	RateLimit struct {
		PerSecond float64
		Burst     int
	}
	Archive struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("POSTMUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.path", "data/post_muse.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.adminsecret", "")
	v.SetDefault("crypto.encryptionkey", "")
	v.SetDefault("gemini.apikey", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash-lite")
	v.SetDefault("gemini.timeoutseconds", 30)
	v.SetDefault("gemini.maxconcurrent", 4)
	v.SetDefault("twitter.consumerkey", "")
	v.SetDefault("twitter.consumersecret", "")
	v.SetDefault("twitter.accesstoken", "")
	v.SetDefault("twitter.accesstokensecret", "")
	v.SetDefault("publish.platformtimeoutseconds", 15)
	v.SetDefault("ratelimit.persecond", 5.0)
	v.SetDefault("ratelimit.burst", 10)
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.keyprefix", "post-archive")
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("aws.profile", "")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
