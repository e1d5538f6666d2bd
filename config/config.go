package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/joho/godotenv"
)

// Config represents configuration of entire program.
type Config struct {
	Twitter struct {
		ConsumerKey       string
		ConsumerSecret    string
		AccessToken       string
		AccessTokenSecret string
	}
	Memos struct {
		Host   string
		OpenID string
	}
	// ProxyURL is the optional outbound proxy for every HTTP call.
	// Nil when HTTP_PROXY is unset.
	ProxyURL *url.URL

	SentryDsn string

	// DBFile is the path of the persisted state file.
	DBFile string
}

// Load builds the configuration from environment variables. A .env file is
// read first when present; real environment variables take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := &Config{}
	c.Twitter.ConsumerKey = os.Getenv("TWITTER_CONSUMER_KEY")
	c.Twitter.ConsumerSecret = os.Getenv("TWITTER_CONSUMER_SECRET")
	c.Twitter.AccessToken = os.Getenv("TWITTER_ACCESS_TOKEN")
	c.Twitter.AccessTokenSecret = os.Getenv("TWITTER_ACCESS_TOKEN_SECRET")
	c.Memos.Host = os.Getenv("MEMOS_HOST")
	c.Memos.OpenID = os.Getenv("MEMOS_OPEN_ID")
	c.SentryDsn = os.Getenv("SENTRY_DSN")
	c.DBFile = getEnv("DB_FILE", "db.json")

	for name, v := range map[string]string{
		"TWITTER_CONSUMER_KEY":        c.Twitter.ConsumerKey,
		"TWITTER_CONSUMER_SECRET":     c.Twitter.ConsumerSecret,
		"TWITTER_ACCESS_TOKEN":        c.Twitter.AccessToken,
		"TWITTER_ACCESS_TOKEN_SECRET": c.Twitter.AccessTokenSecret,
		"MEMOS_HOST":                  c.Memos.Host,
		"MEMOS_OPEN_ID":               c.Memos.OpenID,
	} {
		if v == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", name)
		}
	}

	if proxy := os.Getenv("HTTP_PROXY"); proxy != "" {
		u, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("parsing HTTP_PROXY: %v", err)
		}
		c.ProxyURL = u
	}

	return c, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}
