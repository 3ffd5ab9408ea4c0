package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"postsweep/internal/services"
)

// Credentials is the opaque OAuth1 token bundle handed to the transport. The
// pipeline never inspects it.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessKey      string
	AccessSecret   string
}

const (
	EnvConsumerKey    = "CONSUMER_KEY"
	EnvConsumerSecret = "CONSUMER_SECRET"
	EnvAccessKey      = "ACCESS_KEY"
	EnvAccessSecret   = "ACCESS_SECRET"
)

// LoadCredentials reads the four OAuth values from the process environment,
// first merging a .env file from the working directory when one exists.
// Values already present in the environment win over the file.
func LoadCredentials() (Credentials, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Credentials{}, services.Wrap(services.ErrConfiguration, "config", "credentials", "load .env", err)
	}

	creds := Credentials{
		ConsumerKey:    strings.TrimSpace(os.Getenv(EnvConsumerKey)),
		ConsumerSecret: strings.TrimSpace(os.Getenv(EnvConsumerSecret)),
		AccessKey:      strings.TrimSpace(os.Getenv(EnvAccessKey)),
		AccessSecret:   strings.TrimSpace(os.Getenv(EnvAccessSecret)),
	}

	missing := make([]string, 0, 4)
	for _, pair := range []struct {
		name  string
		value string
	}{
		{EnvConsumerKey, creds.ConsumerKey},
		{EnvConsumerSecret, creds.ConsumerSecret},
		{EnvAccessKey, creds.AccessKey},
		{EnvAccessSecret, creds.AccessSecret},
	} {
		if pair.value == "" {
			missing = append(missing, pair.name)
		}
	}
	if len(missing) > 0 {
		return Credentials{}, services.Wrap(services.ErrConfiguration, "config", "credentials",
			"missing environment values: "+strings.Join(missing, ", "), nil)
	}

	return creds, nil
}
