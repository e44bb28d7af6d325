package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"bus-ticketing/pkg/apiclient"

	"github.com/spf13/viper"
)

const (
	defaultAPIURL  = "http://localhost:8080"
	configFileName = ".bus-counter.yaml"
)

// DefaultConfigPath is $HOME/.bus-counter.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return configFileName
	}
	return filepath.Join(home, configFileName)
}

// loadConfig reads the CLI config file. COUNTER_API_URL and the other
// COUNTER_* variables override it; a missing file is not an error.
func loadConfig(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("COUNTER")
	v.AutomaticEnv()

	v.SetDefault("api_url", defaultAPIURL)
	v.SetDefault("log_path", filepath.Join(filepath.Dir(path), ".bus-counter-logs"))
	v.SetDefault("debug", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

// credentialsFrom returns the saved session, or nil when none is stored.
func credentialsFrom(v *viper.Viper) *apiclient.Credentials {
	token := v.GetString("token")
	if token == "" {
		return nil
	}
	creds := &apiclient.Credentials{
		Token:       token,
		CounterCode: v.GetString("counter_code"),
		Role:        v.GetString("role"),
	}
	if raw := v.GetString("expires_at"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			creds.ExpiresAt = t
		}
	}
	return creds
}

// saveCredentials stores the session in the config file, or removes it when
// creds is nil.
func saveCredentials(v *viper.Viper, path string, creds *apiclient.Credentials) error {
	if creds == nil {
		v.Set("token", "")
		v.Set("counter_code", "")
		v.Set("role", "")
		v.Set("expires_at", "")
	} else {
		v.Set("token", creds.Token)
		v.Set("counter_code", creds.CounterCode)
		v.Set("role", creds.Role)
		v.Set("expires_at", creds.ExpiresAt.Format(time.RFC3339))
	}

	// the file holds a session token: it is never readable by others, not
	// even while being written
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	if err := f.Chmod(0600); err != nil {
		return fmt.Errorf("restrict config %s: %w", path, err)
	}
	if err := v.WriteConfigTo(f); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return f.Close()
}
