// Package config resolves which photoapp web service the CLI talks to.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirName    = "photoapp"
	FileName   = "photoapp-client.ini"
	DefaultURL = "http://localhost:8080"
	EnvURL     = "PHOTOAPP_WEBSERVICE"

	keyWebService = "client.webservice"
)

// Config holds the client settings.
type Config struct {
	ServerURL string
	// Source is the file the settings came from; empty when only defaults
	// and the environment applied.
	Source string
}

// SearchPaths lists where Load looks for FileName when no explicit path
// is given: the working directory first, then the user config dir.
func SearchPaths() []string {
	paths := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, dirName, FileName))
	}
	return paths
}

// Load reads the ini file at path, or the first of SearchPaths that exists
// when path is empty. PHOTOAPP_WEBSERVICE overrides the file.
func Load(path string) (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	v.SetConfigType("ini")
	v.SetDefault(keyWebService, DefaultURL)
	if err := v.BindEnv(keyWebService, EnvURL); err != nil {
		return nil, err
	}

	source := ""
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		source = path
	} else {
		for _, candidate := range SearchPaths() {
			if _, err := os.Stat(candidate); err == nil {
				source = candidate
				break
			}
		}
	}

	if source != "" {
		v.SetConfigFile(source)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", source, err)
		}
	}

	serverURL, err := NormalizeURL(v.GetString(keyWebService))
	if err != nil {
		return nil, err
	}
	return &Config{ServerURL: serverURL, Source: source}, nil
}

// NormalizeURL checks that raw is an http(s) URL with a host and trims any
// trailing slash.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("web service URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid web service URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid web service URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid web service URL %q: missing host", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}
