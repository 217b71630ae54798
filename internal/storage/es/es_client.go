package es

import (
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
)

const defaultMaxRetries = 3

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
	APIKey    string
}

// NewClient builds a typed client. Blank addresses are dropped; an API key
// takes precedence over basic auth.
func NewClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	var addresses []string
	for _, a := range config.Addresses {
		if a = strings.TrimSpace(a); a != "" {
			addresses = append(addresses, a)
		}
	}
	if len(addresses) == 0 {
		return nil, fmt.Errorf("no Elasticsearch addresses configured")
	}

	cfg := elasticsearch.Config{
		Addresses:  addresses,
		MaxRetries: defaultMaxRetries,
	}

	switch {
	case config.APIKey != "":
		cfg.APIKey = config.APIKey
	case config.Username != "" && config.Password != "":
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewTypedClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	return client, nil
}
