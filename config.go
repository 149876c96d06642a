package dom

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const (
	configDefaultURL    = "about:blank"
	configDefaultWidth  = 1024
	configDefaultHeight = 768
)

// ErrInvalidConfig is wrapped by errors caused by an invalid configuration.
var ErrInvalidConfig = errors.New("dom: invalid configuration")

// Config is the window configuration of a document. Nil fields take their
// default value.
type Config struct {
	URL    *string `mapstructure:"url"`
	Width  *int    `mapstructure:"width"`
	Height *int    `mapstructure:"height"`
}

// DefaultConfig returns a configuration with every field set to its default.
func DefaultConfig() *Config {
	c := &Config{}
	c.setDefaults()

	return c
}

// LoadConfig parses a YAML configuration, applies defaults and validates it.
func LoadConfig(data []byte) (*Config, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var c Config
	if err := mapstructure.Decode(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	c.setDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks that the URL is absolute and that the viewport size is not
// negative.
func (c *Config) Validate() error {
	if c.URL != nil {
		u, err := url.Parse(*c.URL)
		if err != nil {
			return fmt.Errorf("%w: option 'url', invalid value '%s': %v", ErrInvalidConfig, *c.URL, err)
		}
		if !u.IsAbs() {
			return fmt.Errorf("%w: option 'url', invalid value '%s': not absolute", ErrInvalidConfig, *c.URL)
		}
	}
	if c.Width != nil && *c.Width < 0 {
		return fmt.Errorf("%w: option 'width', invalid value '%d'", ErrInvalidConfig, *c.Width)
	}
	if c.Height != nil && *c.Height < 0 {
		return fmt.Errorf("%w: option 'height', invalid value '%d'", ErrInvalidConfig, *c.Height)
	}

	return nil
}

func (c *Config) setDefaults() {
	if c.URL == nil {
		defaultValue := configDefaultURL
		c.URL = &defaultValue
	}
	if c.Width == nil {
		defaultValue := configDefaultWidth
		c.Width = &defaultValue
	}
	if c.Height == nil {
		defaultValue := configDefaultHeight
		c.Height = &defaultValue
	}
}
