// Package xsdgen derives xmlbind registrations from XSD schema definitions:
// it parses schema documents, flattens compositors and references into
// ordered field lists, and emits Go source with typed structs, enum
// constants, and init-time Register calls.
package xsdgen

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config controls generation. The zero value generates package "schema" into
// the working directory.
type Config struct {
	// Package is the package name of the generated source.
	Package string `yaml:"package"`
	// Output is the directory generated files are written to.
	Output string `yaml:"output"`
	// TypePrefix and TypeSuffix rename generated type identifiers.
	TypePrefix string `yaml:"type_prefix"`
	TypeSuffix string `yaml:"type_suffix"`
	// FileNames maps a target namespace to the generated file name,
	// overriding the default of the schema file's base name.
	FileNames map[string]string `yaml:"file_names"`

	// Logger receives generation progress. Nil discards it.
	Logger *logrus.Logger `yaml:"-"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	if c.Package == "" {
		c.Package = "schema"
	}
	if c.Output == "" {
		c.Output = "."
	}
	if c.Logger == nil {
		c.Logger = logrus.New()
		c.Logger.SetOutput(os.Stderr)
		c.Logger.SetLevel(logrus.WarnLevel)
	}
	return c
}

func (c Config) log() *logrus.Entry {
	return c.Logger.WithField("subsys", "xsdgen")
}
