package synth

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"schema-evolver/internal/helpers"
)

// Config holds synthesis options.
type Config struct {
	// StylesheetVersion is the declared program-language version.
	StylesheetVersion string `yaml:"stylesheet_version" validate:"required,oneof=2.0 3.0"`
	// OutputMethod is the serialization method of the transformed documents.
	OutputMethod string `yaml:"output_method" validate:"required,oneof=xml html xhtml"`
	// Indent requests indented output documents.
	Indent bool `yaml:"indent"`
	// HelpersHref is the href under which the helper library is imported.
	HelpersHref string `yaml:"helpers_href" validate:"required"`
	// Placeholder is the value written into generated required attributes.
	Placeholder string `yaml:"placeholder"`
	// TerminateOnUnmatched makes the catch-all template abort the transformation.
	TerminateOnUnmatched bool `yaml:"terminate_on_unmatched"`

	// Logger receives debug traces of the run. Nil disables logging.
	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns the default synthesis configuration.
func DefaultConfig() Config {
	return Config{
		StylesheetVersion: "2.0",
		OutputMethod:      "xml",
		Indent:            true,
		HelpersHref:       helpers.DefaultHref,
		Placeholder:       "",
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}

	return slog.New(slog.DiscardHandler)
}

var validate = validator.New()

// LoadConfig reads a YAML configuration file. Keys missing from the file
// keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return config, config.Validate()
}

// Validate checks the option values.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var valErr validator.ValidationErrors
	if !errors.As(err, &valErr) {
		return err
	}

	fields := make([]string, 0, len(valErr))
	for _, fe := range valErr {
		fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
	}

	return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
}
