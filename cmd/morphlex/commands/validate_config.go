package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"

	"github.com/morphlex/morphlex/internal/config"
)

// ErrConfigSchemaInvalid is returned when a loaded configuration fails
// schema validation.
var ErrConfigSchemaInvalid = errors.New("morphlex: configuration failed schema validation")

// NewValidateConfigCommand loads a morphlex configuration file, checks it
// against config.Schema, and reports any violations.
func NewValidateConfigCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate-config",
		Short: "Validate a morphlex configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runValidateConfig(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default: search CWD/$HOME)")

	return cmd
}

func runValidateConfig(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(config.Schema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("validate config schema: %w", err)
	}

	if !result.Valid() {
		for _, violation := range result.Errors() {
			fmt.Fprintln(os.Stderr, violation.String())
		}

		return ErrConfigSchemaInvalid
	}

	fmt.Fprintln(os.Stdout, "config is valid")

	return nil
}
