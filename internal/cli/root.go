// Package cli implements the ulens CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/microlens-data/ulens/internal/monitoring"
)

var verboseFlag bool

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "ulens",
	Short: "Convert microlensing event parameters between packages and frames",
	Long: `ulens converts microlensing event parameters between modeling packages
(bagle, gulls, mulensmodel, vbm) and between the heliocentric and
geocentric-projected reference frames.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		monitoring.SetVerbose(verboseFlag)
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

// loadPayload reads a parameter payload from a JSON or YAML file, chosen by
// extension.
func loadPayload(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var payload map[string]any
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else {
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if payload == nil {
		return nil, fmt.Errorf("input payload must be a JSON or YAML object")
	}
	return payload, nil
}

// writePayload renders indented JSON to path, or to the command's stdout
// when path is empty.
func writePayload(cmd *cobra.Command, path string, payload any) error {
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if path == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
