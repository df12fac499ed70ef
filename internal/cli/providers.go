package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorevise/internal/logging"
	"github.com/yaklabco/gorevise/pkg/provider"
)

// providerInfo represents a provider in JSON output.
type providerInfo struct {
	Name         string `json:"name"`
	DefaultModel string `json:"defaultModel,omitempty"`
	EnvVar       string `json:"envVar"`
	Configured   bool   `json:"configured"`
	Notes        string `json:"notes"`
}

func newProvidersCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List supported AI providers",
		Long: `List the supported AI providers with their default models, the
environment variable each reads its API key from, and whether that
key is currently set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := provider.Catalog()

			if format == formatJSON {
				infos := make([]providerInfo, 0, len(catalog))
				for _, info := range catalog {
					infos = append(infos, providerInfo{
						Name:         info.Name,
						DefaultModel: info.DefaultModel,
						EnvVar:       info.EnvVar,
						Configured:   os.Getenv(info.EnvVar) != "",
						Notes:        info.Notes,
					})
				}
				return encodeJSON(cmd, infos)
			}

			logger := logging.NewInteractive()

			for _, info := range catalog {
				configured := "-"
				if os.Getenv(info.EnvVar) != "" {
					configured = "yes"
				}

				model := info.DefaultModel
				if model == "" {
					model = "(set via --model)"
				}

				logger.Info(info.Name,
					logging.FieldModel, model,
					logging.FieldEnvVar, info.EnvVar,
					logging.FieldConfigured, configured,
					logging.FieldNotes, info.Notes,
				)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}
