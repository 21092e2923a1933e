package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/hexlife/internal/config"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Print bool // print the effective configuration
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool           `json:"valid"`
	Path   string         `json:"path,omitempty"`
	Config *config.Config `json:"config,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate a configuration file",
		Long: `Overlay a YAML configuration file on the built-in defaults and check
the result against the configuration schema. Without an argument the
--config file (or the defaults alone) is checked.

Exit codes:
  0 - Configuration is valid
  1 - Configuration violates the schema
  2 - Command error (file not found, malformed YAML)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.Config
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(opts, path, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Print, "print", false, "print the effective configuration")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	formatter.VerboseLog("Validating %s", describePath(path))
	cfg, err := config.Load(path)
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			if outErr := formatter.Error("E_CONFIG_INVALID", verr.Error(), verr.Field); outErr != nil {
				return outErr
			}
			return WrapExitError(ExitFailure, "configuration invalid", err)
		}
		if outErr := formatter.Error("E_CONFIG_LOAD", err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	if opts.Format == "json" {
		result := ValidationResult{Valid: true, Path: path}
		if opts.Print {
			result.Config = cfg
		}
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "✓ %s is valid\n", describePath(path))
	if opts.Print {
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, string(data))
	}
	return nil
}

func describePath(path string) string {
	if path == "" {
		return "default configuration"
	}
	return path
}
