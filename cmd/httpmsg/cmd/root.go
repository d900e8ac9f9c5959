package cmd

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zostay/go-httpmsg/internal/config"
)

var (
	cfg    config.Config
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:          "httpmsg",
	Short:        "Tools for working with HTTP headers, cookie jars, and multipart bodies",
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		logger = config.Logger(cfg, cmd.ErrOrStderr())
		return nil
	},
}

// Execute runs the command named on the command line.
func Execute() error {
	return rootCmd.Execute()
}

// readInput reads the named file, or standard input when no file is named or
// the name is "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}
