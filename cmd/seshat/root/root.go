package root

import (
	"github.com/flarebyte/seshat-stubs/cmd/seshat/catalogcmd"
	"github.com/flarebyte/seshat-stubs/cmd/seshat/clean"
	"github.com/flarebyte/seshat-stubs/cmd/seshat/diagnose"
	"github.com/flarebyte/seshat-stubs/cmd/seshat/run"
	"github.com/flarebyte/seshat-stubs/cmd/seshat/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for seshat.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seshat",
		Short: "CLI: Generate source stubs for the modules loaded in an embedded firmware runtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Subcommands
	cmd.AddCommand(version.VersionCmd)
	cmd.AddCommand(run.Cmd)
	cmd.AddCommand(clean.Cmd)
	cmd.AddCommand(catalogcmd.Cmd)
	cmd.AddCommand(diagnose.Cmd)

	return cmd
}

// Execute runs the root command with provided args.
func Execute(args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}
