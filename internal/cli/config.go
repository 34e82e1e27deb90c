package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/drawkit/pkg/config"
	derrors "github.com/matzehuels/drawkit/pkg/errors"
)

// configCommand creates the "config" command group.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.configPath == "" {
				return derrors.New(derrors.ErrCodeInvalidPath, "no config location; pass --config")
			}
			if fileExists(c.configPath) && !force {
				return derrors.New(derrors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", c.configPath)
			}
			if err := config.Default().WriteFile(c.configPath); err != nil {
				return err
			}
			printSuccess("Wrote default configuration")
			printFile(c.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printDetail("# %s", c.configPath)
			return c.Config.Encode(stdout)
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
