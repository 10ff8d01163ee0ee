package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yllada/vpn-panel/common"
	"github.com/yllada/vpn-panel/vpn"
)

func connectCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:     "connect COUNTRY",
		Short:   "Connect to an exit country (name or code)",
		Example: `  vpn-panel connect Germany
  vpn-panel connect "United States"
  vpn-panel connect ch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return New(env.ctrl, cmd.OutOrStdout()).Connect(cmd.Context(), args[0])
		},
	}
}

func disconnectCmd(env *environment) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "disconnect",
		Aliases: []string{"stop"},
		Short:   "Stop the VPN connection",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			confirmed := yes
			if !confirmed {
				var err error
				confirmed, err = confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure to stop VPN connection?")
				if err != nil {
					return err
				}
			}
			return New(env.ctrl, cmd.OutOrStdout()).Disconnect(cmd.Context(), confirmed)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func ipCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "ip",
		Short: "Show the public IP address and its location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return New(env.ctrl, cmd.OutOrStdout()).IPInfo(cmd.Context())
		},
	}
}

func authCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Show the VPN account saved by the client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return New(env.ctrl, cmd.OutOrStdout()).Auth(cmd.Context())
		},
	}
}

func countriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "countries",
		Short:             "List the exit countries",
		Args:              cobra.NoArgs,
		PersistentPreRunE: skipSetup,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &CLI{catalog: vpn.DefaultCatalog(), out: cmd.OutOrStdout()}
			return c.ListCountries()
		},
	}
}

func versionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Show version and exit",
		Args:              cobra.NoArgs,
		PersistentPreRunE: skipSetup,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s v%s\n", common.AppName, info.Version)
			if info.BuildTime != "unknown" && info.BuildTime != "" {
				fmt.Fprintf(out, "  Build:  %s\n", info.BuildTime)
				fmt.Fprintf(out, "  Commit: %s\n", info.Commit)
			}
		},
	}
}
