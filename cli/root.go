package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yllada/vpn-panel/common"
	"github.com/yllada/vpn-panel/config"
	"github.com/yllada/vpn-panel/credentials"
	"github.com/yllada/vpn-panel/geo"
	"github.com/yllada/vpn-panel/keyring"
	"github.com/yllada/vpn-panel/ui"
	"github.com/yllada/vpn-panel/vpn"
)

// BuildInfo carries the values injected at link time.
type BuildInfo struct {
	Version   string
	BuildTime string
	Commit    string
}

// options holds the persistent flags.
type options struct {
	configPath string
	verbose    bool
}

// environment is what every panel command runs against.
type environment struct {
	config *config.Config
	ctrl   *vpn.Controller
}

// Execute runs the command line. ctx is cancelled on SIGINT/SIGTERM.
func Execute(ctx context.Context, info BuildInfo) error {
	return NewRootCommand(info).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &options{}
	env := &environment{}

	root := &cobra.Command{
		Use:   common.BinaryName,
		Short: "Terminal control panel for the CyberGhost VPN client",
		Long: `VPN Panel drives an installed VPN client: pick an exit country, connect,
stop the connection, and check the public IP the outside world sees.

Run without a subcommand to open the interactive panel.
The panel must run as root and the VPN client must be on PATH.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return env.setup(opts, info, cmd.Parent() == nil)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			common.CloseLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return errors.New("the interactive panel needs a terminal; use a subcommand instead (see --help)")
			}
			return ui.NewApplication(env.ctrl, env.config, info.Version).Run(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/vpn-panel/config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(
		connectCmd(env),
		disconnectCmd(env),
		ipCmd(env),
		authCmd(env),
		countriesCmd(),
		versionCmd(info),
	)
	return root
}

// setup loads the configuration, checks the preconditions and builds the
// controller. interactive keeps log output off the terminal.
func (e *environment) setup(opts *options, info BuildInfo, interactive bool) error {
	logLevel := common.LevelInfo
	if opts.verbose {
		logLevel = common.LevelDebug
	}
	if err := common.InitLogger(common.LogConfig{
		Level:          logLevel,
		EnableFile:     true,
		DisableConsole: interactive || !opts.verbose,
	}); err != nil {
		// Keep going with console logging only
		common.LogWarn("File logging disabled: %v", err)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		if cfg == nil {
			return err
		}
		common.LogWarn("Using default configuration: %v", err)
	}

	if err := common.CheckPreconditions(cfg.ClientBinary); err != nil {
		common.LogError("Startup check failed: %v", err)
		return err
	}

	ctrl, err := newController(cfg, info)
	if err != nil {
		return err
	}

	e.config = cfg
	e.ctrl = ctrl
	return nil
}

// newController wires the controller to the real client, lookup service
// and credential source.
func newController(cfg *config.Config, info BuildInfo) (*vpn.Controller, error) {
	lookup := geo.NewClient(cfg.GeoEndpoint, cfg.LookupTimeout)
	lookup.UserAgent = fmt.Sprintf("%s/%s", common.BinaryName, info.Version)

	user := common.InvokingUser()
	common.LogDebug("Invoking user: %s", user)

	return vpn.NewController(vpn.ControllerConfig{
		Catalog:        vpn.DefaultCatalog(),
		Runner:         vpn.NewExecRunner(),
		Lookup:         lookup,
		Credentials:    credentialReader(cfg.Credentials),
		Commands:       vpn.ClientCommands{Binary: cfg.ClientBinary},
		User:           user,
		ProcessTimeout: cfg.ProcessTimeout,
	})
}

func credentialReader(c config.CredentialsConfig) common.CredentialReader {
	file := credentials.NewFileStore(c.Path, c.Section, c.Key)
	if c.Source == common.CredentialSourceKeyring {
		return &credentials.FallbackReader{Primary: keyring.NewReader(c.KeyringService), Secondary: file}
	}
	return file
}

// skipSetup replaces the root's PersistentPreRunE for commands that need
// neither root privileges nor the VPN client.
func skipSetup(cmd *cobra.Command, args []string) error {
	return nil
}
