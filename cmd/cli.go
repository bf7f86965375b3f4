package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"audioctl/internal/audio"
	"audioctl/internal/config"
	applog "audioctl/internal/log"
	"audioctl/pkg/build"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string
	jsonOutput bool

	cfg *config.Config
	dir *audio.Directory
	out io.Writer
}

// newDirectory is swapped in tests.
var newDirectory = audio.NewDirectory

// NewRootCommand builds the audioctl command tree writing to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	buildInfo := build.GetBuildFlags()
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         build.Description,
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "",
		"Path to a YAML config file (default: ./config.yaml when present)")
	rootCmd.PersistentFlags().StringVarP(&a.logLevel, "log-level", "l", "",
		"Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false,
		"Print results as JSON")

	rootCmd.AddCommand(
		a.devicesCommand(),
		a.defaultCommand(),
		a.flowCommand(),
		a.muteCommand("mute", "Mute an endpoint (default: speakers)", true),
		a.muteCommand("unmute", "Unmute an endpoint (default: speakers)", false),
		a.mutedCommand(),
		a.volumeCommand(),
		a.sessionsCommand(),
		a.findCommand(),
		a.renameCommand(),
		a.iconCommand(),
		a.groupCommand(),
		a.watchCommand(),
		a.serveCommand(),
		a.tuiCommand(),
		versionCommand(out),
	)
	return rootCmd
}

// setup loads configuration and applies logging settings before any
// subcommand runs.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}

	level, ok := applog.ParseLevel(cfg.LogLevel)
	if !ok {
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	applog.SetLevel(level)
	if err := applog.SetFormat(cfg.LogFormat); err != nil {
		return err
	}

	a.cfg = cfg
	a.dir = newDirectory()
	applog.Debugf("audioctl: running %s with config %+v", cmd.Name(), *cfg)
	return nil
}

func versionCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// Version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(out, build.GetBuildFlags().String())
			return err
		},
	}
}

// Execute runs the command tree against os.Args.
func Execute() error {
	rootCmd := NewRootCommand(os.Stdout)
	rootCmd.SetArgs(os.Args[1:])
	return rootCmd.Execute()
}
