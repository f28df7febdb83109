package app

import (
	"fmt"
	"os"

	"github.com/blackwell-systems/opdsgen/internal/config"
	"github.com/blackwell-systems/opdsgen/internal/util"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfg   *config.Config
	log   = newLogger()
	appFs = afero.NewOsFs()

	flagNoColor bool
	flagVerbose bool
	flagConfig  string
)

func newRootCmd() *cobra.Command {
	var rf renderFlags

	cmd := &cobra.Command{
		Use:   "opdsgen",
		Short: "Convert a YAML catalog into an OPDS feed",
		Long: `opdsgen reads a catalog.yml listing downloadable resources and prints
an OPDS 1.2 acquisition feed (Atom XML) that e-reader clients can browse.

Examples:
  opdsgen --input catalog.yml --title "Offline content" --url http://mirror.example/catalog.opds
  opdsgen --tag wikipedia --output public/wikipedia.opds`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, rf)
		},
	}

	cmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log progress to stderr")
	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/opdsgen/config.yml)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)
		if flagVerbose {
			log.SetLevel(logrus.DebugLevel)
		} else {
			log.SetLevel(logrus.WarnLevel)
		}

		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	}

	rf.register(cmd)

	cmd.AddCommand(
		newConfigCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
	return cmd
}

// Execute is the entry point called from main.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// ok prints a green success line to stderr; stdout carries the feed.
func ok(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}
