// labelprint prints warehouse location labels without the GUI. It shares the
// layout with the desktop application through a preferences file and writes
// the print run as a PDF.
//
//	labelprint print --input stock.xlsx --out labels.pdf
//	labelprint layout show
//	labelprint layout set title-size 30pt
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/piwi3910/WMSLabel/internal/applog"
	"github.com/piwi3910/WMSLabel/internal/layout"
	"github.com/piwi3910/WMSLabel/internal/model"
	"github.com/piwi3910/WMSLabel/internal/project"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	prefsPath  string
	configPath string
	logLevel   string
}

func (o *globalOptions) openStore() *layout.Store {
	s := layout.NewStore(project.NewFileStore(o.prefsPath))
	s.Load(false)
	return s
}

func (o *globalOptions) loadConfig() (model.AppConfig, error) {
	cfg, err := project.LoadAppConfig(o.configPath)
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "labelprint",
		Short:         "Print warehouse location labels from a spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			applog.Init(applog.Options{
				Level:  applog.FromEnv(opts.logLevel).Level,
				Output: cmd.ErrOrStderr(),
			})
		},
	}

	root.PersistentFlags().StringVar(&opts.prefsPath, "prefs", project.DefaultPreferencesPath(), "layout preferences file")
	root.PersistentFlags().StringVar(&opts.configPath, "config", project.DefaultConfigPath(), "application config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newPrintCmd(opts),
		newInspectCmd(opts),
		newLayoutCmd(opts),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
