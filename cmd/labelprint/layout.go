package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/WMSLabel/internal/model"
	"github.com/piwi3910/WMSLabel/internal/project"
)

func newLayoutCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show or change the stored label layout",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print every layout parameter",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg := opts.openStore().Config()
				for _, key := range model.LayoutKeys() {
					v, _ := cfg.Get(key)
					fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", key, model.FormatValue(key, v))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Set one parameter, e.g. 'set large-top 72.5mm'",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				key := model.LayoutKey(args[0])
				if !key.IsKnown() {
					return fmt.Errorf("unknown layout key %q", args[0])
				}
				v, err := parseLayoutValue(key, args[1])
				if err != nil {
					return err
				}
				store := opts.openStore()
				store.Update(key, v)
				if err := store.Save(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, model.FormatValue(key, v))
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Restore the default layout",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := opts.openStore().Reset(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Layout reset to defaults.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "export FILE",
			Short: "Write the layout as a YAML preset ('-' for stdout)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := opts.openStore().Config()
				if args[0] == "-" {
					return project.EncodePreset(cmd.OutOrStdout(), project.NewLayoutPreset("", cfg))
				}
				return project.ExportLayout(args[0], "", cfg)
			},
		},
		&cobra.Command{
			Use:   "import FILE",
			Short: "Replace the layout with a YAML preset",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := project.ImportLayout(args[0])
				if err != nil {
					return err
				}
				store := opts.openStore()
				store.Apply(cfg)
				if err := store.Save(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Layout imported from %s.\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

// parseLayoutValue accepts a value with the key's unit suffix or a bare
// number.
func parseLayoutValue(key model.LayoutKey, s string) (float64, error) {
	if v, err := model.ParseValue(key, s); err == nil {
		return v, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid value %q for %s (expected e.g. %s)", s, key, model.FormatValue(key, 10))
	}
	return v, nil
}
