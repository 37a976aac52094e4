package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/WMSLabel/internal/engine"
	"github.com/piwi3910/WMSLabel/internal/export"
	"github.com/piwi3910/WMSLabel/internal/model"
)

func newPrintCmd(opts *globalOptions) *cobra.Command {
	var (
		input     string
		out       string
		symbology string
		settleMS  int
	)

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Render every label of a spreadsheet into a PDF",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if symbology != "" {
				cfg.Symbology = model.Symbology(strings.ToLower(symbology))
			}
			if cmd.Flags().Changed("settle") {
				cfg.SettleDelayMS = settleMS
			}

			eng := engine.New(opts.openStore(), cfg)
			if _, err := eng.LoadFile(cmd.Context(), input); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), eng.Status())

			doc, err := eng.Print(cmd.Context(), export.FilePrinter{Path: out})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d pages written to %s\n", len(doc.Sheets), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "spreadsheet to read (.xlsx, .xlsm, .csv, .txt)")
	cmd.Flags().StringVarP(&out, "out", "o", "labels.pdf", "PDF file to write")
	cmd.Flags().StringVar(&symbology, "symbology", "", "barcode type (code39, qr); defaults to the config")
	cmd.Flags().IntVar(&settleMS, "settle", 0, "delay in milliseconds before the PDF is written")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newInspectCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Summarise the labels a spreadsheet would produce",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			eng := engine.New(opts.openStore(), cfg)
			ds, err := eng.LoadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, eng.Status())
			fmt.Fprintf(w, "Longest code: %s\n", ds.LongestCode)
			for _, rec := range ds.Records {
				fmt.Fprintf(w, "  %-24s x%d\n", rec.Code, rec.Quantity)
			}
			return nil
		},
	}
}
