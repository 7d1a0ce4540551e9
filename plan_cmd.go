package main

import (
	"fmt"
	"io"

	"github.com/dgnsrekt/spellbee-audio/internal/config"
	"github.com/dgnsrekt/spellbee-audio/internal/pipeline"
	"github.com/dgnsrekt/spellbee-audio/internal/store"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:     "plan [DATASET...]",
	Short:   "Show how many files exist and how many would be generated",
	Example: paragraph("spellbee-audio plan\nspellbee-audio plan sentences --voice paloma"),
	Args:    cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			args = cfg.DatasetNames()
		}
		return printPlan(cmd.OutOrStdout(), cfg, args)
	},
}

func printPlan(w io.Writer, cfg config.Config, names []string) error {
	voices, err := cfg.SelectVoices(voiceIDs)
	if err != nil {
		return err
	}
	fs := store.New(cfg.OutputDir, cfg.Extension)

	width := 0
	for _, v := range voices {
		width = max(width, runewidth.StringWidth(v.ID))
	}

	pending := 0
	for _, name := range names {
		ds, err := cfg.Dataset(name)
		if err != nil {
			return err
		}
		items, err := pipeline.LoadItems(ds)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(w, "%s: %s items from %s\n", keyword(ds.Name), humanize.Comma(int64(len(items))), ds.File)
		for _, e := range pipeline.Plan(fs, ds, items, voices) {
			_, _ = fmt.Fprintf(w, "  %s  %s present, %s to generate\n",
				runewidth.FillRight(e.Voice.ID, width),
				humanize.Comma(int64(e.Present)),
				humanize.Comma(int64(e.Pending)))
			pending += e.Pending
		}
	}

	_, _ = fmt.Fprintf(w, "\n%s files to generate in %s\n", humanize.Comma(int64(pending)), cfg.OutputDir)
	return nil
}
