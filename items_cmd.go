package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dgnsrekt/spellbee-audio/internal/config"
	"github.com/dgnsrekt/spellbee-audio/internal/pipeline"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultWidth = 80

var itemsCmd = &cobra.Command{
	Use:     "items DATASET",
	Short:   "List the items extracted from a dataset",
	Example: paragraph("spellbee-audio items words\nspellbee-audio items sentences"),
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return printItems(cmd.OutOrStdout(), cfg, args[0], terminalWidth())
	},
}

// printItems lists keys, and texts when they differ from the key, cut to width.
func printItems(w io.Writer, cfg config.Config, name string, width int) error {
	ds, err := cfg.Dataset(name)
	if err != nil {
		return err
	}
	items, err := pipeline.LoadItems(ds)
	if err != nil {
		return err
	}

	keyWidth := 0
	for _, it := range items {
		keyWidth = max(keyWidth, runewidth.StringWidth(it.Key))
	}
	numWidth := len(fmt.Sprint(len(items)))

	for i, it := range items {
		line := fmt.Sprintf("%*d  %s", numWidth, i+1, it.Key)
		if it.Text != it.Key {
			line = fmt.Sprintf("%*d  %s  %s", numWidth, i+1, runewidth.FillRight(it.Key, keyWidth), it.Text)
		}
		_, _ = fmt.Fprintln(w, truncate.StringWithTail(line, uint(width), "…")) //nolint:gosec
	}
	return nil
}

func terminalWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) { //nolint:gosec
		return defaultWidth
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd())) //nolint:gosec
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}
