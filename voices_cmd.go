package main

import (
	"fmt"
	"io"

	"github.com/dgnsrekt/spellbee-audio/internal/config"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the configured voices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return printVoices(cmd.OutOrStdout(), cfg)
	},
}

func printVoices(w io.Writer, cfg config.Config) error {
	voices, err := cfg.SelectVoices(voiceIDs)
	if err != nil {
		return err
	}

	width := 0
	for _, v := range voices {
		width = max(width, runewidth.StringWidth(v.ID))
	}
	for _, v := range voices {
		_, _ = fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(v.ID, width), v.EngineVoice)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, dim(fmt.Sprintf("engine: %s", cfg.EngineType())))
	return nil
}
