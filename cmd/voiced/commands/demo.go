package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/clerviq/voiced/pkg/cliutil"
	"github.com/clerviq/voiced/pkg/tts"
	"github.com/clerviq/voiced/pkg/voice"
)

var demoText string

var demoCmd = &cobra.Command{
	Use:   "demo <output-dir>",
	Short: "Render a sample line in every preset voice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, cleanup, err := newEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := os.MkdirAll(args[0], 0o755); err != nil {
			return err
		}
		for _, name := range voice.PresetNames() {
			cfg, err := voice.ParsePreset(name)
			if err != nil {
				return err
			}
			out := filepath.Join(args[0], name+".wav")
			samples, err := engine.Synthesize(cmd.Context(), demoText, &cfg, out)
			if err != nil {
				return fmt.Errorf("preset %s: %w", name, err)
			}
			cliutil.PrintSuccess("%s (%s)", out,
				cliutil.FormatDuration(tts.OutputFormat.Duration(int64(len(samples)))))
		}
		return nil
	},
}

func init() {
	demoCmd.Flags().StringVar(&demoText, "text", "Thank you for calling. How may I direct your call?", "line to render")
}
