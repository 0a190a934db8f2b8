package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clerviq/voiced/pkg/cliutil"
	"github.com/clerviq/voiced/pkg/voice"
)

var (
	cloneAudio  string
	cloneGender string
	cloneAccent string
	cloneOutDir string
)

var cloneCmd = &cobra.Command{
	Use:   "clone <voice-name>",
	Short: "Clone a voice from a recording",
	Long: `Create a reusable voice profile from a speaker recording.

The recording should be 10-60 seconds of clean speech; shorter clips
clone with reduced quality, longer ones are truncated.

Example:
  voiced clone receptionist --audio sample.wav --gender female --accent en -o ~/voices`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cloneAudio == "" {
			return fmt.Errorf("--audio is required")
		}
		gender, err := voice.ParseGender(cloneGender)
		if err != nil {
			return err
		}
		accent, err := voice.ParseAccent(cloneAccent)
		if err != nil {
			return err
		}
		outDir := cloneOutDir
		if outDir == "" {
			outDir = globalConfig.VoicesDir
		}

		cfg, err := newCloner().CloneFromFile(cmd.Context(), cloneAudio, args[0], gender, accent, outDir)
		if err != nil {
			return err
		}
		cliutil.PrintSuccess("cloned voice %q (fingerprint %s)", cfg.Name, cfg.Fingerprint)
		return cliutil.Output(cmd.OutOrStdout(), cfg, outputFormat())
	},
}

func init() {
	cloneCmd.Flags().StringVar(&cloneAudio, "audio", "", "speaker recording (WAV)")
	cloneCmd.Flags().StringVar(&cloneGender, "gender", "neutral", "voice gender (male, female, neutral)")
	cloneCmd.Flags().StringVar(&cloneAccent, "accent", "en", "accent code (en, en-gb, es, fr, ...)")
	cloneCmd.Flags().StringVarP(&cloneOutDir, "output-dir", "o", "", "profile parent directory (default: configured voices dir)")
}
