package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clerviq/voiced/pkg/cliutil"
	"github.com/clerviq/voiced/pkg/clone"
	"github.com/clerviq/voiced/pkg/tts"
	"github.com/clerviq/voiced/pkg/voice"
)

var (
	synthPreset   string
	synthVoiceDir string
	synthOutput   string
	synthPitch    float64
	synthSpeed    float64
	synthEnergy   float64
)

// resolveVoice picks the voice for a synthesis command: a cloned
// profile directory when given, else a named preset.
func resolveVoice() (*voice.Config, error) {
	if synthVoiceDir != "" {
		return clone.LoadVoice(synthVoiceDir)
	}
	name := synthPreset
	if name == "" {
		name = voice.PresetProfessionalFemale
	}
	cfg, err := voice.ParsePreset(name)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyProsodyFlags(cmd *cobra.Command, cfg *voice.Config) {
	if cmd.Flags().Changed("pitch") {
		cfg.PitchShift = synthPitch
	}
	if cmd.Flags().Changed("speed") {
		cfg.Speed = synthSpeed
	}
	if cmd.Flags().Changed("energy") {
		cfg.Energy = synthEnergy
	}
}

func addVoiceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&synthPreset, "preset", "", "preset voice name ("+strings.Join(voice.PresetNames(), ", ")+")")
	cmd.Flags().StringVar(&synthVoiceDir, "voice-dir", "", "cloned voice profile directory (overrides --preset)")
	cmd.Flags().Float64Var(&synthPitch, "pitch", 0, "pitch shift in semitones")
	cmd.Flags().Float64Var(&synthSpeed, "speed", 1.0, "speaking speed multiplier")
	cmd.Flags().Float64Var(&synthEnergy, "energy", 1.0, "loudness multiplier")
}

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize <text>",
	Short: "Render text to speech",
	Long: `Render text to a WAV file using a preset or cloned voice.

Examples:
  voiced synthesize "Thank you for calling." -o out.wav
  voiced synthesize "Un momento, por favor." --preset luxury_concierge -o out.wav
  voiced synthesize "Welcome back!" --voice-dir ~/voices/spa-09/greeter --speed 1.1 -o out.wav`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if synthOutput == "" {
			return fmt.Errorf("--output is required")
		}
		cfg, err := resolveVoice()
		if err != nil {
			return err
		}
		applyProsodyFlags(cmd, cfg)

		engine, cleanup, err := newEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		samples, err := engine.Synthesize(cmd.Context(), args[0], cfg, synthOutput)
		if err != nil {
			return err
		}
		cliutil.PrintSuccess("wrote %s (%s, voice %s, backend %s)",
			synthOutput,
			cliutil.FormatDuration(tts.OutputFormat.Duration(int64(len(samples)))),
			cfg.Name, engine.Backend())
		return nil
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch <lines-file> <output-dir>",
	Short: "Render a file of lines to numbered WAVs",
	Long: `Render each non-empty line of a text file to output-dir/speech_NNN.wav.

Failed lines are reported and skipped; the rest of the batch continues.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		var texts []string
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				texts = append(texts, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}

		cfg, err := resolveVoice()
		if err != nil {
			return err
		}
		applyProsodyFlags(cmd, cfg)

		engine, cleanup, err := newEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := os.MkdirAll(args[1], 0o755); err != nil {
			return err
		}
		results, err := engine.SynthesizeBatch(cmd.Context(), texts, cfg, args[1])
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				cliutil.PrintWarning("line %d failed: %v", r.Index, r.Err)
			}
		}
		cliutil.PrintSuccess("%d/%d lines rendered into %s", len(results)-failed, len(results), args[1])
		return nil
	},
}

func init() {
	addVoiceFlags(synthesizeCmd)
	synthesizeCmd.Flags().StringVarP(&synthOutput, "output", "o", "", "output WAV path")
	addVoiceFlags(batchCmd)
}
