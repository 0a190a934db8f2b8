package commands

import (
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/clerviq/voiced/pkg/cliutil"
	"github.com/clerviq/voiced/pkg/clone"
	"github.com/clerviq/voiced/pkg/storage"
	"github.com/clerviq/voiced/pkg/voice"
)

var voiceCmd = &cobra.Command{
	Use:   "voice",
	Short: "Inspect presets, archive and restore profiles",
}

var voicePresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in preset voices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := [][]string{{"PRESET", "GENDER", "ACCENT", "PITCH", "SPEED", "ENERGY"}}
		for _, name := range voice.PresetNames() {
			p, err := voice.ParsePreset(name)
			if err != nil {
				return err
			}
			rows = append(rows, []string{
				name, string(p.Gender), string(p.Accent),
				strconv.FormatFloat(p.PitchShift, 'f', 1, 64),
				strconv.FormatFloat(p.Speed, 'f', 2, 64),
				strconv.FormatFloat(p.Energy, 'f', 2, 64),
			})
		}
		return cliutil.Table(cmd.OutOrStdout(), rows)
	},
}

var voiceShowCmd = &cobra.Command{
	Use:   "show <voice-dir>",
	Short: "Show a cloned voice profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := clone.LoadVoice(args[0])
		if err != nil {
			return err
		}
		return cliutil.Output(cmd.OutOrStdout(), cfg, outputFormat())
	},
}

// archiveStore builds the S3-backed store from the configured archive
// settings.
func archiveStore(cmd *cobra.Command) (storage.FileStore, error) {
	arc := globalConfig.Archive
	if arc.Bucket == "" {
		return nil, fmt.Errorf("no archive bucket configured (set archive.bucket in %s)", globalConfig.Path())
	}
	awsCfg, err := config.LoadDefaultConfig(cmd.Context(), config.WithRegion(arc.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return storage.NewS3(s3.NewFromConfig(awsCfg), arc.Bucket, arc.Prefix), nil
}

var voiceArchiveCmd = &cobra.Command{
	Use:   "archive <voice-dir> <remote-name>",
	Short: "Copy a voice profile to the archive bucket",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := archiveStore(cmd)
		if err != nil {
			return err
		}
		if err := storage.ArchiveVoice(cmd.Context(), store, args[0], args[1]); err != nil {
			return err
		}
		cliutil.PrintSuccess("archived %s as %s", args[0], args[1])
		return nil
	},
}

var voiceRestoreCmd = &cobra.Command{
	Use:   "restore <remote-name> <voice-dir>",
	Short: "Restore a voice profile from the archive bucket",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := archiveStore(cmd)
		if err != nil {
			return err
		}
		if err := storage.RestoreVoice(cmd.Context(), store, args[0], args[1]); err != nil {
			return err
		}
		// Verify the restored profile loads.
		cfg, err := clone.LoadVoice(args[1])
		if err != nil {
			return fmt.Errorf("restored profile unreadable: %w", err)
		}
		cliutil.PrintSuccess("restored voice %q to %s", cfg.Name, args[1])
		return nil
	},
}

var voiceRemoveCmd = &cobra.Command{
	Use:   "remove <remote-name>",
	Short: "Delete a voice profile from the archive bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := archiveStore(cmd)
		if err != nil {
			return err
		}
		if err := storage.RemoveVoice(cmd.Context(), store, args[0]); err != nil {
			return err
		}
		cliutil.PrintSuccess("removed archived voice %s", args[0])
		return nil
	},
}

func init() {
	voiceCmd.AddCommand(voicePresetsCmd)
	voiceCmd.AddCommand(voiceShowCmd)
	voiceCmd.AddCommand(voiceArchiveCmd)
	voiceCmd.AddCommand(voiceRestoreCmd)
	voiceCmd.AddCommand(voiceRemoveCmd)
}
