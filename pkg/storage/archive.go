package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/clerviq/voiced/pkg/voice"
)

// profileFiles is the fixed artifact set of one voice profile.
var profileFiles = []string{voice.ConfigFile, voice.EmbeddingFile, voice.SampleFile}

// ErrIncompleteProfile is returned when a restore source is missing a
// required artifact.
var ErrIncompleteProfile = errors.New("storage: incomplete voice profile")

// ArchiveVoice copies a voice profile directory into the store under
// remotePrefix. The config document is written last, so a profile that
// exists remotely with its config is complete.
func ArchiveVoice(ctx context.Context, store FileStore, voiceDir, remotePrefix string) error {
	ordered := []string{voice.SampleFile, voice.EmbeddingFile, voice.ConfigFile}
	for _, name := range ordered {
		if err := copyIn(ctx, store, filepath.Join(voiceDir, name), remotePrefix+"/"+name); err != nil {
			return fmt.Errorf("storage: archive %s: %w", name, err)
		}
	}
	return nil
}

// RestoreVoice copies an archived voice profile from the store into
// voiceDir. It verifies all artifacts exist remotely before writing
// anything locally.
func RestoreVoice(ctx context.Context, store FileStore, remotePrefix, voiceDir string) error {
	for _, name := range profileFiles {
		ok, err := store.Exists(ctx, remotePrefix+"/"+name)
		if err != nil {
			return fmt.Errorf("storage: check %s: %w", name, err)
		}
		if !ok {
			return fmt.Errorf("%w: missing %s under %s", ErrIncompleteProfile, name, remotePrefix)
		}
	}
	if err := os.MkdirAll(voiceDir, 0o755); err != nil {
		return fmt.Errorf("storage: create %s: %w", voiceDir, err)
	}
	for _, name := range profileFiles {
		if err := copyOut(ctx, store, remotePrefix+"/"+name, filepath.Join(voiceDir, name)); err != nil {
			return fmt.Errorf("storage: restore %s: %w", name, err)
		}
	}
	return nil
}

// RemoveVoice deletes an archived profile from the store. The config
// document goes first, so an interrupted removal leaves a remainder
// that RestoreVoice already treats as incomplete.
func RemoveVoice(ctx context.Context, store FileStore, remotePrefix string) error {
	ordered := []string{voice.ConfigFile, voice.EmbeddingFile, voice.SampleFile}
	for _, name := range ordered {
		if err := store.Delete(ctx, remotePrefix+"/"+name); err != nil {
			return fmt.Errorf("storage: remove %s: %w", name, err)
		}
	}
	return nil
}

func copyIn(ctx context.Context, store FileStore, localPath, remotePath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := store.Write(ctx, remotePath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

func copyOut(ctx context.Context, store FileStore, remotePath, localPath string) error {
	src, err := store.Read(ctx, remotePath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(localPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
