// Package client manages business-client registrations and the voice
// profiles each client owns. State lives under one root directory: a
// clients.json catalog plus one directory per client holding its
// cloned voice profiles.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/clerviq/voiced/pkg/clone"
	"github.com/clerviq/voiced/pkg/voice"
)

// CatalogFile is the registry document under the manager root.
const CatalogFile = "clients.json"

var (
	// ErrExists is returned when a client ID is already registered.
	ErrExists = errors.New("client: already exists")
	// ErrNotFound is returned for operations on unknown clients.
	ErrNotFound = errors.New("client: not found")
)

// Client is one registered business client.
type Client struct {
	ID        string        `json:"client_id"`
	Name      string        `json:"name"`
	Company   string        `json:"company"`
	CreatedAt time.Time     `json:"created_at"`
	Voices    []VoiceRecord `json:"voices"`
}

// VoiceRecord is a catalog entry pointing at a voice profile directory.
type VoiceRecord struct {
	Name        string    `json:"name"`
	Dir         string    `json:"dir"` // relative to the manager root
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
}

type catalog struct {
	Clients []Client `json:"clients"`
}

// Manager owns the catalog and the per-client profile directories.
// Safe for concurrent use: catalog writers hold an exclusive
// read-modify-write section, reads and cloning I/O run concurrently.
type Manager struct {
	root   string
	cloner *clone.Engine

	mu sync.Mutex // guards catalog read-modify-write
}

// NewManager opens (creating if needed) the client store rooted at dir.
func NewManager(dir string, cloner *clone.Engine) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("client: create root %s: %w", dir, err)
	}
	return &Manager{root: dir, cloner: cloner}, nil
}

// AddClient registers a new client and creates its directory. An
// already-registered ID is a hard error, never a silent overwrite.
func (m *Manager) AddClient(id, name, company string) (*Client, error) {
	if id == "" || name == "" {
		return nil, fmt.Errorf("%w: client id and name required", voice.ErrInvalid)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cat, err := m.loadCatalog()
	if err != nil {
		return nil, err
	}
	for _, c := range cat.Clients {
		if c.ID == id {
			return nil, fmt.Errorf("%w: %s", ErrExists, id)
		}
	}
	if err := os.MkdirAll(m.clientDir(id), 0o755); err != nil {
		return nil, fmt.Errorf("client: create dir for %s: %w", id, err)
	}

	c := Client{ID: id, Name: name, Company: company, CreatedAt: time.Now().UTC()}
	cat.Clients = append(cat.Clients, c)
	if err := m.saveCatalog(cat); err != nil {
		return nil, err
	}
	slog.Info("client: registered", "client", id, "company", company)
	return &c, nil
}

// UploadVoice clones a voice from audioPath into the client's
// directory and records it in the catalog. An unknown client fails
// before any artifact is written. A catalog-write failure after a
// successful clone is logged, not fatal: the profile directory stays
// on disk and ScanVoices recovers it.
func (m *Manager) UploadVoice(ctx context.Context, clientID, voiceName, audioPath string, gender voice.Gender, accent voice.Accent) (*voice.Config, error) {
	if _, err := m.GetClient(clientID); err != nil {
		return nil, err
	}

	cfg, err := m.cloner.CloneFromFile(ctx, audioPath, voiceName, gender, accent, m.clientDir(clientID))
	if err != nil {
		return nil, err
	}

	rec := VoiceRecord{
		Name:        cfg.Name,
		Dir:         filepath.Join(clientID, filepath.Base(filepath.Dir(cfg.VoiceSamplePath))),
		Fingerprint: cfg.Fingerprint,
		CreatedAt:   time.Now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cat, err := m.loadCatalog()
	if err == nil {
		for i := range cat.Clients {
			if cat.Clients[i].ID == clientID {
				cat.Clients[i].Voices = append(cat.Clients[i].Voices, rec)
				break
			}
		}
		err = m.saveCatalog(cat)
	}
	if err != nil {
		slog.Warn("client: voice cloned but catalog update failed, directory scan will recover it",
			"client", clientID, "voice", voiceName, "err", err)
	}
	return cfg, nil
}

// GetClient returns the catalog entry for one client.
func (m *Manager) GetClient(id string) (*Client, error) {
	m.mu.Lock()
	cat, err := m.loadCatalog()
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for i := range cat.Clients {
		if cat.Clients[i].ID == id {
			return &cat.Clients[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// GetClientVoices loads all voice profiles a client owns. Unknown
// clients fail with not-found; a known client with no voices returns
// an empty slice. Profiles on disk but missing from the catalog are
// included via directory scan.
func (m *Manager) GetClientVoices(clientID string) ([]*voice.Config, error) {
	c, err := m.GetClient(clientID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	configs := make([]*voice.Config, 0, len(c.Voices))
	for _, rec := range c.Voices {
		dir := filepath.Join(m.root, rec.Dir)
		cfg, err := clone.LoadVoice(dir)
		if err != nil {
			slog.Warn("client: cataloged voice unreadable", "client", clientID, "dir", rec.Dir, "err", err)
			continue
		}
		seen[filepath.Base(rec.Dir)] = true
		configs = append(configs, cfg)
	}
	for _, cfg := range m.ScanVoices(clientID) {
		name := filepath.Base(filepath.Dir(cfg.VoiceSamplePath))
		if !seen[name] {
			configs = append(configs, cfg)
		}
	}
	return configs, nil
}

// ScanVoices discovers voice profiles by walking the client's
// directory, independent of the catalog. Used for recovery when the
// catalog is stale or lost.
func (m *Manager) ScanVoices(clientID string) []*voice.Config {
	entries, err := os.ReadDir(m.clientDir(clientID))
	if err != nil {
		return nil
	}
	var configs []*voice.Config
	for _, ent := range entries {
		if !ent.IsDir() {
			continue
		}
		cfg, err := clone.LoadVoice(filepath.Join(m.clientDir(clientID), ent.Name()))
		if err != nil {
			continue
		}
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs
}

// ListClients returns all clients in registration order.
func (m *Manager) ListClients() ([]Client, error) {
	m.mu.Lock()
	cat, err := m.loadCatalog()
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return cat.Clients, nil
}

func (m *Manager) clientDir(id string) string {
	return filepath.Join(m.root, id)
}

// loadCatalog reads clients.json; a missing file is an empty catalog.
func (m *Manager) loadCatalog() (*catalog, error) {
	data, err := os.ReadFile(filepath.Join(m.root, CatalogFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &catalog{}, nil
		}
		return nil, fmt.Errorf("client: read catalog: %w", err)
	}
	var cat catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("client: parse catalog: %w", err)
	}
	return &cat, nil
}

// saveCatalog writes clients.json atomically.
func (m *Manager) saveCatalog(cat *catalog) error {
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("client: encode catalog: %w", err)
	}
	path := filepath.Join(m.root, CatalogFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("client: write catalog: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("client: replace catalog: %w", err)
	}
	return nil
}
