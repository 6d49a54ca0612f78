package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

type jsonFile struct {
	Version  int                 `json:"version"`
	Settings Settings            `json:"settings"`
	Blobs    map[string]jsonBlob `json:"blobs"`
}

type jsonBlob struct {
	Version   int             `json:"version"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// JSONStore keeps every blob in a single JSON file. Writes go to a temporary
// file that is renamed over the original.
type JSONStore struct {
	mu   sync.Mutex
	path string
	file *jsonFile
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{path: configPath}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return s.read()
	}

	s.file = &jsonFile{
		Version:  1,
		Settings: DefaultSettings(),
		Blobs:    make(map[string]jsonBlob),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *JSONStore) read() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	file := &jsonFile{}
	if err := json.Unmarshal(data, file); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if file.Blobs == nil {
		file.Blobs = make(map[string]jsonBlob)
	}
	s.file = file
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) loaded() error {
	if s.file == nil {
		return ErrNotInitialized
	}
	return nil
}

func (s *JSONStore) GetSettings() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loaded(); err != nil {
		return Settings{}, err
	}
	return s.file.Settings, nil
}

func (s *JSONStore) SaveSettings(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loaded(); err != nil {
		return err
	}
	prev := s.file.Settings
	s.file.Settings = settings
	if err := s.save(); err != nil {
		s.file.Settings = prev
		return err
	}
	return nil
}

func (s *JSONStore) GetBlob(_ context.Context, name string) (Blob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loaded(); err != nil {
		return Blob{}, err
	}
	b, ok := s.file.Blobs[name]
	if !ok {
		return Blob{}, fmt.Errorf("blob %q: %w", name, ErrNotFound)
	}
	return Blob{Name: name, Version: b.Version, Data: append([]byte(nil), b.Data...), UpdatedAt: b.UpdatedAt}, nil
}

func (s *JSONStore) PutBlobs(_ context.Context, blobs ...Blob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loaded(); err != nil {
		return err
	}
	for _, b := range blobs {
		if !json.Valid(b.Data) {
			return fmt.Errorf("blob %q is not valid JSON", b.Name)
		}
	}

	prev := make(map[string]jsonBlob, len(s.file.Blobs))
	for k, v := range s.file.Blobs {
		prev[k] = v
	}
	now := time.Now().UTC()
	for _, b := range blobs {
		updated := b.UpdatedAt
		if updated.IsZero() {
			updated = now
		}
		s.file.Blobs[b.Name] = jsonBlob{Version: b.Version, Data: append(json.RawMessage(nil), b.Data...), UpdatedAt: updated}
	}
	if err := s.save(); err != nil {
		s.file.Blobs = prev
		return err
	}
	return nil
}

func (s *JSONStore) ListBlobs(_ context.Context) ([]Blob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loaded(); err != nil {
		return nil, err
	}
	out := make([]Blob, 0, len(s.file.Blobs))
	for name, b := range s.file.Blobs {
		out = append(out, Blob{Name: name, Version: b.Version, UpdatedAt: b.UpdatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *JSONStore) DeleteBlobs(_ context.Context, names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loaded(); err != nil {
		return err
	}
	prev := make(map[string]jsonBlob, len(s.file.Blobs))
	for k, v := range s.file.Blobs {
		prev[k] = v
	}
	for _, name := range names {
		delete(s.file.Blobs, name)
	}
	if err := s.save(); err != nil {
		s.file.Blobs = prev
		return err
	}
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
