package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"go.uber.org/zap"
)

var profileNameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ErrInvalidProfile is returned when a profile name cannot be used as a file name
var ErrInvalidProfile = errors.New("invalid profile name")

// FileStore keeps one profile's slots in a JSON document on disk. Writes go
// through a temporary file and a rename so readers observe either the old
// slots or the new ones, never a mix.
type FileStore struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewFileStore creates a FileStore for profile under dir.
func NewFileStore(dir, profile string, logger *zap.Logger) (*FileStore, error) {
	if !profileNameRegex.MatchString(profile) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProfile, profile)
	}

	profilesDir := filepath.Join(dir, "profiles")
	if err := os.MkdirAll(profilesDir, 0o700); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}

	return &FileStore{
		path:   filepath.Join(profilesDir, profile+".json"),
		logger: logger.With(zap.String("profile", profile)),
	}, nil
}

// Path returns the file backing the store
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(rec.Slots())
	if err != nil {
		s.logger.Error("encode credential slots", zap.Error(err))
		return
	}

	if err := s.writeAtomic(data); err != nil {
		s.logger.Error("write credential slots", zap.String("path", s.path), zap.Error(err))
		// A half-written profile must not survive next to a stale credential.
		s.removeLocked()
	}
}

func (s *FileStore) Get() (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("read credential slots", zap.String("path", s.path), zap.Error(err))
		}
		return Record{}, false
	}

	var slots map[string]string
	if err := json.Unmarshal(data, &slots); err != nil {
		s.logger.Warn("decode credential slots", zap.String("path", s.path), zap.Error(err))
		return Record{}, false
	}

	return RecordFromSlots(slots)
}

func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked()
}

func (s *FileStore) removeLocked() {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Error("remove credential slots", zap.String("path", s.path), zap.Error(err))
	}
}

func (s *FileStore) writeAtomic(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".slots-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}
