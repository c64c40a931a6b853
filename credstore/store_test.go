package credstore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var sample = Record{
	Credential: "header.payload.sig",
	Attributes: Attributes{Role: "teacher", ID: "42", ProfilePicture: "avatars/42.png"},
}

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), "default", zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"file":   func(t *testing.T) Store { return newFileStore(t) },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			t.Run("empty store is absent", func(t *testing.T) {
				_, ok := newStore(t).Get()
				assert.False(t, ok)
			})

			t.Run("put then get returns every slot", func(t *testing.T) {
				s := newStore(t)
				s.Put(sample)

				got, ok := s.Get()
				require.True(t, ok)
				assert.Equal(t, sample, got)
			})

			t.Run("put replaces all attributes", func(t *testing.T) {
				s := newStore(t)
				s.Put(sample)
				s.Put(Record{Credential: "other", Attributes: Attributes{Role: "student", ID: "7"}})

				got, ok := s.Get()
				require.True(t, ok)
				assert.Equal(t, "other", got.Credential)
				assert.Equal(t, "student", got.Attributes.Role)
				assert.Equal(t, "7", got.Attributes.ID)
				assert.Empty(t, got.Attributes.ProfilePicture)
			})

			t.Run("clear removes everything and is idempotent", func(t *testing.T) {
				s := newStore(t)
				s.Put(sample)
				s.Clear()
				s.Clear()

				_, ok := s.Get()
				assert.False(t, ok)
			})
		})
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFileStore(dir, "work", zap.NewNop())
	require.NoError(t, err)
	first.Put(sample)

	second, err := NewFileStore(dir, "work", zap.NewNop())
	require.NoError(t, err)
	got, ok := second.Get()
	require.True(t, ok)
	assert.Equal(t, sample, got)

	other, err := NewFileStore(dir, "home", zap.NewNop())
	require.NoError(t, err)
	_, ok = other.Get()
	assert.False(t, ok, "profiles must not share slots")
}

func TestFileStore_FilePermissions(t *testing.T) {
	s := newFileStore(t)
	s.Put(sample)

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_CorruptFileIsAbsent(t *testing.T) {
	s := newFileStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o600))

	_, ok := s.Get()
	assert.False(t, ok)
}

func TestFileStore_InvalidProfile(t *testing.T) {
	for _, profile := range []string{"", "../escape", "a/b", "with space"} {
		_, err := NewFileStore(t.TempDir(), profile, zap.NewNop())
		assert.ErrorIs(t, err, ErrInvalidProfile, profile)
	}
}

func TestRecordFromSlots(t *testing.T) {
	rec, ok := RecordFromSlots(sample.Slots())
	require.True(t, ok)
	assert.Equal(t, sample, rec)

	_, ok = RecordFromSlots(map[string]string{SlotRole: "admin", SlotID: "1"})
	assert.False(t, ok, "attributes without a credential are not a record")

	_, ok = RecordFromSlots(nil)
	assert.False(t, ok)

	assert.Len(t, sample.Slots(), 4)
}
