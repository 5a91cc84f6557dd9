// Package savestate persists machine snapshots next to the ROM file.
package savestate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
)

// Extension is appended to the ROM path to name the state file.
const Extension = ".state"

// ErrNoState is returned when no state file exists for the ROM.
var ErrNoState = errors.New("no saved state found")

// Store reads and writes the state file of one ROM.
type Store struct {
	fs   afero.Fs
	path string
}

// New returns a store for the state file of the given ROM path.
func New(fs afero.Fs, romPath string) *Store {
	return &Store{
		fs:   fs,
		path: PathFor(romPath),
	}
}

// PathFor returns the state file path of a ROM.
func PathFor(romPath string) string {
	return romPath + Extension
}

// Path returns the path of the state file.
func (s *Store) Path() string {
	return s.path
}

// Exists returns whether a state file exists.
func (s *Store) Exists() bool {
	ok, err := afero.Exists(s.fs, s.path)
	return err == nil && ok
}

// Save compresses the snapshot and writes it to the state file. The data is
// written to a temporary file first and renamed, a failed save keeps the
// previous state file intact.
func (s *Store) Save(snapshot []byte) error {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("creating compressor: %w", err)
	}
	compressed := enc.EncodeAll(snapshot, nil)
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing compressor: %w", err)
	}

	dir, name := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := afero.TempFile(s.fs, dir, name+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(compressed); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("writing temporary file %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("closing temporary file %s: %w", tmpName, err)
	}

	if err := s.fs.Rename(tmpName, s.path); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("renaming %s to %s: %w", tmpName, s.path, err)
	}
	return nil
}

// Load reads and decompresses the state file. It returns ErrNoState if the
// file does not exist.
func (s *Store) Load() ([]byte, error) {
	compressed, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoState, s.path)
		}
		return nil, fmt.Errorf("reading state file %s: %w", s.path, err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating decompressor: %w", err)
	}
	defer dec.Close()

	snapshot, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing state file %s: %w", s.path, err)
	}
	return snapshot, nil
}
