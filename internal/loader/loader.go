// Package loader handles ROM file loading operations.
package loader

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/gzip"
	"github.com/nwaples/rardecode/v2"
	"github.com/pierrec/lz4/v4"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"
)

// ErrNoROMInArchive is returned when an archive does not contain any file
// with a CHIP-8 program extension.
var ErrNoROMInArchive = errors.New("no ROM found in archive")

// maxArchiveSize limits the size of archive files that get read into memory.
const maxArchiveSize = 64 << 20

// ROM is a loaded program.
type ROM struct {
	Path   string // path of the loaded file
	Name   string // name of the program, the archive entry name for archives
	Format Format
	Data   []byte
}

// Loader handles loading ROM files from a filesystem.
type Loader struct {
	logger *log.Logger
	fs     afero.Fs
}

// New creates a new ROM loader reading from the given filesystem.
func New(logger *log.Logger, fs afero.Fs) *Loader {
	return &Loader{
		logger: logger,
		fs:     fs,
	}
}

// Load reads the ROM from the given path. Archives and compressed files are
// unpacked based on the file extension, the ROM size is validated against
// the available program memory.
func (l *Loader) Load(path string) (ROM, error) {
	info, err := l.fs.Stat(path)
	if err != nil {
		return ROM{}, fmt.Errorf("opening file %s: %w", path, err)
	}
	if info.IsDir() {
		return ROM{}, fmt.Errorf("opening file %s: is a directory", path)
	}
	if info.Size() > maxArchiveSize {
		return ROM{}, fmt.Errorf("file %s exceeds the maximum size of %d bytes", path, maxArchiveSize)
	}

	raw, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return ROM{}, fmt.Errorf("reading file %s: %w", path, err)
	}

	rom := ROM{
		Path:   path,
		Name:   filepath.Base(path),
		Format: DetectFormat(path),
	}

	switch rom.Format {
	case Zip:
		rom.Name, rom.Data, err = readZip(raw)
	case SevenZip:
		rom.Name, rom.Data, err = readSevenZip(raw)
	case Rar:
		rom.Name, rom.Data, err = readRar(raw)
	case Gzip:
		rom.Name = trimExtension(path)
		rom.Data, err = readGzip(raw)
	case Xz:
		rom.Name = trimExtension(path)
		rom.Data, err = readXz(raw)
	case Lz4:
		rom.Name = trimExtension(path)
		rom.Data, err = readLz4(raw)
	default:
		rom.Data = raw
	}
	if err != nil {
		return ROM{}, fmt.Errorf("unpacking %s file %s: %w", rom.Format, path, err)
	}

	if err := validate(rom.Data); err != nil {
		return ROM{}, fmt.Errorf("loading %s: %w", rom.Name, err)
	}

	l.logger.Debug("ROM file loaded",
		log.String("file", path),
		log.String("name", rom.Name),
		log.String("format", string(rom.Format)),
		log.Int("size", len(rom.Data)))
	return rom, nil
}

func validate(data []byte) error {
	if len(data) == 0 {
		return chip8.ErrEmptyROM
	}
	if len(data) > chip8.MaxROMSize {
		return fmt.Errorf("%w: %d bytes exceed the maximum of %d bytes", chip8.ErrROMTooLarge, len(data), chip8.MaxROMSize)
	}
	return nil
}

// readLimited reads at most one byte more than the largest ROM, enough for
// validate to detect an oversized ROM without unpacking all of it.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, chip8.MaxROMSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}
	return data, nil
}

func readZip(raw []byte) (string, []byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", nil, fmt.Errorf("opening archive: %w", err)
	}

	for _, file := range reader.File {
		if file.FileInfo().IsDir() || !IsROMName(file.Name) {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", nil, fmt.Errorf("opening archive entry %s: %w", file.Name, err)
		}
		data, err := readLimited(rc)
		_ = rc.Close()
		if err != nil {
			return "", nil, fmt.Errorf("archive entry %s: %w", file.Name, err)
		}
		return filepath.Base(file.Name), data, nil
	}
	return "", nil, ErrNoROMInArchive
}

func readSevenZip(raw []byte) (string, []byte, error) {
	reader, err := sevenzip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", nil, fmt.Errorf("opening archive: %w", err)
	}

	for _, file := range reader.File {
		if file.FileInfo().IsDir() || !IsROMName(file.Name) {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", nil, fmt.Errorf("opening archive entry %s: %w", file.Name, err)
		}
		data, err := readLimited(rc)
		_ = rc.Close()
		if err != nil {
			return "", nil, fmt.Errorf("archive entry %s: %w", file.Name, err)
		}
		return filepath.Base(file.Name), data, nil
	}
	return "", nil, ErrNoROMInArchive
}

func readRar(raw []byte) (string, []byte, error) {
	reader, err := rardecode.NewReader(bytes.NewReader(raw))
	if err != nil {
		return "", nil, fmt.Errorf("opening archive: %w", err)
	}

	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return "", nil, ErrNoROMInArchive
		}
		if err != nil {
			return "", nil, fmt.Errorf("reading archive: %w", err)
		}
		if header.IsDir || !IsROMName(header.Name) {
			continue
		}

		data, err := readLimited(reader)
		if err != nil {
			return "", nil, fmt.Errorf("archive entry %s: %w", header.Name, err)
		}
		return filepath.Base(header.Name), data, nil
	}
}

func readGzip(raw []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("opening stream: %w", err)
	}
	defer func() { _ = reader.Close() }()
	return readLimited(reader)
}

func readXz(raw []byte) ([]byte, error) {
	reader, err := xz.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("opening stream: %w", err)
	}
	return readLimited(reader)
}

func readLz4(raw []byte) ([]byte, error) {
	return readLimited(lz4.NewReader(bytes.NewReader(raw)))
}
