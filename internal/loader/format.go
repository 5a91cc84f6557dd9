package loader

import (
	"path/filepath"
	"slices"
	"strings"
)

// Format is the container format of a ROM file.
type Format string

// Supported formats.
const (
	Raw      Format = "raw"
	Zip      Format = "zip"
	SevenZip Format = "7z"
	Rar      Format = "rar"
	Gzip     Format = "gzip"
	Xz       Format = "xz"
	Lz4      Format = "lz4"
)

// romExtensions are the file extensions of plain CHIP-8 programs.
var romExtensions = []string{".ch8", ".c8", ".chip8", ".rom", ".bin"}

// DetectFormat determines the container format based on the file extension.
// Unknown extensions are read as raw program data.
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".zip":
		return Zip
	case ".7z":
		return SevenZip
	case ".rar":
		return Rar
	case ".gz", ".gzip":
		return Gzip
	case ".xz":
		return Xz
	case ".lz4":
		return Lz4
	default:
		return Raw
	}
}

// IsROMName returns whether the file name has a CHIP-8 program extension.
func IsROMName(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return slices.Contains(romExtensions, ext)
}

// trimExtension removes the compression extension of a single stream file,
// "pong.ch8.gz" becomes "pong.ch8".
func trimExtension(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
