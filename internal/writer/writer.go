package writer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/buzunser/otagen/internal/models"
	"github.com/buzunser/otagen/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// OutputPath returns where the record for device is written:
// <dir>/<device>.json, or <dir>/<device>_pre.json for a pre-release.
func OutputPath(dir, device string, pre bool) string {
	name := device + ".json"
	if pre {
		name = device + "_pre.json"
	}
	return filepath.Join(dir, name)
}

// Marshal encodes a record as JSON indented with four spaces. Non-ASCII
// characters are written as \u escapes, as the update-check service has
// always received them.
func Marshal(record *models.DeviceRecord) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(record); err != nil {
		return nil, err
	}

	return escapeNonASCII(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// escapeNonASCII rewrites every rune above U+007E as \uXXXX, using
// surrogate pairs outside the BMP. In encoded JSON such runes only
// occur inside strings.
func escapeNonASCII(data []byte) []byte {
	out := make([]byte, 0, len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]

		if r < utf8.RuneSelf && r != 0x7f {
			out = append(out, byte(r))
			continue
		}

		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			out = appendUnicodeEscape(out, r1)
			out = appendUnicodeEscape(out, r2)
			continue
		}
		out = appendUnicodeEscape(out, r)
	}

	return out
}

func appendUnicodeEscape(out []byte, r rune) []byte {
	hex := strconv.FormatInt(int64(r), 16)
	out = append(out, `\u`...)
	for i := len(hex); i < 4; i++ {
		out = append(out, '0')
	}
	return append(out, hex...)
}

// File is one output of a run
type File struct {
	Path string
	Data []byte
}

// Writer persists device records
type Writer struct {
	fs afero.Fs
}

// New creates a writer on fs
func New(fs afero.Fs) *Writer {
	return &Writer{fs: fs}
}

// Write serializes record to path, replacing any existing file
func (w *Writer) Write(record *models.DeviceRecord, path string) error {
	data, err := Marshal(record)
	if err != nil {
		return models.NewError(models.ErrFileOp, path, fmt.Errorf("failed to encode record: %w", err))
	}

	return w.WriteFiles(File{Path: path, Data: data})
}

// WriteFiles stages every file before renaming any of them into place, so
// a failed write leaves all targets untouched
func (w *Writer) WriteFiles(files ...File) error {
	staged := make([]*utils.StagedFile, 0, len(files))
	discard := func() {
		for _, s := range staged {
			s.Discard()
		}
	}

	for _, f := range files {
		s, err := utils.StageFile(w.fs, f.Path, f.Data, 0644)
		if err != nil {
			discard()
			return models.NewError(models.ErrFileOp, f.Path, fmt.Errorf("failed to write file: %w", err))
		}
		staged = append(staged, s)
	}

	for i, s := range staged {
		if err := s.Commit(); err != nil {
			staged = staged[i+1:]
			discard()
			return models.NewError(models.ErrFileOp, s.Path, err)
		}
		logrus.Debugf("Wrote %s (%d bytes)", s.Path, len(files[i].Data))
	}

	return nil
}

// RemoveStale deletes path if it exists and reports whether it did
func (w *Writer) RemoveStale(path string) (bool, error) {
	err := w.fs.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, models.NewError(models.ErrFileOp, path, fmt.Errorf("failed to remove stale file: %w", err))
	}
	return true, nil
}
