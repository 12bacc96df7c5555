package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// StagedFile is content written to a temp file next to its target,
// waiting to be renamed into place
type StagedFile struct {
	fs   afero.Fs
	tmp  string
	Path string
}

// StageFile writes data to a temp file in the directory of path, creating
// directories as needed. Nothing at path changes until Commit.
func StageFile(fs afero.Fs, path string, data []byte, perm os.FileMode) (*StagedFile, error) {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, err
	}
	staged := &StagedFile{fs: fs, tmp: tmp.Name(), Path: path}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		staged.Discard()
		return nil, err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		staged.Discard()
		return nil, err
	}

	if err := tmp.Close(); err != nil {
		staged.Discard()
		return nil, err
	}

	if err := fs.Chmod(staged.tmp, perm); err != nil {
		staged.Discard()
		return nil, err
	}

	return staged, nil
}

// Commit renames the temp file over the target
func (s *StagedFile) Commit() error {
	if err := s.fs.Rename(s.tmp, s.Path); err != nil {
		s.Discard()
		return fmt.Errorf("failed to move %s into place: %w", s.Path, err)
	}
	return nil
}

// Discard removes the temp file
func (s *StagedFile) Discard() {
	s.fs.Remove(s.tmp)
}

// WriteFileAtomic writes data to path through a temp file. An existing
// file is replaced.
func WriteFileAtomic(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	staged, err := StageFile(fs, path, data, perm)
	if err != nil {
		return err
	}
	return staged.Commit()
}
