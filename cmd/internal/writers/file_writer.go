package writers

import (
	"errors"
	"github.com/google/uuid"
	"os"
	"path/filepath"
)

// FileWriter replaces a single file. Contents are written to a temporary file in the same
// directory and renamed over the destination, so a failed write leaves any existing file intact.
type FileWriter struct {
	dest string
	perm os.FileMode
}

func NewFileWriter(dest string, perm os.FileMode) *FileWriter {
	return &FileWriter{
		dest: dest,
		perm: perm,
	}
}

func (c FileWriter) Write(contents []byte) (funcErr error) {
	dir := filepath.Dir(c.dest)

	// create the directory
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	tmp := filepath.Join(dir, "."+filepath.Base(c.dest)+"."+uuid.New().String()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, c.perm)

	if err != nil {
		return err
	}

	renamed := false
	defer func() {
		if !renamed {
			if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
				funcErr = errors.Join(funcErr, err)
			}
		}
	}()

	if _, err := f.Write(contents); err != nil {
		return errors.Join(err, f.Close())
	}

	if err := f.Close(); err != nil {
		return err
	}

	// umask may have narrowed the mode of the new file
	if err := os.Chmod(tmp, c.perm); err != nil {
		return err
	}

	if err := os.Rename(tmp, c.dest); err != nil {
		return err
	}

	renamed = true
	return nil
}
