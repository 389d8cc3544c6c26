package relocator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrTargetExists is returned by a move whose destination appeared after the
// name was resolved.
var ErrTargetExists = errors.New("target already exists")

// linkMove moves src to dst without replacing dst by hard-linking and then
// unlinking the source. Filesystems without hard links fall back to a
// checked rename, which leaves a small window between the check and the
// rename.
func linkMove(src, dst string) error {
	err := os.Link(src, dst)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrExist):
		return ErrTargetExists
	case errors.Is(err, fs.ErrNotExist):
		return err
	default:
		return checkedRename(src, dst)
	}

	if err := os.Remove(src); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("failed to unlink source: %w", err)
	}

	return nil
}

func checkedRename(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return ErrTargetExists
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return os.Rename(src, dst)
}
