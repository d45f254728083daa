// Package mover materializes decisions on disk: each classified
// document lands under <destination>/<category>/. It is the only
// component that mutates the filesystem beyond report output.
package mover

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mpetrenko/docsort/internal/model"
)

// Mover places files according to their Decision
type Mover struct {
	destRoot string
	move     bool // move instead of copy
	dryRun   bool
}

// NewMover creates a mover rooted at destRoot
func NewMover(destRoot string, move, dryRun bool) *Mover {
	return &Mover{
		destRoot: destRoot,
		move:     move,
		dryRun:   dryRun,
	}
}

// Materialize places the decision's source file and returns the
// destination path. Failed documents are left in place: moving a file
// whose content was never read would misfile it with zero evidence.
func (m *Mover) Materialize(d *model.Decision) (string, error) {
	if d.Failed() {
		return "", nil
	}

	dir := filepath.Join(m.destRoot, sanitizeDirName(d.Category))
	target := uniquePath(dir, filepath.Base(d.Source))

	if m.dryRun {
		return target, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	if m.move {
		if err := moveFile(d.Source, target); err != nil {
			return "", fmt.Errorf("move %s: %w", d.Source, err)
		}
	} else {
		if err := copyFile(d.Source, target); err != nil {
			return "", fmt.Errorf("copy %s: %w", d.Source, err)
		}
	}

	return target, nil
}

// uniquePath returns dir/name, suffixing a counter on collision
// (report.pdf, report_1.pdf, report_2.pdf, ...)
func uniquePath(dir, name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(dir, name)
	for i := 1; ; i++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
	}
}

// sanitizeDirName strips path separators from category names so a
// category like "3.2.P.8 Stability" maps to a single directory level.
func sanitizeDirName(name string) string {
	name = strings.ReplaceAll(name, string(os.PathSeparator), "-")
	name = strings.ReplaceAll(name, "/", "-")
	return strings.TrimSpace(name)
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

// moveFile renames when possible and falls back to copy+remove across
// filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}
