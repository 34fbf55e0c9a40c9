package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TempFilePrefix marks files an Outbox is still writing. The inbox never
// delivers them.
const TempFilePrefix = ".xitem-tmp-"

// writeFileAtomic publishes data at filename in one rename, so a watching
// inbox sees either nothing or the complete file. The temp file lives in the
// target directory; a rename across devices would not be atomic.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", filename, err)
	}
	published := false
	defer func() {
		if !published {
			_ = os.Remove(tmp.Name())
		}
	}()

	_, werr := tmp.Write(data)
	if werr == nil {
		werr = tmp.Sync()
	}
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Chmod(tmp.Name(), perm)
	}
	if werr != nil {
		return fmt.Errorf("failed to stage %s: %w", filename, werr)
	}

	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to publish %s: %w", filename, err)
	}
	published = true

	syncDir(dir)
	return nil
}

// syncDir flushes the directory entry of a freshly renamed file. It is best
// effort: some platforms cannot sync directories.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

func isTempFile(name string) bool {
	return strings.HasPrefix(filepath.Base(name), TempFilePrefix)
}
