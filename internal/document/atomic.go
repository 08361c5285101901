package document

import (
	"fmt"
	"os"
	"path/filepath"
)

// tempPrefix is the prefix used for temporary atomic write files.
const tempPrefix = ".vision-tmp-"

// writeFileAtomic writes data to a file by writing a temp file in the
// same directory and renaming it over the target. Readers never see a
// torn record, and a crash leaves either the old file or the new one.
func writeFileAtomic(filename string, data []byte) error {
	dir := filepath.Dir(filename)

	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", filename, err)
	}
	return nil
}
