package update

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// BackupSuffix is appended to a target path to form its backup path.
// At most one live backup exists per file; its presence signals that the
// file's last write attempt may be incomplete.
const BackupSuffix = ".release-backup"

// BackupPath returns the sibling backup path for a target file.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// writeBackup copies the target's current bytes to its backup path,
// preserving the file mode.
func writeBackup(path string, content []byte, mode fs.FileMode) (string, error) {
	backup := BackupPath(path)
	if err := os.WriteFile(backup, content, mode.Perm()); err != nil {
		return "", fmt.Errorf("create backup for %s: %w", path, err)
	}
	return backup, nil
}

// RestoreBackup restores a file from its backup and removes the backup.
// Returns false without error when no backup exists.
func RestoreBackup(path string) (bool, error) {
	backup := BackupPath(path)
	content, err := os.ReadFile(backup)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read backup %s: %w", backup, err)
	}

	mode := fs.FileMode(0644)
	if info, err := os.Stat(backup); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, content, mode.Perm()); err != nil {
		return false, fmt.Errorf("restore %s: %w", path, err)
	}
	if err := os.Remove(backup); err != nil {
		return true, fmt.Errorf("remove backup %s: %w", backup, err)
	}
	return true, nil
}

// removeBackup discards a backup after a successful write.
func removeBackup(path string) {
	os.Remove(BackupPath(path))
}
