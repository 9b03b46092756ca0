package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
)

// CheckExisting checks if any of the files init would create already exist in dir
// Returns an error if they do, nil otherwise
func CheckExisting(dir string) error {
	var existingFiles []string

	for _, t := range templates {
		if _, err := os.Stat(filepath.Join(dir, t.path)); err == nil {
			existingFiles = append(existingFiles, t.path)
		}
	}

	if len(existingFiles) > 0 {
		errMsg := "project already initialized\n\nFound existing"
		if len(existingFiles) == 1 {
			errMsg += fmt.Sprintf(": %s\n", existingFiles[0])
		} else {
			errMsg += " files:\n"
			for _, file := range existingFiles {
				errMsg += fmt.Sprintf("  - %s\n", file)
			}
		}
		errMsg += "\nUse 'allot init --force' to reinitialize (this will overwrite existing files)"

		return fmt.Errorf("%s", errMsg)
	}

	return nil
}
