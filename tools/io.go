package tools

import (
	"os"
)

// ReadTextFile returns the content of path when it names a regular file.
// ok is false when there is no such file, err reports a file that exists but cannot be read.
func ReadTextFile(path string) (content string, ok bool, err error) {
	info, statErr := os.Stat(path)
	if statErr != nil || info.IsDir() {
		return "", false, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", true, err
	}
	return string(raw), true, nil
}

// IsDirectory reports whether path names an existing folder
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
