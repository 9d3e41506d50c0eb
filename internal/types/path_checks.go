package types

import (
	"fmt"
	"os"
	"path/filepath"
)

func pathExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func checkReadable(p string) error {
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return fmt.Errorf("path is not a file")
	}
	f, err := os.Open(p)
	if err != nil {
		return fmt.Errorf("path could not be opened for reading")
	}
	return f.Close()
}

func checkWriteable(p string) error {
	parent := filepath.Dir(p)
	info, err := os.Stat(parent)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("parent directory does not exist and path must be writeable")
	}
	return nil
}
