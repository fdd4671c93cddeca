package fileutils

import (
	"os"

	"github.com/olimci/create-creatif/pkg/utils/set"
)

// Entries returns the names of the direct children of dir.
func Entries(dir string) (*set.Set[string], error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := set.New[string]()
	for _, entry := range entries {
		names.Add(entry.Name())
	}

	return names, nil
}
