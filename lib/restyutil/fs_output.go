package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FilesystemOutput writes each message to its own file under a directory.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput creates `dir` when it is missing. an existing
// directory must be empty, nothing in it is ever removed.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		err = os.MkdirAll(dir, 0777)
		if err != nil {
			return FilesystemOutput{}, err
		}
		return FilesystemOutput{directory: dir}, nil
	}
	if err != nil {
		return FilesystemOutput{}, err
	}
	if len(entries) > 0 {
		return FilesystemOutput{}, fmt.Errorf("dump directory %s is not empty", dir)
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}
