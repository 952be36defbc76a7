//go:build !windows

package learning

import (
	"fmt"
	"os"
	"strconv"
	"syscall"
)

// fileLock is an advisory flock on a document's companion lock file.
// It serializes the read-modify-write across cooperating processes so
// two concurrent integrations cannot lose each other's append.
type fileLock struct {
	file *os.File
}

// acquireLock takes an exclusive blocking flock for the given document.
// The lock file lives next to the document as "<name>.lock".
func acquireLock(documentPath string) (*fileLock, error) {
	path := documentPath + ".lock"

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}

	// Record the holder for operator diagnosis; best effort.
	_ = file.Truncate(0)
	_, _ = file.Seek(0, 0)
	_, _ = file.WriteString(strconv.Itoa(os.Getpid()))

	return &fileLock{file: file}, nil
}

// release drops the flock. The lock file is deliberately left in place:
// unlinking it would let a waiter blocked on the old inode and a fresh
// acquirer on a recreated file hold the lock at the same time.
func (l *fileLock) release() {
	if l == nil || l.file == nil {
		return
	}
	_ = syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	_ = l.file.Close()
}
