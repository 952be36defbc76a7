//go:build !windows

package learning

import (
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireLockWritesPID(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "AGENTS.md")

	lock, err := acquireLock(doc)
	require.NoError(t, err)
	defer lock.release()

	raw, err := os.ReadFile(doc + ".lock")
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(raw))
}

func TestReleaseKeepsLockFile(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "AGENTS.md")

	lock, err := acquireLock(doc)
	require.NoError(t, err)

	before, err := os.Stat(doc + ".lock")
	require.NoError(t, err)

	lock.release()

	// The file must survive release. If it were unlinked, a waiter
	// holding an fd to the old inode and a later acquirer on a
	// recreated file would both enter the critical section.
	after, err := os.Stat(doc + ".lock")
	require.NoError(t, err)
	assert.True(t, os.SameFile(before, after))

	relock, err := acquireLock(doc)
	require.NoError(t, err)
	relock.release()

	again, err := os.Stat(doc + ".lock")
	require.NoError(t, err)
	assert.True(t, os.SameFile(before, again), "reacquire must reuse the same inode")
}

func TestLockExcludesSecondHolderUntilRelease(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "AGENTS.md")

	lock, err := acquireLock(doc)
	require.NoError(t, err)

	other, err := os.OpenFile(doc+".lock", os.O_RDWR, 0644)
	require.NoError(t, err)
	defer other.Close()

	err = syscall.Flock(int(other.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	assert.ErrorIs(t, err, syscall.EWOULDBLOCK)

	lock.release()

	// The fd opened while the lock was held wins it after release,
	// on the same inode every future acquirer contends on.
	require.NoError(t, syscall.Flock(int(other.Fd()), syscall.LOCK_EX|syscall.LOCK_NB))
}

func TestReleaseNilLock(t *testing.T) {
	var lock *fileLock
	lock.release() // must not panic
}
