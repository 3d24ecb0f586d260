//go:build unix

package source

import (
	"fmt"
	"io"
	"os"
	"syscall"
)

func openStdin() (io.ReadCloser, error) {
	return dupPollable(os.Stdin)
}

// dupPollable duplicates f in non-blocking mode so the runtime poller owns
// reads and Close unblocks a pending Read. f itself is left open.
func dupPollable(f *os.File) (*os.File, error) {
	fd, err := syscall.Dup(int(f.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to duplicate %s: %w", f.Name(), err)
	}
	if err := syscall.SetNonblock(fd, true); err != nil {
		_ = syscall.Close(fd)
		return nil, fmt.Errorf("failed to set %s non-blocking: %w", f.Name(), err)
	}
	return os.NewFile(uintptr(fd), f.Name()), nil
}
