//go:build !unix

package source

import (
	"io"
	"os"
)

// openStdin cannot interrupt a blocked read here; shutdown waits for the next line or EOF.
func openStdin() (io.ReadCloser, error) {
	return io.NopCloser(os.Stdin), nil
}
