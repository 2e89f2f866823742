//go:build !tinygo && !(linux || darwin || freebsd || netbsd || openbsd)

package hal

import "os"

// Without FIONREAD the console reports input as always available; a read
// then blocks until a key arrives.
func readable(*os.File) readableFunc {
	return func() int { return 1 }
}
