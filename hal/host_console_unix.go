//go:build !tinygo && (linux || darwin || freebsd || netbsd || openbsd)

package hal

import (
	"os"

	"golang.org/x/sys/unix"
)

func readable(f *os.File) readableFunc {
	fd := int(f.Fd())
	return func() int {
		n, err := unix.IoctlGetInt(fd, unix.TIOCINQ)
		if err != nil || n < 0 {
			return 0
		}
		return n
	}
}
