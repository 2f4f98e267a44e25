//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package source

import "os"

func readable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
