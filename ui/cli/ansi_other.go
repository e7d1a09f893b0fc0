//go:build !windows

package cli

import "os"

// EnableANSI is a no-op outside Windows; terminals speak ANSI already.
func EnableANSI(_ *os.File) bool {
	return true
}
