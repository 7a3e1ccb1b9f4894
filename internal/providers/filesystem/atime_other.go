//go:build !linux && !darwin

package filesystem

import (
	"os"
	"time"
)

func accessTime(_ os.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
