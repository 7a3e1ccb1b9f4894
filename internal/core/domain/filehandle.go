package domain

import "strings"

// compoundSuffixes are extensions kept together when splitting a basename.
var compoundSuffixes = []string{"tar.gz", "tar.bz2", "tar.xz", "tar.lz", "tar.zst", "tar.lzma", "tar.sig", "tar.gz.sig"}

// FileHandle identifies one input file for the duration of a run.
type FileHandle struct {
	// AbsPath is the absolute path as bytes from the OS.
	AbsPath string

	Basename string
	Prefix   string
	Suffix   string

	MIMEType string
	Size     int64

	// Hash is a hex digest of the leading content.
	Hash string
}

// Equal compares handles by content hash.
func (f *FileHandle) Equal(other *FileHandle) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.Hash == other.Hash
}

func (f *FileHandle) String() string {
	return f.AbsPath
}

// SplitBasename splits a basename into prefix and (compound) suffix.
// Leading dots belong to the prefix, so ".bashrc" has no suffix.
func SplitBasename(basename string) (prefix, suffix string) {
	lower := strings.ToLower(basename)
	for _, compound := range compoundSuffixes {
		if strings.HasSuffix(lower, "."+compound) && len(basename) > len(compound)+1 {
			cut := len(basename) - len(compound) - 1
			return basename[:cut], basename[cut+1:]
		}
	}

	trimmed := strings.TrimLeft(basename, ".")
	i := strings.LastIndex(trimmed, ".")
	if i <= 0 {
		return basename, ""
	}
	cut := len(basename) - len(trimmed) + i
	return basename[:cut], basename[cut+1:]
}
