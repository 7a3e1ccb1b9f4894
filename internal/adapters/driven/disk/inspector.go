package disk

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// HashBytes is the length of the leading content hashed for identity.
const HashBytes = 512 * 1024

// sniffBytes is the amount of content http.DetectContentType considers.
const sniffBytes = 512

// EmptyMIMEType is reported for zero-length files.
const EmptyMIMEType = "inode/x-empty"

// DefaultIgnore lists basename globs skipped when descending directories.
var DefaultIgnore = []string{
	".DS_Store",
	"._*",
	".localized",
	"Thumbs.db",
	"desktop.ini",
	".git",
	".hg",
	".svn",
	"__MACOSX",
	"*.swp",
	"*~",
}

// extensionTypes takes precedence over the platform MIME table, whose
// answers vary between systems.
var extensionTypes = map[string]string{
	"pdf":      "application/pdf",
	"epub":     "application/epub+zip",
	"mobi":     "application/x-mobipocket-ebook",
	"azw3":     "application/vnd.amazon.mobi8-ebook",
	"djvu":     "image/vnd.djvu",
	"chm":      "application/octet-stream",
	"doc":      "application/msword",
	"docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"odt":      "application/vnd.oasis.opendocument.text",
	"rtf":      "text/rtf",
	"txt":      "text/plain",
	"md":       "text/plain",
	"markdown": "text/plain",
	"csv":      "text/plain",
	"yaml":     "text/plain",
	"yml":      "text/plain",
	"json":     "application/json",
	"html":     "text/html",
	"htm":      "text/html",
	"sh":       "text/x-shellscript",
	"py":       "text/x-python",
	"go":       "text/plain",
	"jpg":      "image/jpeg",
	"jpeg":     "image/jpeg",
	"png":      "image/png",
	"gif":      "image/gif",
	"heic":     "image/heic",
	"tif":      "image/tiff",
	"tiff":     "image/tiff",
	"mp3":      "audio/mpeg",
	"m4a":      "audio/mp4",
	"mp4":      "video/mp4",
	"mov":      "video/quicktime",
	"mkv":      "video/x-matroska",
	"zip":      "application/zip",
	"tar":      "application/x-tar",
	"gz":       "application/gzip",
	"bz2":      "application/x-bzip2",
	"xz":       "application/x-xz",
}

// Ensure Inspector implements the interface.
var _ driven.FileInspector = (*Inspector)(nil)

// Inspector builds FileHandles from files on disk.
type Inspector struct {
	ignore []string
}

// NewInspector creates an inspector. With no patterns, DefaultIgnore is used.
func NewInspector(ignore ...string) *Inspector {
	if len(ignore) == 0 {
		ignore = DefaultIgnore
	}
	return &Inspector{ignore: ignore}
}

// Inspect reads the file at path.
func (i *Inspector) Inspect(path string) (*domain.FileHandle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file: %w", abs, domain.ErrInvalidInput)
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hash, head, err := partialHash(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("hash %s: %w", abs, err)
	}

	basename := filepath.Base(abs)
	prefix, suffix := domain.SplitBasename(basename)
	fh := &domain.FileHandle{
		AbsPath:  abs,
		Basename: basename,
		Prefix:   prefix,
		Suffix:   suffix,
		MIMEType: DetectMIMEType(suffix, head, info.Size()),
		Size:     info.Size(),
		Hash:     hash,
	}
	logger.Debug("inspected %s: mime=%s size=%d hash=%.12s", basename, fh.MIMEType, fh.Size, fh.Hash)
	return fh, nil
}

// Collect expands path into the regular files it names.
// Explicit files are always returned; ignored entries are skipped only
// while descending directories.
func (i *Inspector) Collect(path string, recursive bool) ([]string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{abs}, nil
	}
	if !recursive {
		return nil, fmt.Errorf("%s is a directory (use --recursive): %w", abs, domain.ErrInvalidInput)
	}

	var files []string
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == abs {
				return err
			}
			logger.Warn("skipping %s: %v", p, err)
			return nil
		}
		if p != abs && i.Ignored(d.Name()) {
			logger.Debug("ignoring %s", p)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", abs, err)
	}
	return files, nil
}

// Ignored reports whether basename matches an ignore pattern.
func (i *Inspector) Ignored(basename string) bool {
	for _, pattern := range i.ignore {
		if ok, err := filepath.Match(pattern, basename); err == nil && ok {
			return true
		}
	}
	return false
}

// partialHash digests the size and the leading HashBytes of r.
// It also returns the first bytes for content sniffing.
func partialHash(r io.Reader, size int64) (string, []byte, error) {
	h := sha256.New()
	var sizeBuf [8]byte
	binary.BigEndian.PutUint64(sizeBuf[:], uint64(size))
	h.Write(sizeBuf[:])

	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, err
	}
	head = head[:n]
	h.Write(head)

	if _, err := io.CopyN(h, r, HashBytes-int64(n)); err != nil && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	return hex.EncodeToString(h.Sum(nil)), head, nil
}

// DetectMIMEType picks a MIME type from the suffix, falling back to the
// content for unknown suffixes.
func DetectMIMEType(suffix string, head []byte, size int64) string {
	if size == 0 {
		return EmptyMIMEType
	}

	ext := strings.ToLower(suffix)
	if i := strings.LastIndex(ext, "."); i >= 0 {
		ext = ext[i+1:]
	}
	if ext != "" {
		if t, ok := extensionTypes[ext]; ok {
			return t
		}
		if t := mime.TypeByExtension("." + ext); t != "" {
			return stripParams(t)
		}
	}
	return stripParams(http.DetectContentType(head))
}

func stripParams(t string) string {
	if i := strings.Index(t, ";"); i != -1 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}
