package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"time"

	"github.com/mholt/archives"
)

// ErrNoFiles is returned when the markdown contained no parseable file blocks
var ErrNoFiles = errors.New("no files to archive")

// Zip writes the project's files as a zip archive
func Zip(ctx context.Context, w io.Writer, p Project) error {
	if len(p.Files) == 0 {
		return ErrNoFiles
	}

	now := time.Now()
	infos := make([]archives.FileInfo, 0, len(p.Files))
	for _, f := range p.Files {
		content := []byte(f.Code)
		info := memFileInfo{name: f.Name, size: int64(len(content)), modTime: now}
		infos = append(infos, archives.FileInfo{
			FileInfo:      info,
			NameInArchive: f.Name,
			Open: func() (fs.File, error) {
				return &memFile{info: info, Reader: bytes.NewReader(content)}, nil
			},
		})
	}

	return archives.Zip{}.Archive(ctx, w, infos)
}

type memFileInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (i memFileInfo) Name() string       { return i.name }
func (i memFileInfo) Size() int64        { return i.size }
func (i memFileInfo) Mode() fs.FileMode  { return 0o644 }
func (i memFileInfo) ModTime() time.Time { return i.modTime }
func (i memFileInfo) IsDir() bool        { return false }
func (i memFileInfo) Sys() any           { return nil }

type memFile struct {
	info memFileInfo
	*bytes.Reader
}

func (f *memFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *memFile) Close() error               { return nil }
