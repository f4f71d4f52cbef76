package dynamizer

import (
	"fmt"
	"github.com/ZenLiuCN/fn"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtension of binding sources picked up from directories.
const DefaultExtension = ".d"

// Source is one document to dynamize.
type Source struct {
	Path string      // path as found on disk
	Rel  string      // path relative to the argument it was found under
	Info fs.FileInfo // file info of Path
}

// Sources expands files and directories into documents, keeping argument order.
//
// A file argument is taken as is. A directory contributes its files ending with ext,
// descending into sub directories only when recursive is set. Sub directories listed in skip,
// typically the output directory, are never entered.
func Sources(paths []string, recursive bool, ext string, skip ...string) (v []Source, err error) {
	if ext == "" {
		ext = DefaultExtension
	}
	excluded := make(map[string]bool, len(skip))
	for _, s := range skip {
		var abs string
		if abs, err = filepath.Abs(s); err != nil {
			return nil, err
		}
		excluded[abs] = true
	}
	for _, p := range paths {
		var si fs.FileInfo
		if si, err = os.Stat(p); err != nil {
			return nil, err
		}
		if !si.IsDir() {
			v = append(v, Source{Path: p, Rel: si.Name(), Info: si})
			continue
		}
		err = filepath.Walk(p, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if path == p {
					return nil
				}
				if !recursive {
					return filepath.SkipDir
				}
				abs, err := filepath.Abs(path)
				if err != nil {
					return err
				}
				if excluded[abs] {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(info.Name(), ext) {
				return nil
			}
			rel, err := filepath.Rel(p, path)
			if err != nil {
				return err
			}
			v = append(v, Source{Path: path, Rel: rel, Info: info})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoSources, paths)
	}
	return
}

// Destination of src under the output directory out.
func Destination(out string, src Source) string {
	return filepath.Join(out, src.Rel)
}

// Destinations maps every source to its destination under out.
// Two sources sharing a destination fail with ErrDuplicateDestination.
func Destinations(out string, src []Source) (v []string, err error) {
	seen := make(map[string]string, len(src))
	for _, s := range src {
		dest := Destination(out, s)
		if prev, ok := seen[dest]; ok {
			return nil, fmt.Errorf("%w: %s and %s both write %s", ErrDuplicateDestination, prev, s.Path, dest)
		}
		seen[dest] = s.Path
		v = append(v, dest)
	}
	return
}

// ReadDocument reads a whole document, dropping a leading UTF-8 byte order mark.
func ReadDocument(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(string(b), "\uFEFF"), nil
}

// WriteDocument writes text to dest, creating parent directories and copying the mode of the optional si.
func WriteDocument(dest string, text string, si fs.FileInfo) (err error) {
	if err = os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return
	}
	df, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err = io.WriteString(df, text); err != nil {
		fn.IgnoreClose(df)()
		return
	}
	if err = df.Close(); err != nil {
		return
	}
	if si != nil {
		err = os.Chmod(dest, si.Mode())
	}
	return
}
