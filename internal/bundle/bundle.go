// Package bundle reads and writes dataset snapshots to disk, either as a
// directory of gzipped JSON files or as a single zip archive, adapted from
// mb0-daql's mig package: the same directory-or-zip dual format, with a
// Dataset now holding named query.Registry entries instead of a project
// manifest plus model record streams.
package bundle

import (
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/aadamsx/josson/internal/node"
	"github.com/aadamsx/josson/internal/query"
)

// Dataset is a named snapshot of a query registry: one JSON document per
// dataset name, matching mig.Dataset's "one stream per model" shape.
type Dataset struct {
	Entries map[string]*node.Node
	Closer  io.Closer
}

// Close calls the closer, if configured, and should always be called.
func (d *Dataset) Close() error {
	if d.Closer != nil {
		return d.Closer.Close()
	}
	return nil
}

// FromRegistry builds a Dataset snapshot of every resolved entry in reg.
func FromRegistry(reg *query.Registry) *Dataset {
	obj := reg.ToObject()
	d := &Dataset{Entries: make(map[string]*node.Node, obj.Len())}
	for _, m := range obj.Members() {
		d.Entries[m.Key] = m.Value
	}
	return d
}

// Into loads every entry of d into reg via Registry.Put.
func (d *Dataset) Into(reg *query.Registry) {
	for name, n := range d.Entries {
		reg.Put(name, n)
	}
}

// Read returns the Dataset found at path, as described in Write.
//
// Path must point either to a directory of "<name>.json.gz" files or to a
// ".zip" archive containing "<name>.json" entries.
func Read(path string) (*Dataset, error) {
	if strings.HasSuffix(path, ".zip") {
		return readZipFile(path)
	}
	return readDir(path)
}

// Write writes d to path. If path ends in ".zip" a zip archive is written,
// otherwise d is written as individual gzipped JSON files in a directory
// at path.
func Write(path string, d *Dataset) error {
	if strings.HasSuffix(path, ".zip") {
		return writeFile(path, func(f io.Writer) error {
			w := zip.NewWriter(f)
			defer w.Close()
			return WriteZip(w, d)
		})
	}
	for name, n := range d.Entries {
		file := filepath.Join(path, fmt.Sprintf("%s.json.gz", name))
		if err := writeFileGz(file, n); err != nil {
			return err
		}
	}
	return nil
}

// WriteZip writes d's entries as "<name>.json" files into an open zip
// writer. It is the caller's responsibility to close z.
func WriteZip(z *zip.Writer, d *Dataset) error {
	for name, n := range d.Entries {
		w, err := z.Create(fmt.Sprintf("%s.json", name))
		if err != nil {
			return errors.Wrapf(err, "create zip entry %q", name)
		}
		if _, err := io.WriteString(w, node.Marshal(n)); err != nil {
			return errors.Wrapf(err, "write zip entry %q", name)
		}
	}
	return z.Flush()
}

// ReadZip returns a Dataset read from r. It is the caller's responsibility
// to close the underlying reader.
func ReadZip(r *zip.Reader) (*Dataset, error) {
	d := &Dataset{Entries: make(map[string]*node.Node, len(r.File))}
	for _, f := range r.File {
		name := strings.TrimSuffix(filepath.Base(f.Name), ".json")
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "open zip entry %q", f.Name)
		}
		n, err := parseStream(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "parse zip entry %q", f.Name)
		}
		d.Entries[name] = n
	}
	return d, nil
}

func readZipFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open bundle %q", path)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat bundle %q", path)
	}
	r, err := zip.NewReader(f, fi.Size())
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "read zip bundle %q", path)
	}
	d, err := ReadZip(r)
	if err != nil {
		f.Close()
		return nil, err
	}
	d.Closer = f
	return d, nil
}

func readDir(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open bundle dir %q", path)
	}
	defer f.Close()
	fis, err := f.Readdir(0)
	if err != nil {
		return nil, errors.Wrapf(err, "read bundle dir %q", path)
	}
	d := &Dataset{Entries: make(map[string]*node.Node, len(fis))}
	for _, fi := range fis {
		name := strings.TrimSuffix(strings.TrimSuffix(fi.Name(), ".gz"), ".json")
		n, err := readEntryFile(filepath.Join(path, fi.Name()))
		if err != nil {
			return nil, err
		}
		d.Entries[name] = n
	}
	return d, nil
}

func readEntryFile(path string) (*node.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open entry %q", path)
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "gunzip entry %q", path)
		}
		defer gz.Close()
		r = gz
	}
	return parseStream(r)
}

func parseStream(r io.Reader) (*node.Node, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return node.Parse(raw)
}

func writeFileGz(path string, n *node.Node) error {
	return writeFile(path, func(w io.Writer) error {
		gz := gzip.NewWriter(w)
		defer gz.Close()
		_, err := io.WriteString(gz, node.Marshal(n))
		return err
	})
}

func writeFile(path string, wf func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "mkdir for %q", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %q", path)
	}
	defer f.Close()
	return wf(f)
}
