package serialize

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// WriteMsgpack writes the compact binary form of the archive.
func (a *Archive) WriteMsgpack(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(a)
}

// ReadMsgpack reads an archive in its compact binary form.
func ReadMsgpack(r io.Reader) (*Archive, error) {
	a := &Archive{}
	if err := msgpack.NewDecoder(r).Decode(a); err != nil {
		return nil, err
	}
	return a, nil
}

// WriteJSON writes the human-readable form of the archive.
func (a *Archive) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

// ReadJSON reads an archive in its human-readable form.
func ReadJSON(r io.Reader) (*Archive, error) {
	a := &Archive{}
	if err := json.NewDecoder(r).Decode(a); err != nil {
		return nil, err
	}
	return a, nil
}

// WriteFile writes the archive to path, choosing the encoding by extension:
// .json for JSON, anything else for msgpack. The write goes through a temp
// file and an atomic rename.
func WriteFile(path string, a *Archive) error {
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = a.WriteJSON(f)
	} else {
		err = a.WriteMsgpack(f)
	}
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadFile reads an archive from path, choosing the encoding by extension
// the same way WriteFile does.
func ReadFile(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ReadJSON(f)
	}
	return ReadMsgpack(f)
}
