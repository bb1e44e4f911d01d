// Package container reads and writes the files a sequence can arrive in:
// bare .seq/.aseq/.zseq files, or .ootrs/.mmrs packed music archives (zip
// files holding one sequence plus auxiliary data like soundfonts).
package container

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	sequenceExts = []string{".seq", ".aseq", ".zseq"}
	archiveExts  = []string{".ootrs", ".mmrs"}
)

// IsSequence reports whether the path names a bare sequence file.
func IsSequence(path string) bool {
	return hasExt(path, sequenceExts)
}

// IsArchive reports whether the path names a packed music file.
func IsArchive(path string) bool {
	return hasExt(path, archiveExts)
}

// Supported reports whether the extension is one the tool accepts at all.
func Supported(path string) bool {
	return IsSequence(path) || IsArchive(path)
}

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// File is one loaded input: the raw sequence bytes plus enough context to
// write an edited sequence back the way it arrived.
type File struct {
	Path    string
	Seq     []byte
	SeqName string // entry name inside the archive; empty for bare files

	archive bool
	raw     []byte // original archive bytes, kept for repacking
}

// Archive reports whether the input was a packed music file.
func (f *File) Archive() bool { return f.archive }

// GameHint returns the title implied by a packed music file's extension.
// Bare sequence extensions carry no title information.
func (f *File) GameHint() (string, bool) {
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".ootrs":
		return "oot", true
	case ".mmrs":
		return "mm", true
	}
	return "", false
}

// Load reads a sequence from path, unpacking the archive wrapper if there
// is one. An archive must contain exactly one sequence entry.
func Load(path string) (*File, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("%s: filename must end with one of %s",
			path, strings.Join(append(append([]string{}, sequenceExts...), archiveExts...), ", "))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if !IsArchive(path) {
		return &File{Path: path, Seq: data}, nil
	}

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%s: not a valid packed music file: %w", path, err)
	}

	f := &File{Path: path, archive: true, raw: data}
	for _, entry := range r.File {
		if !IsSequence(entry.Name) {
			continue
		}
		if f.SeqName != "" {
			return nil, fmt.Errorf("%s: multiple sequence files in archive (%s, %s)", path, f.SeqName, entry.Name)
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in archive: %w", entry.Name, err)
		}
		f.Seq, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s from archive: %w", entry.Name, err)
		}
		f.SeqName = entry.Name
	}
	if f.SeqName == "" {
		return nil, fmt.Errorf("%s: no sequence file in archive", path)
	}

	slog.Debug("Unpacked sequence from archive", "file", path, "entry", f.SeqName, "size", len(f.Seq))
	return f, nil
}

// Save writes the edited sequence back. Bare files are overwritten in
// place, matching the original tool. Archives are repacked with every
// other entry preserved, into a new timestamped file next to the
// original, and the new path is returned.
func (f *File) Save(seq []byte, outPath string) (string, error) {
	if !f.archive {
		path := f.Path
		if outPath != "" {
			path = outPath
		}
		if err := os.WriteFile(path, seq, 0o644); err != nil {
			return "", fmt.Errorf("failed to write sequence: %w", err)
		}
		return path, nil
	}

	r, err := zip.NewReader(bytes.NewReader(f.raw), int64(len(f.raw)))
	if err != nil {
		return "", fmt.Errorf("failed to reopen archive: %w", err)
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, entry := range r.File {
		ew, err := w.Create(entry.Name)
		if err != nil {
			return "", fmt.Errorf("failed to repack %s: %w", entry.Name, err)
		}
		if entry.Name == f.SeqName {
			if _, err := ew.Write(seq); err != nil {
				return "", fmt.Errorf("failed to repack %s: %w", entry.Name, err)
			}
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return "", fmt.Errorf("failed to repack %s: %w", entry.Name, err)
		}
		_, err = io.Copy(ew, rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("failed to repack %s: %w", entry.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finish archive: %w", err)
	}

	path := outPath
	if path == "" {
		ext := filepath.Ext(f.Path)
		base := strings.TrimSuffix(f.Path, ext)
		path = fmt.Sprintf("%s.%s%s", base, time.Now().Format("20060102150405"), ext)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write archive: %w", err)
	}

	slog.Debug("Repacked archive", "file", path, "entry", f.SeqName)
	return path, nil
}
