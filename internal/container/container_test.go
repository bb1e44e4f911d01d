package container

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeArchive(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range entries {
		ew, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := ew.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"song.seq", true},
		{"song.aseq", true},
		{"song.zseq", true},
		{"song.SEQ", true},
		{"song.ootrs", true},
		{"song.mmrs", true},
		{"song.mid", false},
		{"song.zip", false},
		{"song", false},
	}
	for _, tt := range tests {
		if got := Supported(tt.path); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoadBareSequence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.zseq")
	data := []byte{0xDB, 0x7F, 0xFF}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Archive() {
		t.Error("bare sequence reported as archive")
	}
	if !bytes.Equal(f.Seq, data) {
		t.Errorf("Seq = % X, want % X", f.Seq, data)
	}
	if _, ok := f.GameHint(); ok {
		t.Error("bare sequence should carry no game hint")
	}
}

func TestLoadArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mmrs")
	seqData := []byte{0xDB, 0x40, 0xFF}
	writeArchive(t, path, map[string][]byte{
		"song.seq":   seqData,
		"song.zbank": {0x01, 0x02},
	})

	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !f.Archive() || f.SeqName != "song.seq" {
		t.Errorf("Archive/SeqName = %v/%q, want true/song.seq", f.Archive(), f.SeqName)
	}
	if !bytes.Equal(f.Seq, seqData) {
		t.Errorf("Seq = % X, want % X", f.Seq, seqData)
	}
	if hint, ok := f.GameHint(); !ok || hint != "mm" {
		t.Errorf("GameHint = %q/%v, want mm/true", hint, ok)
	}
}

func TestLoadArchiveErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("no sequence entry", func(t *testing.T) {
		path := filepath.Join(dir, "empty.ootrs")
		writeArchive(t, path, map[string][]byte{"song.zbank": {0x01}})
		if _, err := Load(path); err == nil {
			t.Error("Load succeeded on archive with no sequence")
		}
	})

	t.Run("multiple sequence entries", func(t *testing.T) {
		path := filepath.Join(dir, "two.ootrs")
		writeArchive(t, path, map[string][]byte{
			"a.seq": {0xFF},
			"b.seq": {0xFF},
		})
		if _, err := Load(path); err == nil {
			t.Error("Load succeeded on archive with two sequences")
		}
	})

	t.Run("bad extension", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "song.mid")); err == nil {
			t.Error("Load accepted an unsupported extension")
		}
	})

	t.Run("not a zip", func(t *testing.T) {
		path := filepath.Join(dir, "garbage.mmrs")
		if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Load accepted a non-zip archive")
		}
	})
}

func TestSaveBareInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.seq")
	if err := os.WriteFile(path, []byte{0xDB, 0x7F, 0xFF}, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	edited := []byte{0xDB, 0x40, 0xFF}
	out, err := f.Save(edited, "")
	if err != nil {
		t.Fatal(err)
	}
	if out != path {
		t.Errorf("Save path = %q, want in-place %q", out, path)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, edited) {
		t.Errorf("file = % X, want % X", got, edited)
	}
}

func TestSaveRepacksArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.ootrs")
	writeArchive(t, path, map[string][]byte{
		"song.seq":   {0xDB, 0x7F, 0xFF},
		"song.zbank": {0x01, 0x02, 0x03},
	})

	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	edited := []byte{0xDB, 0x40, 0xFF}
	out, err := f.Save(edited, "")
	if err != nil {
		t.Fatal(err)
	}
	if out == path {
		t.Error("archive overwritten in place, want a new timestamped file")
	}

	reloaded, err := Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(reloaded.Seq, edited) {
		t.Errorf("repacked Seq = % X, want % X", reloaded.Seq, edited)
	}

	// Auxiliary entries survive the repack byte for byte.
	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	names := make(map[string]bool)
	for _, e := range zr.File {
		names[e.Name] = true
	}
	if !names["song.zbank"] {
		t.Errorf("auxiliary entry lost in repack: %v", names)
	}
}

func TestSaveArchiveExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mmrs")
	writeArchive(t, path, map[string][]byte{"song.seq": {0xFF}})

	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "out.mmrs")
	out, err := f.Save([]byte{0xFF}, want)
	if err != nil {
		t.Fatal(err)
	}
	if out != want {
		t.Errorf("Save path = %q, want %q", out, want)
	}
}
