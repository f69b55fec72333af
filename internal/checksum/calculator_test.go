package checksum

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

func TestBytes(t *testing.T) {
	if got := Bytes(nil); got != emptySHA256 {
		t.Errorf("Bytes(nil) = %s, want %s", got, emptySHA256)
	}
	if got := Bytes([]byte("abc")); got != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Errorf("Bytes(abc) = %s", got)
	}
}

func TestDigest_MatchesBytes(t *testing.T) {
	content := strings.Repeat("warrant,", 10000)

	d := NewDigest()
	if _, err := io.Copy(io.MultiWriter(io.Discard, d), strings.NewReader(content)); err != nil {
		t.Fatal(err)
	}
	if got, want := d.Sum(), Bytes([]byte(content)); got != want {
		t.Errorf("streamed digest %s != %s", got, want)
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.xlsx")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := File(path)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if got != Bytes([]byte("abc")) {
		t.Errorf("File() = %s", got)
	}

	if _, err := File(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
