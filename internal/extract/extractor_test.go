package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractPlain(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("hello world"), ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello world" {
		t.Errorf("got %q", got)
	}
}

func TestExtractPlain_InvalidUTF8(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte{0x68, 0x69, 0xff, 0xfe}, ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "hi") {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(got, "�") {
		t.Errorf("invalid bytes should be replaced, got %q", got)
	}
}

func TestExtractCSV(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("name,age\nalice,30\nbob,25\n"), ".csv")
	if err != nil {
		t.Fatal(err)
	}
	want := "name\tage\nalice\t30\nbob\t25"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtractCSV_RaggedRows(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("a,b,c\nd\n"), ".csv")
	if err != nil {
		t.Fatal(err)
	}
	if got != "a\tb\tc\nd" {
		t.Errorf("got %q", got)
	}
}

func TestExtractUnknownExtensionFallsBackToPlain(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("plain content"), ".log")
	if err != nil {
		t.Fatal(err)
	}
	if got != "plain content" {
		t.Errorf("got %q", got)
	}
}

func TestExtract_File(t *testing.T) {
	e := NewExtractor()
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("file content"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := e.Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "file content" {
		t.Errorf("got %q", got)
	}
}

func TestExtract_MissingFile(t *testing.T) {
	e := NewExtractor()
	if _, err := e.Extract(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExtractDOCX_NotAZip(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("not a zip"), ".docx"); err == nil {
		t.Error("expected error for invalid docx")
	}
}

func TestExtractPDF_Invalid(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("not a pdf"), ".pdf"); err == nil {
		t.Error("expected error for invalid pdf")
	}
}
