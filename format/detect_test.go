package format

import "testing"

func Test_Detect_Markdown(t *testing.T) {
	if got := Detect("rulus.md"); got != "Markdown" {
		t.Errorf("expected Markdown, got %s", got)
	}
}

func Test_Detect_CaseInsensitive(t *testing.T) {
	if got := Detect("README.MD"); got != "Markdown" {
		t.Errorf("expected Markdown, got %s", got)
	}
	if got := Detect("Guide.AdOc"); got != "AsciiDoc" {
		t.Errorf("expected AsciiDoc, got %s", got)
	}
}

func Test_IsDocument(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"notes.md", true},
		{"notes.txt", true},
		{"index.rst", true},
		{"manual.adoc", true},
		{"paper.tex", true},
		{"binary.jpg", false},
		{"archive.tar.gz", false},
		{"Makefile", false},
		{".md", false},
		{"notes.md.bak", false},
		{"notes.markdown", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDocument(tt.name); got != tt.want {
				t.Errorf("IsDocument(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func Test_Detect_HiddenFileHasNoExtension(t *testing.T) {
	if got := Detect(".md"); got != "" {
		t.Errorf("expected no format for hidden file .md, got %s", got)
	}
	if got := Detect(".draft.md"); got != "Markdown" {
		t.Errorf("expected Markdown for .draft.md, got %s", got)
	}
}
