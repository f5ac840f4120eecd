package chunker

import (
	"errors"
	"strings"
	"testing"

	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
)

func TestSplit_EmptyContent(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"Blank", "   \n\t  "},
		{"Empty", ""},
		{"OnlyNoise", "short\n\nalso short\n\ntiny"},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Split(tt.text, "doc.txt", "text/plain")
			if err == nil {
				t.Fatal("expected error for unusable content, got nil")
			}
			var vErr *ragmodel.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestSplit_SmallTextSingleChunk(t *testing.T) {
	text := "This is a perfectly reasonable paragraph that easily clears the minimum length filter."

	chunks, err := New().Split(text, "doc.txt", "text/plain")
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != text {
		t.Errorf("expected the text back as one chunk, got %d chunks", len(chunks))
	}
}

func TestSplit_CascadeWithOverlap(t *testing.T) {
	c := &Chunker{Size: 60, Overlap: 12, MinLength: 1}
	text := strings.Repeat("alpha beta gamma delta epsilon ", 10)

	chunks, err := c.Split(text, "doc.txt", "text/plain")
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > c.Size {
			t.Errorf("chunk %d exceeds size limit: %d > %d", i, len(chunk), c.Size)
		}
	}

	// the tail of chunk 0 must reappear at the start of chunk 1
	tail := chunks[0][len(chunks[0])-c.Overlap:]
	if !strings.HasPrefix(chunks[1], tail) {
		t.Errorf("overlap not carried: tail %q vs next chunk %q", tail, chunks[1][:c.Overlap])
	}
}

func TestSplit_MarkdownHeaderSections(t *testing.T) {
	text := "# Setup\n" + strings.Repeat("install the binary and configure the daemon. ", 3) +
		"\n## Usage\n" + strings.Repeat("run the agent against the production cluster. ", 3) +
		"\n#### Deep header stays put\n" + strings.Repeat("this line belongs to the usage section. ", 3)

	chunks, err := New().Split(text, "guide.md", "text/markdown")
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 sections (levels 1-3 only), got %d", len(chunks))
	}
	if !strings.HasPrefix(chunks[0], "# Setup") {
		t.Errorf("first section lost its header: %q", chunks[0][:20])
	}
	if !strings.Contains(chunks[1], "#### Deep header") {
		t.Errorf("level-4 header should not start a new section")
	}
}

func TestSplit_MarkdownOversizedSectionResplit(t *testing.T) {
	c := &Chunker{Size: 120, Overlap: 20, MinLength: 10}
	text := "# Big\n" + strings.Repeat("a sentence that keeps going and going without mercy. ", 10)

	chunks, err := c.Split(text, "big.md", "text/markdown")
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Errorf("oversized markdown section should be re-split, got %d chunks", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > c.Size {
			t.Errorf("chunk %d exceeds size limit after re-split: %d", i, len(chunk))
		}
	}
}

func TestSplit_NoSeparatorHardCut(t *testing.T) {
	c := &Chunker{Size: 50, Overlap: 10, MinLength: 1}
	text := strings.Repeat("x", 200)

	chunks, err := c.Split(text, "blob.txt", "text/plain")
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) < 4 {
		t.Errorf("expected hard cuts across 200 chars, got %d chunks", len(chunks))
	}
	var rebuilt int
	for _, chunk := range chunks {
		rebuilt += len(chunk)
	}
	if rebuilt < len(text) {
		t.Errorf("hard cut dropped content: %d < %d", rebuilt, len(text))
	}
}

func TestSplit_NoOverlapOnlyChunks(t *testing.T) {
	c := &Chunker{Size: 100, Overlap: 30, MinLength: 1}

	// A nearly fills Size, then an empty part forces a flush-and-carry, then
	// an oversized part flushes again while the buffer still holds nothing
	// but the carried overlap.
	partA := strings.Repeat("alpha ", 16) + "end"
	partC := strings.Repeat("gamma delta ", 15)
	text := partA + "\n\n\n\n" + partC

	chunks, err := c.Split(text, "doc.txt", "text/plain")
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	tail := strings.TrimSpace(partA[len(partA)-c.Overlap:])
	for i, chunk := range chunks {
		if strings.TrimSpace(chunk) == tail {
			t.Errorf("chunk %d is carried overlap with no new content: %q", i, chunk)
		}
	}

	joined := strings.Join(chunks, " ")
	if !strings.Contains(joined, "end") || !strings.Contains(joined, "gamma") {
		t.Errorf("content lost while suppressing overlap-only chunks")
	}
}

func TestSplit_FilterDropsNoisePassages(t *testing.T) {
	c := &Chunker{Size: 60, Overlap: 0, MinLength: 50}
	long := strings.Repeat("meaningful content about the knowledge base domain. ", 3)
	text := "tiny\n\n" + long + "\n\nnoise"

	chunks, err := c.Split(text, "doc.txt", "text/plain")
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected surviving chunks")
	}
	for _, chunk := range chunks {
		trimmed := strings.TrimSpace(chunk)
		if trimmed == "tiny" || trimmed == "noise" {
			t.Errorf("short passage survived the filter: %q", chunk)
		}
	}
}
