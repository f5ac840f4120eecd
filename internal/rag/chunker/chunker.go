package chunker

import (
	"strings"

	"github.com/yotome/rag-assistant/internal/config"
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
)

// Separators ordered from "best" to "worst" for semantic meaning. The empty
// string is the hard-cut fallback and must stay last.
var separators = []string{"\n\n", "\n", " ", ""}

type Chunker struct {
	Size      int
	Overlap   int
	MinLength int
}

func New() *Chunker {
	return &Chunker{
		Size:      config.ChunkSize,
		Overlap:   config.ChunkOverlap,
		MinLength: config.MinChunkLength,
	}
}

// Split turns extracted document text into an ordered list of passages.
// Markdown goes through a header pass first so semantic sections survive;
// everything else goes straight to the separator cascade. Passages trimming
// below MinLength are dropped as noise. Returns a ValidationError when the
// input is blank or nothing survives the filter.
func (c *Chunker) Split(text, filename, contentType string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ragmodel.EmptyContent(filename)
	}

	var sections []string
	if isMarkdown(filename, contentType) {
		sections = splitByHeaders(text)
	} else {
		sections = []string{text}
	}

	var chunks []string
	for _, section := range sections {
		if len(section) <= c.Size {
			chunks = append(chunks, section)
			continue
		}
		chunks = append(chunks, c.cascade(section, separators)...)
	}

	filtered := chunks[:0]
	for _, chunk := range chunks {
		if len(strings.TrimSpace(chunk)) >= c.MinLength {
			filtered = append(filtered, chunk)
		}
	}
	if len(filtered) == 0 {
		return nil, ragmodel.EmptyContent(filename)
	}
	return filtered, nil
}

func isMarkdown(filename, contentType string) bool {
	return contentType == "text/markdown" || strings.HasSuffix(strings.ToLower(filename), ".md")
}

// splitByHeaders starts a new section at every level 1-3 header line. The
// header line stays with its section.
func splitByHeaders(text string) []string {
	var sections []string
	var current strings.Builder

	for _, line := range strings.Split(text, "\n") {
		if isHeaderLine(line) && current.Len() > 0 {
			sections = append(sections, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		sections = append(sections, current.String())
	}
	return sections
}

func isHeaderLine(line string) bool {
	trimmed := strings.TrimLeft(line, "#")
	level := len(line) - len(trimmed)
	if level < 1 || level > 3 {
		return false
	}
	return strings.HasPrefix(trimmed, " ")
}

// cascade re-splits oversized text along the best separator present, packing
// parts up to Size with Overlap characters carried into the next chunk. Parts
// that are themselves oversized recurse onto the remaining separators.
func (c *Chunker) cascade(text string, seps []string) []string {
	if len(text) <= c.Size {
		return []string{text}
	}

	var sep string
	var rest []string
	for i, s := range seps {
		if s == "" || strings.Contains(text, s) {
			sep = s
			rest = seps[i+1:]
			break
		}
	}

	if sep == "" {
		return c.hardCut(text)
	}

	parts := strings.Split(text, sep)
	var chunks []string
	var current strings.Builder

	// A buffer holding nothing beyond carried overlap is duplicate text and
	// must never flush as its own chunk.
	overlapOnly := false

	for _, part := range parts {
		if len(part) > c.Size {
			if current.Len() > 0 && !overlapOnly {
				chunks = append(chunks, current.String())
			}
			current.Reset()
			overlapOnly = false
			chunks = append(chunks, c.cascade(part, rest)...)
			continue
		}

		if current.Len()+len(part)+len(sep) > c.Size {
			if current.Len() > 0 && !overlapOnly {
				chunks = append(chunks, current.String())
			}

			// carry the tail of the previous chunk to preserve cross-boundary context
			overlapContent := ""
			if current.Len() > c.Overlap {
				overlapContent = current.String()[current.Len()-c.Overlap:]
			}
			current.Reset()
			current.WriteString(overlapContent)
			overlapOnly = current.Len() > 0
		}

		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(part)
		if strings.TrimSpace(part) != "" {
			overlapOnly = false
		}
	}

	if current.Len() > 0 && !overlapOnly {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func (c *Chunker) hardCut(text string) []string {
	step := c.Size - c.Overlap
	if step < 1 {
		step = c.Size
	}
	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + c.Size
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}
