package citation

import (
	"sort"
	"strings"

	"github.com/yotome/rag-assistant/internal/config"
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
)

// marker is one parsed [filename#index] bracket.
type marker struct {
	filename string
	index    int
}

// ExtractCitations scans the answer for [filename#chunk_index] markers and
// resolves each against the retrieved chunks (first matching chunk wins).
// When no marker resolves, the top three chunks by score become implicit
// citations: an answer grounded in retrieved evidence never ends up with an
// empty citation list.
func ExtractCitations(answer string, chunks []ragmodel.RetrievedChunk) []ragmodel.Citation {
	var citations []ragmodel.Citation

	for _, m := range scanMarkers(answer) {
		for _, chunk := range chunks {
			if chunk.Filename == m.filename && chunk.ChunkIndex == m.index {
				citations = append(citations, toCitation(chunk))
				break
			}
		}
	}

	if len(citations) == 0 && len(chunks) > 0 {
		top := make([]ragmodel.RetrievedChunk, len(chunks))
		copy(top, chunks)
		sort.SliceStable(top, func(i, j int) bool { return top[i].Score > top[j].Score })
		if len(top) > 3 {
			top = top[:3]
		}
		for _, chunk := range top {
			citations = append(citations, toCitation(chunk))
		}
	}

	return citations
}

// scanMarkers tokenizes the grammar '[' filename '#' integer ']' where the
// filename excludes ']' and '#'. A nested '[' restarts the scan so filenames
// with delimiter-like characters cannot smuggle a partial match through.
func scanMarkers(answer string) []marker {
	var markers []marker

	for i := 0; i < len(answer); i++ {
		if answer[i] != '[' {
			continue
		}

		j := i + 1
		for j < len(answer) && answer[j] != '#' && answer[j] != ']' && answer[j] != '[' {
			j++
		}
		if j >= len(answer) || answer[j] != '#' || j == i+1 {
			if j < len(answer) && answer[j] == '[' {
				i = j - 1
			} else {
				i = j
			}
			continue
		}
		filename := answer[i+1 : j]

		k := j + 1
		index := 0
		for k < len(answer) && answer[k] >= '0' && answer[k] <= '9' {
			index = index*10 + int(answer[k]-'0')
			k++
		}
		if k == j+1 || k >= len(answer) || answer[k] != ']' {
			i = k - 1
			continue
		}

		markers = append(markers, marker{filename: filename, index: index})
		i = k
	}

	return markers
}

func toCitation(chunk ragmodel.RetrievedChunk) ragmodel.Citation {
	return ragmodel.Citation{
		DocID:      chunk.DocID,
		Filename:   chunk.Filename,
		ChunkIndex: chunk.ChunkIndex,
		Score:      chunk.Score,
		Snippet:    snippet(chunk.Content),
	}
}

func snippet(content string) string {
	if len(content) > config.SnippetLength {
		return content[:config.SnippetLength] + "..."
	}
	return content
}

// ComputeConfidence summarizes how grounded an answer is: the mean retrieval
// score, a flat +0.1 when the answer carries at least one citation bracket,
// scaled down for answers under 100 characters. Clamped at 1.0 on top only —
// negative retrieval scores are a signal and deliberately flow through, so
// confidence itself can go negative.
func ComputeConfidence(chunks []ragmodel.RetrievedChunk, answer string) float64 {
	if len(chunks) == 0 {
		return 0.0
	}

	var sum float64
	for _, chunk := range chunks {
		sum += chunk.Score
	}
	avg := sum / float64(len(chunks))

	bonus := 0.0
	if strings.Contains(answer, "[") {
		bonus = 0.1
	}

	lengthFactor := float64(len(answer)) / 100
	if lengthFactor > 1.0 {
		lengthFactor = 1.0
	}

	confidence := (avg + bonus) * lengthFactor
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
