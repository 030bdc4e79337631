package rag

const (
	defaultChunkSize    = 600
	defaultChunkOverlap = 80
)

type splitter struct {
	chunkSize    int
	chunkOverlap int
}

func defaultSplitter() splitter {
	return splitter{chunkSize: defaultChunkSize, chunkOverlap: defaultChunkOverlap}
}

type piece struct {
	text   string
	offset int
}

// Split cuts text into fixed-size rune windows with overlap. Sizes are a
// retrieval-quality tunable, not a correctness invariant.
func (s splitter) Split(text string) []piece {
	if len(text) == 0 {
		return nil
	}

	size := s.chunkSize
	if size <= 0 {
		size = defaultChunkSize
	}
	overlap := s.chunkOverlap
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	step := size - overlap

	pieces := []piece{}
	for start := 0; start < len(runes); start += step {
		end := min(start+size, len(runes))
		pieces = append(pieces, piece{text: string(runes[start:end]), offset: start})
		if end == len(runes) {
			break
		}
	}

	return pieces
}
