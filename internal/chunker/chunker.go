package chunker

// WindowChunker splits text into fixed-size character windows with overlap.
// Neighboring chunks share an overlap-sized boundary region so a fact split
// across a window edge still appears whole in one of the two chunks.
type WindowChunker struct {
	chunkSize int
	overlap   int
}

const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

func NewWindowChunker(chunkSize, overlap int) *WindowChunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize - 1
	}
	return &WindowChunker{chunkSize: chunkSize, overlap: overlap}
}

func (c *WindowChunker) Chunk(text string) []string {
	if text == "" {
		return nil
	}
	// window positions are code points, not bytes, so a boundary can never
	// land inside a multi-byte rune
	runes := []rune(text)
	var chunks []string
	length := len(runes)
	start := 0
	for start < length {
		end := start + c.chunkSize
		if end > length {
			end = length
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == length {
			break
		}
		next := end - c.overlap
		if next < 0 {
			next = 0
		}
		// the start must advance or a full-overlap window would loop forever
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}
