package chunker

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/docugraph/backend/pkg/common"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoder is the tiktoken encoding used when none is configured.
const DefaultEncoder = "cl100k_base"

// Config controls how a document is split into chunks. ChunkSize and
// ChunkOverlap are measured in tokens of the configured encoder.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	Encoder      string
}

func (c Config) validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("chunk overlap must not be negative, got %d", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", c.ChunkOverlap, c.ChunkSize)
	}
	return nil
}

// Split cuts a document into overlapping chunks of at most
// cfg.ChunkSize tokens. Chunks are built from whole sentences; a
// sentence that alone exceeds the budget becomes its own oversized
// chunk. The trailing sentences of each chunk, up to cfg.ChunkOverlap
// tokens, are repeated at the start of the next chunk. Sequence
// numbers are dense and start at zero.
func Split(text string, sourceID string, cfg Config) ([]common.Chunk, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	encoder := cfg.Encoder
	if encoder == "" {
		encoder = DefaultEncoder
	}
	enc, err := tiktoken.GetEncoding(encoder)
	if err != nil {
		return nil, fmt.Errorf("failed to load token encoder %q: %w", encoder, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	sentences := splitIntoSentences(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	tokens := make([]int, len(sentences))
	for i, s := range sentences {
		tokens[i] = len(enc.Encode(s, nil, nil))
	}

	var chunks []common.Chunk
	appendChunk := func(start, end int) {
		var b strings.Builder
		for i := start; i < end; i++ {
			if i > start {
				b.WriteString(" ")
			}
			b.WriteString(sentences[i])
		}
		chunks = append(chunks, common.Chunk{
			Text:     strings.TrimSpace(b.String()),
			SourceID: sourceID,
			Sequence: len(chunks),
		})
	}

	start := 0
	for start < len(sentences) {
		budget := cfg.ChunkSize
		end := start
		total := 0
		for end < len(sentences) && total+tokens[end] <= budget {
			total += tokens[end]
			end++
		}
		if end == start {
			// single sentence over budget, emitted as-is
			end = start + 1
		}
		appendChunk(start, end)

		if end >= len(sentences) {
			break
		}
		next := overlapStart(tokens, end, cfg.ChunkOverlap)
		if next <= start {
			// overlap would repeat the whole chunk; always move forward
			next = start + 1
		}
		start = next
	}

	return chunks, nil
}

// overlapStart walks backwards from end and returns the index of the
// first sentence to repeat in the next chunk, keeping the repeated
// tokens within the overlap budget. It always advances by at least one
// sentence so splitting terminates.
func overlapStart(tokens []int, end int, overlap int) int {
	start := end
	carried := 0
	for start > 0 && carried+tokens[start-1] <= overlap {
		carried += tokens[start-1]
		start--
	}
	if start == end {
		return end
	}
	return start
}

func splitIntoSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		for _, sentence := range splitLineIntoSentences(trimmed) {
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(sentence)
			if endsSentence(sentence) {
				flush()
			}
		}
	}
	flush()

	return sentences
}

func endsSentence(s string) bool {
	s = strings.TrimRight(strings.TrimSpace(s), `"')]}`)
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

func splitLineIntoSentences(line string) []string {
	var sentences []string
	var current strings.Builder

	for i := 0; i < len(line); i++ {
		current.WriteByte(line[i])

		if line[i] != '.' && line[i] != '!' && line[i] != '?' {
			continue
		}

		// "1. First item" style listings stay in one sentence
		if i > 0 && unicode.IsDigit(rune(line[i-1])) && i+1 < len(line) && line[i+1] == ' ' {
			continue
		}

		j := i + 1
		for j < len(line) && (line[j] == '.' || line[j] == '!' || line[j] == '?') {
			current.WriteByte(line[j])
			j++
		}
		for j < len(line) && (line[j] == '"' || line[j] == '\'' || line[j] == ')' ||
			line[j] == ']' || line[j] == '}') {
			current.WriteByte(line[j])
			j++
		}

		sentence := strings.TrimSpace(current.String())
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		current.Reset()
		i = j - 1
	}

	remaining := strings.TrimSpace(current.String())
	if remaining != "" {
		sentences = append(sentences, remaining)
	}

	return sentences
}
