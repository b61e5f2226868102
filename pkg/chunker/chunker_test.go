package chunker

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitIntoSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty input",
			text: "",
			want: []string(nil),
		},
		{
			name: "single sentence",
			text: "Hello world.",
			want: []string{"Hello world."},
		},
		{
			name: "multiple sentences",
			text: "Hello world. This is a test! How are you?",
			want: []string{
				"Hello world.",
				"This is a test!",
				"How are you?",
			},
		},
		{
			name: "sentences with empty lines",
			text: "First sentence.\n\nSecond sentence.\n\nThird sentence.",
			want: []string{
				"First sentence.",
				"Second sentence.",
				"Third sentence.",
			},
		},
		{
			name: "multi-line sentence",
			text: "This is a long\nsentence that spans\nmultiple lines.",
			want: []string{"This is a long sentence that spans multiple lines."},
		},
		{
			name: "text with no punctuation",
			text: "Just some text without punctuation\nMore text here",
			want: []string{"Just some text without punctuation More text here"},
		},
		{
			name: "numeric listing stays in one sentence",
			text: "Today we discuss three points. 1. First item 2. Second item 3. Third item. Done!",
			want: []string{
				"Today we discuss three points.",
				"1. First item 2. Second item 3. Third item.",
				"Done!",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitIntoSentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitIntoSentences() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSplitValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "zero chunk size", cfg: Config{ChunkSize: 0}},
		{name: "negative overlap", cfg: Config{ChunkSize: 100, ChunkOverlap: -1}},
		{name: "overlap equals size", cfg: Config{ChunkSize: 100, ChunkOverlap: 100}},
		{name: "overlap exceeds size", cfg: Config{ChunkSize: 100, ChunkOverlap: 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Split("Some text.", "doc-1", tt.cfg); err == nil {
				t.Errorf("Split() expected error for config %+v", tt.cfg)
			}
		})
	}
}

func TestSplitSequencesAndSource(t *testing.T) {
	text := "First sentence here. Second sentence here. Third sentence here. Fourth sentence here."

	chunks, err := Split(text, "doc-42", Config{ChunkSize: 8, ChunkOverlap: 0})
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("Split() returned %d chunks, want at least 2", len(chunks))
	}

	for i, chunk := range chunks {
		if chunk.Sequence != i {
			t.Errorf("chunk[%d].Sequence = %d, want %d", i, chunk.Sequence, i)
		}
		if chunk.SourceID != "doc-42" {
			t.Errorf("chunk[%d].SourceID = %q, want %q", i, chunk.SourceID, "doc-42")
		}
		if strings.TrimSpace(chunk.Text) == "" {
			t.Errorf("chunk[%d] has empty text", i)
		}
	}
}

func TestSplitEmptyText(t *testing.T) {
	chunks, err := Split("   \n\n  ", "doc-1", Config{ChunkSize: 100, ChunkOverlap: 10})
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("Split() returned %d chunks for blank text, want 0", len(chunks))
	}
}

func TestSplitOverlapCarriesTrailingSentences(t *testing.T) {
	text := "One. Two. Three. Four. Five. Six."

	chunks, err := Split(text, "doc-1", Config{ChunkSize: 4, ChunkOverlap: 2})
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("Split() returned %d chunks, want at least 2", len(chunks))
	}

	// with a non-zero overlap each follow-up chunk repeats the trailing
	// sentence of its predecessor
	for i := 1; i < len(chunks); i++ {
		prevSentences := strings.Split(chunks[i-1].Text, " ")
		last := prevSentences[len(prevSentences)-1]
		if !strings.Contains(chunks[i].Text, last) {
			t.Errorf("chunk[%d] = %q does not repeat trailing sentence %q of chunk[%d]", i, chunks[i].Text, last, i-1)
		}
	}

	// every sentence survives splitting
	all := strings.Join([]string{chunks[0].Text, chunks[len(chunks)-1].Text}, " ")
	for _, s := range []string{"One.", "Six."} {
		if !strings.Contains(all, s) {
			t.Errorf("sentence %q missing from first/last chunk", s)
		}
	}
}

func TestSplitSingleChunkWhenUnderBudget(t *testing.T) {
	text := "Short text. Nothing more."

	chunks, err := Split(text, "doc-1", Config{ChunkSize: 1000, ChunkOverlap: 200})
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Split() returned %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != "Short text. Nothing more." {
		t.Errorf("chunk text = %q", chunks[0].Text)
	}
}
