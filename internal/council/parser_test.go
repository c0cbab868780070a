package council

import (
	"reflect"
	"testing"
)

func TestParseRanking(t *testing.T) {
	known := []string{"Response A", "Response B", "Response C"}

	tests := []struct {
		name     string
		input    string
		known    []string
		expected []string
	}{
		{
			name: "standard format with FINAL RANKING",
			input: `Response A is good but lacks detail.
Response B provides comprehensive coverage.
Response C is accurate but brief.

FINAL RANKING:
1. Response B
2. Response A
3. Response C`,
			known:    known,
			expected: []string{"Response B", "Response A", "Response C"},
		},
		{
			name: "format without numbered list",
			input: `FINAL RANKING:
Response C
Response A
Response B`,
			known:    known,
			expected: []string{"Response C", "Response A", "Response B"},
		},
		{
			name: "format with extra whitespace",
			input: `FINAL RANKING:
1.  Response A
2.  Response B
3.  Response C`,
			known:    known,
			expected: []string{"Response A", "Response B", "Response C"},
		},
		{
			name: "prose around the list",
			input: `Here is my assessment. After careful thought:

FINAL RANKING:
1. Response B
2. Response A
3. Response C

These are my rankings based on quality.`,
			known:    known,
			expected: []string{"Response B", "Response A", "Response C"},
		},
		{
			name:     "no FINAL RANKING header - fallback to whole text",
			input:    `I think Response A is best, then Response C, then Response B.`,
			known:    known,
			expected: []string{"Response A", "Response C", "Response B"},
		},
		{
			name:     "empty string",
			input:    "",
			known:    known,
			expected: []string{},
		},
		{
			name: "FINAL RANKING with no responses falls back to prose mentions",
			input: `Response B was strong, Response A weaker.

FINAL RANKING:
No responses to rank.`,
			known:    known,
			expected: []string{"Response B", "Response A"},
		},
		{
			name: "duplicate labels keep first occurrence",
			input: `FINAL RANKING:
1. Response C
2. Response A
3. Response C
4. Response B`,
			known:    known,
			expected: []string{"Response C", "Response A", "Response B"},
		},
		{
			name: "unknown labels ignored",
			input: `FINAL RANKING:
1. Response D
2. Response A
3. Response B`,
			known:    known,
			expected: []string{"Response A", "Response B"},
		},
		{
			name: "partial ranking is a valid subset",
			input: `FINAL RANKING:
1. Response B`,
			known:    known,
			expected: []string{"Response B"},
		},
		{
			name:     "empty known set yields empty order",
			input:    "FINAL RANKING:\n1. Response A",
			known:    nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseRanking(tt.input, tt.known)

			if len(result) != len(tt.expected) {
				t.Fatalf("Length mismatch: got %d (%v), want %d (%v)",
					len(result), result, len(tt.expected), tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("At index %d: got %q, want %q", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestParseRankingDeterministic(t *testing.T) {
	known := []string{"Response A", "Response B"}
	input := "FINAL RANKING:\n1. Response B\n2. Response A"

	first := ParseRanking(input, known)
	for i := 0; i < 10; i++ {
		if got := ParseRanking(input, known); !reflect.DeepEqual(got, first) {
			t.Fatalf("Parse not deterministic: got %v, want %v", got, first)
		}
	}
}
