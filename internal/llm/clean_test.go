package llm

import "testing"

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain text untouched",
			raw:  `"AWS","optimize","$90K via contract renegotiation"`,
			want: `"AWS","optimize","$90K via contract renegotiation"`,
		},
		{
			name: "fenced block",
			raw:  "```\n\"AWS\",\"optimize\",\"savings\"\n```",
			want: `"AWS","optimize","savings"`,
		},
		{
			name: "fenced block with language tag",
			raw:  "```csv\n\"AWS\",\"optimize\",\"savings\"\n```",
			want: `"AWS","optimize","savings"`,
		},
		{
			name: "surrounding whitespace",
			raw:  "\n\n  optimize  \n",
			want: "optimize",
		},
		{
			name: "single line fence weirdness",
			raw:  "```",
			want: "",
		},
		{
			name: "multi line content survives",
			raw:  "```\nrow one\nrow two\n```",
			want: "row one\nrow two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.raw); got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
