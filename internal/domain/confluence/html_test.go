package confluence

import "testing"

func TestExtractText(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "plain paragraphs",
			source: "<p>First paragraph.</p><p>Second paragraph.</p>",
			want:   "First paragraph. Second paragraph.",
		},
		{
			name:   "script and style dropped",
			source: "<p>Keep this.</p><script>alert('boom')</script><style>p{color:red}</style><p>And this.</p>",
			want:   "Keep this. And this.",
		},
		{
			name:   "metadata class dropped",
			source: `<div class="metadata"><span>last edited by admin</span></div><p>Body text.</p>`,
			want:   "Body text.",
		},
		{
			name:   "metadata among other classes",
			source: `<div class="panel metadata wide">hidden</div><p>visible</p>`,
			want:   "visible",
		},
		{
			name:   "whitespace collapsed",
			source: "<p>spread\n\nacross\t\tlines</p>",
			want:   "spread across lines",
		},
		{
			name:   "nested structure",
			source: "<table><tr><td>cell one</td><td>cell two</td></tr></table>",
			want:   "cell one cell two",
		},
		{
			name:   "entities decoded",
			source: "<p>fish &amp; chips</p>",
			want:   "fish & chips",
		},
		{
			name:   "empty input",
			source: "",
			want:   "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractText(tc.source); got != tc.want {
				t.Errorf("ExtractText(%q) = %q, want %q", tc.source, got, tc.want)
			}
		})
	}
}
