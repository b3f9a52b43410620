package subtitle

import "testing"

func TestStripTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<i>Hello</i>", "Hello"},
		{`{\an8}Top text`, "Top text"},
		{"<font color=\"red\">Red</font> and {pos(1,2)}placed", "Red and placed"},
		{"  plain  ", "plain"},
		{"<b></b>{}", ""},
	}
	for _, tt := range tests {
		if got := StripTags(tt.in); got != tt.want {
			t.Errorf("StripTags(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}
