package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Lane Detection with Transformers (arXiv:2405.00001v1 [cs.CV])", "Lane Detection with Transformers"},
		{"  Plain title  ", "Plain title"},
		{"Title (arXiv", "Title"},
		{"(arXiv:1234)", ""},
		{"Uses (parens) inside", "Uses (parens) inside"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTitle(tt.in), "title %q", tt.in)
	}
}

func TestCleanAbstract(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{name: "html tags", in: "<p>Occupancy <b>prediction</b> from cameras.</p>", want: "Occupancy prediction from cameras."},
		{name: "entities", in: "Fast &amp; accurate &lt;3", want: "Fast & accurate <3"},
		{name: "announce preamble", in: "arXiv:2405.00001v1 Announce Type: new \nAbstract: We propose a detector.", want: "We propose a detector."},
		{name: "cross list preamble", in: "arXiv:2405.00002v2 Announce Type: cross Abstract: Cross listed.", want: "Cross listed."},
		{name: "plain", in: "  just text \n", want: "just text"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanAbstract(tt.in))
		})
	}
}
