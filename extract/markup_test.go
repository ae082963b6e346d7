package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanFragment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips tags",
			input: `<span style="color:red">2nd</span> and <b>10</b>`,
			want:  "2nd and 10",
		},
		{
			name:  "unescapes entities",
			input: "2nd &amp; 10 &mdash; shotgun",
			want:  "2nd & 10 — shotgun",
		},
		{
			name:  "collapses whitespace",
			input: "  Counter \n\t Trey   Left ",
			want:  "Counter Trey Left",
		},
		{
			name:  "tags become word boundaries",
			input: "<td>Counter</td><td>Trey</td>",
			want:  "Counter Trey",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "tags only",
			input: "<br><hr/>",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanFragment(tt.input))
		})
	}
}
