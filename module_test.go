package pulseaudio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildModuleArgument(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{
			name: "string value is single quoted",
			args: map[string]interface{}{"sink_name": "myrtle"},
			want: `sink_name='myrtle'`,
		},
		{
			name: "apostrophe in string is escaped",
			args: map[string]interface{}{"description": "Bob's sink"},
			want: `description='Bob\'s sink'`,
		},
		{
			name: "numeric value is unquoted",
			args: map[string]interface{}{"rate": 44100},
			want: `rate=44100`,
		},
		{
			name: "bool value is unquoted",
			args: map[string]interface{}{"use_volume_sharing": false},
			want: `use_volume_sharing=false`,
		},
		{
			name: "keys sort deterministically",
			args: map[string]interface{}{"b": "two", "a": "one"},
			want: `a='one' b='two'`,
		},
		{
			name: "object value flattens and double quotes",
			args: map[string]interface{}{
				"sink_properties": PropTree{"device": PropTree{"description": "My Sink"}},
			},
			want: `sink_properties="device.description=My Sink"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildModuleArgument(tt.args))
		})
	}
}

func TestQuoteObjectArgEscapesDoubleQuotes(t *testing.T) {
	got := quoteObjectArg(PropTree{"name": `say "hi"`})
	assert.Equal(t, `"name=say \"hi\""`, got)
}
