package pulseaudio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFlatten covers spec.md §8 scenario 4.
func TestFlatten(t *testing.T) {
	tree := PropTree{
		"application": PropTree{
			"name": "ut",
			"process": PropTree{
				"id": "1",
			},
		},
	}
	flat := Flatten(tree)
	assert.Equal(t, map[string]string{
		"application.name":       "ut",
		"application.process.id": "1",
	}, flat)
}

func TestFlattenCoercesNonStringLeaves(t *testing.T) {
	tree := PropTree{"count": 42}
	assert.Equal(t, map[string]string{"count": "42"}, Flatten(tree))
}

func TestFlattenAcceptsPlainMap(t *testing.T) {
	tree := PropTree{"inner": map[string]interface{}{"k": "v"}}
	assert.Equal(t, map[string]string{"inner.k": "v"}, Flatten(tree))
}

func TestInflateRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tree PropTree
	}{
		{
			name: "two level nesting",
			tree: PropTree{
				"application": PropTree{
					"name": "ut",
					"process": PropTree{
						"id": "1",
					},
				},
			},
		},
		{
			name: "flat",
			tree: PropTree{"media.name": "stream"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flat := Flatten(tt.tree)
			assert.Equal(t, flat, Flatten(Inflate(flat)))
		})
	}
}

// TestInflateAtEscape covers spec.md §4.1's rule that a leaf and a
// branch coexisting under the same name survive inflate via the "@"
// escape on the leaf.
func TestInflateAtEscape(t *testing.T) {
	flat := map[string]string{
		"foo":       "leaf",
		"foo.child": "branch-value",
	}
	tree := Inflate(flat)

	leaf, ok := tree["@foo"].(string)
	assert.True(t, ok)
	assert.Equal(t, "leaf", leaf)

	branch, ok := tree["foo"].(PropTree)
	assert.True(t, ok)
	assert.Equal(t, "branch-value", branch["child"])

	assert.Equal(t, flat, Flatten(tree))
}
