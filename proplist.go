package pulseaudio

import (
	"fmt"
	"sort"
	"strings"
)

// PropTree is a nested property tree: each value is either a string
// leaf or another PropTree branch. Values of other concrete types are
// accepted by Flatten and coerced to their string form, per spec.md
// §4.1 ("non-string leaves are coerced to their string form").
//
// A key prefixed with "@" lets a leaf and a subtree coexist under the
// same logical wire name: "@foo": "leaf" and "foo": PropTree{...} both
// flatten under the "foo" prefix. The "@" is stripped on deflation.
type PropTree map[string]interface{}

// Flatten dot-joins a PropTree depth-first into the flat string map the
// wire PROPLIST encoding uses.
func Flatten(tree PropTree) map[string]string {
	out := make(map[string]string)
	flattenInto(out, "", tree)
	return out
}

func flattenInto(out map[string]string, prefix string, node PropTree) {
	for k, v := range node {
		wireKey := strings.TrimPrefix(k, "@")
		full := wireKey
		if prefix != "" {
			full = prefix + "." + wireKey
		}
		switch val := v.(type) {
		case string:
			out[full] = val
		case PropTree:
			flattenInto(out, full, val)
		case map[string]interface{}:
			flattenInto(out, full, PropTree(val))
		default:
			out[full] = fmt.Sprint(val)
		}
	}
}

// Inflate reverses Flatten: a flat dot-joined map becomes a PropTree.
// Where a key would need to be both a leaf and a branch (one flattened
// entry ends exactly at a prefix of another), the leaf is moved to the
// sibling key "@<name>" so both values survive, per spec.md §4.1's
// "@-escape rule".
func Inflate(flat map[string]string) PropTree {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tree := make(PropTree)
	for _, k := range keys {
		insertPath(tree, strings.Split(k, "."), flat[k])
	}
	return tree
}

func insertPath(tree PropTree, segments []string, value string) {
	seg := segments[0]

	if len(segments) == 1 {
		if existing, ok := tree[seg]; ok {
			if _, isBranch := existing.(PropTree); isBranch {
				tree["@"+seg] = value
				return
			}
		}
		tree[seg] = value
		return
	}

	var branch PropTree
	if existing, ok := tree[seg]; ok {
		if b, isBranch := existing.(PropTree); isBranch {
			branch = b
		} else {
			tree["@"+seg] = existing
			branch = make(PropTree)
			tree[seg] = branch
		}
	} else {
		branch = make(PropTree)
		tree[seg] = branch
	}
	insertPath(branch, segments[1:], value)
}
