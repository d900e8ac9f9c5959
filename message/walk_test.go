package message_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-httpmsg/message"
)

// tree builds A holding B, C, and D, each holding two text parts.
func tree(t *testing.T) *message.MixedPart {
	t.Helper()

	mixed := func(where string, parts ...string) *message.MixedPart {
		mp := message.New(message.WithMime("multipart/mixed"))
		require.NoError(t, mp.Header().Set("X-Where", where))
		for _, p := range parts {
			_, err := mp.Add(p, message.Name(p))
			require.NoError(t, err)
		}
		return mp
	}

	a := mixed("A")
	for _, c := range []*message.MixedPart{
		mixed("B", "E", "F"),
		mixed("C", "G", "H"),
		mixed("D", "I", "J"),
	} {
		_, err := a.Add(c)
		require.NoError(t, err)
	}
	return a
}

func where(n message.Node) string {
	switch n := n.(type) {
	case *message.Part:
		return n.Name()
	case *message.MixedPart:
		return n.Header().Value("X-Where")
	}
	return ""
}

func TestWalk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		walk        func(message.Node, message.Visit) error
		expectOrder []string
		expectDepth []int
		expectIndex []int
	}{
		{
			name:        "Walk",
			walk:        message.Walk,
			expectOrder: []string{"A", "B", "E", "F", "C", "G", "H", "D", "I", "J"},
			expectDepth: []int{0, 1, 2, 2, 1, 2, 2, 1, 2, 2},
			expectIndex: []int{0, 0, 0, 1, 1, 0, 1, 2, 0, 1},
		},
		{
			name: "WalkParts",
			walk: func(root message.Node, visit message.Visit) error {
				return message.WalkParts(root, func(depth, i int, p *message.Part) error {
					return visit(depth, i, p)
				})
			},
			expectOrder: []string{"E", "F", "G", "H", "I", "J"},
			expectDepth: []int{2, 2, 2, 2, 2, 2},
			expectIndex: []int{0, 1, 0, 1, 0, 1},
		},
		{
			name: "WalkMixed",
			walk: func(root message.Node, visit message.Visit) error {
				return message.WalkMixed(root, func(depth, i int, mp *message.MixedPart) error {
					return visit(depth, i, mp)
				})
			},
			expectOrder: []string{"A", "B", "C", "D"},
			expectDepth: []int{0, 1, 1, 1},
			expectIndex: []int{0, 0, 1, 2},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var order []string
			var depths, indexes []int
			err := tt.walk(tree(t), func(depth, i int, n message.Node) error {
				order = append(order, where(n))
				depths = append(depths, depth)
				indexes = append(indexes, i)
				return nil
			})

			require.NoError(t, err)
			assert.Equal(t, tt.expectOrder, order)
			assert.Equal(t, tt.expectDepth, depths)
			assert.Equal(t, tt.expectIndex, indexes)
		})
	}
}

func TestWalk_Stop(t *testing.T) {
	t.Parallel()

	stop := errors.New("stop")
	seen := 0
	err := message.Walk(tree(t), func(depth, i int, n message.Node) error {
		seen++
		if where(n) == "E" {
			return stop
		}
		return nil
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 3, seen)
}

func TestWalk_Leaf(t *testing.T) {
	t.Parallel()

	p := message.NewPart(nil, message.Name("solo"))
	var seen []string
	require.NoError(t, message.Walk(p, func(depth, i int, n message.Node) error {
		seen = append(seen, where(n))
		return nil
	}))
	assert.Equal(t, []string{"solo"}, seen)
}
