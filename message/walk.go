package message

import "errors"

// Visit is called by Walk for each node, with its depth below the root and its
// index among its siblings. Returning an error stops the walk.
type Visit func(depth, i int, node Node) error

// Walk visits root and then, depth first and in order, every node below it.
// The root has depth and index zero. The first error returned by visit stops
// the walk and is returned.
func Walk(root Node, visit Visit) error {
	return walk(0, 0, root, visit)
}

func walk(depth, i int, node Node, visit Visit) error {
	if err := visit(depth, i, node); err != nil {
		return err
	}

	mp, isMixed := node.(*MixedPart)
	if !isMixed {
		return nil
	}

	for j, child := range mp.nodes {
		if err := walk(depth+1, j, child, visit); err != nil {
			return err
		}
	}
	return nil
}

// WalkParts is like Walk, but only visits the leaf parts.
func WalkParts(root Node, visit func(depth, i int, p *Part) error) error {
	return Walk(root, func(depth, i int, node Node) error {
		if p, isPart := node.(*Part); isPart {
			return visit(depth, i, p)
		}
		return nil
	})
}

// WalkMixed is like Walk, but only visits the MixedPart containers.
func WalkMixed(root Node, visit func(depth, i int, mp *MixedPart) error) error {
	return Walk(root, func(depth, i int, node Node) error {
		if mp, isMixed := node.(*MixedPart); isMixed {
			return visit(depth, i, mp)
		}
		return nil
	})
}

// contains returns true if n is root or is found anywhere below it.
func contains(root, n Node) bool {
	found := errors.New("found")
	err := Walk(root, func(_, _ int, node Node) error {
		if node == n {
			return found
		}
		return nil
	})
	return err == found
}
