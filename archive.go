package pswarm

import "github.com/petar/GoLLRB/llrb"

// archive keeps the k best distinct points seen during a run in an
// ordered tree.
type archive struct {
	k    int
	tree *llrb.LLRB
}

type archItem struct{ p Point }

// Less orders items by value, then position, so identical points
// collide and ReplaceOrInsert dedups them.
func (a archItem) Less(than llrb.Item) bool {
	b := than.(archItem)
	if a.p.Val != b.p.Val {
		return a.p.Val < b.p.Val
	}
	for i := 0; i < a.p.Len() && i < b.p.Len(); i++ {
		if a.p.At(i) != b.p.At(i) {
			return a.p.At(i) < b.p.At(i)
		}
	}
	return a.p.Len() < b.p.Len()
}

func newArchive(k int) *archive {
	if k <= 0 {
		return nil
	}
	return &archive{k: k, tree: llrb.New()}
}

func (a *archive) add(p Point) {
	a.tree.ReplaceOrInsert(archItem{p})
	for a.tree.Len() > a.k {
		a.tree.DeleteMax()
	}
}

// points returns the archived points ascending by value.
func (a *archive) points() []Point {
	pts := make([]Point, 0, a.tree.Len())
	if a.tree.Len() == 0 {
		return pts
	}
	a.tree.AscendGreaterOrEqual(a.tree.Min(), func(i llrb.Item) bool {
		pts = append(pts, i.(archItem).p)
		return true
	})
	return pts
}
