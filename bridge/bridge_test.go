package bridge_test

import (
	"testing"

	"github.com/lollipopkit/coronest/bridge"
	"github.com/lollipopkit/coronest/state"
)

func pullScript(t *testing.T, src string) any {
	t.Helper()
	ls := state.New()
	ls.OpenLibs()
	ls.LoadString(src, "stdin")
	ls.Call(0, 1)
	defer ls.Pop(1)
	return bridge.Pull(ls, -1)
}

// A positive-integer key with a gap stays a sequence, with the missing
// index left as a nil hole rather than flipping to a mapping.
func TestPullTableSparseIntKeysStaySequence(t *testing.T) {
	v := pullScript(t, "rt {[1]:'a', [3]:'c'}")
	seq, ok := v.(bridge.Sequence)
	if !ok {
		t.Fatalf("result %#v, want bridge.Sequence", v)
	}
	if len(seq) != 3 {
		t.Fatalf("len(seq) = %d, want 3", len(seq))
	}
	if seq[0] != "a" || seq[1] != nil || seq[2] != "c" {
		t.Fatalf("seq = %#v, want [a, nil, c]", seq)
	}
}

// Any non-positive-integer key flips the whole table to a mapping.
func TestPullTableNonIntKeyFlipsToMapping(t *testing.T) {
	v := pullScript(t, "rt {[1]:'a', ['x']:'y'}")
	m, ok := v.(bridge.Mapping)
	if !ok {
		t.Fatalf("result %#v, want bridge.Mapping", v)
	}
	if m[int64(1)] != "a" || m["x"] != "y" {
		t.Fatalf("mapping = %#v", m)
	}
}

func TestPullTableEmptyIsEmptyMapping(t *testing.T) {
	v := pullScript(t, "rt {}")
	m, ok := v.(bridge.Mapping)
	if !ok || len(m) != 0 {
		t.Fatalf("result %#v, want empty bridge.Mapping", v)
	}
}
