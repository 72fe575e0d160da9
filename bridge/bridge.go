// Package bridge implements the bidirectional conversion between host
// values and script values: pushing Go values onto a script VM's stack,
// and reading script tables back as host sequences or mappings.
package bridge

import "github.com/lollipopkit/coronest/api"

// Sequence is a 0-indexed host view of a script table all of whose keys
// were positive integers; indices never observed in the table are left
// as nil holes.
type Sequence []any

// Mapping is a host view of a script table that had at least one key
// that was not a positive integer, keyed by the original script keys.
type Mapping map[any]any

// Opaque wraps a host value that has no script representation. It round
// trips through script code unchanged and is only useful handed back to
// host code.
type Opaque struct{ Value any }

// Push converts a host value into its script representation on top of
// ls's stack, recursing through nested sequences and mappings under
// whatever lock the caller already holds.
func Push(ls api.LkState, v any) {
	switch x := v.(type) {
	case nil:
		ls.PushNil()
	case bool:
		ls.PushBoolean(x)
	case int:
		ls.PushInteger(int64(x))
	case int64:
		ls.PushInteger(x)
	case float32:
		ls.PushNumber(float64(x))
	case float64:
		ls.PushNumber(x)
	case string:
		ls.PushString(x)
	case Sequence:
		pushSequence(ls, x)
	case []any:
		pushSequence(ls, Sequence(x))
	case Mapping:
		pushMapping(ls, x)
	case map[string]any:
		m := make(Mapping, len(x))
		for k, vv := range x {
			m[k] = vv
		}
		pushMapping(ls, m)
	case Opaque:
		ls.Push(x)
	case api.GoFunction:
		ls.PushGoFunction(x)
	case api.LkState:
		pushThread(ls, x)
	default:
		ls.Push(Opaque{Value: v})
	}
}

func pushSequence(ls api.LkState, x Sequence) {
	ls.CreateTable(len(x), 0)
	for i, item := range x {
		Push(ls, item)
		ls.SetI(-2, int64(i+1))
	}
}

func pushMapping(ls api.LkState, x Mapping) {
	ls.CreateTable(0, len(x))
	for k, item := range x {
		switch kk := k.(type) {
		case string:
			Push(ls, item)
			ls.SetField(-2, kk)
		case int:
			Push(ls, item)
			ls.SetI(-2, int64(kk))
		case int64:
			Push(ls, item)
			ls.SetI(-2, kk)
		default:
			Push(ls, k)
			Push(ls, item)
			ls.SetTable(-3)
		}
	}
}

func pushThread(ls api.LkState, t api.LkState) {
	// already-wrapped script values (coroutine threads) pass through;
	// there is no generic "push this other state's thread value" op on
	// BasicAPI, so thread values travel as opaque host references.
	ls.Push(Opaque{Value: t})
}

// Pull reads the script value at idx back into its host form. Tables are
// walked once, buffering every key/value pair before deciding the shape:
// if every key is a positive integer the result is a Sequence sized to
// the largest observed index, with missing indices left as nil holes;
// the first non-positive-integer key flips the whole table into a
// Mapping keyed by the original script keys instead. Empty tables become
// an empty Mapping. Locks are the caller's responsibility, and the walk
// must not call back into script code.
func Pull(ls api.LkState, idx int) any {
	switch ls.Type(idx) {
	case api.LK_TNIL, api.LK_TNONE:
		return nil
	case api.LK_TBOOLEAN:
		return ls.ToBoolean(idx)
	case api.LK_TNUMBER:
		if i, ok := ls.ToIntegerX(idx); ok {
			return i
		}
		return ls.ToNumber(idx)
	case api.LK_TSTRING:
		return ls.ToString(idx)
	case api.LK_TTABLE:
		return pullTable(ls, idx)
	case api.LK_TFUNCTION:
		if gf := ls.ToGoFunction(idx); gf != nil {
			return Opaque{Value: gf}
		}
		return Opaque{Value: ls.ToPointer(idx)}
	case api.LK_TTHREAD:
		return Opaque{Value: ls.ToThread(idx)}
	default:
		if p := ls.ToPointer(idx); p != nil {
			if o, ok := p.(Opaque); ok {
				return o.Value
			}
			return p
		}
		return nil
	}
}

func pullTable(ls api.LkState, idx int) any {
	abs := ls.AbsIndex(idx)

	type pulled struct {
		key      any
		ik       int64
		isSeqKey bool
		val      any
	}
	var entries []pulled
	allSeqKeys := true
	var maxKey int64

	ls.PushNil()
	for ls.Next(abs) {
		e := pulled{}
		if ls.IsInteger(-2) {
			e.ik = ls.ToInteger(-2)
			e.isSeqKey = e.ik > 0
		}
		if e.isSeqKey {
			if e.ik > maxKey {
				maxKey = e.ik
			}
		} else {
			e.key = Pull(ls, -2)
			allSeqKeys = false
		}
		e.val = Pull(ls, -1)
		entries = append(entries, e)
		ls.Pop(1) // drop value, leave key for Next
	}

	if len(entries) == 0 {
		return make(Mapping)
	}

	if allSeqKeys {
		seq := make(Sequence, maxKey)
		for _, e := range entries {
			seq[e.ik-1] = e.val
		}
		return seq
	}

	mapping := make(Mapping, len(entries))
	for _, e := range entries {
		if e.isSeqKey {
			mapping[e.ik] = e.val
		} else {
			mapping[e.key] = e.val
		}
	}
	return mapping
}
