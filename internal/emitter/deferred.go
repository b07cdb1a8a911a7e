package emitter

import "strings"

// deferredKind distinguishes the three shapes a deferred patch can take:
// an index/property assignment, a Map .set call, or a Set .add call.
type deferredKind uint8

const (
	deferredIndex deferredKind = iota
	deferredMapSet
	deferredSetAdd
)

// deferredEntry records one ancestor-reference child that could not be
// embedded inline because its value is still under construction at the
// point its slot would occupy. targetID names the container the patch
// applies to; accessor/key/value hold pre-rendered expression text.
type deferredEntry struct {
	kind     deferredKind
	targetID uint32
	accessor string // deferredIndex: ".foo" or "[0]" or `["odd key"]`
	key      string // deferredMapSet: the map key's expression text
	value    string // the expression text assigned/set/added
}

func (e *emitter) pushDeferredIndex(targetID uint32, accessor, value string) {
	e.deferred = append(e.deferred, deferredEntry{kind: deferredIndex, targetID: targetID, accessor: accessor, value: value})
}

func (e *emitter) pushDeferredMapSet(targetID uint32, key, value string) {
	e.deferred = append(e.deferred, deferredEntry{kind: deferredMapSet, targetID: targetID, key: key, value: value})
}

func (e *emitter) pushDeferredSetAdd(targetID uint32, value string) {
	e.deferred = append(e.deferred, deferredEntry{kind: deferredSetAdd, targetID: targetID, value: value})
}

// flushDeferred renders the buffered patches into the P list, merging
// adjacent compatible entries: indexed
// assignments sharing the same right-hand value chain as `a=b=value`; Map
// .set calls against the same target chain as `.set(k,v).set(...)`; Set
// .add calls against the same target chain as `.add(v).add(...)`. Any
// other adjacency flushes the buffered run and starts a new one — order is
// preserved throughout.
func (e *emitter) flushDeferred() []string {
	var out []string
	i := 0
	for i < len(e.deferred) {
		cur := e.deferred[i]
		switch cur.kind {
		case deferredIndex:
			lhs := []string{e.lhsText(cur)}
			j := i + 1
			for j < len(e.deferred) && e.deferred[j].kind == deferredIndex && e.deferred[j].value == cur.value {
				lhs = append(lhs, e.lhsText(e.deferred[j]))
				j++
			}
			out = append(out, strings.Join(lhs, "=")+"="+cur.value)
			i = j

		case deferredMapSet:
			calls := []string{".set(" + cur.key + "," + cur.value + ")"}
			j := i + 1
			for j < len(e.deferred) && e.deferred[j].kind == deferredMapSet && e.deferred[j].targetID == cur.targetID {
				calls = append(calls, ".set("+e.deferred[j].key+","+e.deferred[j].value+")")
				j++
			}
			out = append(out, e.varName(cur.targetID)+strings.Join(calls, ""))
			i = j

		case deferredSetAdd:
			calls := []string{".add(" + cur.value + ")"}
			j := i + 1
			for j < len(e.deferred) && e.deferred[j].kind == deferredSetAdd && e.deferred[j].targetID == cur.targetID {
				calls = append(calls, ".add("+e.deferred[j].value+")")
				j++
			}
			out = append(out, e.varName(cur.targetID)+strings.Join(calls, ""))
			i = j
		}
	}
	return out
}

func (e *emitter) lhsText(d deferredEntry) string {
	return e.varName(d.targetID) + d.accessor
}
