package parser

import (
	"strconv"

	"github.com/aledsdavies/graphcode/gate"
	"github.com/aledsdavies/graphcode/internal/errs"
	"github.com/aledsdavies/graphcode/internal/values"
	"github.com/aledsdavies/graphcode/ir"
)

// parseTypedArray handles every concrete typed-array defined type. handled
// is false for any other type, letting the caller fall through to its
// main dispatch switch.
func (w *walker) parseTypedArray(v any) (node *ir.Node, handled bool, err error) {
	switch vv := v.(type) {
	case values.Int8Array:
		n, e := w.buildTypedArray(vv, "Int8Array", len(vv), false, func(i int) string {
			return strconv.FormatInt(int64(vv[i]), 10)
		})
		return n, true, e
	case values.Uint8Array:
		n, e := w.buildTypedArray(vv, "Uint8Array", len(vv), false, func(i int) string {
			return strconv.FormatUint(uint64(vv[i]), 10)
		})
		return n, true, e
	case values.Uint8ClampedArray:
		n, e := w.buildTypedArray(vv, "Uint8ClampedArray", len(vv), false, func(i int) string {
			return strconv.FormatUint(uint64(vv[i]), 10)
		})
		return n, true, e
	case values.Int16Array:
		n, e := w.buildTypedArray(vv, "Int16Array", len(vv), false, func(i int) string {
			return strconv.FormatInt(int64(vv[i]), 10)
		})
		return n, true, e
	case values.Uint16Array:
		n, e := w.buildTypedArray(vv, "Uint16Array", len(vv), false, func(i int) string {
			return strconv.FormatUint(uint64(vv[i]), 10)
		})
		return n, true, e
	case values.Int32Array:
		n, e := w.buildTypedArray(vv, "Int32Array", len(vv), false, func(i int) string {
			return strconv.FormatInt(int64(vv[i]), 10)
		})
		return n, true, e
	case values.Uint32Array:
		n, e := w.buildTypedArray(vv, "Uint32Array", len(vv), false, func(i int) string {
			return strconv.FormatUint(uint64(vv[i]), 10)
		})
		return n, true, e
	case values.Float32Array:
		n, e := w.buildTypedArray(vv, "Float32Array", len(vv), false, func(i int) string {
			return formatFloatText(float64(vv[i]))
		})
		return n, true, e
	case values.Float64Array:
		n, e := w.buildTypedArray(vv, "Float64Array", len(vv), false, func(i int) string {
			return formatFloatText(vv[i])
		})
		return n, true, e
	case values.BigInt64Array:
		n, e := w.buildTypedArray(vv, "BigInt64Array", len(vv), true, func(i int) string {
			return vv[i].String()
		})
		return n, true, e
	case values.BigUint64Array:
		n, e := w.buildTypedArray(vv, "BigUint64Array", len(vv), true, func(i int) string {
			return vv[i].String()
		})
		return n, true, e
	default:
		return nil, false, nil
	}
}

func (w *walker) buildTypedArray(raw any, ctor string, n int, isBig bool, textAt func(i int) string) (*ir.Node, error) {
	flag := gate.TypedArray
	if isBig {
		flag = gate.BigIntTypedArray
	}
	if err := gate.Require(w.pc.Gate(), flag); err != nil {
		return nil, errs.FeatureMissingError(err)
	}

	id, fresh := identifyOrAlloc(w.pc, raw)
	if !fresh {
		w.pc.Mark(id)
		return ir.IndexedValue(id), nil
	}

	elems := make([]*ir.Node, n)
	for i := 0; i < n; i++ {
		if isBig {
			elems[i] = ir.BigIntLit(textAt(i))
		} else {
			elems[i] = ir.Number(textAt(i))
		}
	}
	if isBig {
		return ir.BigIntTypedArray(id, ctor, elems, nil), nil
	}
	return ir.TypedArray(id, ctor, elems, nil), nil
}
