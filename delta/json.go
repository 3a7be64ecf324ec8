package delta

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// MalformedContentError reports input that cannot be converted into a delta.
type MalformedContentError struct {
	// Op is the index of the offending op, or -1 when the input as a whole is
	// invalid.
	Op     int
	Reason string
}

func (e *MalformedContentError) Error() string {
	if e.Op < 0 {
		return "delta: malformed content: " + e.Reason
	}
	return fmt.Sprintf("delta: malformed content: op %d: %s", e.Op, e.Reason)
}

func malformed(op int, format string, args ...any) error {
	return &MalformedContentError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// Parse decodes a delta from JSON. Both a bare op array and an object with an
// "ops" array are accepted.
func Parse(data []byte) (Delta, error) {
	if !gjson.ValidBytes(data) {
		return Delta{}, malformed(-1, "invalid JSON")
	}
	root := gjson.ParseBytes(data)
	ops := root
	if root.IsObject() {
		ops = root.Get("ops")
		if !ops.Exists() {
			return Delta{}, malformed(-1, `missing "ops"`)
		}
	}
	if !ops.IsArray() {
		return Delta{}, malformed(-1, "ops must be an array, got %s", ops.Type)
	}

	var (
		d    Delta
		perr error
		i    int
	)
	ops.ForEach(func(_, v gjson.Result) bool {
		op, err := parseOp(i, v)
		if err != nil {
			perr = err
			return false
		}
		d.push(op)
		i++
		return true
	})
	if perr != nil {
		return Delta{}, perr
	}
	return d, nil
}

func parseOp(i int, v gjson.Result) (Op, error) {
	if !v.IsObject() {
		return Op{}, malformed(i, "op must be an object")
	}

	var op Op
	set := 0
	if ins := v.Get("insert"); ins.Exists() {
		set++
		switch {
		case ins.Type == gjson.String:
			if ins.Str == "" {
				return Op{}, malformed(i, "empty insert")
			}
			op.Insert = ins.Str
		case ins.IsObject():
			embed, _ := ins.Value().(map[string]any)
			if len(embed) == 0 {
				return Op{}, malformed(i, "empty embed")
			}
			op.Embed = embed
		default:
			return Op{}, malformed(i, "insert must be a string or an object")
		}
	}
	if r := v.Get("retain"); r.Exists() {
		set++
		n, err := parseCount(r)
		if err != nil {
			return Op{}, malformed(i, "retain: %v", err)
		}
		op.Retain = n
	}
	if del := v.Get("delete"); del.Exists() {
		set++
		n, err := parseCount(del)
		if err != nil {
			return Op{}, malformed(i, "delete: %v", err)
		}
		op.Delete = n
	}
	if set != 1 {
		return Op{}, malformed(i, "op must have exactly one of insert, retain, delete")
	}

	if attrs := v.Get("attributes"); attrs.Exists() && attrs.Type != gjson.Null {
		if !attrs.IsObject() {
			return Op{}, malformed(i, "attributes must be an object")
		}
		if op.Delete > 0 {
			return Op{}, malformed(i, "delete cannot carry attributes")
		}
		m, _ := attrs.Value().(map[string]any)
		if len(m) > 0 {
			op.Attributes = AttributeMap(m)
		}
	}
	return op, nil
}

func parseCount(r gjson.Result) (int, error) {
	if r.Type != gjson.Number {
		return 0, fmt.Errorf("must be a number, got %s", r.Type)
	}
	f := r.Float()
	if f <= 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, fmt.Errorf("must be a positive integer, got %s", r.Raw)
	}
	return int(f), nil
}

// From converts v into a delta. Accepted inputs are Delta, *Delta, []Op, JSON
// ([]byte, json.RawMessage, string), decoded JSON values and nil, which yields
// the empty document.
func From(v any) (Delta, error) {
	switch x := v.(type) {
	case nil:
		return Delta{}, nil
	case Delta:
		return x, nil
	case *Delta:
		if x == nil {
			return Delta{}, nil
		}
		return *x, nil
	case []Op:
		for i, op := range x {
			if err := validateOp(i, op); err != nil {
				return Delta{}, err
			}
		}
		return New(x...), nil
	case []byte:
		return Parse(x)
	case json.RawMessage:
		return Parse(x)
	case string:
		return Parse([]byte(x))
	case []any, map[string]any:
		data, err := json.Marshal(x)
		if err != nil {
			return Delta{}, malformed(-1, "%v", err)
		}
		return Parse(data)
	default:
		return Delta{}, malformed(-1, "unsupported content type %T", v)
	}
}

func validateOp(i int, op Op) error {
	set := 0
	if op.Insert != "" || op.Embed != nil {
		set++
	}
	if op.Insert != "" && op.Embed != nil {
		set++
	}
	if op.Retain != 0 {
		set++
	}
	if op.Delete != 0 {
		set++
	}
	switch {
	case set != 1:
		return malformed(i, "op must have exactly one of insert, retain, delete")
	case op.Retain < 0 || op.Delete < 0:
		return malformed(i, "negative length")
	case op.Delete > 0 && len(op.Attributes) > 0:
		return malformed(i, "delete cannot carry attributes")
	}
	return nil
}

// MarshalJSON encodes the delta as {"ops":[...]}.
func (d Delta) MarshalJSON() ([]byte, error) {
	out := []byte(`{"ops":[]}`)
	for i, op := range d.ops {
		obj, err := marshalOp(op)
		if err != nil {
			return nil, fmt.Errorf("delta: op %d: %w", i, err)
		}
		out, err = sjson.SetRawBytes(out, "ops.-1", obj)
		if err != nil {
			return nil, fmt.Errorf("delta: op %d: %w", i, err)
		}
	}
	return out, nil
}

func marshalOp(op Op) ([]byte, error) {
	obj := []byte(`{}`)
	var err error
	switch {
	case op.Kind() == KindDelete:
		obj, err = sjson.SetBytes(obj, "delete", op.Delete)
	case op.Kind() == KindRetain:
		obj, err = sjson.SetBytes(obj, "retain", op.Retain)
	case op.isEmbed():
		obj, err = sjson.SetBytes(obj, "insert", op.Embed)
	default:
		obj, err = sjson.SetBytes(obj, "insert", op.Insert)
	}
	if err != nil {
		return nil, err
	}
	if len(op.Attributes) > 0 {
		attrs, err := json.Marshal(map[string]any(op.Attributes))
		if err != nil {
			return nil, err
		}
		obj, err = sjson.SetRawBytes(obj, "attributes", attrs)
		if err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func (d *Delta) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// String returns the compact JSON form, for logs and test failures.
func (d Delta) String() string {
	data, err := d.MarshalJSON()
	if err != nil {
		return "delta(" + strconv.Quote(err.Error()) + ")"
	}
	return string(data)
}
