package plugins

import (
	"math"

	"github.com/speakeasy-api/schemalogic/logic"
)

// maxExact is the magnitude below which float64 integer arithmetic is exact
// enough for the multipleOf checks.
const maxExact = 1 << 52

// ConstSimplifier decides const literals. Null and boolean have so few
// values that they are decided by trying each one.
type ConstSimplifier struct{}

func (ConstSimplifier) ID() string           { return "const" }
func (ConstSimplifier) Types() logic.TypeSet { return Always }
func (ConstSimplifier) Kinds() []logic.Kind  { return []logic.Kind{logic.KindConst} }
func (ConstSimplifier) Keywords() []string   { return []string{"const", "enum", "not", "allOf"} }

func (ConstSimplifier) Simplify(in *Input) (Result, error) {
	asserted := constValues(in.Asserted(logic.KindConst))
	negated := constValues(in.Negated(logic.KindConst))

	switch {
	case len(asserted) > 1:
		return Empty(), nil
	case len(asserted) == 1:
		v := asserted[0]
		if t, ok := logic.TypeOf(v); ok && t != in.Type {
			return Empty(), nil
		}
		if contains(negated, v) {
			return Empty(), nil
		}
		return Certify(in.Oracle.ValidateConst(v), map[string]any{"const": v}), nil
	}

	if in.Type.Finite() {
		return enumerate(in, negated), nil
	}
	if len(negated) == 0 {
		return Partial(nil), nil
	}
	frag := map[string]any{"not": excluded(negated)}
	// Removing finitely many values from an infinite type leaves values.
	if in.OnlyKinds(logic.KindConst) {
		return Inhabited(frag), nil
	}
	return Partial(frag), nil
}

// enumerate decides a finite type by validating every value it has left.
func enumerate(in *Input, negated []any) Result {
	var all []any
	switch in.Type {
	case logic.TypeNull:
		all = []any{nil}
	case logic.TypeBoolean:
		all = []any{true, false}
	}
	var left []any
	for _, v := range all {
		if !contains(negated, v) {
			left = append(left, v)
		}
	}
	if len(left) == 0 {
		return Empty()
	}

	var frag map[string]any
	if len(left) < len(all) {
		frag = map[string]any{"const": left[0]}
		if len(left) > 1 {
			frag = map[string]any{"enum": left}
		}
	}

	verdict := logic.False
	for _, v := range left {
		verdict = verdict.Or(in.Oracle.ValidateConst(v))
	}
	switch verdict {
	case logic.True:
		return Inhabited(frag)
	case logic.False:
		return Empty()
	default:
		return Partial(frag)
	}
}

func constValues(ps []logic.Predicate) []any {
	var out []any
	seen := map[string]bool{}
	for _, p := range ps {
		c, ok := p.(logic.Const)
		if !ok {
			continue
		}
		key := logic.CanonicalKey(c.Value)
		if !seen[key] {
			seen[key] = true
			out = append(out, c.Value)
		}
	}
	return out
}

func excluded(values []any) any {
	if len(values) == 1 {
		return map[string]any{"const": values[0]}
	}
	return map[string]any{"enum": values}
}

// addNot records a negated schema under not, or allOf once not is taken.
func addNot(frag map[string]any, schema any) {
	if _, taken := frag["not"]; taken {
		AppendAllOf(frag, map[string]any{"not": schema})
		return
	}
	frag["not"] = schema
}

// bound is one side of a numeric interval.
type bound struct {
	value     float64
	exclusive bool
	set       bool
}

func (b *bound) tightenLower(v float64, exclusive bool) {
	if !b.set || v > b.value || (v == b.value && exclusive) {
		*b = bound{value: v, exclusive: exclusive, set: true}
	}
}

func (b *bound) tightenUpper(v float64, exclusive bool) {
	if !b.set || v < b.value || (v == b.value && exclusive) {
		*b = bound{value: v, exclusive: exclusive, set: true}
	}
}

// NumberSimplifier folds numeric bounds and multipleOf. It proves
// emptiness of empty ranges and ranges without a multiple, and certifies
// only ranges collapsed to a single point.
type NumberSimplifier struct{}

func (NumberSimplifier) ID() string           { return "number" }
func (NumberSimplifier) Types() logic.TypeSet { return logic.SetOf(logic.TypeNumber) }
func (NumberSimplifier) Kinds() []logic.Kind {
	return []logic.Kind{logic.KindMinimum, logic.KindMaximum, logic.KindMultipleOf}
}
func (NumberSimplifier) Keywords() []string {
	return []string{"minimum", "exclusiveMinimum", "maximum", "exclusiveMaximum", "multipleOf", "not", "allOf"}
}

func (NumberSimplifier) Simplify(in *Input) (Result, error) {
	var lo, hi bound
	for _, p := range in.Asserted(logic.KindMinimum) {
		m := p.(logic.Minimum)
		lo.tightenLower(m.Value, m.Exclusive)
	}
	for _, p := range in.Negated(logic.KindMinimum) {
		m := p.(logic.Minimum)
		hi.tightenUpper(m.Value, !m.Exclusive)
	}
	for _, p := range in.Asserted(logic.KindMaximum) {
		m := p.(logic.Maximum)
		hi.tightenUpper(m.Value, m.Exclusive)
	}
	for _, p := range in.Negated(logic.KindMaximum) {
		m := p.(logic.Maximum)
		lo.tightenLower(m.Value, !m.Exclusive)
	}
	if lo.set && hi.set {
		if lo.value > hi.value || (lo.value == hi.value && (lo.exclusive || hi.exclusive)) {
			return Empty(), nil
		}
	}

	mults := multiples(in.Asserted(logic.KindMultipleOf))
	nots := multiples(in.Negated(logic.KindMultipleOf))
	for _, m := range mults {
		for _, d := range nots {
			if divides(d, m) {
				return Empty(), nil
			}
		}
		if lo.set && hi.set && !hasMultipleIn(m, lo, hi) {
			return Empty(), nil
		}
	}

	frag := map[string]any{}
	if lo.set {
		if lo.exclusive {
			frag["exclusiveMinimum"] = lo.value
		} else {
			frag["minimum"] = lo.value
		}
	}
	if hi.set {
		if hi.exclusive {
			frag["exclusiveMaximum"] = hi.value
		} else {
			frag["maximum"] = hi.value
		}
	}
	for i, m := range mults {
		if i == 0 {
			frag["multipleOf"] = m
			continue
		}
		AppendAllOf(frag, map[string]any{"multipleOf": m})
	}
	for _, d := range nots {
		addNot(frag, map[string]any{"multipleOf": d})
	}

	if lo.set && hi.set && lo.value == hi.value {
		return Certify(in.Oracle.ValidateConst(lo.value), frag), nil
	}
	return Partial(frag), nil
}

func multiples(ps []logic.Predicate) []float64 {
	var out []float64
	for _, p := range ps {
		v := p.(logic.MultipleOf).Value
		dup := false
		for _, o := range out {
			if o == v {
				dup = true
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}

func exactInteger(v float64) bool {
	return v == math.Trunc(v) && math.Abs(v) < maxExact
}

// divides reports whether every multiple of m is a multiple of d.
func divides(d, m float64) bool {
	if d == m {
		return true
	}
	return exactInteger(d) && exactInteger(m) && d != 0 && math.Mod(m, d) == 0
}

// hasMultipleIn reports whether the interval may contain a multiple of m.
// It only answers false when that is certain.
func hasMultipleIn(m float64, lo, hi bound) bool {
	if !exactInteger(m) || m <= 0 || math.Abs(lo.value) >= maxExact || math.Abs(hi.value) >= maxExact {
		return true
	}
	k := math.Ceil(lo.value/m) * m
	if lo.exclusive && k == lo.value {
		k += m
	}
	return k < hi.value || (k == hi.value && !hi.exclusive)
}

// countRange is an integer range of lengths, item counts or property counts.
type countRange struct {
	lo, hi float64
}

func newCountRange() countRange { return countRange{lo: 0, hi: math.Inf(1)} }

func (r *countRange) atLeast(n float64) {
	if n = math.Ceil(n); n > r.lo {
		r.lo = n
	}
}

func (r *countRange) atMost(n float64) {
	if n = math.Floor(n); n < r.hi {
		r.hi = n
	}
}

func (r countRange) empty() bool { return r.lo > r.hi }

func (r countRange) bounded() bool { return !math.IsInf(r.hi, 1) }

func (r countRange) addTo(frag map[string]any, minKey, maxKey string) {
	if r.lo > 0 {
		frag[minKey] = r.lo
	}
	if r.bounded() {
		frag[maxKey] = r.hi
	}
}

// lengths folds min and max literals of one count family. Negated bounds
// are read through their integer complement.
func lengths(in *Input, minKind, maxKind logic.Kind) countRange {
	r := newCountRange()
	for _, p := range in.Asserted(minKind) {
		r.atLeast(countValue(p))
	}
	for _, p := range in.Asserted(maxKind) {
		r.atMost(countValue(p))
	}
	for _, p := range in.Negated(minKind) {
		r.atMost(math.Ceil(countValue(p)) - 1)
	}
	for _, p := range in.Negated(maxKind) {
		r.atLeast(math.Floor(countValue(p)) + 1)
	}
	return r
}

func countValue(p logic.Predicate) float64 {
	switch p := p.(type) {
	case logic.MinLength:
		return p.Value
	case logic.MaxLength:
		return p.Value
	case logic.MinItems:
		return p.Value
	case logic.MaxItems:
		return p.Value
	case logic.MinProperties:
		return p.Value
	case logic.MaxProperties:
		return p.Value
	}
	panic(p.Kind())
}

// StringSimplifier folds length bounds and patterns.
type StringSimplifier struct{}

func (StringSimplifier) ID() string           { return "string" }
func (StringSimplifier) Types() logic.TypeSet { return logic.SetOf(logic.TypeString) }
func (StringSimplifier) Kinds() []logic.Kind {
	return []logic.Kind{logic.KindMinLength, logic.KindMaxLength, logic.KindPattern}
}
func (StringSimplifier) Keywords() []string {
	return []string{"minLength", "maxLength", "pattern", "not", "allOf"}
}

func (StringSimplifier) Simplify(in *Input) (Result, error) {
	r := lengths(in, logic.KindMinLength, logic.KindMaxLength)
	if r.empty() {
		return Empty(), nil
	}

	asserted := patternSources(in.Asserted(logic.KindPattern))
	negated := patternSources(in.Negated(logic.KindPattern))
	for _, p := range asserted {
		for _, n := range negated {
			if p == n {
				return Empty(), nil
			}
		}
	}

	frag := map[string]any{}
	r.addTo(frag, "minLength", "maxLength")
	for i, p := range asserted {
		if i == 0 {
			frag["pattern"] = p
			continue
		}
		AppendAllOf(frag, map[string]any{"pattern": p})
	}
	for _, n := range negated {
		addNot(frag, map[string]any{"pattern": n})
	}

	if r.hi == 0 {
		return Certify(in.Oracle.ValidateConst(""), frag), nil
	}
	return Partial(frag), nil
}

func patternSources(ps []logic.Predicate) []string {
	var out []string
	seen := map[string]bool{}
	for _, p := range ps {
		src := p.(logic.Pattern).Source
		if !seen[src] {
			seen[src] = true
			out = append(out, src)
		}
	}
	return out
}
