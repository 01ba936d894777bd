package logic

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strconv"
)

// CanonicalKey returns a deterministic encoding of a decoded JSON value. Two
// values have the same key exactly when they are equal as JSON values: object
// keys are sorted and all numbers are compared as float64.
func CanonicalKey(v any) string {
	w := newCanonWriter()
	encodeValue(v, w)
	return string(w.Bytes())
}

// Fingerprint hashes the canonical key of a value.
func Fingerprint(v any) string {
	sum := sha256.Sum256([]byte(CanonicalKey(v)))
	return fmt.Sprintf("%x", sum[:])
}

// Equal compares two decoded JSON values for JSON equality.
func Equal(a, b any) bool {
	return CanonicalKey(a) == CanonicalKey(b)
}

func encodeValue(v any, w *canonWriter) {
	switch v := v.(type) {
	case nil:
		w.WriteString("null")
	case bool:
		if v {
			w.WriteString("true")
		} else {
			w.WriteString("false")
		}
	case string:
		w.WriteString(strconv.Quote(v))
	case []any:
		w.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				w.WriteByte(',')
			}
			encodeValue(e, w)
		}
		w.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		w.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				w.WriteByte(',')
			}
			w.WriteString(strconv.Quote(k))
			w.WriteByte(':')
			encodeValue(v[k], w)
		}
		w.WriteByte('}')
	default:
		if f, ok := toFloat(v); ok {
			if f == 0 {
				// -0 and 0 are the same JSON number
				f = 0
			}
			w.WriteString("n:" + strconv.FormatFloat(f, 'g', -1, 64))
			return
		}
		w.WriteString(fmt.Sprintf("?%T:%v", v, v))
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// canonWriter is a simple buffer for building canonical representations
type canonWriter struct {
	buf []byte
}

func newCanonWriter() *canonWriter {
	return &canonWriter{buf: make([]byte, 0, 256)}
}

func (w *canonWriter) WriteByte(b byte) error {
	w.buf = append(w.buf, b)
	return nil
}

func (w *canonWriter) WriteString(s string) {
	w.buf = append(w.buf, s...)
}

func (w *canonWriter) Bytes() []byte {
	return w.buf
}
