package logic

import (
	"encoding/json"
	"testing"
)

func TestTriKleene(t *testing.T) {
	values := []Tri{True, False, Unknown}
	for _, a := range values {
		for _, b := range values {
			and := a.And(b)
			switch {
			case a == False || b == False:
				if and != False {
					t.Errorf("%v AND %v = %v, want false", a, b, and)
				}
			case a == Unknown || b == Unknown:
				if and != Unknown {
					t.Errorf("%v AND %v = %v, want null", a, b, and)
				}
			default:
				if and != True {
					t.Errorf("%v AND %v = %v, want true", a, b, and)
				}
			}
			// De Morgan holds in Kleene logic
			if a.Or(b) != a.Not().And(b.Not()).Not() {
				t.Errorf("%v OR %v breaks De Morgan", a, b)
			}
		}
	}
}

func TestTriJSON(t *testing.T) {
	out, err := json.Marshal(map[string]Tri{"a": True, "b": False, "c": Unknown})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if want := `{"a":true,"b":false,"c":null}`; string(out) != want {
		t.Errorf("expected %s, got %s", want, out)
	}
	if Unknown.Bool() != nil {
		t.Error("expected nil for unknown")
	}
	if b := False.Bool(); b == nil || *b {
		t.Error("expected false")
	}
}
