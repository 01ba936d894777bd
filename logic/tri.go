package logic

// Tri is a Kleene truth value. The zero value is Unknown.
type Tri int8

const (
	Unknown Tri = iota
	True
	False
)

// FromBool lifts a Go bool.
func FromBool(b bool) Tri {
	if b {
		return True
	}
	return False
}

func (t Tri) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "null"
	}
}

// Known reports whether t is True or False.
func (t Tri) Known() bool { return t != Unknown }

// And is Kleene conjunction: False dominates, then Unknown.
func (t Tri) And(o Tri) Tri {
	switch {
	case t == False || o == False:
		return False
	case t == Unknown || o == Unknown:
		return Unknown
	default:
		return True
	}
}

// Or is Kleene disjunction: True dominates, then Unknown.
func (t Tri) Or(o Tri) Tri {
	switch {
	case t == True || o == True:
		return True
	case t == Unknown || o == Unknown:
		return Unknown
	default:
		return False
	}
}

func (t Tri) Not() Tri {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

// Bool returns the value as a nullable bool, nil meaning undetermined.
func (t Tri) Bool() *bool {
	if t == Unknown {
		return nil
	}
	b := t == True
	return &b
}

func (t Tri) MarshalJSON() ([]byte, error) {
	return []byte(t.String()), nil
}
