package infra

// Signed is a constraint for the predeclared signed integer types.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint for the predeclared unsigned integer types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// OrderedKey is a constraint for everything the < operator totally
// orders. byte and rune are covered through ~uint8 and ~int32.
type OrderedKey interface {
	Integer | Float | ~string
}
