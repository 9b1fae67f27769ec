// Package id supplies the identifier generators the rest of the module
// leans on: a monotonic non-zero counter for handle generations and a
// nano-id generator for short string identities.
package id

// Gen yields the next numeric id.
type Gen func() uint64

// UUIDGen produces an id in both numeric and string form.
type UUIDGen interface {
	Number() uint64
	Str() string
}

var _ UUIDGen = (*uuidDelegator)(nil)

// uuidDelegator pairs a numeric generator with a string one.
type uuidDelegator struct {
	number Gen
	str    func() string
}

func (id *uuidDelegator) Number() uint64 { return id.number() }
func (id *uuidDelegator) Str() string    { return id.str() }

type NanoIDGen func() string
