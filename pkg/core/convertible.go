package core

// Marshaler is implemented by records that can write themselves into a Mapping.
//
// The returned mapping must only contain keys private to the record. Custom
// records must not use the reserved prefix; the aggregate rejects them if they do.
type Marshaler interface {
	MarshalMapping() Mapping
}

// Unmarshaler is implemented by records that can populate themselves from a Mapping.
//
// UnmarshalMapping must ignore keys it does not recognize and must never fail:
// absent or malformed fields are left at their zero value.
type Unmarshaler interface {
	UnmarshalMapping(m Mapping)
}

// Convertible is the full round-trip contract. For a record type T:
//
//	Decode[T](m).MarshalMapping() equals m restricted to the keys T knows
//	Decode[T](t.MarshalMapping()) equals t
type Convertible interface {
	Marshaler
	Unmarshaler
}

// Decode builds a T from m. It is the generic entry point consumers use once
// they know which record type to look for.
func Decode[T any, PT interface {
	*T
	Unmarshaler
}](m Mapping) T {
	var v T
	PT(&v).UnmarshalMapping(m)
	return v
}
