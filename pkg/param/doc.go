// Package param describes the parameters of a DSY-RS servo drive and
// converts between their logical values and raw register words.
//
// A Descriptor names one parameter (group, index, width, signedness,
// decimal scale, raw range, access). Descriptors are collected into a
// Schema, which is validated once when it is built and never mutated
// afterwards:
//
//	s := param.Default()
//	d, _ := s.LookupByName(param.MaxSpeed)
//	words, err := param.Encode(d, 3000)
//
// Enumerated parameters carry an Enum, a bijective table of numeric codes
// and symbols. Encoding an unknown symbol or code fails with
// ErrUnknownVariant before anything is written to the bus.
package param
