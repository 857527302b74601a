// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	slicebXLmaPeJA7R0yNYE9CRbnwΞΞ = ord.NewSliceSer[float32](varint.Float32)
	slicelHΔFrkzRVMQ2u6Y0vUyWtAΞΞ = ord.NewSliceSer[string](ord.String)
)

var OriginMUS = originMUS{}

type originMUS struct{}

func (s originMUS) Marshal(v Origin, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s originMUS) Unmarshal(bs []byte) (v Origin, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = Origin(tmp)
	return
}

func (s originMUS) Size(v Origin) (size int) {
	return varint.Int.Size(int(v))
}

func (s originMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var TermMUS = termMUS{}

type termMUS struct{}

func (s termMUS) Marshal(v Term, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Category, bs[n:])
	n += slicelHΔFrkzRVMQ2u6Y0vUyWtAΞΞ.Marshal(v.Aliases, bs[n:])
	n += varint.Int64.Marshal(v.Frequency, bs[n:])
	n += OriginMUS.Marshal(v.Origin, bs[n:])
	n += slicebXLmaPeJA7R0yNYE9CRbnwΞΞ.Marshal(v.Vector, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s termMUS) Unmarshal(bs []byte) (v Term, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Category, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Aliases, n1, err = slicelHΔFrkzRVMQ2u6Y0vUyWtAΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Frequency, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Origin, n1, err = OriginMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = slicebXLmaPeJA7R0yNYE9CRbnwΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s termMUS) Size(v Term) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.Category)
	size += slicelHΔFrkzRVMQ2u6Y0vUyWtAΞΞ.Size(v.Aliases)
	size += varint.Int64.Size(v.Frequency)
	size += OriginMUS.Size(v.Origin)
	size += slicebXLmaPeJA7R0yNYE9CRbnwΞΞ.Size(v.Vector)
	size += raw.TimeUnixMicro.Size(v.InsertedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s termMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicelHΔFrkzRVMQ2u6Y0vUyWtAΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = OriginMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicebXLmaPeJA7R0yNYE9CRbnwΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
