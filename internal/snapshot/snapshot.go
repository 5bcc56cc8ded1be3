// Package snapshot encodes and decodes panel.Bundle values to a compact
// binary form: a wire adapter implements encoding.BinaryMarshaler and
// BinaryUnmarshaler over length-prefixed primitives, and the package
// boundary drives it through rezi.EncBinary/rezi.DecBinary.
package snapshot

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/dekarrin/rezi"

	"github.com/stratoquant/alphaql/panel"
)

// wireBundle is a BinaryMarshaler/BinaryUnmarshaler adapter over a
// panel.Bundle; panel.Bundle itself stays free of encoding concerns.
type wireBundle struct {
	b *panel.Bundle
}

func encInt(i int) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(int64(i)))
	return buf
}

func decInt(data []byte) (int, int, error) {
	if len(data) < 8 {
		return 0, 0, fmt.Errorf("snapshot: unexpected end of data reading int")
	}
	return int(int64(binary.BigEndian.Uint64(data))), 8, nil
}

func encString(s string) []byte {
	out := encInt(len(s))
	return append(out, []byte(s)...)
}

func decString(data []byte) (string, int, error) {
	n, read, err := decInt(data)
	if err != nil {
		return "", 0, err
	}
	data = data[read:]
	if len(data) < n {
		return "", 0, fmt.Errorf("snapshot: unexpected end of data reading string")
	}
	return string(data[:n]), read + n, nil
}

func encFloat(f float64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, math.Float64bits(f))
	return buf
}

func decFloat(data []byte) (float64, int, error) {
	if len(data) < 8 {
		return 0, 0, fmt.Errorf("snapshot: unexpected end of data reading float")
	}
	return math.Float64frombits(binary.BigEndian.Uint64(data)), 8, nil
}

// MarshalBinary encodes dates, symbols, and every field panel in a
// deterministic field-name order so Encode output is reproducible.
func (w wireBundle) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, encInt(len(w.b.Dates))...)
	for _, d := range w.b.Dates {
		data = append(data, encInt(int(d.Unix()))...)
	}

	data = append(data, encInt(len(w.b.Symbols))...)
	for _, s := range w.b.Symbols {
		data = append(data, encString(s)...)
	}

	names := w.b.FieldNames()
	data = append(data, encInt(len(names))...)
	for _, name := range names {
		p := w.b.Fields[name]
		data = append(data, encString(name)...)
		for _, row := range p.Data {
			for _, v := range row {
				data = append(data, encFloat(v)...)
			}
		}
	}
	return data, nil
}

// UnmarshalBinary decodes into a fresh panel.Bundle, stored at w.b.
func (w *wireBundle) UnmarshalBinary(data []byte) error {
	nDates, read, err := decInt(data)
	if err != nil {
		return err
	}
	data = data[read:]

	dates := make([]time.Time, nDates)
	for i := range dates {
		sec, read, err := decInt(data)
		if err != nil {
			return err
		}
		data = data[read:]
		dates[i] = time.Unix(int64(sec), 0).UTC()
	}

	nSym, read, err := decInt(data)
	if err != nil {
		return err
	}
	data = data[read:]

	symbols := make([]string, nSym)
	for i := range symbols {
		s, read, err := decString(data)
		if err != nil {
			return err
		}
		data = data[read:]
		symbols[i] = s
	}

	bundle, err := panel.NewBundle(dates, symbols)
	if err != nil {
		return fmt.Errorf("snapshot: rebuilding bundle: %w", err)
	}

	nFields, read, err := decInt(data)
	if err != nil {
		return err
	}
	data = data[read:]

	for f := 0; f < nFields; f++ {
		name, read, err := decString(data)
		if err != nil {
			return err
		}
		data = data[read:]

		rows := make([][]float64, nDates)
		for i := 0; i < nDates; i++ {
			row := make([]float64, nSym)
			for j := 0; j < nSym; j++ {
				v, read, err := decFloat(data)
				if err != nil {
					return err
				}
				data = data[read:]
				row[j] = v
			}
			rows[i] = row
		}
		if _, err := bundle.AddField(name, rows); err != nil {
			return err
		}
	}

	w.b = bundle
	return nil
}

// Encode serializes a bundle to bytes via rezi.
func Encode(b *panel.Bundle) ([]byte, error) {
	data := rezi.EncBinary(wireBundle{b: b})
	return data, nil
}

// Decode reconstructs a bundle from bytes produced by Encode.
func Decode(data []byte) (*panel.Bundle, error) {
	var w wireBundle
	n, err := rezi.DecBinary(data, &w)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("snapshot: decoded byte count mismatch; consumed %d/%d bytes", n, len(data))
	}
	return w.b, nil
}
