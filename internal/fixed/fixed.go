package fixed

// Fixed is a signed Q8.8 fixed-point value: 8 integer bits, 8 fractional
// bits, scale 256. Arithmetic operates on the raw scaled integer and wraps
// on overflow; there is no saturation anywhere in the pipeline.
type Fixed int16

const (
	// FracBits is the number of fractional bits in a Fixed.
	FracBits = 8
	// Scale is the raw-integer scale factor (1 << FracBits).
	Scale = 1 << FracBits

	// One is the Fixed representation of 1.0.
	One Fixed = Scale
)

// FromFloat quantizes a float64 to Fixed, truncating toward zero.
func FromFloat(v float64) Fixed {
	return Fixed(int64(v * Scale))
}

// FromRaw builds a Fixed from a raw scaled integer.
func FromRaw(raw int16) Fixed {
	return Fixed(raw)
}

// Raw returns the raw scaled integer.
func (f Fixed) Raw() int16 {
	return int16(f)
}

// Float converts to float64. The round trip FromFloat(x).Float() recovers
// x within 1/256 for any x in the representable range.
func (f Fixed) Float() float64 {
	return float64(f) / Scale
}

// Add returns f+o with wraparound.
func (f Fixed) Add(o Fixed) Fixed {
	return f + o
}

// Sub returns f-o with wraparound.
func (f Fixed) Sub(o Fixed) Fixed {
	return f - o
}

// Mul multiplies in a widened 32-bit intermediate, then truncates back to
// Q8.8 by arithmetic shift. The shift discards fractional bits; it never
// rounds.
func (f Fixed) Mul(o Fixed) Fixed {
	return Fixed((int32(f) * int32(o)) >> FracBits)
}

// Acc is the widened Q16.16 accumulator used for multiply-accumulate
// chains. Scores and hidden-unit sums stay in Acc precision until they are
// explicitly narrowed; comparisons on Acc values compare raw integers.
type Acc int32

// AccFracBits is the number of fractional bits in an Acc.
const AccFracBits = 16

// AccOne is the Acc representation of 1.0.
const AccOne Acc = 1 << AccFracBits

// Acc widens a Fixed to accumulator precision.
func (f Fixed) Acc() Acc {
	return Acc(f) << FracBits
}

// MulAcc returns the exact Q16.16 product of two Fixed values. The raw
// product of two Q8.8 integers is already scaled by 65536, so no shift is
// needed and no precision is lost.
func MulAcc(a, b Fixed) Acc {
	return Acc(int32(a) * int32(b))
}

// Fixed narrows an Acc to Q8.8, truncating the low fractional bits by
// arithmetic shift and wrapping the integer part into 16 bits.
func (a Acc) Fixed() Fixed {
	return Fixed(a >> FracBits)
}

// Float converts an Acc to float64.
func (a Acc) Float() float64 {
	return float64(a) / (1 << AccFracBits)
}
