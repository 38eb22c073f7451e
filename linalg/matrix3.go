package linalg

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrOutOfRange is returned when a row, column or axis index falls outside [0, 2].
var ErrOutOfRange = errors.New("index out of range")

const size = 3

// Matrix3 is a 3x3 matrix of float64 addressed by (row, column).
// It is a value type: assignment copies it.
type Matrix3 struct {
	m mgl64.Mat3
}

// NewMatrix3 returns a matrix with every entry set to value.
func NewMatrix3(value float64) Matrix3 {
	return Matrix3{m: mgl64.Mat3{
		value, value, value,
		value, value, value,
		value, value, value,
	}}
}

// NewMatrix3FromRows builds a matrix from its entries, listed row by row.
func NewMatrix3FromRows(a0, a1, a2, b0, b1, b2, c0, c1, c2 float64) Matrix3 {
	return Matrix3{m: mgl64.Mat3FromRows(
		mgl64.Vec3{a0, a1, a2},
		mgl64.Vec3{b0, b1, b2},
		mgl64.Vec3{c0, c1, c2},
	)}
}

// Identity3 returns the identity matrix.
func Identity3() Matrix3 {
	return Matrix3{m: mgl64.Ident3()}
}

// Diagonal3 returns the matrix with d on its diagonal and zeros elsewhere.
func Diagonal3(d mgl64.Vec3) Matrix3 {
	return Matrix3{m: mgl64.Diag3(d)}
}

func checkIndex(kind string, i int) error {
	if i < 0 || i >= size {
		return fmt.Errorf("%s %d: %w", kind, i, ErrOutOfRange)
	}
	return nil
}

// At returns the entry at (row, col).
func (a Matrix3) At(row, col int) (float64, error) {
	if err := checkIndex("row", row); err != nil {
		return 0, err
	}
	if err := checkIndex("column", col); err != nil {
		return 0, err
	}
	return a.m.At(row, col), nil
}

// Set writes the entry at (row, col).
func (a *Matrix3) Set(row, col int, value float64) error {
	if err := checkIndex("row", row); err != nil {
		return err
	}
	if err := checkIndex("column", col); err != nil {
		return err
	}
	a.m.Set(row, col, value)
	return nil
}

// Transpose returns the transposed matrix, a is left untouched.
func (a Matrix3) Transpose() Matrix3 {
	return Matrix3{m: a.m.Transpose()}
}

// AddToRow adds value[col] to every entry (row, col).
func (a *Matrix3) AddToRow(row int, value mgl64.Vec3) error {
	if err := checkIndex("row", row); err != nil {
		return err
	}
	for col := 0; col < size; col++ {
		a.m.Set(row, col, a.m.At(row, col)+value[col])
	}
	return nil
}

// AddToColumn adds value[row] to every entry (row, col).
func (a *Matrix3) AddToColumn(col int, value mgl64.Vec3) error {
	if err := checkIndex("column", col); err != nil {
		return err
	}
	for row := 0; row < size; row++ {
		a.m.Set(row, col, a.m.At(row, col)+value[row])
	}
	return nil
}

// MultiplyRow scales a single row by value.
func (a *Matrix3) MultiplyRow(row int, value float64) error {
	if err := checkIndex("row", row); err != nil {
		return err
	}
	for col := 0; col < size; col++ {
		a.m.Set(row, col, a.m.At(row, col)*value)
	}
	return nil
}

// MultiplyColumn scales a single column by value.
func (a *Matrix3) MultiplyColumn(col int, value float64) error {
	if err := checkIndex("column", col); err != nil {
		return err
	}
	for row := 0; row < size; row++ {
		a.m.Set(row, col, a.m.At(row, col)*value)
	}
	return nil
}

// Increase scales every entry by value.
func (a *Matrix3) Increase(value float64) {
	a.m = a.m.Mul(value)
}

// Add accumulates other into a.
func (a *Matrix3) Add(other Matrix3) {
	a.m = a.m.Add(other.m)
}

// MulVec returns a * v.
func (a Matrix3) MulVec(v mgl64.Vec3) mgl64.Vec3 {
	return a.m.Mul3x1(v)
}

// Mul returns a * b. The product does not commute, so R * D * R^T must be
// written in that order to move a tensor from local to world axes.
func (a Matrix3) Mul(b Matrix3) Matrix3 {
	return Matrix3{m: a.m.Mul3(b.m)}
}

// Diag returns the diagonal entries.
func (a Matrix3) Diag() mgl64.Vec3 {
	return a.m.Diag()
}

// Row returns a copy of the given row.
func (a Matrix3) Row(row int) (mgl64.Vec3, error) {
	if err := checkIndex("row", row); err != nil {
		return mgl64.Vec3{}, err
	}
	return a.m.Row(row), nil
}

// ApproxEqual reports whether every entry of a and b differs by at most eps.
func (a Matrix3) ApproxEqual(b Matrix3, eps float64) bool {
	return a.m.ApproxFuncEqual(b.m, Within(eps))
}

// Within returns an absolute-tolerance comparison usable with the mgl64
// ApproxFuncEqual helpers.
func Within(eps float64) func(a, b float64) bool {
	return func(a, b float64) bool {
		return mgl64.Abs(a-b) <= eps
	}
}

// Mat3 exposes the underlying column-major mgl64 matrix.
func (a Matrix3) Mat3() mgl64.Mat3 {
	return a.m
}

func (a Matrix3) String() string {
	return a.m.String()
}
