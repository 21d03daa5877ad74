package tensor

import "fmt"

// offset computes the flat element offset for indices against t's strides,
// validating rank and bounds.
func (t *Tensor) offset(indices ...int) (int, error) {
	if len(t.d) == 0 {
		if len(indices) != 0 {
			return 0, fmt.Errorf("tensor: 0-dimensional tensor cannot be accessed with indices")
		}

		return 0, nil
	}

	if len(indices) != len(t.d) {
		return 0, fmt.Errorf("tensor: number of indices (%d) does not match tensor rank (%d)", len(indices), len(t.d))
	}

	off := 0

	for i, idx := range indices {
		if idx < 0 || idx >= t.d[i] {
			return 0, fmt.Errorf("tensor: index %d is out of bounds for dimension %d with size %d", idx, i, t.d[i])
		}

		off += idx * t.strides[i]
	}

	return off, nil
}

// AtF32 retrieves the float32 value at the given indices.
func (t *Tensor) AtF32(indices ...int) (float32, error) {
	off, err := t.offset(indices...)
	if err != nil {
		return 0, err
	}

	return t.Float32()[off], nil
}

// SetF32 writes a float32 value at the given indices. The caller must have
// called EnsureUnique first if the tensor's buffer may be shared.
func (t *Tensor) SetF32(value float32, indices ...int) error {
	off, err := t.offset(indices...)
	if err != nil {
		return err
	}

	t.Float32()[off] = value

	return nil
}

// AtI32 retrieves the int32 value at the given indices.
func (t *Tensor) AtI32(indices ...int) (int32, error) {
	off, err := t.offset(indices...)
	if err != nil {
		return 0, err
	}

	return t.Int32()[off], nil
}

// SetI32 writes an int32 value at the given indices.
func (t *Tensor) SetI32(value int32, indices ...int) error {
	off, err := t.offset(indices...)
	if err != nil {
		return err
	}

	t.Int32()[off] = value

	return nil
}

// AtI64 retrieves the int64 value at the given indices.
func (t *Tensor) AtI64(indices ...int) (int64, error) {
	off, err := t.offset(indices...)
	if err != nil {
		return 0, err
	}

	return t.Int64()[off], nil
}

// SetI64 writes an int64 value at the given indices.
func (t *Tensor) SetI64(value int64, indices ...int) error {
	off, err := t.offset(indices...)
	if err != nil {
		return err
	}

	t.Int64()[off] = value

	return nil
}
