package dataset

import (
	"encoding/binary"
	"fmt"
	"io"
)

// IDX magic numbers for unsigned-byte data.
const (
	idxImagesMagic = 2051 // 0x00000803: 3 dimensions
	idxLabelsMagic = 2049 // 0x00000801: 1 dimension
)

// maxIDXBytes bounds the payload a header may announce (1GB).
const maxIDXBytes = 1 << 30

// Images holds grayscale images read from an IDX file.
type Images struct {
	Count, Rows, Cols int
	Pixels            []byte // Count*Rows*Cols, row-major
}

// Image returns the pixels of image i.
func (im *Images) Image(i int) []byte {
	size := im.Rows * im.Cols
	return im.Pixels[i*size : (i+1)*size]
}

// ReadImages reads an IDX image file.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes (28)
//	number of cols: 4 bytes (28)
//	pixel data: unsigned bytes (0-255)
//
// maxCount limits how many images are read (0 = all).
func ReadImages(r io.Reader, maxCount int) (*Images, error) {
	var header [4]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %w", ErrFormat, err)
	}
	if header[0] != idxImagesMagic {
		return nil, fmt.Errorf("%w: invalid magic number: got %d, want %d", ErrFormat, header[0], idxImagesMagic)
	}

	count, rows, cols := int(header[1]), int(header[2]), int(header[3])
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: empty image size %dx%d", ErrFormat, rows, cols)
	}
	if maxCount > 0 && count > maxCount {
		count = maxCount
	}
	if count*rows*cols > maxIDXBytes {
		return nil, fmt.Errorf("%w: %d images of %dx%d too large", ErrFormat, count, rows, cols)
	}

	pixels := make([]byte, count*rows*cols)
	if _, err := io.ReadFull(r, pixels); err != nil {
		return nil, fmt.Errorf("%w: failed to read pixels: %w", ErrFormat, err)
	}

	return &Images{Count: count, Rows: rows, Cols: cols, Pixels: pixels}, nil
}

// ReadLabels reads an IDX label file.
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes (0-9)
func ReadLabels(r io.Reader, maxCount int) ([]byte, error) {
	var header [2]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %w", ErrFormat, err)
	}
	if header[0] != idxLabelsMagic {
		return nil, fmt.Errorf("%w: invalid magic number: got %d, want %d", ErrFormat, header[0], idxLabelsMagic)
	}

	count := int(header[1])
	if maxCount > 0 && count > maxCount {
		count = maxCount
	}
	if count > maxIDXBytes {
		return nil, fmt.Errorf("%w: %d labels too large", ErrFormat, count)
	}

	labels := make([]byte, count)
	if _, err := io.ReadFull(r, labels); err != nil {
		return nil, fmt.Errorf("%w: failed to read labels: %w", ErrFormat, err)
	}
	return labels, nil
}
