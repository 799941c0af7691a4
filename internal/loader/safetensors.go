package loader

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/born-ml/convviz/internal/tensor"
)

// ErrFormat is returned for malformed or unsupported SafeTensors content.
var ErrFormat = errors.New("loader: invalid safetensors data")

// maxHeaderSize bounds the JSON header (100MB).
const maxHeaderSize = 100 * 1024 * 1024

const metadataKey = "__metadata__"

// SafeTensorsDType represents SafeTensors data types.
type SafeTensorsDType string

// SafeTensors dtypes. Only F32, F64 and U8 can be loaded.
const (
	SafeTensorsF16  SafeTensorsDType = "F16"
	SafeTensorsF32  SafeTensorsDType = "F32"
	SafeTensorsF64  SafeTensorsDType = "F64"
	SafeTensorsBF16 SafeTensorsDType = "BF16"
	SafeTensorsU8   SafeTensorsDType = "U8"
)

// SafeTensorInfo describes a tensor in SafeTensors format.
type SafeTensorInfo struct {
	DType       SafeTensorsDType `json:"dtype"`
	Shape       []int            `json:"shape"`
	DataOffsets [2]int64         `json:"data_offsets"` // [start, end)
}

func (d SafeTensorsDType) dataType() (tensor.DataType, error) {
	switch d {
	case SafeTensorsF32:
		return tensor.Float32, nil
	case SafeTensorsF64:
		return tensor.Float64, nil
	case SafeTensorsU8:
		return tensor.Uint8, nil
	default:
		return 0, fmt.Errorf("%w: unsupported dtype %s", ErrFormat, d)
	}
}

func fromDataType(dt tensor.DataType) (SafeTensorsDType, error) {
	switch dt {
	case tensor.Float32:
		return SafeTensorsF32, nil
	case tensor.Float64:
		return SafeTensorsF64, nil
	case tensor.Uint8:
		return SafeTensorsU8, nil
	default:
		return "", fmt.Errorf("%w: unsupported dtype %s", ErrFormat, dt)
	}
}

// LoadFile reads every tensor of a SafeTensors file.
func LoadFile(path string) (map[string]*tensor.RawTensor, map[string]string, error) {
	//nolint:gosec // G304: loading weights from a user-supplied path is the point
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses a complete SafeTensors stream into a state dict and its
// metadata.
func Read(r io.Reader) (map[string]*tensor.RawTensor, map[string]string, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read header size: %w", ErrFormat, err)
	}
	if headerSize > maxHeaderSize {
		return nil, nil, fmt.Errorf("%w: header size %d too large", ErrFormat, headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read header: %w", ErrFormat, err)
	}

	infos, metadata, err := parseHeader(headerBytes)
	if err != nil {
		return nil, nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read tensor data: %w", err)
	}

	state := make(map[string]*tensor.RawTensor, len(infos))
	for name, info := range infos {
		raw, err := decodeTensor(name, info, data)
		if err != nil {
			return nil, nil, err
		}
		state[name] = raw
	}

	return state, metadata, nil
}

func parseHeader(headerBytes []byte) (map[string]SafeTensorInfo, map[string]string, error) {
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(headerBytes, &rawMap); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to parse header JSON: %w", ErrFormat, err)
	}

	var metadata map[string]string
	if metadataRaw, ok := rawMap[metadataKey]; ok {
		if err := json.Unmarshal(metadataRaw, &metadata); err != nil {
			return nil, nil, fmt.Errorf("%w: failed to unmarshal metadata: %w", ErrFormat, err)
		}
		delete(rawMap, metadataKey)
	}

	infos := make(map[string]SafeTensorInfo, len(rawMap))
	for name, value := range rawMap {
		var info SafeTensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return nil, nil, fmt.Errorf("%w: failed to unmarshal tensor %s: %w", ErrFormat, name, err)
		}
		infos[name] = info
	}

	return infos, metadata, nil
}

func decodeTensor(name string, info SafeTensorInfo, data []byte) (*tensor.RawTensor, error) {
	dtype, err := info.DType.dataType()
	if err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}

	shape := tensor.Shape(info.Shape)
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid shape for tensor %s: %w", ErrFormat, name, err)
	}

	start, end := info.DataOffsets[0], info.DataOffsets[1]
	want := int64(shape.NumElements() * dtype.Size())
	if start < 0 || end < start || end > int64(len(data)) || end-start != want {
		return nil, fmt.Errorf("%w: invalid data offsets for tensor %s: [%d, %d] (need %d bytes of %d)",
			ErrFormat, name, start, end, want, len(data))
	}

	raw, err := tensor.NewRaw(shape, dtype)
	if err != nil {
		return nil, fmt.Errorf("failed to create tensor %s: %w", name, err)
	}
	copy(raw.Data(), data[start:end])

	return raw, nil
}

// Write encodes a state dict in SafeTensors format. Tensors are laid out in
// name order.
func Write(w io.Writer, state map[string]*tensor.RawTensor, metadata map[string]string) error {
	names := make([]string, 0, len(state))
	for name := range state {
		if name == metadataKey {
			return fmt.Errorf("%w: reserved tensor name %q", ErrFormat, name)
		}
		names = append(names, name)
	}
	slices.Sort(names)

	header := make(map[string]any, len(state)+1)
	if len(metadata) > 0 {
		header[metadataKey] = metadata
	}

	var body bytes.Buffer
	for _, name := range names {
		raw := state[name]
		dtype, err := fromDataType(raw.DType())
		if err != nil {
			return fmt.Errorf("tensor %s: %w", name, err)
		}
		start := int64(body.Len())
		body.Write(raw.Data())
		header[name] = SafeTensorInfo{
			DType:       dtype,
			Shape:       raw.Shape(),
			DataOffsets: [2]int64{start, int64(body.Len())},
		}
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := body.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}
