package mwaio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// SubfileHeaderSize is the size of the ASCII header of a voltage subfile.
	SubfileHeaderSize = 4096

	// SubfileDataBlocks is the number of voltage blocks after the delay block.
	SubfileDataBlocks = 160

	subfileDelayBlocks = 1
)

// Header keys.
const (
	keyInputs        = "NINPUTS"
	keyPolarisations = "NPOL"
	keyTimeSamples   = "NTIMESAMPLES"
	keyCoarseChannel = "COARSE_CHANNEL"
	keyObservationID = "OBS_ID"
)

// SubfileHeader holds the fields of a subfile header needed to locate
// samples. Fields keeps every key as read.
type SubfileHeader struct {
	NumInputs        int
	NumPolarisations int
	NumTimeSamples   int
	CoarseChannel    int
	ObservationID    int64
	Fields           map[string]string
}

// ParseSubfileHeader decodes whitespace-separated KEY VALUE lines. Parsing
// stops at the first NUL byte.
func ParseSubfileHeader(raw []byte) (SubfileHeader, error) {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}

	h := SubfileHeader{NumPolarisations: 2, Fields: map[string]string{}}
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		h.Fields[fields[0]] = fields[1]
	}

	var err error
	if h.NumInputs, err = h.requireInt(keyInputs); err != nil {
		return h, err
	}
	if h.NumTimeSamples, err = h.requireInt(keyTimeSamples); err != nil {
		return h, err
	}
	if _, ok := h.Fields[keyPolarisations]; ok {
		if h.NumPolarisations, err = h.requireInt(keyPolarisations); err != nil {
			return h, err
		}
	}
	if v, ok := h.Fields[keyCoarseChannel]; ok {
		h.CoarseChannel, _ = strconv.Atoi(v)
	}
	if v, ok := h.Fields[keyObservationID]; ok {
		h.ObservationID, _ = strconv.ParseInt(v, 10, 64)
	}

	if h.NumPolarisations != 1 && h.NumPolarisations != 2 {
		return h, fmt.Errorf("%w: %s must be 1 or 2, got %d", ErrInvalidFormat, keyPolarisations, h.NumPolarisations)
	}
	if h.NumInputs%h.NumPolarisations != 0 {
		return h, fmt.Errorf("%w: %d inputs is not a whole number of %d-polarisation tiles",
			ErrInvalidFormat, h.NumInputs, h.NumPolarisations)
	}
	return h, nil
}

func (h SubfileHeader) requireInt(key string) (int, error) {
	v, ok := h.Fields[key]
	if !ok {
		return 0, fmt.Errorf("%w: header has no %s", ErrInvalidFormat, key)
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: header %s=%q is not a positive integer", ErrInvalidFormat, key, v)
	}
	return n, nil
}

// BlockSize returns the byte size of one block of all inputs.
func (h SubfileHeader) BlockSize() int64 {
	return int64(h.NumInputs) * int64(h.NumTimeSamples) * bytesPerSample
}

// FileSize returns the expected size of a complete subfile.
func (h SubfileHeader) FileSize() int64 {
	return SubfileHeaderSize + h.BlockSize()*(subfileDelayBlocks+SubfileDataBlocks)
}

// SamplesPerInput returns the number of complex samples one input holds.
func (h SubfileHeader) SamplesPerInput() int {
	return SubfileDataBlocks * h.NumTimeSamples
}

// Subfile gives random access to the voltages of one coarse channel.
type Subfile struct {
	Header SubfileHeader

	r      io.ReaderAt
	closer io.Closer
}

// NewSubfile reads the header from r and checks that size matches it.
func NewSubfile(r io.ReaderAt, size int64) (*Subfile, error) {
	raw := make([]byte, SubfileHeaderSize)
	if _, err := r.ReadAt(raw, 0); err != nil {
		return nil, errors.Wrap(err, "read subfile header")
	}
	h, err := ParseSubfileHeader(raw)
	if err != nil {
		return nil, err
	}
	if size != h.FileSize() {
		return nil, fmt.Errorf("%w: subfile has %d bytes, expected %d", ErrInvalidFormat, size, h.FileSize())
	}
	return &Subfile{Header: h, r: r}, nil
}

// OpenSubfile opens and validates a subfile on disk.
func OpenSubfile(path string) (*Subfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open subfile %s", path)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat subfile %s", path)
	}
	s, err := NewSubfile(f, info.Size())
	if err != nil {
		f.Close()
		return nil, errors.WithMessage(err, path)
	}
	s.closer = f
	return s, nil
}

// Input returns every data sample of one antenna input in time order. The
// delay block is skipped.
func (s *Subfile) Input(input int) ([]complex128, error) {
	h := s.Header
	if input < 0 || input >= h.NumInputs {
		return nil, fmt.Errorf("%w: input %d outside [0, %d)", ErrInvalidFormat, input, h.NumInputs)
	}

	chunk := make([]byte, h.NumTimeSamples*bytesPerSample)
	out := make([]complex128, 0, h.SamplesPerInput())
	inputOffset := int64(input) * int64(len(chunk))

	for block := range SubfileDataBlocks {
		off := SubfileHeaderSize + int64(subfileDelayBlocks+block)*h.BlockSize() + inputOffset
		if _, err := s.r.ReadAt(chunk, off); err != nil {
			return nil, errors.Wrapf(err, "read block %d of input %d", block, input)
		}
		for i := 0; i < len(chunk); i += bytesPerSample {
			out = append(out, complex(float64(int8(chunk[i])), float64(int8(chunk[i+1]))))
		}
	}
	return out, nil
}

// Close releases the underlying file, if any.
func (s *Subfile) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
