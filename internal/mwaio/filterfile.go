package mwaio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/tphakala/go-mwa-tdr/internal/filter"
)

// maxFilterLength is the largest length a filter file's header byte holds.
const maxFilterLength = math.MaxUint8

// ReadFilterFile decodes an inverse polyphase filter file: one byte holding
// the filter length L, then L*tapChannels little-endian float32 taps,
// time-major.
func ReadFilterFile(r io.Reader, tapChannels int) (*filter.Bank, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read filter file")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: filter file is empty", ErrInvalidFormat)
	}

	length := int(data[0])
	if length == 0 {
		return nil, fmt.Errorf("%w: filter length is zero", ErrInvalidFormat)
	}
	if want := 1 + length*tapChannels*bytesPerFloat32; len(data) != want {
		return nil, fmt.Errorf("%w: filter file has %d bytes, expected %d for length %d",
			ErrInvalidFormat, len(data), want, length)
	}

	payload := data[1:]
	coeffs := make([]float64, length*tapChannels)
	for i := range coeffs {
		bits := binary.LittleEndian.Uint32(payload[i*bytesPerFloat32:])
		coeffs[i] = float64(math.Float32frombits(bits))
	}
	return filter.NewRealBank(coeffs, tapChannels)
}

// LoadFilterFile reads a filter file from disk.
func LoadFilterFile(path string, tapChannels int) (*filter.Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open filter file %s", path)
	}
	defer f.Close()

	bank, err := ReadFilterFile(bufio.NewReader(f), tapChannels)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return bank, nil
}

// WriteFilterFile encodes bank in filter file format. Only the real part of
// each tap is stored.
func WriteFilterFile(w io.Writer, bank *filter.Bank) error {
	length := bank.Length()
	if length > maxFilterLength {
		return fmt.Errorf("%w: filter length %d does not fit the header byte", ErrInvalidFormat, length)
	}

	coeffs := bank.Coeffs()
	buf := make([]byte, 1+len(coeffs)*bytesPerFloat32)
	buf[0] = byte(length)
	for i, c := range coeffs {
		binary.LittleEndian.PutUint32(buf[1+i*bytesPerFloat32:], math.Float32bits(float32(real(c))))
	}

	if _, err := w.Write(buf); err != nil {
		return errors.Wrap(err, "write filter file")
	}
	return nil
}

// SaveFilterFile writes bank to path, replacing any existing file.
func SaveFilterFile(path string, bank *filter.Bank) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create filter file %s", path)
	}
	if err := WriteFilterFile(f, bank); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "close filter file %s", path)
}
