package mwaio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

const (
	wavBitDepth    = 16
	wavPCMFormat   = 1
	wavMonoChannel = 1
)

// WriteSignal writes samples as raw little-endian int16.
func WriteSignal(w io.Writer, samples []int16) error {
	buf := make([]byte, len(samples)*bytesPerInt16)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*bytesPerInt16:], uint16(s))
	}
	if _, err := w.Write(buf); err != nil {
		return errors.Wrap(err, "write signal")
	}
	return nil
}

// ReadSignal reads a raw little-endian int16 signal. An empty signal is
// rejected.
func ReadSignal(r io.Reader) ([]int16, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read signal")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: signal file is empty", ErrInvalidFormat)
	}
	if len(data)%bytesPerInt16 != 0 {
		return nil, fmt.Errorf("%w: signal file size %d is not a multiple of %d", ErrInvalidFormat, len(data), bytesPerInt16)
	}

	samples := make([]int16, len(data)/bytesPerInt16)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*bytesPerInt16:]))
	}
	return samples, nil
}

// SaveSignal writes samples to path, replacing any existing file.
func SaveSignal(path string, samples []int16) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create signal file %s", path)
	}
	if err := WriteSignal(f, samples); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "close signal file %s", path)
}

// WriteWAV writes samples as a mono 16-bit PCM WAV stream.
func WriteWAV(ws io.WriteSeeker, samples []int16, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: WAV sample rate must be positive, got %d", ErrInvalidFormat, sampleRate)
	}

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: wavMonoChannel, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}

	enc := wav.NewEncoder(ws, sampleRate, wavBitDepth, wavMonoChannel, wavPCMFormat)
	if err := enc.Write(buf); err != nil {
		return errors.Wrap(err, "encode WAV")
	}
	return errors.Wrap(enc.Close(), "finalise WAV")
}

// SaveWAV writes a WAV file to path.
func SaveWAV(path string, samples []int16, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create WAV file %s", path)
	}
	if err := WriteWAV(f, samples, sampleRate); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "close WAV file %s", path)
}
