package audio

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/Gaelhpalmer/diarized-stt/errors"
)

const (
	wavHeaderSize = 44
	pcmFormat     = 1
)

// EncodeWAV serializes a chunk as a 16-bit PCM mono WAV file.
// This is the upload format both sidecars accept.
func EncodeWAV(c Chunk) []byte {
	rate := c.SampleRate
	if rate == 0 {
		rate = DefaultSampleRate
	}
	dataLen := len(c.Samples) * 2
	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+dataLen))

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataLen)) //nolint:errcheck
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))          //nolint:errcheck
	binary.Write(buf, binary.LittleEndian, uint16(pcmFormat))   //nolint:errcheck
	binary.Write(buf, binary.LittleEndian, uint16(1))           //nolint:errcheck // mono
	binary.Write(buf, binary.LittleEndian, uint32(rate))        //nolint:errcheck
	binary.Write(buf, binary.LittleEndian, uint32(rate*2))      //nolint:errcheck // byte rate
	binary.Write(buf, binary.LittleEndian, uint16(2))           //nolint:errcheck // block align
	binary.Write(buf, binary.LittleEndian, uint16(16))          //nolint:errcheck // bits per sample

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataLen)) //nolint:errcheck
	for _, s := range c.Samples {
		buf.Write(pcm16Bytes(s))
	}
	return buf.Bytes()
}

// wavFormat describes the PCM stream a WAV header announces.
type wavFormat struct {
	rate     int
	channels int
	dataLen  int // bytes in the data chunk
}

func (f wavFormat) frameBytes() int { return f.channels * 2 }

// readWAVFormat walks the RIFF chunk list until the data chunk, leaving r
// positioned at the first PCM frame. Non-audio chunks (LIST, INFO) are
// skipped; the fmt chunk must appear before data.
func readWAVFormat(r io.Reader) (wavFormat, error) {
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return wavFormat{}, errors.InvalidFormat("audio", "RIFF/WAVE file")
	}
	if string(hdr[0:4]) != "RIFF" || string(hdr[8:12]) != "WAVE" {
		return wavFormat{}, errors.InvalidFormat("audio", "RIFF/WAVE file")
	}

	var f wavFormat
	haveFmt := false
	for {
		var ch [8]byte
		if _, err := io.ReadFull(r, ch[:]); err != nil {
			return wavFormat{}, errors.InvalidFormat("audio", "WAV with fmt and data chunks")
		}
		id := string(ch[0:4])
		size := int(binary.LittleEndian.Uint32(ch[4:8]))

		if id == "data" {
			if !haveFmt {
				return wavFormat{}, errors.InvalidFormat("audio", "fmt chunk before data")
			}
			f.dataLen = size
			return f, nil
		}

		// Chunks are word-aligned.
		body := make([]byte, size+size%2)
		if _, err := io.ReadFull(r, body); err != nil {
			return wavFormat{}, errors.InvalidFormat("audio", "WAV chunk of its declared size")
		}
		if id == "fmt " {
			if size < 16 {
				return wavFormat{}, errors.InvalidFormat("audio", "fmt chunk of at least 16 bytes")
			}
			format := binary.LittleEndian.Uint16(body[0:2])
			if format != pcmFormat {
				return wavFormat{}, errors.InvalidFormat("audio", "PCM encoding").WithDetail("format", format)
			}
			f.channels = int(binary.LittleEndian.Uint16(body[2:4]))
			f.rate = int(binary.LittleEndian.Uint32(body[4:8]))
			if bits := binary.LittleEndian.Uint16(body[14:16]); bits != 16 {
				return wavFormat{}, errors.InvalidFormat("audio", "16-bit samples").WithDetail("bits", bits)
			}
			if f.channels == 0 {
				return wavFormat{}, errors.InvalidFormat("audio", "at least one channel")
			}
			haveFmt = true
		}
	}
}

// downmixPCM16 converts interleaved s16le frames to mono float32 samples,
// averaging channels.
func downmixPCM16(pcm []byte, channels int) []float32 {
	frameBytes := channels * 2
	frames := len(pcm) / frameBytes
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			off := i*frameBytes + ch*2
			sum += pcm16Value(pcm[off : off+2])
		}
		samples[i] = sum / float32(channels)
	}
	return samples
}

// DecodeWAV parses a PCM16 WAV file into a chunk. Multi-channel audio is
// downmixed to mono by averaging channels.
func DecodeWAV(data []byte) (Chunk, error) {
	r := bytes.NewReader(data)
	f, err := readWAVFormat(r)
	if err != nil {
		return Chunk{}, err
	}
	// Tolerate a data size field larger than the file; some writers never
	// patch the header after streaming out the samples.
	n := f.dataLen
	if n > r.Len() {
		n = r.Len()
	}
	pcm := make([]byte, n)
	if _, err := io.ReadFull(r, pcm); err != nil {
		return Chunk{}, errors.InvalidFormat("audio", "data chunk of its declared size")
	}
	return Chunk{Samples: downmixPCM16(pcm, f.channels), SampleRate: f.rate}, nil
}

func pcm16Bytes(s float32) []byte {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	v := int16(s * 32767)
	return []byte{byte(v), byte(v >> 8)}
}

func pcm16Value(b []byte) float32 {
	v := int16(binary.LittleEndian.Uint16(b))
	return float32(v) / 32768
}
