// Package codec provides zstd compression for version snapshot bodies.
package codec

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	encoderOnce sync.Once
	decoderOnce sync.Once
	encoder     *zstd.Encoder
	decoder     *zstd.Decoder
	encoderErr  error
	decoderErr  error
)

func getEncoder() (*zstd.Encoder, error) {
	encoderOnce.Do(func() {
		encoder, encoderErr = zstd.NewWriter(nil)
	})
	return encoder, encoderErr
}

func getDecoder() (*zstd.Decoder, error) {
	decoderOnce.Do(func() {
		decoder, decoderErr = zstd.NewReader(nil)
	})
	return decoder, decoderErr
}

// Compress returns the zstd-compressed form of data.
func Compress(data []byte) ([]byte, error) {
	enc, err := getEncoder()
	if err != nil {
		return nil, err
	}
	return enc.EncodeAll(data, make([]byte, 0, len(data))), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	dec, err := getDecoder()
	if err != nil {
		return nil, err
	}
	return dec.DecodeAll(data, nil)
}

// CompressString compresses a snapshot body held as a string.
func CompressString(body string) ([]byte, error) {
	return Compress([]byte(body))
}

// DecompressString decompresses a snapshot body back to a string.
func DecompressString(data []byte) (string, error) {
	out, err := Decompress(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
