package storage

import (
	"bytes"
	"checkinboard/internal/structures"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// IsCompressed reports whether data starts with a zstd frame header.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

type ZstdCompression struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (z *ZstdCompression) Compress(val []byte) ([]byte, error) {
	return z.encoder.EncodeAll(val, make([]byte, 0, len(val)/2)), nil
}

// Decompress passes plain data through, so a store written before
// compression was enabled still loads.
func (z *ZstdCompression) Decompress(val []byte) ([]byte, error) {
	if !IsCompressed(val) {
		return val, nil
	}
	return z.decoder.DecodeAll(val, nil)
}

func (z *ZstdCompression) Close() {
	_ = z.encoder.Close()
	z.decoder.Close()
}

func NewZstdCompressor() (CompressorInterface, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &ZstdCompression{encoder: encoder, decoder: decoder}, nil
}

// plainCompression writes records as-is but still reads zstd frames.
type plainCompression struct {
	zstd *ZstdCompression
}

func (p *plainCompression) Compress(val []byte) ([]byte, error) {
	return val, nil
}

func (p *plainCompression) Decompress(val []byte) ([]byte, error) {
	return p.zstd.Decompress(val)
}

func (p *plainCompression) Close() {
	p.zstd.Close()
}

func NewCompressor(conf *structures.Config) (CompressorInterface, error) {
	c, err := NewZstdCompressor()
	if err != nil {
		return nil, err
	}
	if conf.Storage.Compress {
		return c, nil
	}
	return &plainCompression{zstd: c.(*ZstdCompression)}, nil
}
