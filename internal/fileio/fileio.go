// Package fileio is the filesystem and compression boundary of the converter.
// Every failure is reported as a fault.KindIO error carrying the path.
package fileio

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"tagforce-string/internal/fault"

	"github.com/klauspost/compress/gzip"
)

// GzipExt marks compressed inputs and outputs.
const GzipExt = ".gz"

// ReadFile reads path completely.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.IO("read", path, err)
	}
	return data, nil
}

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fault.IO("create directory", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fault.IO("write", path, err)
	}
	return nil
}

// IsCompressed reports whether path names a gzip file.
func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), GzipExt)
}

// ReadAuto reads path and transparently decompresses .gz files.
func ReadAuto(path string) ([]byte, error) {
	data, err := ReadFile(path)
	if err != nil || !IsCompressed(path) {
		return data, err
	}

	out, err := Decompress(data)
	if err != nil {
		return nil, fault.IO("decompress", path, err)
	}
	return out, nil
}

// WriteAuto writes data to path, gzip-compressing it first for .gz files.
func WriteAuto(path string, data []byte) error {
	if IsCompressed(path) {
		packed, err := Compress(data)
		if err != nil {
			return fault.IO("compress", path, err)
		}
		data = packed
	}
	return WriteFile(path, data)
}

// Decompress inflates a gzip stream.
func Decompress(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return io.ReadAll(zr)
}

// Compress deflates data into a gzip stream.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
