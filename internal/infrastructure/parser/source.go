package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/shelf-planogram/internal/domain/repository"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type bytesSource struct {
	name string
	data []byte
}

// NewBytesSource FileSource over an in-memory upload
func NewBytesSource(name string, data []byte) repository.FileSource {
	return &bytesSource{name: name, data: data}
}

func (s *bytesSource) Name() string { return s.name }

// ReadAsText decodes the bytes as UTF-8, honouring a UTF-8 or UTF-16 byte order mark
func (s *bytesSource) ReadAsText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, s.data)
	if err != nil {
		return "", fmt.Errorf("failed to decode text: %w", err)
	}
	return string(out), nil
}

func (s *bytesSource) ReadAsWorkbook(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.data, nil
}

type fileSource struct {
	path string
}

// NewFileSource FileSource reading a file from disk on demand
func NewFileSource(path string) repository.FileSource {
	return &fileSource{path: path}
}

func (s *fileSource) Name() string { return filepath.Base(s.path) }

func (s *fileSource) read() (*bytesSource, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return &bytesSource{name: s.Name(), data: data}, nil
}

func (s *fileSource) ReadAsText(ctx context.Context) (string, error) {
	src, err := s.read()
	if err != nil {
		return "", err
	}
	return src.ReadAsText(ctx)
}

func (s *fileSource) ReadAsWorkbook(ctx context.Context) ([]byte, error) {
	src, err := s.read()
	if err != nil {
		return nil, err
	}
	return src.ReadAsWorkbook(ctx)
}
