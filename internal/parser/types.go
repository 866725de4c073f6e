package parser

import (
	"tagforce-string/internal/textenc"
)

// Warning is a recoverable problem found while parsing.
type Warning struct {
	// Line is the 1-based line the problem was found on, 0 for file-level issues.
	Line int
	// Message describes the problem.
	Message string
}

// Document holds parsing output for a single text file.
type Document struct {
	// FilePath is the parsed file, empty for in-memory input.
	FilePath string
	// Encoding is the encoding the text was parsed as.
	Encoding textenc.Encoding
	// BOM is the byte order mark found at the start of the input.
	BOM textenc.BOM
	// Strings are the section bodies in ascending index order.
	Strings textenc.Sequence
	// Indices holds the section index each string was read from.
	Indices []int
	// Warnings are the problems recovered from while parsing.
	Warnings []Warning
}

// Parser is the interface for text format parsers.
type Parser interface {
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Parse reads sections from a file.
	Parse(filePath string) (*Document, error)
	// Reconstruct renders a document back into text.
	Reconstruct(doc *Document) ([]byte, error)
}
