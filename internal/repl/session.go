package repl

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/arfbllh/mdq/internal/mdast"
)

// Session holds the loaded document for one interactive run. Content is kept
// alongside the parsed tree so .reload and .info can work from it.
type Session struct {
	ID      string
	content []byte
	path    string
	doc     *mdast.Document
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// LoadFile reads and parses a document from disk.
func (s *Session) LoadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := mdast.Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	s.content = content
	s.path = path
	s.doc = doc
	return nil
}

// LoadBytes parses a document from already-read content, e.g. stdin.
func (s *Session) LoadBytes(content []byte) error {
	doc, err := mdast.Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	s.content = content
	s.path = ""
	s.doc = doc
	return nil
}

// Reload re-reads the document from its file path.
func (s *Session) Reload() error {
	if s.path == "" {
		return fmt.Errorf("no file path available for reloading")
	}
	return s.LoadFile(s.path)
}

// Clear drops the loaded document.
func (s *Session) Clear() {
	s.content = nil
	s.path = ""
	s.doc = nil
}

// Document returns the parsed document, or nil if none is loaded.
func (s *Session) Document() *mdast.Document {
	return s.doc
}

// Path returns the file path of the loaded document, or "" for stdin content.
func (s *Session) Path() string {
	return s.path
}

// HasDocument reports whether a document is loaded.
func (s *Session) HasDocument() bool {
	return s.doc != nil
}

// Info returns a one-line description of the loaded document for display.
func (s *Session) Info() string {
	if s.doc == nil {
		return "No document loaded"
	}
	source := s.path
	if source == "" {
		source = "stdin"
	}
	size := humanize.Bytes(uint64(len(s.content)))
	return fmt.Sprintf("Document: %s (%s, %d blocks)", source, size, s.doc.BlockCount())
}
