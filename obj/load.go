package obj

import (
	"fmt"
	"io"
	"os"
)

// Load reads a whole OBJ document from r, parses it, and compiles it
// in one call.
func Load(r io.Reader, cfg Config) (Groups, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	directives, err := ParseDocument(string(data))
	if err != nil {
		return nil, err
	}
	return Compile(cfg, directives)
}

// LoadFile loads and compiles an OBJ file from disk.
func LoadFile(path string, cfg Config) (Groups, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj file: %w", err)
	}
	defer f.Close()
	return Load(f, cfg)
}
