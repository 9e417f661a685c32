package parsing

import (
	"fmt"
	"os"

	"github.com/NickyBoy89/pharbuild/phpast"
)

// SourceFile is a single PHP file, along with its parsed tree
type SourceFile struct {
	Name   string
	Source []byte
	Stmts  []phpast.Stmt
}

func (file SourceFile) String() string {
	return fmt.Sprintf("SourceFile { Name: %s, Stmts: %d }", file.Name, len(file.Stmts))
}

// ReadSourceFile reads a file from disk, without parsing it
func ReadSourceFile(path string) (*SourceFile, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &SourceFile{Name: path, Source: source}, nil
}

// ParseAST parses the file's source into its statements
func (file *SourceFile) ParseAST() error {
	stmts, err := Parse(file.Source)
	if err != nil {
		return fmt.Errorf("%s: %w", file.Name, err)
	}
	file.Stmts = stmts
	return nil
}
