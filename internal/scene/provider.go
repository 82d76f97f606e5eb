package scene

import (
	"os"
)

// Provider opens scene documents
type Provider interface {
	Open(path string) (Document, error)
	Exists(path string) bool
}

// FileProvider reads text layers from the local filesystem
type FileProvider struct{}

func NewFileProvider() Provider {
	return &FileProvider{}
}

// Opens and parses the layer at path. A missing file yields an error wrapping fs.ErrNotExist.
func (p *FileProvider) Open(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

func (p *FileProvider) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
