package tools

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ecopia-map/usd_geolocator/internal/geoxform"
)

// extensions of the layers picked up when processing a folder
var documentExtensions = map[string]bool{
	".usda": true,
}

type FileFinder interface {
	GetDocumentsToProcess(opts *geoxform.GeolocatorOptions) ([]string, error)
}

type StandardFileFinder struct{}

func NewStandardFileFinder() FileFinder {
	return &StandardFileFinder{}
}

func (f *StandardFileFinder) GetDocumentsToProcess(opts *geoxform.GeolocatorOptions) ([]string, error) {
	// If folder processing is not enabled then the document is given by the input argument, otherwise look for
	// layers in the input folder eventually excluding nested folders if Recursive flag is disabled
	if !opts.FolderProcessing {
		return []string{opts.Input}, nil
	}

	return f.getDocumentsFromInputFolder(opts)
}

func (f *StandardFileFinder) getDocumentsFromInputFolder(opts *geoxform.GeolocatorOptions) ([]string, error) {
	var documents = make([]string, 0)

	baseInfo, err := os.Stat(opts.Input)
	if err != nil {
		return nil, err
	}
	err = filepath.Walk(
		opts.Input,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if !opts.Recursive && !os.SameFile(info, baseInfo) {
					return filepath.SkipDir
				}
				return nil
			}
			if documentExtensions[strings.ToLower(filepath.Ext(info.Name()))] {
				documents = append(documents, path)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	sort.Strings(documents)
	return documents, nil
}
