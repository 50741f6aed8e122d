// Copyright Fernando Simich, 2026. All rights reserved.

// Package reader parses project plan files into the shared data model.
// The only implemented format is MSPDI, Microsoft Project's XML
// interchange schema; binary .mpp container parsing stays out of scope.
package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsimich/mppexport/pkg/types"
)

// Reader parses a single project file into a Project snapshot.
type Reader interface {
	// Read parses the file at path. The returned Project is a one-pass
	// snapshot; the file handle is released before Read returns, on both
	// success and failure paths.
	Read(path string) (*types.Project, error)
}

// ErrUnsupportedFormat is wrapped into errors returned for file formats
// the reader cannot parse.
var ErrUnsupportedFormat = fmt.Errorf("unsupported project file format")

// ForPath selects a Reader for the file at path based on its extension.
func ForPath(path string) (Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".mspdi":
		return &MSPDIReader{}, nil
	case ".mpp":
		return nil, fmt.Errorf("%w: %s is a binary .mpp container; export the plan as Project XML (MSPDI) and convert that", ErrUnsupportedFormat, filepath.Base(path))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// Read opens the file at path with the reader matching its extension.
func Read(path string) (*types.Project, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	r, err := ForPath(path)
	if err != nil {
		return nil, err
	}
	return r.Read(path)
}
