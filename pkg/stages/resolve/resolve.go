// Package resolve derives output locations for converted files.
package resolve

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/user/timelapse/pkg/pipeline"
	"github.com/user/timelapse/pkg/ports"
)

// OutputExt is the extension of every output file.
const OutputExt = ".mp4"

// DefaultDirName is the directory created next to a source when no
// destination is given.
const DefaultDirName = "outputs"

// Resolver computes output targets and makes sure their directory exists.
type Resolver struct {
	fs     ports.FileSystem
	logger ports.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(fs ports.FileSystem, logger ports.Logger) *Resolver {
	return &Resolver{
		fs:     fs,
		logger: logger.WithComponent("resolve"),
	}
}

// OutputDir returns the directory outputs for source are written to.
//
// A non-empty dest is treated as a path whose containing folder receives the
// output, so "/out/x" resolves to "/out". Without dest the output goes to an
// "outputs" folder beside the source.
func OutputDir(source, dest string) string {
	if dest != "" {
		return filepath.Dir(dest)
	}
	return filepath.Join(filepath.Dir(source), DefaultDirName)
}

// OutputName returns the output file name for source.
func OutputName(source string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return stem + OutputExt
}

// Resolve returns the absolute output target for source and creates the
// output directory when missing. Repeated calls with the same arguments
// return the same target.
func (r *Resolver) Resolve(source, dest string) (pipeline.OutputTarget, error) {
	dir, err := r.fs.Abs(OutputDir(source, dest))
	if err != nil {
		return pipeline.OutputTarget{}, pipeline.NewError(pipeline.KindDirectoryCreation, source,
			fmt.Errorf("resolve output directory: %w", err))
	}
	absSource, err := r.fs.Abs(source)
	if err != nil {
		return pipeline.OutputTarget{}, pipeline.NewError(pipeline.KindDirectoryCreation, source,
			fmt.Errorf("resolve source path: %w", err))
	}

	if err := r.fs.MkdirAll(dir); err != nil {
		r.logger.Debug("Failed to create %s: %s", dir, err)
		return pipeline.OutputTarget{}, pipeline.NewError(pipeline.KindDirectoryCreation, source,
			fmt.Errorf("create %s: %w", dir, err))
	}

	target := pipeline.OutputTarget{
		Path:   filepath.Join(dir, OutputName(source)),
		Dir:    dir,
		Source: absSource,
	}
	r.logger.Debug("Resolved %s to %s", source, target.Path)
	return target, nil
}
