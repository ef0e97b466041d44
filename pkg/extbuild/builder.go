// Package extbuild configures and builds the optional idaklu solver extension
// (KLU sparse LU + SUNDIALS IDA) with CMake and moves the resulting shared
// library into the package's extension output directory.
//
// A missing cmake binary is fatal. A failed configure step is not: the
// extension is skipped with a warning and the pure Go solver remains usable.
package extbuild

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"
)

var (
	ErrCMakeNotFound = errors.New("cmake must be installed to build the idaklu module")
	ErrBuildFailed   = errors.New("idaklu build failed")
)

const configureWarning = "cmake configuration steps encountered errors, and the idaklu module will not be built. " +
	"Ignore this warning if you don't plan to use the idaklu module. " +
	"If you plan to use the idaklu module, make sure the dependencies are correctly installed."

type Result struct {
	Built     bool
	Skipped   bool
	Warning   string
	Artifacts []string // destination paths
}

type Builder struct {
	cfg    Config
	runner Runner
	logger *zap.Logger
}

type Option func(*Builder)

func WithRunner(r Runner) Option {
	return func(b *Builder) { b.runner = r }
}

func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

func New(cfg Config, opts ...Option) *Builder {
	cfg.Finalize()
	b := &Builder{
		cfg:    cfg,
		runner: NewExecRunner(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) Config() Config {
	return b.cfg
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	cfg := b.cfg

	if err := b.runner.Run(ctx, "", cfg.CMake, "--version"); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrCMakeNotFound, err)
		}
		return nil, fmt.Errorf("running %s --version: %w", cfg.CMake, err)
	}

	pybind := filepath.Join(cfg.SourceDir, Pybind11Tools)
	if _, err := os.Stat(pybind); err != nil {
		b.logger.Error("could not find pybind11 tools; make sure the pybind11 repository was cloned in ./third-party/",
			zap.String("path", pybind))
	}

	args, err := cfg.CMakeArgs()
	if err != nil {
		return nil, err
	}
	b.logger.Info("library roots",
		zap.String("suitesparse", cfg.SuiteSparseRoot),
		zap.String("sundials", cfg.SundialsRoot))

	if err := os.MkdirAll(cfg.BuildTemp, 0o755); err != nil {
		return nil, fmt.Errorf("creating build directory: %w", err)
	}

	// a log left by an earlier failed configure would mask this run's outcome
	errorLog := filepath.Join(cfg.BuildTemp, CMakeErrorLog)
	if err := os.Remove(errorLog); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("removing stale %s: %w", CMakeErrorLog, err)
	}

	sourceDir, err := filepath.Abs(cfg.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("resolving source directory: %w", err)
	}

	b.logger.Info("running cmake for idaklu solver", zap.Strings("args", args))
	configureErr := b.runner.Run(ctx, cfg.BuildTemp, cfg.CMake, append([]string{sourceDir}, args...)...)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if configureErr != nil || fileExists(errorLog) {
		fields := []zap.Field{zap.String("log", errorLog)}
		if configureErr != nil {
			fields = append(fields, zap.Error(configureErr))
		}
		b.logger.Warn(configureWarning, fields...)
		return &Result{Skipped: true, Warning: configureWarning}, nil
	}

	b.logger.Info("building idaklu module")
	if err := b.runner.Run(ctx, cfg.BuildTemp, cfg.CMake, "--build", "."); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}

	res := &Result{Built: true}
	for _, ext := range cfg.Extensions {
		dest, err := b.MoveOutput(ext)
		if err != nil {
			return nil, err
		}
		res.Artifacts = append(res.Artifacts, dest)
	}
	return res, nil
}

// MoveOutput copies the built library for ext from the build directory to its
// place under BuildLib and returns the destination path.
func (b *Builder) MoveOutput(ext string) (string, error) {
	name := b.cfg.ExtFilename(ext)

	buildTemp, err := filepath.Abs(b.cfg.BuildTemp)
	if err != nil {
		return "", fmt.Errorf("resolving build directory: %w", err)
	}
	src := filepath.Join(buildTemp, name)

	dest, err := filepath.Abs(filepath.Join(b.cfg.BuildLib, name))
	if err != nil {
		return "", fmt.Errorf("resolving destination: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}
	if err := copyFile(src, dest); err != nil {
		return "", fmt.Errorf("copying %s: %w", ext, err)
	}

	b.logger.Debug("copied extension", zap.String("from", src), zap.String("to", dest))
	return dest, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
