package extbuild

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSuiteSparseRoot = "KLU_module_deps/SuiteSparse-5.6.0"
	DefaultSundialsRoot    = "KLU_module_deps/sundials5"
	DefaultBuildTemp       = "build/temp"
	DefaultBuildLib        = "build/lib"
	DefaultExtension       = "idaklu"

	// checked before configuring; the extension cannot be built without pybind11
	Pybind11Tools = "third-party/pybind11/tools/pybind11Tools.cmake"
	// written by cmake when the configure step fails
	CMakeErrorLog = "CMakeError.log"
)

type Config struct {
	SourceDir       string   `yaml:"source_dir"` // directory holding CMakeLists.txt
	BuildTemp       string   `yaml:"build_temp"`
	BuildLib        string   `yaml:"build_lib"`
	SuiteSparseRoot string   `yaml:"suitesparse_root"`
	SundialsRoot    string   `yaml:"sundials_root"`
	Interpreter     string   `yaml:"interpreter"`
	ExtSuffix       string   `yaml:"ext_suffix"`
	CMake           string   `yaml:"cmake"`
	Extensions      []string `yaml:"extensions"`
}

func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decoding build config: %w", err)
	}
	return cfg, nil
}

func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("opening build config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}

var lookPath = exec.LookPath

// Finalize fills every unset field with its default.
func (c *Config) Finalize() {
	if c.SourceDir == "" {
		c.SourceDir = "."
	}
	if c.BuildTemp == "" {
		c.BuildTemp = DefaultBuildTemp
	}
	if c.BuildLib == "" {
		c.BuildLib = DefaultBuildLib
	}
	if c.SuiteSparseRoot == "" {
		c.SuiteSparseRoot = DefaultSuiteSparseRoot
	}
	if c.SundialsRoot == "" {
		c.SundialsRoot = DefaultSundialsRoot
	}
	if c.CMake == "" {
		c.CMake = "cmake"
	}
	if c.ExtSuffix == "" {
		c.ExtSuffix = defaultExtSuffix(runtime.GOOS)
	}
	if len(c.Extensions) == 0 {
		c.Extensions = []string{DefaultExtension}
	}
	if c.Interpreter == "" {
		c.Interpreter = findInterpreter()
	}
}

func defaultExtSuffix(goos string) string {
	if goos == "windows" {
		return ".pyd"
	}
	return ".so"
}

func findInterpreter() string {
	if p := os.Getenv("PYTHON_EXECUTABLE"); p != "" {
		return p
	}
	for _, name := range []string{"python3", "python"} {
		if p, err := lookPath(name); err == nil {
			return p
		}
	}
	return "python3"
}

// ExtFilename maps a dotted extension name to its relative file path,
// e.g. "pybamm.solvers.idaklu" -> "pybamm/solvers/idaklu.so".
func (c *Config) ExtFilename(name string) string {
	parts := strings.Split(name, ".")
	return filepath.Join(parts...) + c.ExtSuffix
}

// CMakeArgs returns the cache definitions passed to the configure step.
func (c *Config) CMakeArgs() ([]string, error) {
	args := []string{fmt.Sprintf("-DPYTHON_EXECUTABLE=%s", c.Interpreter)}

	if c.SuiteSparseRoot != "" {
		abs, err := filepath.Abs(c.SuiteSparseRoot)
		if err != nil {
			return nil, fmt.Errorf("resolving SuiteSparse root: %w", err)
		}
		args = append(args, fmt.Sprintf("-DSuiteSparse_ROOT=%s", abs))
	}
	if c.SundialsRoot != "" {
		abs, err := filepath.Abs(c.SundialsRoot)
		if err != nil {
			return nil, fmt.Errorf("resolving SUNDIALS root: %w", err)
		}
		args = append(args, fmt.Sprintf("-DSUNDIALS_ROOT=%s", abs))
	}
	return args, nil
}
