// Command vsed is the CLI front-end of spec §6: a thin Cobra command that
// assembles a script from -e expressions (or the positional script), reads
// input from files or stdin, runs it through internal/exec's pipeline, and
// writes the result to stdout or back to each file with -i.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/vecstream/vsed/internal/compute"
	"github.com/vecstream/vsed/internal/exec"
	"github.com/vecstream/vsed/internal/script"
)

var (
	expressions []string
	quiet       bool
	extended    bool
	inPlace     bool
	verbose     bool
	tuneFile    string

	autoBackend bool
	gpuBackend  bool
	cpuBackend  bool
	metalStub   bool
	vulkanStub  bool
)

var rootCmd = &cobra.Command{
	Use:   "vsed [script] [file...]",
	Short: "vectorised, GPU-dispatching stream editor",
	RunE:  runVsed,
}

func init() {
	rootCmd.Flags().StringArrayVarP(&expressions, "expression", "e", nil, "append SCRIPT to the pipeline (repeatable)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "n", false, "suppress automatic line emission")
	rootCmd.Flags().Bool("silent", false, "alias for --quiet")
	rootCmd.Flags().BoolVarP(&extended, "regexp-extended", "E", false, "interpret all regex patterns as extended")
	rootCmd.Flags().BoolVarP(&extended, "regexp-extended-r", "r", false, "alias for --regexp-extended")
	rootCmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "write result back to each input path")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "emit diagnostics to stderr")
	rootCmd.Flags().StringVar(&tuneFile, "tune", "", "load compute dispatch tunables from a TOML file")

	rootCmd.Flags().BoolVar(&autoBackend, "auto", false, "let the backend selector choose (default)")
	rootCmd.Flags().BoolVar(&gpuBackend, "gpu", false, "force device dispatch when eligible")
	rootCmd.Flags().BoolVar(&cpuBackend, "cpu", false, "force host dispatch")
	rootCmd.Flags().BoolVar(&metalStub, "metal", false, "select the Metal device backend (unavailable in this build)")
	rootCmd.Flags().BoolVar(&vulkanStub, "vulkan", false, "select the Vulkan device backend (unavailable in this build)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func runVsed(cmd *cobra.Command, args []string) error {
	if r, _ := cmd.Flags().GetBool("silent"); r {
		quiet = true
	}

	if len(expressions) == 0 {
		if len(args) == 0 {
			return fmt.Errorf("vsed: no script given")
		}
		expressions = []string{args[0]}
		args = args[1:]
	}

	cmds, err := script.ParseScript(expressions, extended)
	if err != nil {
		return err
	}

	cfg := compute.DefaultConfig()
	if tuneFile != "" {
		cfg, err = compute.LoadTuneFile(tuneFile)
		if err != nil {
			return err
		}
	}
	cfg.DeviceAvailable = resolveDeviceAvailable(cfg.DeviceAvailable)

	paths := args
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	var firstErr error
	for _, path := range paths {
		if err := processFile(cmds, cfg, path); err != nil {
			if verbose {
				log.Printf("vsed: %s: %v", path, err)
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// resolveDeviceAvailable applies the --auto/--gpu/--cpu/--metal/--vulkan
// override flags over the compute config's device-availability default, per
// spec §6. --metal/--vulkan name specific device backends this reference
// implementation does not carry a driver for, so they degrade to the host
// path rather than a fabricated device integration.
func resolveDeviceAvailable(def bool) bool {
	switch {
	case cpuBackend:
		return false
	case gpuBackend:
		return true
	case metalStub, vulkanStub:
		if verbose {
			log.Printf("vsed: requested device backend unavailable in this build, falling back to host")
		}
		return false
	default:
		return def
	}
}

func processFile(cmds []script.Command, cfg compute.Config, path string) error {
	input, err := readInput(path)
	if err != nil {
		return &exec.IoError{Path: path, Err: err}
	}

	backend := compute.NewBackend(cfg)
	pipe, err := exec.NewPipeline(cmds, len(input), backend)
	if err != nil {
		return err
	}

	if verbose {
		log.Printf("vsed: %s: %d bytes, device available=%v", path, len(input), backend.Available())
	}

	output, err := pipe.Run(input, quiet)
	if err != nil {
		return err
	}

	if inPlace && path != "-" {
		if err := os.WriteFile(path, output, 0o644); err != nil {
			return &exec.IoError{Path: path, Err: err}
		}
		return nil
	}
	_, err = os.Stdout.Write(output)
	return err
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// exitCodeFor maps a top-level error to the exit code table of spec §6: 0
// success, 1 parse/matcher error, 2 I/O error.
func exitCodeFor(err error) int {
	var ioErr *exec.IoError
	if errors.As(err, &ioErr) {
		return 2
	}
	return 1
}
