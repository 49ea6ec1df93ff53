package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orca/pkg/ast"
	"github.com/matzehuels/orca/pkg/errors"
	"github.com/matzehuels/orca/pkg/pipeline"
)

// inputFlags selects the program or tree a command reads.
type inputFlags struct {
	source  string // inline program text (-e)
	example bool   // built-in example program
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.source, "source", "e", "", "program text to lay out instead of a file")
	cmd.Flags().BoolVar(&f.example, "example", false, "use the built-in example program")
}

// apply sets exactly one input on opts from args and flags.
// "-" reads program text from stdin.
func (f *inputFlags) apply(opts *pipeline.Options, args []string, stdin io.Reader) error {
	n := len(args)
	if f.source != "" {
		n++
	}
	if f.example {
		n++
	}
	switch {
	case n == 0:
		return errors.New(errors.ErrCodeInvalidInput, "no input: pass a file, - for stdin, --source or --example")
	case n > 1:
		return errors.New(errors.ErrCodeInvalidInput, "pass only one of a file, --source and --example")
	}

	switch {
	case f.example:
		opts.Seed = ast.Example()
	case f.source != "":
		opts.Source = f.source
	case args[0] == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		opts.Source = string(data)
	default:
		opts.Path = args[0]
	}
	return nil
}

// inputBase names outputs derived from the input: the file name without its
// extension, or appName for inline and stdin input.
func inputBase(opts pipeline.Options) string {
	if opts.Path == "" {
		return appName
	}
	return trimExt(opts.Path)
}

// openOutput returns a WriteCloser for path; "" and "-" mean stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
