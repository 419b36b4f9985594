package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/example/typecomment-gen/internal/docstring"
	"github.com/example/typecomment-gen/internal/pyscan"
)

type inspectedParam struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
	Line int    `json:"line" yaml:"line"`
}

type inspectedFunc struct {
	Name       string           `json:"name" yaml:"name"`
	Class      string           `json:"class,omitempty" yaml:"class,omitempty"`
	Line       int              `json:"line" yaml:"line"`
	Convention string           `json:"convention" yaml:"convention"`
	Params     []inspectedParam `json:"params,omitempty" yaml:"params,omitempty"`
	Result     string           `json:"result,omitempty" yaml:"result,omitempty"`
}

type inspectReport struct {
	File      string          `json:"file" yaml:"file"`
	Functions []inspectedFunc `json:"functions" yaml:"functions"`
}

func newInspectCommand() *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "inspect [files...]",
		Short: "Show the type information parsed from each docstring",
		Long: "Parse the docstrings of the given Python files and print the extracted\n" +
			"parameter and return types, without touching any file. Useful for checking\n" +
			"what convert would see.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, format, output, args)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Docstring convention (numpy, google or rest); detected per docstring when unset")
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "Output format: json or yaml")

	return cmd
}

func runInspect(cmd *cobra.Command, format, output string, args []string) error {
	fs := afero.NewOsFs()
	reports := make([]inspectReport, 0, len(args))
	for _, path := range args {
		report, err := inspectFile(fs, path, format)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	}
	return writeReports(cmd.OutOrStdout(), output, reports)
}

func writeReports(w io.Writer, output string, reports []inspectReport) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		for _, r := range reports {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", output)
	}
}

func inspectFile(fs afero.Fs, path, format string) (inspectReport, error) {
	mod, err := pyscan.ScanFile(fs, path)
	if err != nil {
		return inspectReport{}, err
	}

	report := inspectReport{File: path}
	for _, fn := range mod.Functions {
		if fn.Docstring == "" {
			continue
		}
		conv := format
		if conv == "" {
			conv = docstring.Detect(fn.Docstring)
		}
		parsed, err := docstring.Parse(fn.Docstring, fn.DocLine, format, docstring.DefaultOptions(), nil)
		if err != nil {
			return inspectReport{}, fmt.Errorf("%s: %w", path, err)
		}

		ifn := inspectedFunc{
			Name:       fn.Name,
			Class:      fn.Class,
			Line:       fn.DefLine,
			Convention: conv,
		}
		for _, name := range parsed.Params.Names() {
			arg, _ := parsed.Params.Get(name)
			ifn.Params = append(ifn.Params, inspectedParam{Name: name, Type: arg.Type, Line: arg.Line})
		}
		if parsed.Result != nil {
			ifn.Result = parsed.Result.Type
		}
		report.Functions = append(report.Functions, ifn)
	}
	return report, nil
}
