package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/example/typecomment-gen/internal/config"
	"github.com/example/typecomment-gen/internal/convert"
)

type convertFlags struct {
	format            string
	defaultReturnType string
	configPath        string
	outputDir         string
	addSuffix         string
	write             bool
	writeUnchanged    bool
	standardize       bool
	verbose           bool
	jobs              int
}

func newConvertCommand() *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert [paths...]",
		Short: "Insert type comments into Python files",
		Long: "Parse the docstrings of every function in the given Python files or\n" +
			"directories and insert a '# type:' comment derived from them. Without -w\n" +
			"the changes are shown as unified diffs instead of being written.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, &flags, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&flags.format, "format", "f", "", "Docstring convention (numpy, google or rest); detected per docstring when unset")
	fl.StringVar(&flags.defaultReturnType, "default-return-type", "", "Type used for undocumented return values")
	fl.BoolVarP(&flags.write, "write", "w", false, "Write back modified files")
	fl.BoolVarP(&flags.writeUnchanged, "write-unchanged-files", "W", false, "Also write files that needed no changes; implies -w")
	fl.StringVarP(&flags.outputDir, "output-dir", "o", "", "Put output files in this directory instead of overwriting the inputs")
	fl.StringVar(&flags.addSuffix, "add-suffix", "", "Append this string to all output filenames, e.g. 'i' to produce .pyi files")
	fl.StringVarP(&flags.configPath, "config", "c", "", "Read settings from this yaml config file")
	fl.BoolVar(&flags.standardize, "standardize", false, "Rewrite loose prose types into PEP 484 syntax")
	fl.IntVarP(&flags.jobs, "jobs", "j", 0, "Number of files converted concurrently")
	fl.BoolVarP(&flags.verbose, "verbose", "v", false, "More verbose logging")

	return cmd
}

func runConvert(cmd *cobra.Command, flags *convertFlags, args []string) error {
	logger, err := newLogger(flags.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	fs := afero.NewOsFs()
	cfg, err := config.Load(fs, flags.configPath)
	if err != nil {
		return err
	}

	// precedence: flags > config file > defaults
	opts := cfg.ConvertOptions()
	if flags.format != "" {
		opts.Format = flags.format
	}
	if flags.defaultReturnType != "" {
		opts.DefaultReturnType = flags.defaultReturnType
	}
	if flags.outputDir != "" {
		opts.OutputDir = flags.outputDir
	}
	if flags.addSuffix != "" {
		opts.AddSuffix = flags.addSuffix
	}
	if flags.jobs > 0 {
		opts.Jobs = flags.jobs
	}
	if flags.standardize {
		opts.Standardize = true
	}
	opts.Write = flags.write || flags.writeUnchanged
	opts.WriteUnchanged = flags.writeUnchanged

	sum, results, err := convert.New(fs, opts, logger).ConvertPaths(cmd.Context(), args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		if r.Diff != "" {
			fmt.Fprint(out, r.Diff)
		}
	}
	fmt.Fprintf(out, "%d file(s) inspected, %d changed\n", sum.Files, sum.Changed)
	return nil
}
