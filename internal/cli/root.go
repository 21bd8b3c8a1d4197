package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// handler receives the canonical invocation of a parsed subcommand.
type handler func(CLIInvocation) error

// newRootCommand builds the command tree. Parsing and canonicalization happen
// here; the work itself is delegated to handle.
func newRootCommand(handle handler) *cobra.Command {
	var raw rawInvocation

	root := &cobra.Command{
		Use:   "slicevec",
		Short: "Generate and verify extended slice test vectors",
		Long: `slicevec builds the corpus of (start, stop, step) slice test vectors over a
fixed reference array and writes it as compact JSON, tab-indented JSON, gzip
and base64 artifacts.

Every combination of start, stop and step in [-26, 26] plus "absent" is
recorded with its expected result, except an explicit step of 0.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return invalidInvocationf("a command is required (generate|verify)")
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return invalidInvocationf("%v", err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&raw.workDir, "workdir", "", "Absolute working directory; relative paths resolve under it (default: current directory)")
	pf.StringVar(&raw.configPath, "config", "", "YAML configuration file (default: built-in reference parameters)")
	pf.StringVar(&raw.tracePath, "trace", "", "Write a canonical run trace to this path")
	pf.BoolVarP(&raw.verbose, "verbose", "v", false, "Enable debug logging")

	dispatch := func(cmd *cobra.Command, command Command) error {
		raw.command = command
		if raw.workDir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return invalidInvocationf("--workdir not given and current directory unavailable: %v", err)
			}
			raw.workDir = wd
		}
		if f := cmd.Flags().Lookup("alias-zero-start"); f != nil && f.Changed {
			v := f.Value.String() == "true"
			raw.aliasZeroStart = &v
		}
		inv, err := canonicalize(raw)
		if err != nil {
			return err
		}
		return handle(inv)
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the corpus and write all four artifacts",
		Long: `Builds the slice test-vector corpus and writes:
  compact JSON  (default test.json)
  pretty JSON   (default test2.json, tab-indented)
  gzip          (default test.gz, gzip of the compact bytes)
  base64        (default test.txt, base64 of the gzip bytes)

A failed artifact write is reported without affecting the other artifacts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, CommandGenerate)
		},
	}
	generateCmd.Flags().StringVarP(&raw.artifactDir, "output-dir", "o", "", "Directory the artifacts are written to (default: config output.dir)")
	generateCmd.Flags().IntVar(&raw.workers, "workers", 0, "Goroutines computing corpus entries (default: config workers)")
	generateCmd.Flags().Bool("alias-zero-start", false, "Give start=0 backward vectors the start-absent result")

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check existing artifacts for round-trip consistency",
		Long: `Reads the four artifacts and checks that they encode one corpus: the gzip
file decompresses to the compact bytes, the base64 file decodes to the gzip
bytes, and both JSON renderings parse to the same entries. Unless
--no-regenerate is given, the corpus is also compared entry for entry against
a freshly generated one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			noRegen, _ := cmd.Flags().GetBool("no-regenerate")
			raw.regenerate = !noRegen
			return dispatch(cmd, CommandVerify)
		},
	}
	verifyCmd.Flags().StringVarP(&raw.artifactDir, "input-dir", "i", "", "Directory holding the artifacts (default: config output.dir)")
	verifyCmd.Flags().IntVar(&raw.workers, "workers", 0, "Goroutines computing the regenerated corpus (default: config workers)")
	verifyCmd.Flags().Bool("alias-zero-start", false, "Regenerate with start=0 backward vectors aliased")
	verifyCmd.Flags().Bool("no-regenerate", false, "Only check the artifacts against each other")
	verifyCmd.Flags().IntVar(&raw.maxMismatches, "max-mismatches", 20, "Maximum differing entries to report (0 reports all)")

	root.AddCommand(generateCmd, verifyCmd)
	root.SetVersionTemplate(fmt.Sprintf("slicevec %s\n", Version))
	root.Version = Version
	return root
}

// Version is the release identifier reported by --version.
var Version = "dev"
