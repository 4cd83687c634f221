package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"dirprint/internal/config"
	"dirprint/internal/fingerprint"
)

// hashFlags are the engine option overrides shared by every command that
// computes a fingerprint.
type hashFlags struct {
	algorithm   string
	noFilenames bool
	noSort      bool
	unicodeNFC  bool
}

func (f *hashFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.algorithm, "algorithm", "a", "", fmt.Sprintf("Digest algorithm (%s)", joinAlgorithms()))
	cmd.Flags().BoolVar(&f.noFilenames, "no-filenames", false, "Hash file content only, ignoring relative paths")
	cmd.Flags().BoolVar(&f.noSort, "no-sort", false, "Hash in filesystem listing order instead of byte-wise path order")
	cmd.Flags().BoolVar(&f.unicodeNFC, "unicode-nfc", false, "Normalize relative paths to Unicode NFC before hashing")
}

// options merges flag overrides onto the configured defaults.
func (f *hashFlags) options(cmd *cobra.Command, cfg *config.Config) (fingerprint.Options, error) {
	opts := fingerprint.DefaultOptions()
	if cfg != nil {
		opts = cfg.FingerprintOptions()
	}
	if cmd.Flags().Changed("algorithm") {
		algo, err := fingerprint.ParseAlgorithm(f.algorithm)
		if err != nil {
			return opts, err
		}
		opts.Algorithm = algo
	}
	if f.noFilenames {
		opts.IncludeFilenames = false
	}
	if f.noSort {
		opts.SortFiles = false
	}
	if f.unicodeNFC {
		opts.NormalizeUnicode = true
	}
	return opts, nil
}

func joinAlgorithms() string {
	return strings.Join(fingerprint.SupportedAlgorithms(), ", ")
}

// progressPrinter echoes per-file progress as files are hashed.
type progressPrinter struct {
	out io.Writer
}

func (p progressPrinter) PhaseChanged(fingerprint.Phase) {}

func (p progressPrinter) FileHashed(index int, outcome fingerprint.FileOutcome) {
	if outcome.OK() {
		fmt.Fprintf(p.out, "[%d] %s\n", index, outcome.Entry.RelPath)
		return
	}
	fmt.Fprintf(p.out, "[%d] %s (unreadable: %v)\n", index, outcome.Entry.RelPath, outcome.Err.Err)
}
