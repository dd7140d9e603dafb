package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/lukasm/checksums/internal/checksum"
)

// verifyColors holds the per-outcome colors of the verification report.
type verifyColors struct {
	ok      *color.Color
	fail    *color.Color
	missing *color.Color
	extra   *color.Color
}

func newVerifyColors(w io.Writer) *verifyColors {
	c := &verifyColors{
		ok:      color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		missing: color.New(color.FgYellow),
		extra:   color.New(color.FgYellow),
	}
	if !isTerminal(w) {
		c.ok.DisableColor()
		c.fail.DisableColor()
		c.missing.DisableColor()
		c.extra.DisableColor()
	}
	return c
}

// isTerminal reports whether the writer goes to an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// renderVerify prints one line per problem file and a summary. Matched
// files are only counted, keeping the report readable for large trees.
func renderVerify(w io.Writer, r checksum.VerifyResult) {
	colors := newVerifyColors(w)

	for _, m := range r.Mismatched {
		fmt.Fprintf(w, "%s  %s  (expected %s, got %s)\n",
			colors.fail.Sprint("FAIL"), m.Path, m.Expected, m.Actual)
	}
	for _, path := range r.Missing {
		fmt.Fprintf(w, "%s  %s\n", colors.missing.Sprint("MISSING"), path)
	}
	for _, path := range r.Extra {
		fmt.Fprintf(w, "%s  %s\n", colors.extra.Sprint("EXTRA"), path)
	}

	total := len(r.Matched) + len(r.Mismatched) + len(r.Missing) + len(r.Extra)
	if r.Ok() {
		fmt.Fprintf(w, "%s  %d file(s) verified\n", colors.ok.Sprint("OK"), total)
		return
	}
	fmt.Fprintf(w, "%d file(s) checked: %d ok, %d failed, %d missing, %d extra\n",
		total, len(r.Matched), len(r.Mismatched), len(r.Missing), len(r.Extra))
}
