package extractor

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// ProgressTracker provides colored output and progress reporting for
// export operations. It displays phase information, row counts, progress
// bars and a final summary.
type ProgressTracker struct {
	verbose      bool
	startTime    time.Time
	currentPhase string
	bar          *progressbar.ProgressBar
	out          io.Writer

	// Terminal color formatters
	cyan    *color.Color
	green   *color.Color
	yellow  *color.Color
	blue    *color.Color
	magenta *color.Color
}

// NewProgressTracker creates a new progress tracker writing to stdout.
// If verbose is true, detailed logging is enabled.
func NewProgressTracker(verbose bool) *ProgressTracker {
	return NewProgressTrackerTo(os.Stdout, verbose)
}

// NewProgressTrackerTo creates a progress tracker writing to out.
func NewProgressTrackerTo(out io.Writer, verbose bool) *ProgressTracker {
	return &ProgressTracker{
		verbose:   verbose,
		startTime: time.Now(),
		out:       out,
		cyan:      color.New(color.FgCyan, color.Bold),
		green:     color.New(color.FgGreen, color.Bold),
		yellow:    color.New(color.FgYellow, color.Bold),
		blue:      color.New(color.FgBlue),
		magenta:   color.New(color.FgMagenta),
	}
}

func (pt *ProgressTracker) StartPhase(phase string) {
	pt.currentPhase = phase
	if pt.verbose {
		pt.cyan.Fprintf(pt.out, "\n🚀 %s\n", phase)
		fmt.Fprintln(pt.out, color.New(color.FgHiBlack).Sprint("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	}
}

func (pt *ProgressTracker) Info(format string, args ...interface{}) {
	if pt.verbose {
		pt.blue.Fprintf(pt.out, "   ℹ  "+format+"\n", args...)
	}
}

func (pt *ProgressTracker) Success(format string, args ...interface{}) {
	if pt.verbose {
		pt.green.Fprintf(pt.out, "   ✓  "+format+"\n", args...)
	}
}

// Warning is shown regardless of verbosity.
func (pt *ProgressTracker) Warning(format string, args ...interface{}) {
	pt.yellow.Fprintf(pt.out, "⚠  "+format+"\n", args...)
}

func (pt *ProgressTracker) Progress(current, total int, description string) {
	if !pt.verbose || total <= 0 {
		return
	}

	if pt.bar == nil || total != pt.bar.GetMax() {
		pt.bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "█",
				SaucerHead:    "█",
				SaucerPadding: "░",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("rows"),
		)
	}
	pt.bar.Set(current)
}

func (pt *ProgressTracker) FinishProgress() {
	if pt.bar != nil {
		pt.bar.Finish()
		fmt.Fprintln(os.Stderr)
		pt.bar = nil
	}
}

func (pt *ProgressTracker) TableFetched(tableName string, rowCount int) {
	if pt.verbose {
		pt.magenta.Fprintf(pt.out, "   📦 Fetched %d rows from %s\n", rowCount, tableName)
	}
}

// WritingRows reports row-level progress while an output file is written.
func (pt *ProgressTracker) WritingRows(path string, current, total int) {
	if pt.verbose {
		pt.Progress(current, total, fmt.Sprintf("Writing %s", path))
	}
}

func (pt *ProgressTracker) OutputGeneration(format string) {
	if pt.verbose {
		pt.StartPhase(fmt.Sprintf("Generating %s output", format))
	}
}

func (pt *ProgressTracker) Complete(totalRows int, outputFile string) {
	elapsed := time.Since(pt.startTime)

	if !pt.verbose {
		return
	}

	fmt.Fprintln(pt.out)
	pt.cyan.Fprintln(pt.out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	pt.green.Fprintf(pt.out, "✓ Export Complete!\n\n")

	fmt.Fprintf(pt.out, "  📊 Statistics:\n")
	pt.blue.Fprintf(pt.out, "     • Total rows:  %d\n", totalRows)
	pt.blue.Fprintf(pt.out, "     • Output:      %s\n", outputFile)
	pt.blue.Fprintf(pt.out, "     • Time taken:  %v\n", elapsed.Round(time.Millisecond))

	if totalRows > 0 {
		rowsPerSec := float64(totalRows) / elapsed.Seconds()
		pt.blue.Fprintf(pt.out, "     • Speed:       %.0f rows/sec\n", rowsPerSec)
	}

	fmt.Fprintln(pt.out)
}
