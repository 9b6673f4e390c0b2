package extractor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestProgressTrackerSuccess(t *testing.T) {
	color.NoColor = true

	for _, verbose := range []bool{true, false} {
		out := &bytes.Buffer{}
		pt := NewProgressTrackerTo(out, verbose)
		pt.Success("Wrote %d rows to %s", 3, "users.csv")

		got := strings.Contains(out.String(), "Wrote 3 rows to users.csv")
		if got != verbose {
			t.Errorf("verbose=%v: output %q", verbose, out.String())
		}
	}
}
