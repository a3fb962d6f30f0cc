package output

import (
	"fmt"
	"strings"
)

// Diagnostics accumulates human-readable build problems in the order they
// were detected. A rebuild always runs to completion; diagnostics are
// advisory, never aborting.
type Diagnostics struct {
	messages []string
}

func (d *Diagnostics) addf(format string, args ...interface{}) {
	d.messages = append(d.messages, fmt.Sprintf(format, args...))
}

// Messages returns the accumulated diagnostics in detection order.
func (d *Diagnostics) Messages() []string {
	return d.messages
}

// String joins all diagnostics into the single operator-visible summary,
// or returns the empty string when the build was clean.
func (d *Diagnostics) String() string {
	return strings.Join(d.messages, "\n")
}

// Empty reports whether the build produced no diagnostics.
func (d *Diagnostics) Empty() bool {
	return len(d.messages) == 0
}
