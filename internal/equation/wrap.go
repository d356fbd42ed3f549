package equation

import "strings"

// TermsPerLine is the display width in terms.
const TermsPerLine = 3

// Wrap breaks the equation before the sign that would start the third
// signed term of a line. The unsigned leading term fills the first slot of
// the first line.
func Wrap(eq string) string {
	var b strings.Builder
	signs := 0
	for _, r := range eq {
		if r == '+' || r == '-' {
			signs++
		}
		if signs >= TermsPerLine {
			signs = 0
			b.WriteByte('\n')
		}
		b.WriteRune(r)
	}
	return b.String()
}
