package api

import "regexp"

// The UI renders answers as HTML fragments, not markdown. Only the two
// constructs the experts actually emit are translated; everything else
// passes through untouched.

var (
	boldRe      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	paragraphRe = regexp.MustCompile(`\n{2,}`)
)

// FormatAnswer converts an expert answer to the fragment the UI expects:
// markdown bold to <b>, paragraph breaks to <br>, and an attribution line
// naming the expert that produced the answer.
func FormatAnswer(text, label string) string {
	out := boldRe.ReplaceAllString(text, "<b>$1</b>")
	out = paragraphRe.ReplaceAllString(out, "<br>")
	return out + "<br><br>Response Provided by <b>" + label + "</b>"
}
