package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Pos holds the 1-based line/column of a rune in a source document.
type Pos struct {
	Line int
	Col  int
}

// Locate converts a 0-based rune offset into a line/column position. Offsets
// past the end of src point just after the last rune.
func Locate(src string, offset int) Pos {
	pos := Pos{Line: 1, Col: 1}
	i := 0
	for _, r := range src {
		if i == offset {
			break
		}
		if r == '\n' {
			pos.Line++
			pos.Col = 1
		} else {
			pos.Col++
		}
		i++
	}
	return pos
}

// Render produces a message of the form:
//
//	error: <kind>
//	  --> <filename>:<line>:<col>
//	   |
//	 1 | <offending line of source code>
//	   |     ^ <message>
//
// Errors that are not *Error, or carry no position, render as the header and
// message only.
func Render(err error, filename string, src string, withColor bool) string {
	color.NoColor = !withColor

	redBold := color.New(color.FgRed, color.Bold).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	blue := color.New(color.FgBlue).SprintFunc()

	var de *Error
	if !errors.As(err, &de) {
		return fmt.Sprintf("%s %s", redBold("error:"), err.Error())
	}

	header := redBold(fmt.Sprintf("error: %s", de.Kind))
	if de.Position < 0 {
		return header + "\n" + de.Error()
	}

	pos := Locate(src, de.Position)
	lines := strings.Split(src, "\n")
	srcLine := ""
	if pos.Line-1 < len(lines) {
		srcLine = strings.TrimRight(lines[pos.Line-1], "\r")
	}

	margin := len(fmt.Sprintf("%d", pos.Line))
	pad := strings.Repeat(" ", margin)

	out := []string{
		header,
		fmt.Sprintf(" %s%s %s:%d:%d", pad, blue("-->"), filename, pos.Line, pos.Col),
		blue(fmt.Sprintf(" %s |", pad)),
		fmt.Sprintf(" %s %s %s", blue(fmt.Sprintf("%*d", margin, pos.Line)), blue("|"), srcLine),
		fmt.Sprintf(" %s %s %s%s %s", pad, blue("|"), caretIndent(srcLine, pos.Col), red("^"), red(de.Error())),
	}
	return strings.Join(out, "\n")
}

// caretIndent pads up to column col of line, keeping tabs so the caret lines
// up with the source however the terminal expands them.
func caretIndent(line string, col int) string {
	var b strings.Builder
	n := 0
	for _, r := range line {
		if n == col-1 {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		n++
	}
	for ; n < col-1; n++ {
		b.WriteByte(' ')
	}
	return b.String()
}
