package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// EvalError is a problem in the script itself: a parse error or a builtin
// rejecting its arguments. Line is 1-based, or 0 when zygomys gave none.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// zygomys reports "Error on line N: ..." for parse errors and sometimes a
// bare "line N: ..." for runtime errors. Messages may span lines.
var linePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)(?:error )?on line (\d+):\s*(.*)`),
	regexp.MustCompile(`(?is)^line (\d+):\s*(.*)`),
}

func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range linePatterns {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
