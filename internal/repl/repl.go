package repl

import (
	"bufio"
	"fmt"
	"io"

	"rite/internal/interp"
	"rite/internal/native"
	"rite/internal/object"
)

const PROMPT = ">> "

// Start reads lines from in and evaluates each one against a session
// environment that persists until EOF.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	session := interp.New(native.NewRegistry())

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return
		}

		line := scanner.Text()
		result, diagnostics := session.Run(line)
		if len(diagnostics) != 0 {
			printDiagnostics(out, diagnostics)
			continue
		}

		if result != nil && result != object.NONE {
			io.WriteString(out, result.Inspect())
			io.WriteString(out, "\n")
		}
	}
}

func printDiagnostics(out io.Writer, diagnostics []string) {
	for _, msg := range diagnostics {
		io.WriteString(out, "\t"+msg+"\n")
	}
}
