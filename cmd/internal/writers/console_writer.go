package writers

import (
	"fmt"
	"io"
	"os"
)

type ConsoleWriter struct {
	// Out defaults to stdout.
	Out io.Writer
}

func (c ConsoleWriter) Write(contents []byte) error {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}

	_, err := fmt.Fprintln(out, string(contents))
	return err
}
