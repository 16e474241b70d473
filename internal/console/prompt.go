package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PromptConfirmer asks on a terminal. Anything but y/yes/s/si/sí declines.
type PromptConfirmer struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func NewPromptConfirmer(in io.Reader, out io.Writer, assumeYes bool) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

func (p *PromptConfirmer) Confirm(warning string) bool {
	fmt.Fprintf(p.out, "ADVERTENCIA: %s\n", warning)
	if p.assumeYes {
		fmt.Fprintln(p.out, "¿Desea continuar? [s/N] s")
		return true
	}
	fmt.Fprint(p.out, "¿Desea continuar? [s/N] ")
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return false
}

// WriterNavigator reports redirects on a terminal; the CLI has no views to move between.
type WriterNavigator struct {
	Out io.Writer
}

func (n WriterNavigator) Redirect(path string) {
	if path == LoginPath {
		fmt.Fprintln(n.Out, "Sesión cerrada. Inicie sesión nuevamente con `bodega console login`.")
		return
	}
	fmt.Fprintf(n.Out, "-> %s\n", path)
}
