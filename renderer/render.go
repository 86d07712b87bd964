package renderer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"filterlist/parser"
)

// ErrCircularInclude indicates an include chain that reaches a target
// already being rendered.
var ErrCircularInclude = errors.New("circular include")

// Renderer resolves %include% instructions recursively and writes the
// assembled list.
//
// Include targets have the form "proto:path", where proto selects a
// source by name; a target without a protocol keeps the protocol of
// the including list. Paths are resolved against the source root, not
// against the including file.
type Renderer struct {
	// Sources maps protocol prefixes to content sources. The entry
	// with key "" is the default source for protocol-less targets.
	Sources map[string]Source
}

// Render assembles the list starting at target and writes it to w.
//
// Headers and metadata of included lists are dropped (only the top
// list's survive) and every included list is announced with a
// "! *** <target> ***" marker comment, so the origin of each block
// stays visible in the output. Rendering is strict: the first parse
// error aborts, wrapped with the target name and line number.
func (r *Renderer) Render(w io.Writer, target string) error {
	bw := bufio.NewWriter(w)
	proto, path := splitTarget("", target)
	if err := r.render(bw, proto, path, nil); err != nil {
		return err
	}
	return bw.Flush()
}

func (r *Renderer) render(w *bufio.Writer, proto, path string, stack []string) error {
	target := proto + ":" + path
	if slices.Contains(stack, target) {
		return fmt.Errorf("%w: %s", ErrCircularInclude, path)
	}
	stack = append(stack, target)

	source, ok := r.Sources[proto]
	if !ok {
		return fmt.Errorf("%w: unknown source %q in %s", ErrNotFound, proto, path)
	}
	content, err := source.Get(path)
	if err != nil {
		return err
	}
	defer content.Close()

	included := len(stack) > 1
	lineno := 0
	it := parser.ParseFilterList(content)
	for {
		line, err := it.Next()
		if err == io.EOF {
			return nil
		}
		lineno++
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, lineno, err)
		}

		switch line := line.(type) {
		case parser.Header, parser.Metadata:
			if included {
				continue
			}
		case parser.Instruction:
			if line.Kind == "include" {
				fmt.Fprintf(w, "! *** %s ***\n", line.Target)
				incProto, incPath := splitTarget(proto, line.Target)
				if err := r.render(w, incProto, incPath, stack); err != nil {
					return err
				}
				continue
			}
		}

		if _, err := fmt.Fprintln(w, line.Text()); err != nil {
			return err
		}
	}
}

// splitTarget separates the "proto:" prefix of an include target,
// falling back to the protocol of the including list.
func splitTarget(current, target string) (proto, path string) {
	if p, rest, ok := strings.Cut(target, ":"); ok {
		return p, rest
	}
	return current, target
}
