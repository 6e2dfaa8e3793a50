// console.go implements the 'objgc console' command.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kolkov/objgc/internal/gc/console"
	"github.com/kolkov/objgc/internal/render"
)

const replHelp = `Commands:
    gc <sub>        operator gc command (gc alone prints its usage)
    step [n]        run n budgeted steps (default 1)
    single [n]      run n single units of work (default 1)
    stat            print the status line
    gray            list the gray worklist
    verify          check the tri-color invariant
    render FILE     write a PNG of the heap
    save FILE       write the live scenario objects as JSON
    help            show this text
    quit            leave the console
`

// consoleCommand implements the 'objgc console' command.
//
// Example:
//
//	objgc console scenario.json
func consoleCommand(args []string) {
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "log cycle transitions to stderr")
	sectors := fs.Int("sectors", 0, "demo level sectors")
	sides := fs.Int("sides", 0, "demo level sides")
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one scenario file")
		os.Exit(1)
	}

	opts, err := loadOptions(*verbose, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	s, err := newSession(fs.Arg(0), opts, *sectors, *sides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := repl(s, os.Stdin, os.Stdout, true); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// errQuit ends the read loop.
var errQuit = errors.New("quit")

// repl reads commands from r until EOF or quit. Command errors are printed
// and do not stop the loop; only read errors are returned.
func repl(s *session, r io.Reader, w io.Writer, prompt bool) error {
	sc := bufio.NewScanner(r)
	for {
		if prompt {
			fmt.Fprint(w, "> ")
		}
		if !sc.Scan() {
			return sc.Err()
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		err := execute(s, fields, w)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
		}
	}
}

// execute runs one console line.
func execute(s *session, fields []string, w io.Writer) error {
	switch strings.ToLower(fields[0]) {
	case "gc":
		return console.Run(s.c, fields[1:], w)
	case "step":
		n, err := count(fields)
		if err != nil {
			return err
		}
		for range n {
			s.c.Step()
		}
		fmt.Fprintln(w, s.c.Stats())
	case "single":
		n, err := count(fields)
		if err != nil {
			return err
		}
		var cost uint64
		for range n {
			cost += s.c.SingleStep()
		}
		fmt.Fprintf(w, "%s  (%d bytes of work)\n", s.c.Stats(), cost)
	case "stat":
		fmt.Fprintln(w, s.c.Stats())
	case "gray":
		for _, h := range s.c.GrayList() {
			fmt.Fprintln(w, s.g.Label(h))
		}
	case "verify":
		if err := s.c.Verify(); err != nil {
			return err
		}
		fmt.Fprintln(w, "ok")
	case "render":
		if len(fields) != 2 {
			return errors.New("usage: render FILE")
		}
		opts := render.DefaultOptions()
		opts.Label = s.g.Label
		opts.Title = fields[1]
		if err := render.SavePNG(fields[1], s.c, opts); err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote %s\n", fields[1])
	case "save":
		if len(fields) != 2 {
			return errors.New("usage: save FILE")
		}
		return save(s, fields[1], w)
	case "help":
		fmt.Fprint(w, replHelp)
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", fields[0])
	}
	return nil
}

func count(fields []string) (int, error) {
	if len(fields) < 2 {
		return 1, nil
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s: bad count %q", fields[0], fields[1])
	}
	return n, nil
}

func save(s *session, path string, w io.Writer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := s.g.Export().Write(f); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s\n", path)
	return nil
}
