package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/strawket/strawket-go/pkg/codec"
	"github.com/strawket/strawket-go/pkg/inspect"
	"github.com/strawket/strawket-go/pkg/obs"
)

// Repl decodes hex payloads typed at a prompt.
type Repl struct {
	session *obs.Session
	entity  codec.Entity
	path    *inspect.Path
	format  inspect.Format
	out     io.Writer
}

// NewRepl creates a Repl writing to out.
func NewRepl(s *obs.Session, out io.Writer) *Repl {
	return &Repl{session: s, out: out}
}

func (r *Repl) prompt() string {
	if r.entity == nil {
		return "wire> "
	}
	return r.entity.Name() + "> "
}

func (r *Repl) completer() *readline.PrefixCompleter {
	entities := func(string) []string { return obs.Registry.Names() }
	return readline.NewPrefixCompleter(
		readline.PcItem("entity", readline.PcItemDynamic(entities)),
		readline.PcItem("entities"),
		readline.PcItem("format",
			readline.PcItem("text"), readline.PcItem("json"), readline.PcItem("yaml")),
		readline.PcItem("path"),
		readline.PcItem("decode"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// Run reads commands until EOF or quit.
func (r *Repl) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          r.prompt(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    r.completer(),
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	r.out = rl.Stdout()
	r.printHelp()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}
		if r.Exec(line) {
			return nil
		}
		rl.SetPrompt(r.prompt())
	}
}

// Exec runs one command line and reports whether the Repl should exit.
func (r *Repl) Exec(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		r.printHelp()

	case "entities":
		for _, e := range obs.Registry.Entities() {
			fmt.Fprintf(r.out, "  %s (%d fields)\n", e.Name(), len(e.Fields()))
		}

	case "entity", "e":
		r.cmdEntity(args)

	case "format", "f":
		r.cmdFormat(args)

	case "path", "p":
		r.cmdPath(args)

	case "decode", "d":
		r.decode(strings.Join(args, ""))

	case "quit", "exit", "q":
		return true

	default:
		// Bare hex decodes directly.
		r.decode(input)
	}
	return false
}

func (r *Repl) cmdEntity(args []string) {
	if len(args) == 0 || args[0] == "-" {
		r.entity = nil
		fmt.Fprintln(r.out, "Decoding raw wire values")
		return
	}
	e, ok := inspect.ResolveEntity(obs.Registry, args[0])
	if !ok {
		fmt.Fprintf(r.out, "Unknown entity: %s (try: %s)\n", args[0],
			strings.Join(inspect.MatchEntityNames(obs.Registry, args[0][:1]), ", "))
		return
	}
	r.entity = e
	for _, f := range e.Fields() {
		opt := ""
		if f.Optional {
			opt = " (optional)"
		}
		fmt.Fprintf(r.out, "  %-24s %-8s %s%s\n", f.Key, f.Class, f.Type, opt)
	}
}

func (r *Repl) cmdFormat(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "Format: %s\n", r.format)
		return
	}
	f, err := inspect.ParseFormat(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	r.format = f
}

func (r *Repl) cmdPath(args []string) {
	if len(args) == 0 {
		r.path = nil
		return
	}
	p, err := inspect.ParsePath(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	r.path = p
}

func (r *Repl) decode(hexInput string) {
	data, err := ParseHex(hexInput)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	if err := decodeOne(r.session, r.entity, r.path, inspect.NewFormatter(), r.format, data, r.out); err != nil {
		FormatDecodeError(r.out, err)
	}
}

func (r *Repl) printHelp() {
	fmt.Fprintln(r.out, `
Commands:
  <hex>                - Decode a MessagePack payload
  decode <hex>         - Same, hex may contain spaces
  entity [name|-]      - Decode as an entity (or raw wire with -)
  entities             - List known entities
  format [text|json|yaml]
  path [expr]          - Show only part of each value (e.g. sceneItemTransform.positionX)
  help                 - Show this help
  quit                 - Exit`)
}
