// Command strawket decodes, encodes and audits OBS MessagePack payloads.
//
// Usage:
//
//	strawket <command> [flags] [file]
//
// Commands:
//
//	decode   Decode a payload to a readable tree or an entity
//	encode   Encode YAML documents to MessagePack
//	audit    Compare the compiled entities with a protocol manifest
//	log      View or summarize a capture file
//	repl     Decode payloads interactively
//
// Examples:
//
//	# Decode a hex payload as a Scene
//	strawket decode --entity Scene --hex 82a9736365...
//
//	# Decode every frame of a recording, showing one field as JSON
//	strawket decode --framed --entity SceneItem --path sceneItemTransform --format json rec.bin
//
//	# Encode YAML to a framed recording and capture the session
//	strawket encode --entity Input --out rec.bin --capture session.slog inputs.yaml
//
//	# Show only decode failures from a capture
//	strawket log --layer entity --error-kind missing-field session.slog
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/strawket/strawket-go/cmd/strawket/commands"
	"github.com/strawket/strawket-go/pkg/inspect"
	"github.com/strawket/strawket-go/pkg/log"
	"github.com/strawket/strawket-go/pkg/obs"
)

const usage = `strawket - OBS MessagePack codec tool

Usage:
  strawket <command> [flags] [file]

Commands:
  decode   Decode a payload to a readable tree or an entity
  encode   Encode YAML documents to MessagePack
  audit    Compare the compiled entities with a protocol manifest
  log      View or summarize a capture file
  repl     Decode payloads interactively

Use "strawket <command> --help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "decode":
		err = runDecode(ctx, args)
	case "encode":
		err = runEncode(ctx, args)
	case "audit":
		err = runAudit(args)
	case "log":
		err = runLog(args)
	case "repl":
		err = runRepl(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newFlagSet(name, synopsis string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "strawket %s - %s\n\nUsage:\n  strawket %s [flags]\n\nFlags:\n", name, synopsis, name)
		fs.PrintDefaults()
	}
	return fs
}

// sessionFlags are shared by the commands that run payloads through a
// session.
type sessionFlags struct {
	capture string
	verbose bool
}

func (sf *sessionFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&sf.capture, "capture", "", "Write a capture log of every payload to this file (.zst compresses)")
	fs.BoolVarP(&sf.verbose, "verbose", "v", false, "Log codec events to stderr")
}

// open builds the session. The returned closer flushes the capture file.
func (sf *sessionFlags) open() (*obs.Session, io.Closer, error) {
	var loggers []log.Logger
	var closer io.Closer = nopCloser{}

	if sf.capture != "" {
		fl, err := log.NewFileLogger(sf.capture)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open capture file: %w", err)
		}
		loggers = append(loggers, fl)
		closer = fl
	}
	if sf.verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		loggers = append(loggers, log.NewSlogAdapter(slog.New(handler)))
	}

	var opts []obs.SessionOption
	switch len(loggers) {
	case 0:
	case 1:
		opts = append(opts, obs.WithLogger(loggers[0]))
	default:
		opts = append(opts, obs.WithLogger(log.NewMultiLogger(loggers...)))
	}
	return obs.NewSession(opts...), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func runDecode(ctx context.Context, args []string) error {
	fs := newFlagSet("decode", "Decode a payload to a readable tree or an entity")
	var sf sessionFlags
	sf.register(fs)
	hexInput := fs.StringP("hex", "x", "", "Hex payload to decode")
	framed := fs.Bool("framed", false, "Input file holds length-prefixed frames")
	entity := fs.StringP("entity", "e", "", "Decode as this entity (default: raw wire tree)")
	path := fs.StringP("path", "p", "", "Show only this part of each value (e.g. items[0].name)")
	format := fs.StringP("format", "f", "text", "Output format (text, json, yaml)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := inspect.ParseFormat(*format)
	if err != nil {
		return err
	}

	s, closer, err := sf.open()
	if err != nil {
		return err
	}
	defer closer.Close()

	opts := commands.DecodeOptions{
		Source: commands.Source{Hex: *hexInput, Path: fs.Arg(0), Framed: *framed},
		Entity: *entity,
		Path:   *path,
		Format: f,
	}
	return commands.RunDecode(ctx, s, opts, os.Stdin, os.Stdout)
}

func runEncode(ctx context.Context, args []string) error {
	fs := newFlagSet("encode", "Encode YAML documents to MessagePack")
	var sf sessionFlags
	sf.register(fs)
	entity := fs.StringP("entity", "e", "", "Validate and encode as this entity")
	out := fs.StringP("out", "o", "", "Write a framed recording instead of hex lines")

	if err := fs.Parse(args); err != nil {
		return err
	}

	s, closer, err := sf.open()
	if err != nil {
		return err
	}
	defer closer.Close()

	input := fs.Arg(0)
	if input == "" {
		input = "-"
	}
	opts := commands.EncodeOptions{Input: input, Entity: *entity, Out: *out}
	return commands.RunEncode(ctx, s, opts, os.Stdin, os.Stdout)
}

func runAudit(args []string) error {
	fs := newFlagSet("audit", "Compare the compiled entities with a protocol manifest")
	version := fs.StringP("manifest", "m", "", "Manifest version (default: latest)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	return commands.RunAudit(*version, os.Stdout)
}

func runLog(args []string) error {
	fs := newFlagSet("log", "View or summarize a capture file")
	session := fs.String("session", "", "Filter by session ID")
	layer := fs.String("layer", "", "Filter by layer (transport, wire, entity)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	entity := fs.StringP("entity", "e", "", "Filter by entity name")
	errorKind := fs.String("error-kind", "", "Show only errors of this kind (malformed, missing-field, unknown-enum-symbol, type-mismatch, other)")
	stats := fs.Bool("stats", false, "Show statistics instead of events")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return errors.New("capture file path required")
	}

	filter := log.Filter{SessionID: *session, Entity: *entity}
	if *layer != "" {
		l, err := commands.ParseLayerFlag(*layer)
		if err != nil {
			return err
		}
		filter.Layer = &l
	}
	if *direction != "" {
		d, err := commands.ParseDirectionFlag(*direction)
		if err != nil {
			return err
		}
		filter.Direction = &d
	}
	if *errorKind != "" {
		k, err := commands.ParseErrorKindFlag(*errorKind)
		if err != nil {
			return err
		}
		filter.ErrorKind = &k
	}

	if *stats {
		return commands.RunStats(fs.Arg(0), filter, os.Stdout)
	}
	return commands.RunView(fs.Arg(0), filter, os.Stdout)
}

func runRepl(args []string) error {
	fs := newFlagSet("repl", "Decode payloads interactively")
	var sf sessionFlags
	sf.register(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	s, closer, err := sf.open()
	if err != nil {
		return err
	}
	defer closer.Close()

	return commands.NewRepl(s, os.Stdout).Run()
}
