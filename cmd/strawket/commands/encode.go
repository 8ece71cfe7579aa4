package commands

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/strawket/strawket-go/pkg/codec"
	"github.com/strawket/strawket-go/pkg/dynamic"
	"github.com/strawket/strawket-go/pkg/inspect"
	"github.com/strawket/strawket-go/pkg/obs"
	"github.com/strawket/strawket-go/pkg/transport"
	"github.com/strawket/strawket-go/pkg/wire"
)

// EncodeOptions configures RunEncode.
type EncodeOptions struct {
	// Input is a YAML file with one document per payload; "-" reads stdin.
	Input string
	// Entity validates each document as this entity and encodes it in
	// canonical key order. Empty encodes the documents as they are.
	Entity string
	// Out writes a framed capture file instead of hex lines.
	Out string
}

// RunEncode converts YAML documents to MessagePack payloads.
func RunEncode(ctx context.Context, s *obs.Session, opts EncodeOptions, stdin io.Reader, w io.Writer) error {
	var entity codec.Entity
	if opts.Entity != "" {
		e, ok := inspect.ResolveEntity(obs.Registry, opts.Entity)
		if !ok {
			return fmt.Errorf("%w: %q (known: %v)", obs.ErrUnknownEntity, opts.Entity, obs.Registry.Names())
		}
		entity = e
	}

	var in io.Reader = stdin
	if opts.Input != "" && opts.Input != "-" {
		f, err := os.Open(opts.Input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	values, err := ReadYAMLValues(in)
	if err != nil {
		return err
	}

	var payloads [][]byte
	for i, v := range values {
		data, err := encodeOne(s, entity, v)
		if err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		payloads = append(payloads, data)
	}

	if opts.Out == "" {
		for _, p := range payloads {
			fmt.Fprintln(w, hex.EncodeToString(p))
		}
		return nil
	}

	conn, err := transport.CreateFileConn(opts.Out, transport.WithCapture(s.Logger(), s.ID()))
	if err != nil {
		return err
	}
	for _, p := range payloads {
		if err := conn.WriteMessage(ctx, p); err != nil {
			conn.Close()
			return err
		}
	}
	if err := conn.Close(); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %d frames to %s\n", len(payloads), opts.Out)
	return nil
}

func encodeOne(s *obs.Session, entity codec.Entity, v wire.Value) ([]byte, error) {
	if entity == nil {
		return wire.Encode(v)
	}
	x, err := entity.DecodeAny(v)
	if err != nil {
		return nil, err
	}
	return s.EncodeNamed(entity.Name(), x)
}

// ReadYAMLValues reads every document of a YAML stream as a wire value.
func ReadYAMLValues(r io.Reader) ([]wire.Value, error) {
	dec := yaml.NewDecoder(r)
	var out []wire.Value
	for {
		var n yaml.Node
		err := dec.Decode(&n)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", len(out), err)
		}
		d, err := dynamic.FromYAML(&n)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", len(out), err)
		}
		out = append(out, dynamic.ToWire(d))
	}
	if len(out) == 0 {
		return nil, errors.New("no YAML documents in input")
	}
	return out, nil
}
