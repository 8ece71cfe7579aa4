package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/strawket/strawket-go/pkg/codec"
	"github.com/strawket/strawket-go/pkg/inspect"
	"github.com/strawket/strawket-go/pkg/log"
	"github.com/strawket/strawket-go/pkg/obs"
	"github.com/strawket/strawket-go/pkg/transport"
	"github.com/strawket/strawket-go/pkg/wire"
)

// DecodeOptions configures RunDecode.
type DecodeOptions struct {
	Source Source
	// Entity decodes each payload as this entity. Empty shows the raw tree.
	Entity string
	// Path selects part of each decoded value.
	Path   string
	Format inspect.Format
}

// RunDecode decodes payloads and renders them to w. A failing payload is
// reported and decoding continues; the returned error counts the failures.
func RunDecode(ctx context.Context, s *obs.Session, opts DecodeOptions, stdin io.Reader, w io.Writer) error {
	var entity codec.Entity
	if opts.Entity != "" {
		e, ok := inspect.ResolveEntity(obs.Registry, opts.Entity)
		if !ok {
			return fmt.Errorf("%w: %q (known: %v)", obs.ErrUnknownEntity, opts.Entity, obs.Registry.Names())
		}
		entity = e
	}

	var path *inspect.Path
	if opts.Path != "" {
		p, err := inspect.ParsePath(opts.Path)
		if err != nil {
			return err
		}
		path = p
	}

	payloads, err := opts.Source.Payloads(ctx, stdin, transport.WithCapture(s.Logger(), s.ID()))
	if err != nil {
		return err
	}

	f := inspect.NewFormatter()
	failed := 0
	for i, data := range payloads {
		if len(payloads) > 1 {
			fmt.Fprintf(w, "# frame %d (%d bytes)\n", i, len(data))
		}
		if err := decodeOne(s, entity, path, f, opts.Format, data, w); err != nil {
			failed++
			FormatDecodeError(w, err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d payloads failed to decode", failed, len(payloads))
	}
	return nil
}

func decodeOne(s *obs.Session, entity codec.Entity, path *inspect.Path, f *inspect.Formatter, format inspect.Format, data []byte, w io.Writer) error {
	var v wire.Value
	if entity == nil {
		var err error
		if v, err = wire.Decode(data); err != nil {
			return err
		}
	} else {
		x, err := s.DecodeNamed(entity.Name(), data)
		if err != nil {
			return err
		}
		// Re-encoding shows the entity as the codec understood it: unknown
		// keys dropped, flags completed.
		if v, err = entity.EncodeAny(x); err != nil {
			return err
		}
	}

	if path != nil {
		var err error
		if v, err = inspect.Select(v, path); err != nil {
			return err
		}
	}
	return f.Render(w, v, format)
}

// FormatDecodeError writes a classified decode error to w.
func FormatDecodeError(w io.Writer, err error) {
	data := log.NewErrorEventData(err)
	fmt.Fprintf(w, "error: %s\n", data.Kind)
	fmt.Fprintf(w, "  Message: %s\n", data.Message)
	if data.Field != "" {
		fmt.Fprintf(w, "  Field: %s\n", data.Field)
	}
	if data.Offset != nil {
		fmt.Fprintf(w, "  Offset: %d\n", *data.Offset)
	}
	var us *codec.UnknownEnumSymbolError
	if errors.As(err, &us) {
		fmt.Fprintf(w, "  Symbol: %q is not a %s\n", us.Symbol, us.Enum)
	}
}
