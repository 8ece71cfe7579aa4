// Package commands implements the strawket CLI commands.
package commands

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/strawket/strawket-go/pkg/transport"
)

// ParseHex decodes a hex dump, ignoring whitespace, colons and a leading
// "0x".
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ':' {
			return -1
		}
		return r
	}, s)
	if clean == "" {
		return nil, errors.New("empty hex input")
	}
	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}

// Source says where the payloads to decode come from.
type Source struct {
	// Hex is an inline hex payload.
	Hex string
	// Path is a file holding one raw payload, or frames if Framed is set.
	// "-" reads stdin.
	Path   string
	Framed bool
}

// Payloads returns the payloads named by src. The options apply when the
// input is framed.
func (src Source) Payloads(ctx context.Context, stdin io.Reader, opts ...transport.FrameOption) ([][]byte, error) {
	switch {
	case src.Hex != "":
		data, err := ParseHex(src.Hex)
		if err != nil {
			return nil, err
		}
		return [][]byte{data}, nil

	case src.Path == "":
		return nil, errors.New("no input: pass --hex or a file")

	case src.Framed:
		conn, err := transport.OpenFileConn(src.Path, opts...)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		return readAll(ctx, conn)

	case src.Path == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		return [][]byte{data}, nil

	default:
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, err
		}
		return [][]byte{data}, nil
	}
}

func readAll(ctx context.Context, conn transport.Conn) ([][]byte, error) {
	var out [][]byte
	for {
		msg, err := conn.ReadMessage(ctx)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, msg)
	}
}
