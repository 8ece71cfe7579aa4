package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/strawket/strawket-go/pkg/log"
)

// ParseLayerFlag parses a layer name (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "wire":
		return log.LayerWire, nil
	case "entity":
		return log.LayerEntity, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be transport, wire, or entity)", s)
	}
}

// ParseDirectionFlag parses a direction name (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseErrorKindFlag parses an error kind such as "missing-field".
func ParseErrorKindFlag(s string) (log.ErrorKind, error) {
	norm := strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
	for k := log.ErrorKindOther; k <= log.ErrorKindTypeMismatch; k++ {
		if k.String() == norm || strings.TrimSuffix(k.String(), "_WIRE_DATA") == norm {
			return k, nil
		}
	}
	return 0, fmt.Errorf("invalid error kind: %s (must be malformed, missing-field, unknown-enum-symbol, type-mismatch, or other)", s)
}

// RunView writes the events of a capture file matching filter to w.
func RunView(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes one event: a header line, then indented details.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	label := event.Entity
	if label == "" {
		label = "-"
	}
	fmt.Fprintf(w, "%s [sess:%s] %-3s %-9s %s\n",
		ts, shortenID(event.SessionID), event.Direction, event.Layer, label)

	if p := event.Payload; p != nil {
		fmt.Fprintf(w, "  Size: %d bytes", p.Size)
		if p.Duration > 0 {
			fmt.Fprintf(w, " in %s", p.Duration)
		}
		fmt.Fprintln(w)
		if len(p.Data) > 0 {
			fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(p.Data))
			if p.Truncated {
				fmt.Fprint(w, " (truncated)")
			}
			fmt.Fprintln(w)
		}
	}
	if e := event.Error; e != nil {
		fmt.Fprintf(w, "  Error: %s\n", e.Kind)
		fmt.Fprintf(w, "  Message: %s\n", e.Message)
		if e.Field != "" {
			fmt.Fprintf(w, "  Field: %s\n", e.Field)
		}
		if e.Offset != nil {
			fmt.Fprintf(w, "  Offset: %d\n", *e.Offset)
		}
	}
	fmt.Fprintln(w)
}

// shortenID returns the first 8 characters of a session ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// Stats holds aggregate statistics about a capture file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByDirection map[log.Direction]int
	EventsByEntity    map[string]int
	ErrorsByKind      map[log.ErrorKind]int
	Sessions          map[string]int
	Start, End        time.Time
}

// CollectStats reads a capture file and aggregates it.
func CollectStats(path string, filter log.Filter) (*Stats, error) {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByDirection: make(map[log.Direction]int),
		EventsByEntity:    make(map[string]int),
		ErrorsByKind:      make(map[log.ErrorKind]int),
		Sessions:          make(map[string]int),
	}
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByLayer[event.Layer]++
		stats.EventsByDirection[event.Direction]++
		stats.Sessions[event.SessionID]++
		if event.Entity != "" {
			stats.EventsByEntity[event.Entity]++
		}
		if event.Error != nil {
			stats.ErrorsByKind[event.Error.Kind]++
		}
		if stats.Start.IsZero() || event.Timestamp.Before(stats.Start) {
			stats.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.End) {
			stats.End = event.Timestamp
		}
	}
}

// RunStats prints statistics about a capture file.
func RunStats(path string, filter log.Filter, w io.Writer) error {
	stats, err := CollectStats(path, filter)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Capture Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.Start.Format(time.RFC3339), stats.End.Format(time.RFC3339))
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Sessions:     %d\n", len(stats.Sessions))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerWire, log.LayerEntity} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}

	if len(stats.EventsByEntity) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Events by Entity:")
		names := make([]string, 0, len(stats.EventsByEntity))
		for n := range stats.EventsByEntity {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(w, "  %-20s %d\n", n+":", stats.EventsByEntity[n])
		}
	}

	if len(stats.ErrorsByKind) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Errors:")
		for k := log.ErrorKindOther; k <= log.ErrorKindTypeMismatch; k++ {
			if count := stats.ErrorsByKind[k]; count > 0 {
				fmt.Fprintf(w, "  %-22s %d\n", k.String()+":", count)
			}
		}
	}
}
