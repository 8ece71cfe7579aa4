package obs

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/strawket/strawket-go/pkg/codec"
	"github.com/strawket/strawket-go/pkg/log"
	"github.com/strawket/strawket-go/pkg/wire"
)

// ErrUnknownEntity is returned for entity names missing from the registry.
var ErrUnknownEntity = errors.New("unknown entity")

// Session runs decodes and encodes under one session ID and reports each
// step to a capture logger. A Session is safe for concurrent use if its
// logger is.
type Session struct {
	id       string
	logger   log.Logger
	registry *codec.Registry
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the capture logger. The default discards events.
func WithLogger(l log.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) SessionOption {
	return func(s *Session) { s.id = id }
}

// WithRegistry sets the registry used by DecodeNamed and EncodeNamed.
// The default is Registry.
func WithRegistry(r *codec.Registry) SessionOption {
	return func(s *Session) { s.registry = r }
}

// NewSession creates a Session with a random UUID.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		id:       uuid.New().String(),
		logger:   log.NoopLogger{},
		registry: Registry,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session ID stamped on every event.
func (s *Session) ID() string { return s.id }

// Logger returns the capture logger, so transports can log under the same
// session.
func (s *Session) Logger() log.Logger { return s.logger }

// Decode parses data as entity E.
func Decode[E any](s *Session, schema *codec.Schema[E], data []byte) (E, error) {
	var zero E
	v, err := s.decodeWire(schema.Name(), data)
	if err != nil {
		return zero, err
	}

	start := time.Now()
	e, err := schema.DecodeWire(v)
	s.record(log.DirectionIn, log.LayerEntity, schema.Name(), data, time.Since(start), err)
	if err != nil {
		return zero, err
	}
	return e, nil
}

// Encode serializes e as entity E.
func Encode[E any](s *Session, schema *codec.Schema[E], e *E) ([]byte, error) {
	start := time.Now()
	v, err := schema.EncodeWire(*e)
	s.record(log.DirectionOut, log.LayerEntity, schema.Name(), nil, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return s.encodeWire(schema.Name(), v)
}

// DecodeNamed decodes data as the registered entity called name and returns
// a pointer to the fresh entity.
func (s *Session) DecodeNamed(name string, data []byte) (any, error) {
	ent, ok := s.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, name)
	}
	v, err := s.decodeWire(name, data)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	x, err := ent.DecodeAny(v)
	s.record(log.DirectionIn, log.LayerEntity, name, data, time.Since(start), err)
	return x, err
}

// EncodeNamed encodes x, an entity value or pointer, as the registered
// entity called name.
func (s *Session) EncodeNamed(name string, x any) ([]byte, error) {
	ent, ok := s.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, name)
	}

	start := time.Now()
	v, err := ent.EncodeAny(x)
	s.record(log.DirectionOut, log.LayerEntity, name, nil, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return s.encodeWire(name, v)
}

func (s *Session) decodeWire(entity string, data []byte) (wire.Value, error) {
	start := time.Now()
	v, err := wire.Decode(data)
	s.record(log.DirectionIn, log.LayerWire, entity, data, time.Since(start), err)
	return v, err
}

func (s *Session) encodeWire(entity string, v wire.Value) ([]byte, error) {
	start := time.Now()
	data, err := wire.Encode(v)
	s.record(log.DirectionOut, log.LayerWire, entity, data, time.Since(start), err)
	return data, err
}

func (s *Session) record(dir log.Direction, layer log.Layer, entity string, data []byte, d time.Duration, err error) {
	event := log.Event{
		Timestamp: time.Now(),
		SessionID: s.id,
		Direction: dir,
		Layer:     layer,
		Category:  log.CategoryMessage,
		Entity:    entity,
	}
	if data != nil || err == nil {
		event.Payload = log.NewPayloadEvent(data, d)
	}
	if err != nil {
		event.Category = log.CategoryError
		event.Error = log.NewErrorEventData(err)
	}
	s.logger.Log(event)
}
