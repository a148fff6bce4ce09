package tunnel

import (
	"errors"
	"fmt"
)

// Default is the name of the channel every tunnel carries.
const Default = "default"

// ErrUnknownChannel is returned when a channel was not declared in New.
var ErrUnknownChannel = errors.New("unknown tunnel channel")

// Tunnel is a static set of named channels.
type Tunnel struct {
	names    []string
	channels map[string]*Channel
}

// New creates a tunnel with the default channel plus the given names.
// Duplicates and empty names are ignored.
func New(names ...string) *Tunnel {
	t := &Tunnel{channels: make(map[string]*Channel)}
	for _, name := range append([]string{Default}, names...) {
		if name == "" {
			continue
		}
		if _, ok := t.channels[name]; ok {
			continue
		}
		t.names = append(t.names, name)
		t.channels[name] = newChannel(name)
	}
	return t
}

// Names lists the channels in declaration order.
func (t *Tunnel) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Channel returns the channel called name.
func (t *Tunnel) Channel(name string) (*Channel, error) {
	c, ok := t.channels[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
	}
	return c, nil
}

// MustChannel is like Channel but panics for undeclared names.
func (t *Tunnel) MustChannel(name string) *Channel {
	c, err := t.Channel(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the default channel.
func (t *Tunnel) Default() *Channel {
	return t.channels[Default]
}
