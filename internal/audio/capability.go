// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"

	ole "github.com/go-ole/go-ole"
	"github.com/moutend/go-wca/pkg/wca"
)

// Capability names one native interface and the Go interface its handles
// implement. A nil IID marks a capability class without an identifier;
// acquiring it yields no capability rather than an error.
type Capability[T Unknown] struct {
	Name string
	IID  *ole.GUID
}

var (
	CapEndpointVolume = Capability[EndpointVolume]{
		Name: "IAudioEndpointVolume",
		IID:  wca.IID_IAudioEndpointVolume,
	}
	CapSessionManager = Capability[SessionManager]{
		Name: "IAudioSessionManager2",
		IID:  wca.IID_IAudioSessionManager2,
	}
	CapSessionControl = Capability[SessionControl]{
		Name: "IAudioSessionControl2",
		IID:  wca.IID_IAudioSessionControl2,
	}
	CapSimpleVolume = Capability[SimpleVolume]{
		Name: "ISimpleAudioVolume",
		IID:  wca.IID_ISimpleAudioVolume,
	}
	CapChannelVolume = Capability[ChannelVolume]{
		Name: "IChannelAudioVolume",
		IID:  wca.IID_IChannelAudioVolume,
	}
	CapEndpoint = Capability[Endpoint]{
		Name: "IMMEndpoint",
		IID:  wca.IID_IMMEndpoint,
	}
)

// CapabilityCache activates each capability at most once per owner and keeps
// the handle until Release. It is not safe for concurrent use.
type CapabilityCache struct {
	source      func(iid *ole.GUID) (Unknown, error)
	handles     map[string]Unknown
	activations int
}

// NewCapabilityCache returns a cache that obtains handles from source: device
// activation for endpoints, query-interface for sessions.
func NewCapabilityCache(source func(iid *ole.GUID) (Unknown, error)) *CapabilityCache {
	return &CapabilityCache{
		source:  source,
		handles: make(map[string]Unknown),
	}
}

// Get returns the handle for iid, calling the source on the first request
// only. A nil iid returns a nil handle and no error. Source failures are not
// cached, so a later call retries.
func (c *CapabilityCache) Get(iid *ole.GUID) (Unknown, error) {
	if iid == nil {
		return nil, nil
	}

	key := iid.String()
	if h, ok := c.handles[key]; ok {
		return h, nil
	}

	c.activations++
	h, err := c.source(iid)
	if err != nil {
		return nil, err
	}
	c.handles[key] = h
	return h, nil
}

// Activations returns how many times the source has been called.
func (c *CapabilityCache) Activations() int {
	return c.activations
}

// Len returns the number of cached handles.
func (c *CapabilityCache) Len() int {
	return len(c.handles)
}

// Release releases every cached handle and empties the cache.
func (c *CapabilityCache) Release() {
	for key, h := range c.handles {
		if h != nil {
			h.Release()
		}
		delete(c.handles, key)
	}
}

// Acquire returns the cached handle for capability narrowed to its Go
// interface. The zero value and a nil error mean the capability has no
// identifier.
func Acquire[T Unknown](c *CapabilityCache, capability Capability[T]) (T, error) {
	var zero T

	h, err := c.Get(capability.IID)
	if err != nil {
		return zero, fmt.Errorf("failed to acquire %s: %w", capability.Name, err)
	}
	if h == nil {
		return zero, nil
	}

	typed, ok := h.(T)
	if !ok {
		return zero, fmt.Errorf("%s: %w", capability.Name, ErrNoInterface)
	}
	return typed, nil
}

// narrow asks n for capability without caching the result. The caller owns
// the returned handle.
func narrow[T Unknown](n Narrower, capability Capability[T]) (T, error) {
	var zero T

	h, err := n.QueryInterface(capability.IID)
	if err != nil {
		return zero, fmt.Errorf("failed to query %s: %w", capability.Name, err)
	}
	if h == nil {
		return zero, fmt.Errorf("%s: %w", capability.Name, ErrNoInterface)
	}

	typed, ok := h.(T)
	if !ok {
		h.Release()
		return zero, fmt.Errorf("%s: %w", capability.Name, ErrNoInterface)
	}
	return typed, nil
}
