// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"

	ole "github.com/go-ole/go-ole"
	"github.com/shirou/gopsutil/v4/process"
)

// Session wraps one audio session, roughly one audio-producing process
// context on one endpoint. Apart from the resolved process, nothing is
// cached: every getter reads the native session. A Session is not safe for
// concurrent use.
type Session struct {
	ctl     SessionControl
	process *process.Process
	caps    *CapabilityCache // QueryInterface on the session control

	callback SessionEvents
}

// NewSession wraps ctl. It returns nil for a nil ctl.
func NewSession(ctl SessionControl) *Session {
	if ctl == nil {
		return nil
	}
	return &Session{
		ctl:  ctl,
		caps: NewCapabilityCache(ctl.QueryInterface),
	}
}

// ProcessID returns the owning process id; 0 means no owning process, as
// for the system sounds session.
func (s *Session) ProcessID() (uint32, error) {
	pid, err := s.ctl.ProcessID()
	if err != nil {
		return 0, fmt.Errorf("failed to get process id: %w", err)
	}
	return pid, nil
}

// Process resolves the owning OS process. It returns nil without error when
// the session has no process or the process has already exited.
func (s *Session) Process() (*process.Process, error) {
	if s.process != nil {
		return s.process, nil
	}

	pid, err := s.ProcessID()
	if err != nil {
		return nil, err
	}
	if pid == 0 {
		return nil, nil
	}

	p, err := lookupProcess(pid)
	if err != nil || p == nil {
		return nil, err
	}
	s.process = p
	return p, nil
}

// Identifier returns the session identifier, stable across sessions of the
// same application.
func (s *Session) Identifier() (string, error) {
	return s.ctl.SessionIdentifier()
}

// InstanceIdentifier returns the identifier unique to this session instance.
func (s *Session) InstanceIdentifier() (string, error) {
	return s.ctl.SessionInstanceIdentifier()
}

// State queries the current session state.
func (s *Session) State() (SessionState, error) {
	return s.ctl.State()
}

// GroupingParam returns the grouping key of the session.
func (s *Session) GroupingParam() (ole.GUID, error) {
	return s.ctl.GroupingParam()
}

// SetGroupingParam moves the session into the group identified by param.
func (s *Session) SetGroupingParam(param ole.GUID) error {
	return s.ctl.SetGroupingParam(&param, EmptyContext)
}

// DisplayName returns the display name. It is empty until some client sets it.
func (s *Session) DisplayName() (string, error) {
	return s.ctl.DisplayName()
}

// SetDisplayName sets the display name unless it already has that value.
func (s *Session) SetDisplayName(name string) error {
	current, err := s.ctl.DisplayName()
	if err != nil {
		return fmt.Errorf("failed to get display name: %w", err)
	}
	if current == name {
		return nil
	}
	return s.ctl.SetDisplayName(name, EmptyContext)
}

// IconPath returns the icon path. It is empty until some client sets it.
func (s *Session) IconPath() (string, error) {
	return s.ctl.IconPath()
}

// SetIconPath sets the icon path unless it already has that value.
func (s *Session) SetIconPath(path string) error {
	current, err := s.ctl.IconPath()
	if err != nil {
		return fmt.Errorf("failed to get icon path: %w", err)
	}
	if current == path {
		return nil
	}
	return s.ctl.SetIconPath(path, EmptyContext)
}

// SimpleVolume returns the session master volume capability.
func (s *Session) SimpleVolume() (SimpleVolume, error) {
	return Acquire(s.caps, CapSimpleVolume)
}

// ChannelVolume returns the per-channel volume capability.
func (s *Session) ChannelVolume() (ChannelVolume, error) {
	return Acquire(s.caps, CapChannelVolume)
}

// RegisterNotification registers events for this session's notifications.
//
// Only one callback is registered per Session. While one is registered,
// further calls return nil and leave the first callback in place; they do not
// replace it. Existing callers rely on this, so keep it.
func (s *Session) RegisterNotification(events SessionEvents) error {
	if s.callback != nil {
		return nil
	}
	if err := s.ctl.RegisterNotification(events); err != nil {
		return fmt.Errorf("failed to register session notification: %w", err)
	}
	s.callback = events
	return nil
}

// UnregisterNotification removes the registered callback, if any.
func (s *Session) UnregisterNotification() error {
	if s.callback == nil {
		return nil
	}
	if err := s.ctl.UnregisterNotification(s.callback); err != nil {
		return fmt.Errorf("failed to unregister session notification: %w", err)
	}
	s.callback = nil
	return nil
}

// String describes the session by display name, process name or pid.
func (s *Session) String() string {
	if name, err := s.DisplayName(); err == nil && name != "" {
		return "DisplayName: " + name
	}
	if p, err := s.Process(); err == nil && p != nil {
		if name, err := p.Name(); err == nil {
			return "Process: " + name
		}
	}
	pid, _ := s.ProcessID()
	return fmt.Sprintf("Pid: %d", pid)
}

// Release unregisters any callback and releases the session's handles.
func (s *Session) Release() {
	_ = s.UnregisterNotification()
	s.caps.Release()
	s.ctl.Release()
}

func releaseSessions(sessions []*Session) {
	for _, s := range sessions {
		s.Release()
	}
}
