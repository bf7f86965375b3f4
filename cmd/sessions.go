package cmd

import (
	"encoding/binary"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	ole "github.com/go-ole/go-ole"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"audioctl/internal/audio"
	applog "audioctl/internal/log"
)

func (a *app) sessionsCommand() *cobra.Command {
	var flow string
	var states []string
	var defaultOnly bool

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List audio sessions of active endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var sessions []*audio.Session
			var err error
			if defaultOnly {
				sessions, err = a.dir.AllSessions()
			} else {
				f := a.cfg.DataFlow()
				if flow != "" {
					if f, err = audio.ParseDataFlow(flow); err != nil {
						return err
					}
				}
				filter := a.cfg.SessionStates()
				if len(states) > 0 {
					filter = nil
					for _, name := range states {
						state, err := audio.ParseSessionState(name)
						if err != nil {
							return err
						}
						filter = append(filter, state)
					}
				}
				sessions, err = a.dir.Sessions(f, filter...)
			}
			if err != nil {
				return err
			}
			defer releaseSessions(sessions)

			infos := make([]audio.SessionInfo, 0, len(sessions))
			for _, s := range sessions {
				infos = append(infos, audio.DescribeSession(s))
			}
			return a.printSessions(infos)
		},
	}
	cmd.Flags().StringVarP(&flow, "flow", "f", "", "render, capture or all (default from config)")
	cmd.Flags().StringSliceVarP(&states, "state", "s", nil, "keep only these session states (active, inactive, expired)")
	cmd.Flags().BoolVar(&defaultOnly, "default-only", false, "only the sessions of the default render endpoint")
	return cmd
}

func parsePID(s string) (uint32, error) {
	pid, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid process id %q", s)
	}
	return uint32(pid), nil
}

// findSession resolves the session owned by the pid in arg. The caller
// releases it.
func (a *app) findSession(arg string) (*audio.Session, error) {
	pid, err := parsePID(arg)
	if err != nil {
		return nil, err
	}
	s, err := a.dir.FindSessionByProcessID(pid)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("no session for process %d: %w", pid, audio.ErrNotFound)
	}
	return s, nil
}

func (a *app) findCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find <pid>",
		Short: "Show the first session owned by a process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.findSession(args[0])
			if err != nil {
				return err
			}
			defer s.Release()
			return a.printSessions([]audio.SessionInfo{audio.DescribeSession(s)})
		},
	}
}

func (a *app) renameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <pid> <display-name>",
		Short: "Set the display name of a process's session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.findSession(args[0])
			if err != nil {
				return err
			}
			defer s.Release()
			if err := s.SetDisplayName(args[1]); err != nil {
				return err
			}
			return a.printSessions([]audio.SessionInfo{audio.DescribeSession(s)})
		},
	}
}

func (a *app) iconCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "icon <pid> <icon-path>",
		Short: "Set the icon path of a process's session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.findSession(args[0])
			if err != nil {
				return err
			}
			defer s.Release()
			if err := s.SetIconPath(args[1]); err != nil {
				return err
			}
			return a.printSessions([]audio.SessionInfo{audio.DescribeSession(s)})
		},
	}
}

// guidFromUUID converts an RFC 4122 UUID into the Windows GUID layout, whose
// first three fields are little-endian integers in memory.
func guidFromUUID(u uuid.UUID) ole.GUID {
	g := ole.GUID{
		Data1: binary.BigEndian.Uint32(u[0:4]),
		Data2: binary.BigEndian.Uint16(u[4:6]),
		Data3: binary.BigEndian.Uint16(u[6:8]),
	}
	copy(g.Data4[:], u[8:16])
	return g
}

func (a *app) groupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "group <pid> <grouping-guid>",
		Short: "Move a process's session into a grouping",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("invalid grouping GUID %q: %w", args[1], err)
			}
			s, err := a.findSession(args[0])
			if err != nil {
				return err
			}
			defer s.Release()

			if err := s.SetGroupingParam(guidFromUUID(u)); err != nil {
				return err
			}
			g, err := s.GroupingParam()
			if err != nil {
				return err
			}
			return a.printValue(map[string]string{"session": s.String(), "grouping": g.String()}, g.String())
		},
	}
}

// eventLogger logs every session notification.
type eventLogger struct {
	pid uint32
}

func (e eventLogger) OnDisplayNameChanged(name string) {
	applog.With(applog.LevelInfo, "display name changed", "pid", e.pid, "name", name)
}

func (e eventLogger) OnIconPathChanged(path string) {
	applog.With(applog.LevelInfo, "icon path changed", "pid", e.pid, "path", path)
}

func (e eventLogger) OnSimpleVolumeChanged(volume float32, muted bool) {
	applog.With(applog.LevelInfo, "volume changed", "pid", e.pid, "volume", volume, "muted", muted)
}

func (e eventLogger) OnChannelVolumeChanged(volumes []float32, changed int) {
	applog.With(applog.LevelInfo, "channel volume changed", "pid", e.pid, "channel", changed, "volumes", volumes)
}

func (e eventLogger) OnGroupingParamChanged(param ole.GUID) {
	applog.With(applog.LevelInfo, "grouping changed", "pid", e.pid, "grouping", param.String())
}

func (e eventLogger) OnStateChanged(state audio.SessionState) {
	applog.With(applog.LevelInfo, "state changed", "pid", e.pid, "state", state.String())
}

func (e eventLogger) OnSessionDisconnected(reason audio.DisconnectReason) {
	applog.With(applog.LevelWarn, "session disconnected", "pid", e.pid, "reason", reason.String())
}

var _ audio.SessionEvents = eventLogger{}

func (a *app) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <pid>",
		Short: "Log notifications of a process's session until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.findSession(args[0])
			if err != nil {
				return err
			}
			defer s.Release()

			pid, _ := s.ProcessID()
			if err := s.RegisterNotification(eventLogger{pid: pid}); err != nil {
				return err
			}
			applog.Infof("watching %s, press Ctrl+C to stop", s)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			return s.UnregisterNotification()
		},
	}
}

func releaseSessions(sessions []*audio.Session) {
	for _, s := range sessions {
		s.Release()
	}
}
