package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"audioctl/internal/audio"
)

func (a *app) devicesCommand() *cobra.Command {
	var flow, states string

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List audio endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := a.cfg.DataFlow()
			if flow != "" {
				var err error
				if f, err = audio.ParseDataFlow(flow); err != nil {
					return err
				}
			}
			mask := a.cfg.DeviceMask()
			if states != "" {
				var err error
				if mask, err = audio.ParseDeviceState(states); err != nil {
					return err
				}
			}

			devices, err := a.dir.Devices(f, mask)
			if err != nil {
				return err
			}
			defer releaseAll(devices)

			infos := make([]audio.DeviceInfo, 0, len(devices))
			for _, device := range devices {
				info, err := audio.DescribeDevice(device)
				if err != nil {
					return err
				}
				infos = append(infos, info)
			}
			return a.printDevices(infos)
		},
	}
	cmd.Flags().StringVarP(&flow, "flow", "f", "", "render, capture or all (default from config)")
	cmd.Flags().StringVarP(&states, "state", "s", "", `device states, e.g. "active|unplugged" (default from config)`)
	return cmd
}

func (a *app) defaultCommand() *cobra.Command {
	var flow string

	cmd := &cobra.Command{
		Use:   "default",
		Short: "Show the default endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := audio.ParseDataFlow(flow)
			if err != nil {
				return err
			}
			if f == audio.FlowAll {
				return errors.New("default: flow must be render or capture")
			}

			device, err := a.dir.DefaultEndpoint(f)
			if err != nil {
				return err
			}
			if device == nil {
				return fmt.Errorf("no default %s endpoint", f)
			}
			defer device.Release()

			info, err := audio.DescribeDevice(device)
			if err != nil {
				return err
			}
			return a.printDevices([]audio.DeviceInfo{info})
		},
	}
	cmd.Flags().StringVarP(&flow, "flow", "f", "render", "render or capture")
	return cmd
}

func (a *app) flowCommand() *cobra.Command {
	var code bool

	cmd := &cobra.Command{
		Use:   "flow <device-id>",
		Short: "Print the data flow of an endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := audio.FlowFormatName
			if code {
				format = audio.FlowFormatCode
			}
			flow, err := a.dir.EndpointDataFlow(args[0], format)
			if err != nil {
				return err
			}
			return a.printValue(map[string]string{"id": args[0], "flow": flow}, flow)
		},
	}
	cmd.Flags().BoolVar(&code, "code", false, "print the numeric code instead of the name")
	return cmd
}

// resolveDevice returns the endpoint with id, or the default render
// endpoint when id is empty.
func (a *app) resolveDevice(id string) (*audio.Device, error) {
	if id != "" {
		return a.dir.Device(id)
	}
	device, err := a.dir.Speakers()
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, errors.New("no default render endpoint")
	}
	return device, nil
}

func optionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func (a *app) muteCommand(use, short string, mute bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [device-id]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			device, err := a.resolveDevice(optionalArg(args))
			if err != nil {
				return err
			}
			defer device.Release()

			if mute {
				err = device.Mute()
			} else {
				err = device.Unmute()
			}
			if err != nil {
				return err
			}
			return a.printValue(map[string]any{"device": device.String(), "muted": mute},
				fmt.Sprintf("%s: muted=%t", device, mute))
		},
	}
}

func (a *app) mutedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "muted [device-id]",
		Short: "Report whether an endpoint is muted (default: speakers)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			device, err := a.resolveDevice(optionalArg(args))
			if err != nil {
				return err
			}
			defer device.Release()

			muted, err := device.IsMuted()
			if err != nil {
				return err
			}
			return a.printValue(map[string]any{"device": device.String(), "muted": muted},
				strconv.FormatBool(muted))
		},
	}
}

// parseLevel accepts a scalar in [0, 1] or a percentage such as "40%".
func parseLevel(s string) (float32, bool) {
	scale := 1.0
	if n := len(s); n > 1 && s[n-1] == '%' {
		s, scale = s[:n-1], 100
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, false
	}
	v /= scale
	if v < 0 || v > 1 {
		return 0, false
	}
	return float32(v), true
}

func (a *app) volumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "volume [device-id] [level]",
		Short: "Get or set the master volume of an endpoint (level 0-1 or 0%-100%)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id, levelArg string
			switch len(args) {
			case 1:
				// Endpoint ids never parse as levels.
				if _, ok := parseLevel(args[0]); ok {
					levelArg = args[0]
				} else {
					id = args[0]
				}
			case 2:
				id, levelArg = args[0], args[1]
			}

			device, err := a.resolveDevice(id)
			if err != nil {
				return err
			}
			defer device.Release()

			if levelArg != "" {
				level, ok := parseLevel(levelArg)
				if !ok {
					return fmt.Errorf("%w: %q", audio.ErrVolumeRange, levelArg)
				}
				if err := device.SetVolume(level); err != nil {
					return err
				}
			}

			level, err := device.Volume()
			if err != nil {
				return err
			}
			return a.printValue(map[string]any{"device": device.String(), "volume": level},
				fmt.Sprintf("%s: %.0f%%", device, level*100))
		},
	}
}

func releaseAll(devices []*audio.Device) {
	for _, d := range devices {
		d.Release()
	}
}
