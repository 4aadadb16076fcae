package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tetragramaton/smh-sensors/internal/config"
	"github.com/tetragramaton/smh-sensors/internal/ha"
	"github.com/tetragramaton/smh-sensors/internal/probe"
	"github.com/tetragramaton/smh-sensors/internal/sensor/yosemitech"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show serial number, firmware version and slave id",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			t := a.table("field", "value")
			if a.family == config.FamilyKeller {
				s, err := a.keller()
				if err != nil {
					return err
				}
				sn, err := s.GetSerialNumber()
				if err != nil {
					return err
				}
				t.AppendRow([]interface{}{"model", s.Model()})
				t.AppendRow([]interface{}{"serial", sn})
				if id, err := s.GetSlaveID(); err == nil {
					t.AppendRow([]interface{}{"slave id", id})
				}
				t.Render()
				return nil
			}

			s, err := a.yosemitech()
			if err != nil {
				return err
			}
			sn, err := s.GetSerialNumber()
			if err != nil {
				return err
			}
			v, err := s.GetVersion()
			if err != nil {
				return err
			}
			t.AppendRow([]interface{}{"model", s.Model()})
			t.AppendRow([]interface{}{"serial", sn})
			t.AppendRow([]interface{}{"hardware", fmt.Sprintf("%.2f", v.Hardware)})
			t.AppendRow([]interface{}{"software", fmt.Sprintf("%.2f", v.Software)})
			t.AppendRow([]interface{}{"slave id", s.GetSlaveID()})
			t.Render()
			return nil
		},
	}
}

func newReadCmd(a *app) *cobra.Command {
	var salinity, pressure float64
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Take one reading and print every available capability",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			sc := config.SensorConfig{
				ID:           "sensorctl",
				Family:       a.family,
				Model:        a.model,
				SlaveID:      a.slaveID,
				Salinity:     salinity,
				PressureMmHg: pressure,
			}
			cfg := &config.Config{Bridge: config.BridgeConfig{Sensors: []config.SensorConfig{sc}}}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			config.Normalize(cfg)

			p, err := probe.New(cfg.Bridge.Sensors[0], a.client, a.logger)
			if err != nil {
				return err
			}
			if err := p.Begin(); err != nil {
				return err
			}
			r, err := p.Read()
			if err != nil && len(r.Values) == 0 {
				return err
			}

			t := a.table("capability", "value", "unit")
			for _, c := range p.Caps() {
				capability, _ := ha.LookupCapability(c)
				v, ok := r.Values[c]
				if !ok {
					v = yosemitech.Sentinel
				}
				t.AppendRow([]interface{}{c, fmtValue(v), capability.Unit})
			}
			t.AppendFooter([]interface{}{"status", fmt.Sprintf("0x%02X", r.Status), ""})
			t.Render()
			return err
		},
	}
	cmd.Flags().Float64Var(&salinity, "salinity", 0, "salinity in ppt for DO mg/L")
	cmd.Flags().Float64Var(&pressure, "pressure-mmhg", 0, "barometric pressure in mmHg for DO mg/L (0: sea level)")
	return cmd
}

func newSetSlaveIDCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-slave-id <id>",
		Short: "Change the sensor's Modbus address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 8)
			if err != nil || id < 1 || id > 247 {
				return fmt.Errorf("slave id must be 1-247, got %q", args[0])
			}
			s, err := a.requireYosemitech()
			if err != nil {
				return err
			}
			if err := s.SetSlaveID(byte(id)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "slave id set to %d\n", id)
			return nil
		},
	}
}

func newStartCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start measuring",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			s, err := a.requireYosemitech()
			if err != nil {
				return err
			}
			return s.StartMeasurement()
		},
	}
}

func newStopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop measuring",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			s, err := a.requireYosemitech()
			if err != nil {
				return err
			}
			return s.StopMeasurement()
		},
	}
}

func newCalibrationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibration",
		Short: "Read or write user calibration coefficients",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print calibration coefficients",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			s, err := a.requireYosemitech()
			if err != nil {
				return err
			}
			k, err := s.GetCalibration()
			if err != nil {
				return err
			}
			t := a.table("coefficient", "value")
			for i, v := range k {
				t.AppendRow([]interface{}{fmt.Sprintf("K%d", i+1), v})
			}
			t.Render()
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <k1> <k2> [k3..k6]",
		Short: "Write calibration coefficients (two, or six for the Y532)",
		Args:  cobra.RangeArgs(2, 6),
		RunE: func(_ *cobra.Command, args []string) error {
			k, err := parseFloats(args)
			if err != nil {
				return err
			}
			s, err := a.requireYosemitech()
			if err != nil {
				return err
			}
			return s.SetCalibration(k...)
		},
	})
	return cmd
}

func newPHPointCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ph-point <pH>",
		Short: "Submit a pH buffer calibration point",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			pH, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("bad pH %q: %w", args[0], err)
			}
			s, err := a.requireYosemitech()
			if err != nil {
				return err
			}
			return s.PHCalibrationPoint(pH)
		},
	}
}

func newPHStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ph-status",
		Short: "Show the result of the last pH calibration step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.requireYosemitech()
			if err != nil {
				return err
			}
			st, err := s.PHCalibrationStatus()
			fmt.Fprintf(cmd.OutOrStdout(), "0x%02X %s\n", byte(st), st)
			return err
		},
	}
}

func newCapCoefficientsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cap-coefficients <k0> ... <k7>",
		Short: "Load the eight coefficients of a new DO membrane cap",
		Args:  cobra.ExactArgs(8),
		RunE: func(_ *cobra.Command, args []string) error {
			k, err := parseFloats(args)
			if err != nil {
				return err
			}
			s, err := a.requireYosemitech()
			if err != nil {
				return err
			}
			var coeffs [8]float64
			copy(coeffs[:], k)
			return s.SetCapCoefficients(coeffs)
		},
	}
}

func newBrushCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brush",
		Short: "Control the wiper of self-cleaning sensors",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "activate",
		Short: "Run one wipe cycle",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			s, err := a.requireYosemitech()
			if err != nil {
				return err
			}
			return s.ActivateBrush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "interval [minutes]",
		Short: "Show or set the automatic wipe interval",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.requireYosemitech()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				m, err := strconv.ParseUint(args[0], 10, 16)
				if err != nil {
					return fmt.Errorf("bad interval %q: %w", args[0], err)
				}
				return s.SetBrushInterval(uint16(m))
			}
			m, err := s.GetBrushInterval()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d min\n", m)
			return nil
		},
	})
	return cmd
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, s := range args {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}
