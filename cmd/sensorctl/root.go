package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tetragramaton/smh-sensors/internal/client/modbus"
	"github.com/tetragramaton/smh-sensors/internal/config"
	modbusIface "github.com/tetragramaton/smh-sensors/internal/interface/modbus"
	"github.com/tetragramaton/smh-sensors/internal/sensor/keller"
	"github.com/tetragramaton/smh-sensors/internal/sensor/yosemitech"
)

type app struct {
	client modbusIface.Client
	out    io.Writer
	logger zerolog.Logger

	family  string
	model   string
	slaveID uint8
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "sensorctl",
		Short:         "Inspect and maintain Keller and Yosemitech sensors on a Modbus bus",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.family = strings.ToLower(a.family)
			if a.family != config.FamilyKeller && a.family != config.FamilyYosemitech {
				return fmt.Errorf("--family must be %q or %q", config.FamilyKeller, config.FamilyYosemitech)
			}
			if a.client != nil {
				return nil
			}
			c, err := modbus.NewHandler(a.logger)
			if err != nil {
				return err
			}
			a.client = c
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.client == nil {
				return nil
			}
			return a.client.Close()
		},
	}
	root.SetOut(a.out)

	f := root.PersistentFlags()
	f.StringVarP(&a.family, "family", "f", config.FamilyYosemitech, "sensor family: keller or yosemitech")
	f.StringVarP(&a.model, "model", "m", "", "sensor model, e.g. Y504 or acculevel (empty: infer)")
	f.Uint8VarP(&a.slaveID, "slave", "s", 1, "Modbus slave id")

	root.AddCommand(
		newInfoCmd(a),
		newReadCmd(a),
		newSetSlaveIDCmd(a),
		newStartCmd(a),
		newStopCmd(a),
		newCalibrationCmd(a),
		newPHPointCmd(a),
		newPHStatusCmd(a),
		newCapCoefficientsCmd(a),
		newBrushCmd(a),
	)
	return root
}

func (a *app) keller() (*keller.Sensor, error) {
	s := keller.New(a.client, keller.WithLogger(a.logger))
	if err := s.Begin(keller.ParseModel(a.model), a.slaveID); err != nil {
		return nil, err
	}
	return s, nil
}

// yosemitech returns a connected handle. Without --model the model is
// inferred from the serial number.
func (a *app) yosemitech() (*yosemitech.Sensor, error) {
	s := yosemitech.New(a.client, yosemitech.ParseModel(a.model), a.slaveID, yosemitech.WithLogger(a.logger))
	if err := s.Begin(); err != nil {
		return nil, err
	}
	if s.Model() == yosemitech.Unknown {
		if _, err := s.GetSerialNumber(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (a *app) requireYosemitech() (*yosemitech.Sensor, error) {
	if a.family != config.FamilyYosemitech {
		return nil, fmt.Errorf("not supported for family %q", a.family)
	}
	return a.yosemitech()
}

func (a *app) table(header ...interface{}) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(a.out)
	t.SetStyle(table.StyleLight)
	if len(header) > 0 {
		t.AppendHeader(table.Row(header))
	}
	return t
}

func fmtValue(v float64) string {
	if v == yosemitech.Sentinel {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}
