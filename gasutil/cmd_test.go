/*
Copyright © 2024 the gasblend authors.
This file is part of gasblend.

gasblend is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

gasblend is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with gasblend.  If not, see <http://www.gnu.org/licenses/>.
*/

package gasutil

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scubalib/gasblend"
)

// resetFlags returns every option to its default so that flags set by one
// command do not leak into the next.
func resetFlags(t *testing.T) {
	for _, option := range options {
		f := option.flagsets[0].Lookup(option.name)
		if err := f.Value.Set(f.DefValue); err != nil {
			t.Fatal(err)
		}
		f.Changed = false
	}
}

// run executes the root command with args and returns what it wrote.
func run(t *testing.T, args ...string) (string, error) {
	resetFlags(t)
	var buf bytes.Buffer
	Root.SetOut(&buf)
	Root.SetErr(io.Discard)
	Root.SetArgs(args)
	err := Root.Execute()
	return buf.String(), err
}

func TestCommands(t *testing.T) {
	const catalog = "testdata/cylinders.toml"
	var tests = []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "version",
			args: []string{"version"},
			want: []string{"gasblend v" + gasblend.Version},
		},
		{
			name: "capacity",
			args: []string{"capacity", "--cylinder", "LP95", "--catalog", catalog},
			want: []string{"98.03 cuft", "Air at 2640 psi (vdw)"},
		},
		{
			name: "pressure",
			args: []string{"pressure", "--units", "metric", "--internal-volume", "12",
				"--service-pressure", "232", "--state", "ideal", "--amount", "2400"},
			want: []string{"2400.00 L of Air: 202.6 bar"},
		},
		{
			name: "topup",
			args: []string{"topup", "--units", "metric", "--cylinder", "12L", "--catalog", catalog,
				"--pressure", "50", "--topup-mix", "32", "--final-pressure", "200"},
			want: []string{"Air at 50 bar", "of 32%", "29% at 200 bar"},
		},
		{
			name: "mod",
			args: []string{"mix", "mod", "--mix", "32"},
			want: []string{"111 ft"},
		},
		{
			name: "mod at depth",
			args: []string{"mix", "mod", "-m", "32", "-d", "100"},
			want: []string{"111 ft", "END at 100 ft:", "82 ft"},
		},
		{
			name: "best",
			args: []string{"mix", "best", "-u", "metric", "--depth", "80", "--max-end", "40"},
			want: []string{"best mix for 80 m (END 40 m, pO2 1.4): 15/42"},
		},
		{
			name: "best without helium",
			args: []string{"mix", "best", "--depth", "106"},
			want: []string{"33%"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out, err := run(t, test.args...)
			if err != nil {
				t.Fatal(err)
			}
			for _, w := range test.want {
				if !strings.Contains(out, w) {
					t.Errorf("output does not contain %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestCommandErrors(t *testing.T) {
	t.Run("invalid mix", func(t *testing.T) {
		_, err := run(t, "capacity", "--internal-volume", "12", "--service-pressure", "232",
			"--mix", "60/60")
		if !errors.Is(err, gasblend.ErrInvalidMix) {
			t.Errorf("have %v, want ErrInvalidMix", err)
		}
	})
	t.Run("topup below current", func(t *testing.T) {
		_, err := run(t, "topup", "--internal-volume", "0.5", "--service-pressure", "3000",
			"--pressure", "2000", "--topup-mix", "oxygen", "--final-pressure", "1000")
		if !errors.Is(err, gasblend.ErrTopupBelowCurrent) {
			t.Errorf("have %v, want ErrTopupBelowCurrent", err)
		}
	})
	t.Run("missing config file", func(t *testing.T) {
		if _, err := run(t, "--config", "testdata/missing.toml", "version"); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Cleanup(func() {
		// Replace the values read from the file.
		Cfg.SetConfigFile("testdata/empty.toml")
		if err := Cfg.ReadInConfig(); err != nil {
			t.Fatal(err)
		}
	})
	out, err := run(t, "--config", "testdata/config.toml", "capacity")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "32% at 50 bar") {
		t.Errorf("output does not reflect the configuration file:\n%s", out)
	}

	// Command-line flags take precedence over the file.
	out, err = run(t, "--config", "testdata/config.toml", "capacity", "--pressure", "100")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "32% at 100 bar") {
		t.Errorf("flag did not override the configuration file:\n%s", out)
	}
}

func TestEnvironment(t *testing.T) {
	t.Setenv("GASBLEND_SERVICE_PRESSURE", "3000")
	out, err := run(t, "capacity", "--state", "ideal", "--internal-volume", "0.49")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Air at 3000 psi") || !strings.Contains(out, "ideal gas 100.00 cuft") {
		t.Errorf("environment variable was not used:\n%s", out)
	}
}

func TestPlotCommand(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "fill.png")
	if _, err := run(t, "plot", "--units", "metric", "--cylinder", "D12",
		"--catalog", "testdata/cylinders.toml", "-o", filename); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Error("plot file is not a PNG image")
	}
}
