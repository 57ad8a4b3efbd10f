package qaoa

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewConfig(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		cfg := NewConfig()

		Convey("It should be valid", func() {
			So(cfg.Validate(), ShouldBeNil)
			So(cfg.Mode, ShouldEqual, "qtg")
			So(cfg.Depth, ShouldEqual, 1)
			So(cfg.Samples, ShouldEqual, 0)
		})

		Convey("When a setting is out of range", func() {
			cases := map[string]func(*Config){
				"mode":            func(c *Config) { c.Mode = "annealing" },
				"depth":           func(c *Config) { c.Depth = 0 },
				"bias":            func(c *Config) { c.Bias = -0.5 },
				"copula_theta":    func(c *Config) { c.CopulaTheta = 2 },
				"samples":         func(c *Config) { c.Samples = -1 },
				"grid_resolution": func(c *Config) { c.GridResolution = 0 },
			}

			Convey("It should name the offending argument", func() {
				for argument, mutate := range cases {
					broken := NewConfig()
					mutate(broken)

					var target *InvalidArgumentError
					So(errors.As(broken.Validate(), &target), ShouldBeTrue)
					So(target.Argument, ShouldEqual, argument)
				}
			})
		})
	})
}

func TestLoadConfig(t *testing.T) {
	Convey("Given no config file", t, func() {
		Convey("When loading", func() {
			cfg, err := LoadConfig("")

			Convey("It should return the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg, ShouldResemble, NewConfig())
			})
		})
	})

	Convey("Given a YAML config file", t, func() {
		path := filepath.Join(t.TempDir(), "qaoa.yaml")
		content := "mode: copula\ndepth: 2\ncopula_k: 3.5\nsamples: 1000\nmax_exact_nodes: 4096\n"
		So(os.WriteFile(path, []byte(content), 0o644), ShouldBeNil)

		Convey("When loading", func() {
			cfg, err := LoadConfig(path)

			Convey("It should layer the file over the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Mode, ShouldEqual, "copula")
				So(cfg.Depth, ShouldEqual, 2)
				So(cfg.CopulaK, ShouldEqual, 3.5)
				So(cfg.Samples, ShouldEqual, 1000)
				So(cfg.MaxExactNodes, ShouldEqual, uint64(4096))
				So(cfg.GridResolution, ShouldEqual, NewConfig().GridResolution)
			})
		})
	})

	Convey("Given a config file with an invalid value", t, func() {
		path := filepath.Join(t.TempDir(), "qaoa.yaml")
		So(os.WriteFile(path, []byte("depth: 0\n"), 0o644), ShouldBeNil)

		_, err := LoadConfig(path)

		Convey("It should fail validation", func() {
			So(errors.Is(err, ErrInvalidArgument), ShouldBeTrue)
		})
	})

	Convey("Given a missing config file", t, func() {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

		Convey("It should report the read error", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "reading config")
		})
	})
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("QAOA_DEPTH", "3")
	t.Setenv("QAOA_MODE", "copula")

	Convey("Given QAOA_ environment variables", t, func() {
		cfg, err := LoadConfig("")

		Convey("It should prefer them over the defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Depth, ShouldEqual, 3)
			So(cfg.Mode, ShouldEqual, "copula")
			So(cfg.Bias, ShouldEqual, NewConfig().Bias)
		})
	})
}
