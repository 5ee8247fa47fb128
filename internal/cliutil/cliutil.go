// Package cliutil carries the flag handling shared by the example binaries:
// every example accepts the same session flags the zenoh tools do and merges
// them over an optional configuration file.
package cliutil

import (
	"bufio"
	"os"
	"strings"

	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/a1045520/zenoh"
)

// SessionFlags returns the session flags every example binary accepts.
func SessionFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "mode, m",
			Usage: "the zenoh session mode (peer by default)",
		},
		cli.StringSliceFlag{
			Name:  "peer, e",
			Usage: "peer locators used to initiate the zenoh session",
		},
		cli.StringSliceFlag{
			Name:  "listener, l",
			Usage: "locators to listen on",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "a configuration file",
		},
		cli.BoolFlag{
			Name:  "no-multicast-scouting",
			Usage: "disable the multicast-based scouting mechanism",
		},
	}
}

// SessionProperties assembles session properties from the configuration file
// and the session flags, flags winning over file values.
func SessionProperties(c *cli.Context) (zenoh.Properties, error) {
	props := zenoh.Properties{}

	if file := c.String("config"); file != "" {
		loaded, err := zenoh.PropertiesFromFile(file)
		if err != nil {
			return nil, err
		}
		props = loaded
	}

	flags := zenoh.Properties{}
	if v := c.String("mode"); v != "" {
		flags[zenoh.KeyMode] = v
	}
	if v := c.StringSlice("peer"); len(v) > 0 {
		flags[zenoh.KeyPeer] = strings.Join(v, ",")
	}
	if v := c.StringSlice("listener"); len(v) > 0 {
		flags[zenoh.KeyListener] = strings.Join(v, ",")
	}
	if c.Bool("no-multicast-scouting") {
		flags[zenoh.KeyMulticastScouting] = "false"
	}

	return props.Merge(flags), nil
}

// Logger builds the example logger. ZENOH_LOG selects the level (debug,
// info, warn...), info by default.
func Logger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	if lvl := os.Getenv("ZENOH_LOG"); lvl != "" {
		var l zapcore.Level
		if err := l.Set(lvl); err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(l)
	}

	return cfg.Build()
}

// WatchQuit returns a channel that closes when q is typed on stdin, or when
// stdin ends.
func WatchQuit() <-chan struct{} {
	quit := make(chan struct{})

	go func() {
		defer close(quit)

		r := bufio.NewReader(os.Stdin)
		for {
			b, err := r.ReadByte()
			if err != nil || b == 'q' {
				return
			}
		}
	}()

	return quit
}
