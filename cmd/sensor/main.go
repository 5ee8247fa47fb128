// Command sensor publishes one reading to the zenoh network. The span
// started around the put travels on the change attributes, so downstream
// subscribers (see cmd/motion) continue the same trace.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli"
	"go.opentelemetry.io/otel"

	"github.com/a1045520/zenoh"
	"github.com/a1045520/zenoh/internal/cliutil"
	"github.com/a1045520/zenoh/telemetry"
)

func main() {
	app := cli.NewApp()
	app.Name = "sensor"
	app.Usage = "publishes a sensor reading with its trace context attached"
	app.Flags = append(cliutil.SessionFlags(),
		cli.StringFlag{
			Name:  "path, p",
			Value: "/demo/example/sensor",
			Usage: "the path to put the value at",
		},
		cli.StringFlag{
			Name:  "value, v",
			Value: "25.7",
			Usage: "the value to put",
		},
	)
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	ctx := context.Background()

	log, err := cliutil.Logger()
	if err != nil {
		return err
	}
	defer log.Sync()

	shutdown, err := telemetry.Init(ctx, "sensor")
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	props, err := cliutil.SessionProperties(c)
	if err != nil {
		return err
	}

	path, err := zenoh.NewPath(c.String("path"))
	if err != nil {
		return err
	}
	value := zenoh.StringValue(c.String("value"))

	ctx, span := otel.Tracer("sensor").Start(ctx, "Put data")
	defer span.End()

	fmt.Println("New zenoh...")
	session, err := zenoh.Open(ctx, props, zenoh.WithLogger(log))
	if err != nil {
		return err
	}
	defer session.Close()

	fmt.Println("New workspace...")
	workspace := session.Workspace()

	fmt.Printf("Put Data ('%s': '%s')...\n", path, value)
	if err := workspace.Put(ctx, path, value); err != nil {
		return err
	}

	return session.Close()
}
