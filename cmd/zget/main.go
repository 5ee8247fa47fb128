// Command zget queries a selector and prints every result. The root span
// wraps the whole get, records an event per returned datum, and rides to any
// registered eval on the query attributes.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/a1045520/zenoh"
	"github.com/a1045520/zenoh/internal/cliutil"
	"github.com/a1045520/zenoh/telemetry"
)

func main() {
	app := cli.NewApp()
	app.Name = "zget"
	app.Usage = "gets the resources matching a selector"
	app.Flags = append(cliutil.SessionFlags(),
		cli.StringFlag{
			Name:  "selector, s",
			Value: "/demo/example/**",
			Usage: "the selection of resources to get",
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

	shutdown, err := telemetry.Init(ctx, "zget")
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	props, err := cliutil.SessionProperties(c)
	if err != nil {
		return err
	}

	selector, err := zenoh.NewSelector(c.String("selector"))
	if err != nil {
		return err
	}

	ctx, span := otel.Tracer("zget").Start(ctx, "Root")
	defer span.End()

	fmt.Println("New zenoh...")
	session, err := zenoh.Open(ctx, props, zenoh.WithLogger(log))
	if err != nil {
		return err
	}
	defer session.Close()

	fmt.Println("New workspace...")
	workspace := session.Workspace()

	fmt.Printf("Get Data from '%s'...\n", selector)
	data, err := workspace.Get(ctx, selector)
	if err != nil {
		return err
	}

	for _, d := range data {
		fmt.Printf("  %s : '%s' (encoding: %s, timestamp: %s)\n",
			d.Path, d.Value, d.Value.Encoding(), d.Timestamp)
		span.AddEvent("Get the return data", trace.WithAttributes(
			attribute.String("data", d.Value.String()),
		))
	}

	return session.Close()
}
