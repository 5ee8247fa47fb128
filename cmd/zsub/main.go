// Command zsub subscribes to a selector and processes each change inside a
// consumer span parented on the publisher's trace, recording start and
// finish events around the processing.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/a1045520/zenoh"
	"github.com/a1045520/zenoh/internal/cliutil"
	"github.com/a1045520/zenoh/telemetry"
)

func main() {
	app := cli.NewApp()
	app.Name = "zsub"
	app.Usage = "subscribes to a selector, tracing the processing of every change"
	app.Flags = append(cliutil.SessionFlags(),
		cli.StringFlag{
			Name:  "selector, s",
			Value: "/demo/example/**",
			Usage: "the selection of resources to subscribe to",
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

	shutdown, err := telemetry.Init(ctx, "zsub")
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

	fmt.Println("New zenoh...")
	session, err := zenoh.Open(ctx, props, zenoh.WithLogger(log))
	if err != nil {
		return err
	}
	defer session.Close()

	fmt.Println("New workspace...")
	workspace := session.Workspace(zenoh.WithChangeSpanName(func(zenoh.Change) string {
		return "Get and process data"
	}))

	fmt.Printf("Subscribe to '%s'...\n", selector)
	stream, err := workspace.Subscribe(ctx, selector)
	if err != nil {
		return err
	}
	defer stream.Close()

	fmt.Println("Press q to quit.")
	quit := cliutil.WatchQuit()

	for {
		select {
		case change, ok := <-stream.C():
			if !ok {
				return session.Close()
			}

			_, span := workspace.StartSpanFromChange(ctx, change)
			span.AddEvent("Start process data")
			// stand-in for the data processing
			time.Sleep(50 * time.Millisecond)
			span.AddEvent("Finish process")
			span.End()

			fmt.Printf(">> [Subscription listener] received %s for %s : '%s' with timestamp %s\n",
				change.Kind, change.Path, change.Value, change.Timestamp)

		case <-quit:
			if err := stream.Close(); err != nil {
				return err
			}
			return session.Close()
		}
	}
}
