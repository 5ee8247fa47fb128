// Command motion consumes sensor readings and simulates driving actuators
// from them. Each received change continues the publisher's trace via the
// span context carried on the change attributes.
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
	app.Name = "motion"
	app.Usage = "subscribes to sensor readings and computes motion from them"
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

	shutdown, err := telemetry.Init(ctx, "motion")
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
		return "Get computing output and start motion"
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
			// stand-in for the motion computation
			time.Sleep(100 * time.Millisecond)
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
