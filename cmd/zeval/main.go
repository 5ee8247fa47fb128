// Command zeval registers a computation behind a path. Every matching get
// produces a request whose span context parents the eval's work; the reply
// is a string built from the selector's name property.
//
// The name is chosen three ways, depending on the selector:
//
//	/demo/example/eval                          a default name is used
//	/demo/example/eval?(name=Bob)               Bob is used
//	/demo/example/eval?(name=/demo/example/x)   a nested get on the path, the
//	                                            first string result is used
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/a1045520/zenoh"
	"github.com/a1045520/zenoh/internal/cliutil"
	"github.com/a1045520/zenoh/telemetry"
)

func main() {
	app := cli.NewApp()
	app.Name = "zeval"
	app.Usage = "registers an eval that answers gets with a computed string"
	app.Flags = append(cliutil.SessionFlags(),
		cli.StringFlag{
			Name:  "path, p",
			Value: "/demo/example/eval",
			Usage: "the path the eval will respond for",
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

	shutdown, err := telemetry.Init(ctx, "zeval")
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	props, err := cliutil.SessionProperties(c)
	if err != nil {
		return err
	}

	// the eval is registered for a single path and replies with that same
	// path; registering a path expression would need reply paths chosen per
	// received selector
	path, err := zenoh.NewPath(c.String("path"))
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
	workspace := session.Workspace(zenoh.WithGetRequestSpanName(func(*zenoh.GetRequest) string {
		return "Request time"
	}))

	fmt.Printf("Register eval for '%s'...\n", path)
	stream, err := workspace.RegisterEval(ctx, path)
	if err != nil {
		return err
	}
	defer stream.Close()

	fmt.Println("Press q to quit.")
	quit := cliutil.WatchQuit()

	for {
		select {
		case req, ok := <-stream.C():
			if !ok {
				return session.Close()
			}
			answer(ctx, workspace, req, path)

		case <-quit:
			if err := stream.Close(); err != nil {
				return err
			}
			return session.Close()
		}
	}
}

func answer(ctx context.Context, workspace *zenoh.Workspace, req *zenoh.GetRequest, path zenoh.Path) {
	ctx, span := workspace.StartSpanFromGetRequest(ctx, req)
	defer span.End()

	// stand-in for the evaluation work
	time.Sleep(time.Second)

	fmt.Printf(">> [Eval listener] received get with selector: %s\n", req.Selector)

	name := req.Selector.Properties()["name"]
	if name == "" {
		name = "Go!"
	}
	if strings.HasPrefix(name, "/") {
		name = nameFromPath(ctx, workspace, name)
	}

	s := fmt.Sprintf("Eval from %s", name)
	fmt.Printf("   >> Returning string: %q\n", s)

	if err := req.Reply(ctx, path, zenoh.StringValue(s)); err != nil {
		fmt.Printf("Failed to reply to '%s' : %v\n", req.Selector, err)
	}
}

// nameFromPath resolves a path-like name property with a nested get, using
// the first string result. The original name is kept on any failure.
func nameFromPath(ctx context.Context, workspace *zenoh.Workspace, name string) string {
	fmt.Printf("   >> Get name to use from path: %s\n", name)

	selector, err := zenoh.NewSelector(name)
	if err != nil {
		fmt.Printf("Failed to get value from '%s' : this is not a valid selector\n", name)
		return name
	}

	data, err := workspace.Get(ctx, selector)
	switch {
	case err != nil:
		fmt.Printf("Failed to get name from '%s' : %v\n", name, err)
	case len(data) == 0:
		fmt.Printf("Failed to get name from '%s' : not found\n", name)
	default:
		if s, ok := data[0].Value.(zenoh.StringValue); ok {
			return string(s)
		}
		fmt.Printf("Failed to get name from '%s' : not a UTF-8 string\n", name)
	}

	return name
}
