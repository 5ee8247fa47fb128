/*Package zenoh provides a zenoh-style pub/sub and query client over a Redis
rendezvous with OpenTelemetry trace propagation built in. You should have some
basic familiarity with OpenTelemetry concepts, please see
https://opentelemetry.io for more information.

A Session is opened from a flat Properties configuration, the same keys the
example binaries accept on the command line (mode, peer, listener). A
Workspace issued from the session performs the data operations: Put, Delete,
Get, Subscribe and RegisterEval.

Span context from the caller's context is carried on every published value and
every eval query as message attributes, so subscribers and evals can continue
the trace without the payload being touched:

	ctx, span := tracer.Start(ctx, "Put data")
	defer span.End()

	err := workspace.Put(ctx, path, zenoh.StringValue("hot"))

The documentation here assumes you have already set up your exporter for
tracing, for example with the telemetry package:

	shutdown, err := telemetry.Init(ctx, "sensor")

*/
package zenoh // import "github.com/a1045520/zenoh"
