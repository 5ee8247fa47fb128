package zenoh

// Version is the client library version reported on exported spans.
const Version = "0.5.0"
