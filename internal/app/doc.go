// Package app wires the dashboard server together: configuration,
// logging, OpenTelemetry, the WebSocket hub, the pipeline manager, the
// service layer and the chi router, plus lifecycle management with
// graceful shutdown on SIGINT/SIGTERM.
//
// Initialization order matters: config, then logger, then telemetry,
// then the hub and broadcaster, then steps and services, then the
// router. Each stage only sees dependencies built before it, so there
// are no init cycles and every component can be replaced in tests.
package app
