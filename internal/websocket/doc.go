// Package websocket pushes live updates to connected dashboard clients.
//
// The Hub fans broadcast messages out to every registered Client over a
// gorilla/websocket connection. Operation status flows through here as
// complete snapshots, so a client that connects mid-run still renders
// the full pipeline state from the next message. Clients send nothing
// except heartbeats; all other traffic is server to client.
package websocket
