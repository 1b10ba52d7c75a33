// Package operations orchestrates the data pipeline behind the dashboard.
//
// A pipeline run for one season is an operation made of steps: scrape pulls
// the feed documents into the raw tree, process aggregates them into a
// season dataset, export writes the dataset files, and publish pushes the
// headline tables to Google Sheets. Steps declare dependencies and run
// sequentially with per-step timeouts and retries. All status changes flow
// through the StatusBroadcaster, which pushes complete operation snapshots
// over WebSocket.
package operations
