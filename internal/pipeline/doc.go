// Package pipeline coordinates the lifecycle of completion requests: it
// resolves per-document settings, debounces bursts of triggers, cancels
// superseded in-flight backend calls and maps every failure to an empty,
// client-safe result. One Coordinator instance owns all per-document state
// for the life of the process.
package pipeline
