// Package app composes the mission engine for hosts.
//
// It loads the environment configuration and the definitions directory,
// builds the engine and the activity adapter, and exposes a Service facade
// whose operations are traced with OpenTelemetry.
package app
