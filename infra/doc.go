// Package infra contains technical adapters such as the OSRM routing
// client, the station store, the MQTT publisher and metric sinks.
// These packages should depend only on the interfaces defined in the
// core packages.
package infra
