// Package metrics defines the sinks that observe schedule generation runs.
// Every sink records a GenerationEvent per run; sinks may also implement
// optional recorders such as DeaconLoadRecorder. Sinks are created from
// configuration through a factory registry and fanned out with MultiSink
// when more than one is configured.
package metrics
