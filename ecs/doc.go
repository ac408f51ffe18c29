// Package ecs provides ECS adapters for udraw's capture events.
//
// The primary adapter is [NewDonburiSink], which publishes every finished
// capture into a [Donburi] world as a typed event and keeps running totals
// on a stats entity. Subscribe to [CaptureEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
