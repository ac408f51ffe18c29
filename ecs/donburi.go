package ecs

import (
	"time"

	"github.com/phanxgames/udraw"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// CaptureEventType is the Donburi event type for udraw capture events.
var CaptureEventType = events.NewEventType[udraw.CaptureEvent]()

// CaptureStats accumulates capture results for one sink.
type CaptureStats struct {
	Captures  uint64
	Failures  uint64
	LastFrame uint64
	LastTook  time.Duration
	TotalTook time.Duration
}

// CaptureStatsComponent holds the CaptureStats of a sink's stats entity.
var CaptureStatsComponent = donburi.NewComponentType[CaptureStats]()

// DonburiSink is a udraw.EventSink backed by a Donburi world.
type DonburiSink struct {
	world donburi.World
	stats donburi.Entity
}

// NewDonburiSink creates a sink that publishes to CaptureEventType and
// creates the stats entity in world. Events are queued; consume them with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) *DonburiSink {
	return &DonburiSink{
		world: world,
		stats: world.Create(CaptureStatsComponent),
	}
}

// EmitCapture implements udraw.EventSink.
func (s *DonburiSink) EmitCapture(event udraw.CaptureEvent) {
	if entry := s.world.Entry(s.stats); entry.Valid() {
		st := CaptureStatsComponent.Get(entry)
		st.Captures++
		if event.Err != nil {
			st.Failures++
		}
		st.LastFrame = event.Frame
		st.LastTook = event.Duration
		st.TotalTook += event.Duration
	}
	CaptureEventType.Publish(s.world, event)
}

// StatsEntity returns the entity holding the sink's CaptureStats.
func (s *DonburiSink) StatsEntity() donburi.Entity { return s.stats }

// Stats returns a copy of the accumulated stats.
func (s *DonburiSink) Stats() CaptureStats {
	entry := s.world.Entry(s.stats)
	if !entry.Valid() {
		return CaptureStats{}
	}
	return *CaptureStatsComponent.Get(entry)
}
