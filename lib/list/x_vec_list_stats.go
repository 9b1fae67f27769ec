package list

import (
	"context"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	VecListStatsName = "xvlist/veclist"
)

// vecListStats publishes arena behaviour through otel metrics. A nil
// receiver is a no-op so lists without stats pay nothing but a nil
// check.
type vecListStats struct {
	elementCount  metric.Int64UpDownCounter
	slotAllocated metric.Int64Counter
	slotReused    metric.Int64Counter
	arenaGrown    metric.Int64Counter
	compactions   metric.Int64Counter
}

func (stats *vecListStats) RecordElementCount(delta int64) {
	if stats == nil {
		return
	}
	stats.elementCount.Add(context.Background(), delta)
}

func (stats *vecListStats) IncreaseSlotAllocated() {
	if stats == nil {
		return
	}
	stats.slotAllocated.Add(context.Background(), 1)
}

func (stats *vecListStats) IncreaseSlotReused() {
	if stats == nil {
		return
	}
	stats.slotReused.Add(context.Background(), 1)
}

func (stats *vecListStats) IncreaseArenaGrown() {
	if stats == nil {
		return
	}
	stats.arenaGrown.Add(context.Background(), 1)
}

func (stats *vecListStats) IncreaseCompaction() {
	if stats == nil {
		return
	}
	stats.compactions.Add(context.Background(), 1)
}

func WithVecListStats[T comparable]() VecListOpt[T] {
	return func(l *xVecList[T]) {
		l.stats = newVecListStats()
	}
}

func newVecListStats() *vecListStats {
	return &vecListStats{
		elementCount: lo.Must[metric.Int64UpDownCounter](otel.Meter(VecListStatsName).
			Int64UpDownCounter(
				"veclist.element.count",
				metric.WithDescription("The number of live elements in the list."),
			),
		),
		slotAllocated: lo.Must[metric.Int64Counter](otel.Meter(VecListStatsName).
			Int64Counter(
				"veclist.slot.allocated.count",
				metric.WithDescription("The number of fresh arena slots handed out."),
			),
		),
		slotReused: lo.Must[metric.Int64Counter](otel.Meter(VecListStatsName).
			Int64Counter(
				"veclist.slot.reused.count",
				metric.WithDescription("The number of slots recycled through the free list."),
			),
		),
		arenaGrown: lo.Must[metric.Int64Counter](otel.Meter(VecListStatsName).
			Int64Counter(
				"veclist.arena.grown.count",
				metric.WithDescription("The number of arena reallocations caused by growth."),
			),
		),
		compactions: lo.Must[metric.Int64Counter](otel.Meter(VecListStatsName).
			Int64Counter(
				"veclist.compaction.count",
				metric.WithDescription("The number of shrink-to-fit compactions."),
			),
		),
	}
}
