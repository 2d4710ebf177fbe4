package epochs

import (
	"strconv"

	"github.com/arcana-engine/sierra-sub000/lifeutils"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// QueueStatistics samples the tracker state of one queue. Returns false for
// an unregistered queue.
func (t *Tracker) QueueStatistics(id QueueID) (lifeutils.QueueStatistics, bool) {
	q := t.queue(id)
	if q == nil {
		return lifeutils.QueueStatistics{}, false
	}

	q.mutex.Lock()
	defer q.mutex.Unlock()

	stats := lifeutils.QueueStatistics{
		CurrentEpoch:         q.current,
		LiveEpochs:           len(q.live),
		PooledEpochs:         len(q.epochPool),
		PooledCommandBuffers: len(q.cbufPool),
	}
	for _, e := range q.live {
		stats.PendingCommandBuffers += len(e.cbufs)
	}
	return stats, true
}

// Statistics aggregates QueueStatistics over every registered queue. Queues
// are sampled one at a time, so the aggregate is not a consistent snapshot
// across queues.
func (t *Tracker) Statistics() lifeutils.TrackerStatistics {
	var stats lifeutils.TrackerStatistics
	stats.Clear()

	for _, id := range t.ids {
		queueStats, ok := t.QueueStatistics(id)
		if ok {
			stats.AddQueue(&queueStats)
		}
	}
	return stats
}

// PrintDetailedMap writes a JSON object describing every queue's epochs and
// pools, for diagnostics dumps.
func (t *Tracker) PrintDetailedMap(writer *jwriter.Writer) {
	objState := writer.Object()
	defer objState.End()

	for _, id := range t.ids {
		q := t.queue(id)

		q.mutex.Lock()

		queueObj := objState.Name(strconv.Itoa(id.Family) + "." + strconv.Itoa(id.Index)).Object()
		queueObj.Name("CurrentEpoch").Int(int(q.current))
		queueObj.Name("PooledEpochs").Int(len(q.epochPool))
		queueObj.Name("PooledCommandBuffers").Int(len(q.cbufPool))

		liveArray := queueObj.Name("LiveEpochs").Array()
		for _, e := range q.live {
			epochObj := liveArray.Object()
			epochObj.Name("CommandBuffers").Int(len(e.cbufs))
			epochObj.End()
		}
		liveArray.End()

		queueObj.End()

		q.mutex.Unlock()
	}
}
