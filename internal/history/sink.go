// Package history adapts the ambient time-series and local-storage
// clients into the dispatch loop's HistorySink contract (spec.md §4.13
// expansion): one record per observed value change, written through
// whichever sinks the process configuration enables.
package history

import (
	"github.com/nerrad567/gray-logic-core/internal/value"
)

// measurement is the InfluxDB/TSDB measurement name every device
// history record is written under; individual devices are distinguished
// by the device_id/uid tag pair, not by measurement.
const measurement = "device_value"

// metricWriter is the shape InfluxDB's and the line-protocol TSDB's
// clients both already expose (internal/infrastructure/influxdb,
// internal/infrastructure/tsdb) — satisfied structurally, no adapter
// type needed.
type metricWriter interface {
	WritePoint(measurement string, tags map[string]string, fields map[string]interface{})
}

// TimeSeriesSink wraps an InfluxDB or TSDB client so it satisfies the
// dispatch loop's HistorySink interface.
type TimeSeriesSink struct {
	w metricWriter
}

// NewTimeSeriesSink wraps w (an *influxdb.Client or *tsdb.Client).
func NewTimeSeriesSink(w metricWriter) *TimeSeriesSink {
	return &TimeSeriesSink{w: w}
}

// RecordChange writes one point tagged by device_id and uid. Numeric
// values are written as the "value" field; non-numeric kinds (Test,
// NaN) are written as their string form under "raw" instead, since a
// time-series field column is fixed-type.
func (s *TimeSeriesSink) RecordChange(deviceID, uid string, v value.Value) {
	tags := map[string]string{"device_id": deviceID, "uid": uid}
	if v.IsNaN() || v.IsTest() {
		s.w.WritePoint(measurement, tags, map[string]interface{}{"raw": v.String()})
		return
	}
	s.w.WritePoint(measurement, tags, map[string]interface{}{"value": float64(v.AsFloat32())})
}

// Fanout broadcasts one RecordChange call to every configured sink.
// Built by main.go wiring from whichever of InfluxDB/TSDB/SQLite is
// enabled; a nil entry is skipped, so callers can build it
// unconditionally from optional config.
type Fanout []recorder

type recorder interface {
	RecordChange(deviceID, uid string, v value.Value)
}

// NewFanout builds a Fanout from a set of sinks, dropping nil ones.
func NewFanout(sinks ...recorder) Fanout {
	out := make(Fanout, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// RecordChange forwards to every non-nil sink in the fanout.
func (f Fanout) RecordChange(deviceID, uid string, v value.Value) {
	for _, s := range f {
		if s == nil {
			continue
		}
		s.RecordChange(deviceID, uid, v)
	}
}
