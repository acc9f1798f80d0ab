package history

import (
	"testing"

	"github.com/nerrad567/gray-logic-core/internal/value"
)

type fakeMetricWriter struct {
	measurement string
	tags        map[string]string
	fields      map[string]interface{}
	calls       int
}

func (f *fakeMetricWriter) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	f.measurement = measurement
	f.tags = tags
	f.fields = fields
	f.calls++
}

func TestTimeSeriesSink_RecordChange_Numeric(t *testing.T) {
	w := &fakeMetricWriter{}
	s := NewTimeSeriesSink(w)

	s.RecordChange("dev-1", "light1", value.Float32(21.5))

	if w.calls != 1 {
		t.Fatalf("calls = %d, want 1", w.calls)
	}
	if w.tags["device_id"] != "dev-1" || w.tags["uid"] != "light1" {
		t.Errorf("tags = %+v", w.tags)
	}
	if got := w.fields["value"].(float64); got != float64(float32(21.5)) {
		t.Errorf("value field = %v", got)
	}
}

func TestTimeSeriesSink_RecordChange_NonNumeric(t *testing.T) {
	w := &fakeMetricWriter{}
	s := NewTimeSeriesSink(w)

	s.RecordChange("dev-1", "test1", value.Test())

	if _, ok := w.fields["raw"]; !ok {
		t.Errorf("expected a raw field for a non-numeric value, got %+v", w.fields)
	}
}

type countingRecorder struct{ n int }

func (c *countingRecorder) RecordChange(string, string, value.Value) { c.n++ }

func TestFanout_BroadcastsToEverySink(t *testing.T) {
	a, b := &countingRecorder{}, &countingRecorder{}
	f := NewFanout(a, nil, b)

	f.RecordChange("d", "u", value.Int32(1))

	if a.n != 1 || b.n != 1 {
		t.Errorf("a.n=%d b.n=%d, want 1,1", a.n, b.n)
	}
}
