package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg)

	r.RecordCatalog("csv", 10, 3, 1)
	r.RecordReload("ok")
	r.RecordReload("ok")
	r.RecordResolve("lstm", true)
	r.RecordLatency("reload", 0.2)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			case m.GetCounter() != nil:
				values[mf.GetName()] += m.GetCounter().GetValue()
			}
		}
	}

	if got := values["senticast_catalog_runs"]; got != 3 {
		t.Fatalf("runs gauge: got %v", got)
	}
	if got := values["senticast_catalog_reloads_total"]; got != 2 {
		t.Fatalf("reloads: got %v", got)
	}
	if got := values["senticast_resolve_total"]; got != 1 {
		t.Fatalf("resolves: got %v", got)
	}
}
