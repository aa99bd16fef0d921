// Package factory is a generic registry that builds modules from
// configuration. A module is described by a type string and a map of raw
// settings; the registered constructor decodes the settings with Decode.
//
// The metrics sinks are built this way:
//
//	metrics:
//	  sinks:
//	    - type: influx
//	      conf: {url: "http://localhost:8086", bucket: forecasts}
//
//	reg := factory.NewRegistry[metrics.MetricsSink]()
//	reg.Register("influx", func(conf map[string]any) (metrics.MetricsSink, error) {
//	    var c InfluxConfig
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return NewInfluxSink(c)
//	})
package factory
