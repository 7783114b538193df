package config

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled      bool
	Port         string
	OtlpEndpoint string
	ServiceName  string
	OtlpInsecure bool
}

func loadMetrics(file fileMetrics) MetricsConfig {
	return MetricsConfig{
		Enabled:      boolEnvOrDefault(envMetricsOn, orBool(file.Enabled, true)),
		Port:         envOrDefault(envMetricsPort, orString(file.Port, defaultMetricsPort)),
		OtlpEndpoint: envOrDefault(envOtelEndpoint, ""),
		ServiceName:  envOrDefault(envOtelService, orString(file.ServiceName, defaultMetricsService)),
		OtlpInsecure: boolEnvOrDefault(envOtelInsecure, true),
	}
}
