package config

import "time"

// BackendConfig controls how we talk to the match backend.
type BackendConfig struct {
	BaseURL       string
	Timeout       time.Duration
	ReadRPS       float64
	WriteRPS      float64
	RetryAttempts int
	RetryBackoff  time.Duration
}

func loadBackend(file fileBackend) BackendConfig {
	return BackendConfig{
		BaseURL:       envOrDefault(envBackendBaseURL, orString(file.BaseURL, defaultBackendBaseURL)),
		Timeout:       durationEnvOrDefault(envBackendTimeout, orDuration(file.Timeout, defaultBackendTimeout)),
		ReadRPS:       floatEnvOrDefault(envBackendReadRPS, orFloat(file.ReadRPS, defaultBackendReadRPS)),
		WriteRPS:      floatEnvOrDefault(envBackendWriteRPS, orFloat(file.WriteRPS, defaultBackendWriteRPS)),
		RetryAttempts: intEnvOrDefault(envBackendRetries, orInt(file.RetryAttempts, defaultBackendRetries)),
		RetryBackoff:  durationEnvOrDefault(envBackendBackoff, orDuration(file.RetryBackoff, defaultBackendBackoff)),
	}
}
