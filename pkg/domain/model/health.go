package model

// HealthStatus is served by the control API health endpoint
type HealthStatus struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version"`
	Downloading bool   `json:"downloading"`
}
