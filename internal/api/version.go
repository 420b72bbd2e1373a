package api

// Version is the demo-backend release reported by /status.
const Version = "0.2.0"

// StatusResponse is the response from the /status and /health endpoints.
type StatusResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}
