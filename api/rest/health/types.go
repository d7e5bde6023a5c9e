package health

type Response struct {
	Success   bool   `json:"success"`
	Status    string `json:"status"`
	Service   string `json:"service"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Storage   string `json:"storage"`
	Version   string `json:"version,omitempty"`
}

type PingResponse struct {
	Message string `json:"message"`
}
