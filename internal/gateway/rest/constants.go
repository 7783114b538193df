package rest

import "time"

// Name identifies this gateway in logs and metrics.
const Name = "rest"

const (
	defaultBaseURL     = "http://localhost:3000/api"
	defaultHTTPTimeout = 10 * time.Second
	errorSnippetBytes  = 512
	maxBodyBytes       = 1 << 20
)
