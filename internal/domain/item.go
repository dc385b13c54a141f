package domain

import "time"

// ParsedItem is a raw shopping-list line split into quantity and name.
type ParsedItem struct {
	Raw       string
	Quantity  *int // nil when the line has no leading count
	CleanName string
}

// CategorizedItem is the pipeline output for a single input line.
type CategorizedItem struct {
	Product string `json:"product"`
	Aisle   string `json:"aisle"`
	Notes   string `json:"notes"`
}

// HealthState is a snapshot of what the pipeline knows about the inference backend.
type HealthState struct {
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastCheckTime       time.Time `json:"lastCheckTime"`
	ModelLoadInProgress bool      `json:"modelLoadInProgress"`
	Available           bool      `json:"available"`
}

// BackendProcess is one entry of the backend's running-process listing.
type BackendProcess struct {
	Name   string `json:"name"`
	Model  string `json:"model"`
	Status string `json:"status,omitempty"`
}

// ProgressFunc receives human-readable progress messages.
type ProgressFunc func(message string)

// CategorizationEntry is one object of the JSON array the model is asked to return.
type CategorizationEntry struct {
	ID      int    `json:"id" jsonschema:"description=Number of the item in the request list"`
	Product string `json:"product" jsonschema:"description=Readable product name"`
	Aisle   string `json:"aisle" jsonschema:"description=One aisle from the provided list"`
	Notes   string `json:"notes" jsonschema:"description=The item name exactly as it was given"`
}
