package domain

import "context"

// AisleCache maps normalized clean names to aisles
type AisleCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, aisle string) error
	Size() int
}

// InferenceClient defines the interface for talking to the local inference backend
type InferenceClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Probe(ctx context.Context) error
	RunningProcesses(ctx context.Context) ([]BackendProcess, error)
}
