package factory

import (
	"fmt"

	"ai-scribe-be/pkg/inference"
	"ai-scribe-be/pkg/inference/ollama"
	"ai-scribe-be/pkg/inference/openaicompat"
)

func NewInferenceClient(backendType, modelName, baseURL, apiKey string) (inference.Client, error) {
	switch backendType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "openai":
		return openaicompat.NewProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported inference backend: %s", backendType)
	}
}
