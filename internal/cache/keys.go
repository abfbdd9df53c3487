package cache

import "strings"

const (
	GlobalKeyPrefix = "medstudent"

	ServicePerformance = "performance"
	ServiceEmbedding   = "embedding"
)

// GenerateCacheKey builds "medstudent:<service>:<object>:<id>[:<params joined by _>]".
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return baseKey + ":" + strings.Join(paramsKey, "_")
	}
	return baseKey
}

// PerformanceReportKey is the per-user hash holding every cached dashboard view.
func PerformanceReportKey(userID string) string {
	return GenerateCacheKey(ServicePerformance, "report", userID)
}

// EmbeddingKey caches the vector of a text for a given model.
func EmbeddingKey(model, textHash string) string {
	return GenerateCacheKey(ServiceEmbedding, model, textHash)
}
