package features

import "strings"

// Nomes das features conhecidas (sem o prefixo FEATURE_).
const (
	// VideoStatistics habilita a segunda chamada à API do YouTube para buscar visualizações e likes.
	VideoStatistics = "VIDEO_STATISTICS"
)

// Set é um conjunto imutável de feature toggles carregado da configuração.
type Set struct {
	toggles map[string]bool
}

// New copia o mapa de toggles; os nomes são normalizados para maiúsculas.
func New(toggles map[string]bool) Set {
	normalized := make(map[string]bool, len(toggles))
	for name, enabled := range toggles {
		normalized[strings.ToUpper(name)] = enabled
	}
	return Set{toggles: normalized}
}

// IsEnabled verifica se um feature toggle específico está habilitado.
// Feature não definida é considerada desabilitada.
func (s Set) IsEnabled(featureName string) bool {
	return s.toggles[strings.ToUpper(featureName)]
}

// IsEnabledOr retorna o estado do toggle ou defaultValue quando ele não foi configurado.
func (s Set) IsEnabledOr(featureName string, defaultValue bool) bool {
	enabled, exists := s.GetFeatureToggleState(featureName)
	if !exists {
		return defaultValue
	}
	return enabled
}

// GetFeatureToggleState retorna o estado de um feature toggle e se ele existe.
func (s Set) GetFeatureToggleState(featureName string) (enabled bool, exists bool) {
	enabled, exists = s.toggles[strings.ToUpper(featureName)]
	return enabled, exists
}
