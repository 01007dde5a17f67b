package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"direitofacil-backend/models"
)

func TestBuildSystemPromptPerComplexity(t *testing.T) {
	simple := BuildSystemPrompt(models.ComplexitySimple)
	technical := BuildSystemPrompt(models.ComplexityTechnical)

	assert.NotEqual(t, simple, technical)
	assert.Contains(t, simple, "EXCLUSIVAMENTE")
	assert.Contains(t, technical, "EXCLUSIVAMENTE")
}

func TestBuildSystemPromptUnknownFallsBackToSimple(t *testing.T) {
	assert.Equal(t, BuildSystemPrompt(models.ComplexitySimple), BuildSystemPrompt("avancado"))
}

func TestBuildUserPromptSections(t *testing.T) {
	prompt := BuildUserPrompt(
		"Posso ser demitido durante as férias?",
		"FONTE: CLT\nCONTEÚDO: texto legal",
		"Sou empregado CLT há 3 anos",
		"Responda em tópicos",
	)

	assert.Contains(t, prompt, "PERGUNTA DO USUÁRIO:\nPosso ser demitido durante as férias?")
	assert.Contains(t, prompt, "CONTEXTO DO USUÁRIO:\nSou empregado CLT há 3 anos")
	assert.Contains(t, prompt, "FONTES JURÍDICAS DISPONÍVEIS:")
	assert.Contains(t, prompt, "INSTRUÇÕES ADICIONAIS:\nResponda em tópicos")
	assert.Contains(t, prompt, "**Fontes Consultadas:**")
}

func TestBuildUserPromptOmitsEmptySections(t *testing.T) {
	prompt := BuildUserPrompt("pergunta", "fontes", "", "")

	assert.NotContains(t, prompt, "CONTEXTO DO USUÁRIO")
	assert.NotContains(t, prompt, "INSTRUÇÕES ADICIONAIS")
}

func TestBuildSourcesContext(t *testing.T) {
	docs := []models.RetrievedDocument{
		{Title: "CDC Art. 49", Content: "direito de arrependimento"},
		{Title: "CLT Art. 477", Content: "verbas rescisórias"},
	}

	context := BuildSourcesContext(docs)

	assert.Contains(t, context, "FONTE: CDC Art. 49\nCONTEÚDO: direito de arrependimento")
	assert.Contains(t, context, "FONTE: CLT Art. 477\nCONTEÚDO: verbas rescisórias")
	assert.Contains(t, context, "\n---\n")
}

func TestGetDisclaimer(t *testing.T) {
	assert.Contains(t, GetDisclaimer("trabalhista"), "advogado trabalhista")
	assert.Contains(t, GetDisclaimer("consumidor"), "Procon")

	// Unknown tags get the general disclaimer
	general := GetDisclaimer("geral")
	assert.Equal(t, general, GetDisclaimer(""))
	assert.Equal(t, general, GetDisclaimer("tributario"))
}
