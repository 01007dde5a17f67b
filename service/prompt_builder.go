package service

import (
	"strings"

	"direitofacil-backend/models"
)

// Prompt construction is pure string assembly: same inputs, same prompt.

const baseSystemPrompt = `Você é um assistente jurídico especializado em direito brasileiro.
Sua função é fornecer informações claras e acessíveis sobre questões legais básicas.

REGRA FUNDAMENTAL:
Você DEVE responder EXCLUSIVAMENTE com base nos documentos fornecidos nas FONTES JURÍDICAS.
- Se a informação NÃO estiver nas fontes, diga: "Não encontrei informações sobre isso nas fontes disponíveis."
- NUNCA use seu conhecimento geral ou pré-treinado
- NUNCA invente ou assuma informações que não estejam explicitamente nas fontes
- SEMPRE cite de qual fonte específica você extraiu cada informação
- Se as fontes forem insuficientes para responder completamente, seja honesto sobre isso`

var complexityInstructions = map[models.ComplexityLevel]string{
	models.ComplexitySimple: `

NÍVEL DE LINGUAGEM: Extremamente Simples
- Use vocabulário do dia a dia, evite termos técnicos
- Explique como se estivesse falando com alguém sem conhecimento jurídico
- Use exemplos práticos e situações cotidianas
- Frases curtas e diretas`,

	models.ComplexityIntermediate: `

NÍVEL DE LINGUAGEM: Intermediário
- Use termos jurídicos básicos, mas sempre explique o significado
- Balance linguagem técnica com explicações acessíveis
- Forneça contexto quando usar termos legais
- Use analogias quando apropriado`,

	models.ComplexityDetailed: `

NÍVEL DE LINGUAGEM: Detalhado
- Forneça explicações completas e aprofundadas
- Cite artigos de lei, códigos e legislações específicas
- Apresente exemplos práticos e casos de referência
- Explique nuances e exceções relevantes
- Organize a resposta em seções claras`,

	models.ComplexityTechnical: `

NÍVEL DE LINGUAGEM: Técnico-Jurídico
- Use terminologia jurídica precisa
- Cite dispositivos legais completos (Lei nº, Art., §, inciso)
- Mencione jurisprudências relevantes quando aplicável
- Detalhe procedimentos e prazos legais
- Aborde aspectos procedimentais e processuais`,
}

const generalGuidelines = `

DIRETRIZES GERAIS OBRIGATÓRIAS:
1. APENAS use informações das FONTES fornecidas - NUNCA use conhecimento externo
2. SEMPRE cite a fonte específica ao fornecer informações: "Segundo [nome da fonte]..."
3. Se a pergunta não puder ser respondida com as fontes, diga claramente
4. Organize a resposta de forma lógica e didática
5. Use formatação Markdown para melhor legibilidade
6. Sempre inclua o disclaimer sobre buscar orientação profissional
7. Seja preciso e objetivo, evite generalizações
8. Se houver múltiplas interpretações nas fontes, mencione as principais
9. NUNCA adicione informações que não estejam explicitamente nas fontes
10. NUNCA assuma ou complete informações por conta própria

ESTRUTURA OBRIGATÓRIA DA RESPOSTA:
1. Resposta direta citando a fonte
2. Explicação baseada EXCLUSIVAMENTE nas fontes fornecidas
3. Base legal (cite exatamente como aparece nas fontes)
4. Se houver exemplos nas fontes, use-os; caso contrário, não invente
5. Próximos passos APENAS se mencionados nas fontes

IMPORTANTE: Ao final, liste em uma seção '**Fontes Consultadas:**' quais fontes você efetivamente utilizou na resposta.`

// BuildSystemPrompt returns the system instruction for the given complexity
// tier. Unknown tiers fall back to the simple register.
func BuildSystemPrompt(complexity models.ComplexityLevel) string {
	instructions, ok := complexityInstructions[complexity]
	if !ok {
		instructions = complexityInstructions[models.ComplexitySimple]
	}
	return baseSystemPrompt + instructions + generalGuidelines
}

// BuildUserPrompt assembles the user instruction: question, optional user
// context, the retrieved sources verbatim, the closed-world reiteration and
// optional extra instructions.
func BuildUserPrompt(question, context, userContext, additionalInstructions string) string {
	var parts []string

	parts = append(parts, "PERGUNTA DO USUÁRIO:\n"+question+"\n")

	if userContext != "" {
		parts = append(parts, "CONTEXTO DO USUÁRIO:\n"+userContext+"\n")
	}

	parts = append(parts, "FONTES JURÍDICAS DISPONÍVEIS:\n"+context+"\n")

	parts = append(parts,
		"TAREFA:\n"+
			"Forneça uma resposta clara, objetiva e precisa baseada EXCLUSIVAMENTE nas fontes acima. "+
			"Estruture sua resposta de forma didática e cite as fontes quando relevante.\n\n"+
			"ATENÇÃO: Use APENAS as informações contidas nas FONTES JURÍDICAS DISPONÍVEIS acima. "+
			"Se a informação não estiver nas fontes, informe que não há dados suficientes. "+
			"NUNCA use conhecimento externo ou faça suposições.\n\n"+
			"Ao final da resposta, liste em uma seção '**Fontes Consultadas:**' quais documentos "+
			"você efetivamente utilizou para construir esta resposta.")

	if additionalInstructions != "" {
		parts = append(parts, "\nINSTRUÇÕES ADICIONAIS:\n"+additionalInstructions)
	}

	return strings.Join(parts, "\n")
}

// BuildSourcesContext formats retrieved documents as the sources block fed to
// the model, one FONTE/CONTEÚDO pair per document.
func BuildSourcesContext(docs []models.RetrievedDocument) string {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		parts = append(parts, "FONTE: "+doc.Title+"\nCONTEÚDO: "+doc.Content+"\n")
	}
	return strings.Join(parts, "\n---\n")
}

var disclaimers = map[string]string{
	"geral": "**IMPORTANTE**: Esta informação tem caráter **exclusivamente orientativo** " +
		"e não substitui a consulta a um advogado. Para questões específicas do seu caso, " +
		"busque orientação jurídica profissional.",
	"trabalhista": "**IMPORTANTE**: Questões trabalhistas podem ter particularidades dependendo " +
		"do seu contrato, convenção coletiva e situação específica. Esta resposta é orientativa. " +
		"Para uma análise precisa do seu caso, consulte um advogado trabalhista.",
	"consumidor": "**IMPORTANTE**: Seus direitos como consumidor podem variar conforme as circunstâncias " +
		"específicas. Esta informação é orientativa. Para reclamações formais, procure o Procon " +
		"ou um advogado especializado em direito do consumidor.",
	"familia": "**IMPORTANTE**: Questões de direito de família envolvem aspectos pessoais e legais " +
		"complexos. Esta resposta é apenas orientativa. Consulte um advogado de família para " +
		"orientação específica sobre seu caso.",
	"previdenciario": "**IMPORTANTE**: Questões previdenciárias dependem de análise detalhada do histórico " +
		"contributivo e situação individual. Esta informação é orientativa. Procure um advogado " +
		"previdenciário ou a Defensoria Pública para análise do seu caso.",
}

// GetDisclaimer maps a legal-domain tag to its cautionary text, defaulting to
// the general disclaimer for unrecognized tags.
func GetDisclaimer(contextType string) string {
	if d, ok := disclaimers[contextType]; ok {
		return d
	}
	return disclaimers["geral"]
}
