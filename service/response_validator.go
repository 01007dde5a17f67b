package service

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"direitofacil-backend/models"
)

// Each heuristic below is an independent predicate so thresholds can be tuned
// without touching the scoring control flow.

// Honest admissions of missing information: always a valid answer
var noInfoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`não encontrei`),
	regexp.MustCompile(`não há informações`),
	regexp.MustCompile(`não tenho informações`),
	regexp.MustCompile(`informações insuficientes`),
	regexp.MustCompile(`não constam? nas fontes`),
	regexp.MustCompile(`fontes não contêm`),
}

// Citation phrasings that indicate the answer is anchored on the sources
var citationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`segundo\s+(?:a|o)\s+(?:fonte|documento|lei|artigo)`),
	regexp.MustCompile(`conforme\s+(?:a|o)`),
	regexp.MustCompile(`de acordo com\s+(?:a|o)`),
	regexp.MustCompile(`baseado em`),
	regexp.MustCompile(`consta (?:na|no)`),
	regexp.MustCompile(`previsto (?:na|no)`),
	regexp.MustCompile(`\*\*fontes consultadas:?\*\*`),
}

var (
	citedSectionPattern = regexp.MustCompile(`(?is)\*\*fontes consultadas:?\*\*(.+?)(\n\n|\z)`)
	citedItemPattern    = regexp.MustCompile(`(?m)^\s*[-*]\s*(.+?)\s*$`)
)

// Fabricated-precision patterns: values this specific rarely come verbatim
// from retrieved legal text
var hallucinationPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"datas_especificas", regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)},
	{"numeros_muito_precisos", regexp.MustCompile(`\d+,\d{2}`)},
	{"percentuais_especificos", regexp.MustCompile(`\d+[,.]\d+%`)},
	{"artigos_especificos", regexp.MustCompile(`(?i)art(?:igo)?\.?\s*\d+[º°]?,?\s*§\s*\d+[º°]?,?\s*inciso\s+[IVXLCDM]+`)},
}

// General-knowledge phrasings: answers leaning on these instead of the
// sources get logged for inspection, never rejected
var generalKnowledgePhrases = []string{
	"de modo geral",
	"geralmente",
	"normalmente",
	"em geral",
	"costuma-se",
	"é comum",
	"usualmente",
}

const maxGeneralKnowledgePhrases = 2

// Generic hedging: too many together suggests content not grounded in sources
var genericWarnings = []string{
	"pode variar",
	"depende do caso",
	"consulte um advogado",
	"cada caso é único",
}

const maxGenericWarnings = 3

// ResponseValidator checks generated answers against their sources and
// adjusts the confidence score. It never fails: ungrounded answers are
// downgraded, not rejected.
type ResponseValidator struct {
	strictMode    bool
	maxConfidence float64
	logger        *zap.Logger
}

// NewResponseValidator creates a validator
func NewResponseValidator(strictMode bool, maxConfidence float64, logger *zap.Logger) *ResponseValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseValidator{
		strictMode:    strictMode,
		maxConfidence: maxConfidence,
		logger:        logger,
	}
}

// ValidateUsesSources reports whether the answer demonstrably uses the given
// sources. An explicit "no information found" admission is always valid.
func (v *ResponseValidator) ValidateUsesSources(answer string, sources []models.SourceInfo) (bool, string) {
	if answer == "" || len(sources) == 0 {
		return false, "Resposta ou fontes vazias"
	}

	lower := strings.ToLower(answer)

	if matchesNoInfo(lower) {
		return true, "Resposta honesta sobre limitação das fontes"
	}

	mentioned := countTitleMentions(lower, sources)
	cited := hasCitationPattern(lower)

	if v.strictMode && mentioned == 0 && !cited {
		return false, "Resposta não menciona nenhuma fonte nem tem padrões de citação"
	}

	if n := countGeneralKnowledgePhrases(lower); n > maxGeneralKnowledgePhrases {
		v.logger.Warn("answer leans on general knowledge phrasing", zap.Int("patterns", n))
	}

	if cited || mentioned > 0 {
		confidence := "média"
		if mentioned > 1 {
			confidence = "alta"
		}
		return true, fmt.Sprintf("Resposta válida com confiança %s", confidence)
	}
	if !v.strictMode {
		return true, "Modo permissivo: resposta aceita"
	}
	return false, "Resposta não demonstra uso claro das fontes"
}

// ExtractCitedSources parses the "Fontes Consultadas" section and returns its
// list items. Absent such a section, the list is empty.
func (v *ResponseValidator) ExtractCitedSources(answer string) []string {
	section := citedSectionPattern.FindStringSubmatch(answer)
	if section == nil {
		return nil
	}

	var cited []string
	for _, item := range citedItemPattern.FindAllStringSubmatch(section[1], -1) {
		cited = append(cited, item[1])
	}
	return cited
}

// CheckHallucinationIndicators scans the answer for fabricated-precision
// patterns and excessive generic hedging.
func (v *ResponseValidator) CheckHallucinationIndicators(answer string) []string {
	var indicators []string

	for _, hp := range hallucinationPatterns {
		if matches := hp.pattern.FindAllString(answer, -1); len(matches) > 0 {
			indicators = append(indicators, fmt.Sprintf("%s: %d ocorrências", hp.name, len(matches)))
		}
	}

	if n := countGenericWarnings(strings.ToLower(answer)); n > maxGenericWarnings {
		indicators = append(indicators, fmt.Sprintf("excesso_avisos_genericos: %d", n))
	}

	return indicators
}

// ValidateAndScore runs all checks and adjusts the confidence score
// multiplicatively: x0.5 if invalid, x0.8 with no cited sources, x0.9 with
// any hallucination indicator, capped at the configured maximum.
func (v *ResponseValidator) ValidateAndScore(answer string, sources []models.SourceInfo, originalConfidence float64) (float64, models.ValidationDetails) {
	isValid, message := v.ValidateUsesSources(answer, sources)
	citedSources := v.ExtractCitedSources(answer)
	indicators := v.CheckHallucinationIndicators(answer)

	adjusted := originalConfidence

	if !isValid {
		adjusted *= 0.5
		v.logger.Warn("confidence reduced", zap.String("reason", message))
	}
	if len(citedSources) == 0 {
		adjusted *= 0.8
	}
	if len(indicators) > 0 {
		adjusted *= 0.9
		v.logger.Warn("hallucination indicators found", zap.Strings("indicators", indicators))
	}

	if adjusted > v.maxConfidence {
		adjusted = v.maxConfidence
	}

	details := models.ValidationDetails{
		IsValid:                 isValid,
		ValidationMessage:       message,
		CitedSourcesCount:       len(citedSources),
		CitedSources:            citedSources,
		HallucinationIndicators: indicators,
		OriginalConfidence:      originalConfidence,
		AdjustedConfidence:      adjusted,
	}

	return adjusted, details
}

func matchesNoInfo(lowerAnswer string) bool {
	for _, p := range noInfoPatterns {
		if p.MatchString(lowerAnswer) {
			return true
		}
	}
	return false
}

func countTitleMentions(lowerAnswer string, sources []models.SourceInfo) int {
	mentioned := 0
	for _, src := range sources {
		if src.Title != "" && strings.Contains(lowerAnswer, strings.ToLower(src.Title)) {
			mentioned++
		}
	}
	return mentioned
}

func hasCitationPattern(lowerAnswer string) bool {
	for _, p := range citationPatterns {
		if p.MatchString(lowerAnswer) {
			return true
		}
	}
	return false
}

func countGeneralKnowledgePhrases(lowerAnswer string) int {
	count := 0
	for _, phrase := range generalKnowledgePhrases {
		if strings.Contains(lowerAnswer, phrase) {
			count++
		}
	}
	return count
}

func countGenericWarnings(lowerAnswer string) int {
	count := 0
	for _, w := range genericWarnings {
		if strings.Contains(lowerAnswer, w) {
			count++
		}
	}
	return count
}
