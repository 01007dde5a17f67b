package models

import "time"

// SourceInfo is the subset of a retrieved document surfaced in the final answer
type SourceInfo struct {
	Title          string  `json:"title"`
	Source         string  `json:"source"`
	RelevanceScore float64 `json:"relevance_score"`
}

// LegalResponse is the final output of the question-answering pipeline
type LegalResponse struct {
	Answer          string       `json:"answer"`
	Sources         []SourceInfo `json:"sources"` // ordered by retrieval rank
	ConfidenceScore float64      `json:"confidence_score"`
	Category        string       `json:"category"`
	Disclaimer      string       `json:"disclaimer"`
	Timestamp       time.Time    `json:"timestamp"`
}

// ValidationDetails carries every intermediate signal of response validation
type ValidationDetails struct {
	IsValid                 bool     `json:"is_valid"`
	ValidationMessage       string   `json:"validation_message"`
	CitedSourcesCount       int      `json:"cited_sources_count"`
	CitedSources            []string `json:"cited_sources"`
	HallucinationIndicators []string `json:"hallucination_indicators"`
	OriginalConfidence      float64  `json:"original_confidence"`
	AdjustedConfidence      float64  `json:"adjusted_confidence"`
}
