package core

import (
	"regexp"
	"strings"
)

// Lexical analysis of claim text. These signals drive both the analyst
// heuristics and the verdict cascade, so they live in the domain layer.

var (
	metricsRe    = regexp.MustCompile(`\d+\.?\d*\s*(million|billion|%)|20\d{2}|specific\s+amount`)
	hardMetricRe = regexp.MustCompile(`\d+%|\d+\s*(tons|MW|GW|million|billion)|20\d{2}`)
	yearRe       = regexp.MustCompile(`20\d{2}|in\s+\d{4}`)

	absolutePatterns = []*regexp.Regexp{
		regexp.MustCompile(`100%\s*(sustainable|green|eco|recyclable|renewable|organic|natural)`),
		regexp.MustCompile(`(completely|totally|fully|entirely|perfectly|absolutely)\s*(sustainable|green|eco)`),
	}

	// Recognized carbon accounting terminology. Claims using these terms
	// with metrics and a date are treated as verifiable, not greenwashing.
	legitimateCarbonTerms = []string{
		"carbon negative",
		"net zero",
		"carbon neutral",
		"scope 1", "scope 2", "scope 3",
	}

	superlatives = []string{
		"greenest", "leader in", "pioneer", "most sustainable",
		"best in class", "world's leading",
	}

	vagueKeywords = []string{
		"committed to", "sustainable", "eco-friendly", "green", "clean energy",
	}

	highRiskSectors = map[string]bool{
		"Energy":     true,
		"Automotive": true,
		"Aviation":   true,
		"Mining":     true,
		"Oil & Gas":  true,
	}
)

// HasMetrics reports whether the claim contains verifiable quantities.
func HasMetrics(claim string) bool {
	return metricsRe.MatchString(claim)
}

// HasHardMetrics applies the stricter metric test used by the sector rule.
func HasHardMetrics(claim string) bool {
	return hardMetricRe.MatchString(claim)
}

// HasTargetYear reports whether the claim is dated.
func HasTargetYear(claim string) bool {
	return yearRe.MatchString(claim)
}

// MatchesAbsolutePattern reports whether the claim uses absolute or
// physically implausible language ("100% sustainable").
func MatchesAbsolutePattern(claim string) bool {
	lower := strings.ToLower(claim)
	for _, re := range absolutePatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// IsLegitimateCarbonClaim reports whether the claim uses recognized
// carbon accounting terminology with metrics and a date.
func IsLegitimateCarbonClaim(claim string) bool {
	lower := strings.ToLower(claim)
	hasTerm := false
	for _, term := range legitimateCarbonTerms {
		if strings.Contains(lower, term) {
			hasTerm = true
			break
		}
	}
	return hasTerm && HasMetrics(claim) && HasTargetYear(claim)
}

// HasSuperlative reports whether the claim uses superlative marketing
// language.
func HasSuperlative(claim string) bool {
	lower := strings.ToLower(claim)
	for _, s := range superlatives {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// VagueKeywordCount counts vague sustainability buzzwords in the claim.
func VagueKeywordCount(claim string) int {
	lower := strings.ToLower(claim)
	count := 0
	for _, kw := range vagueKeywords {
		if strings.Contains(lower, kw) {
			count++
		}
	}
	return count
}

// IsHighRiskSector reports whether the sector carries elevated baseline
// scrutiny.
func IsHighRiskSector(sector string) bool {
	return highRiskSectors[sector]
}
