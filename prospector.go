// Package prospector builds sales-strategy reports from company websites.
// It discovers candidate pages from a site's sitemap, ranks their relevance,
// deduplicates and chunks their content, indexes the chunks for semantic
// retrieval, and runs a fixed sequence of extraction queries to assemble a
// company profile and a people roster.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, goquery/).
package prospector
