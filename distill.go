// Package distill extracts the primary readable content from HTML documents
// and renders it as normalized HTML and GitHub-flavored Markdown, discarding
// navigation, ads, scripts, and boilerplate. It is built for ingestion
// pipelines (search, RAG, archiving) that need deterministic, reproducible
// article text: the same HTML and options always produce byte-identical
// output.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., html/, goquery/, htmltomarkdown/).
package distill
