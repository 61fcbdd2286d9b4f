// Package siteask answers natural-language questions about a single
// organization using only evidence retrieved from that organization's own
// web domain. It searches the domain through rendered search engine result
// pages, falls back to crawling known seed paths, extracts text from pages
// and PDF documents (with OCR for scanned PDFs), and hands the collected
// sources to a language model for answer synthesis.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, ollama/).
package siteask
