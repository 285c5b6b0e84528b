// Package readurl turns fetched web pages into clean articles: a title,
// plain-text body, and a short summary for downstream reading features.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, rod/).
package readurl
