// internal/models/query_types.go
package models

// QueryType labels store operations in errors and logs.
type QueryType string

const (
	QueryTypeEnrichmentBundle QueryType = "enrichment_bundle"
	QueryTypeClientProfile    QueryType = "client_profile"
	QueryTypeClientContact    QueryType = "client_contact"
	QueryTypeShortlistSave    QueryType = "shortlist_save"
)
