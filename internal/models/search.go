package models

// SearchParams captures the inputs of one adapter call.
type SearchParams struct {
	Query    string
	Location string
	Limit    int
}
