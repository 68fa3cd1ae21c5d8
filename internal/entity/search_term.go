package entity

// SearchTerm maps a normalized query text to the number of times it was
// searched. Used only to rank popular searches.
type SearchTerm struct {
	Text  string `json:"text" bson:"text"`
	Times int64  `json:"times" bson:"times"`
}
