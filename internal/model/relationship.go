package model

// RelationshipType classifies how two tracked people relate.
type RelationshipType string

const (
	RelPartner RelationshipType = "partner"
	RelChild   RelationshipType = "child"
	RelParent  RelationshipType = "parent"
	RelSibling RelationshipType = "sibling"
	RelFriend  RelationshipType = "friend"
	RelOther   RelationshipType = "other"
)

// Relationship links two people. It is undirected in practice: detail views
// consider relationships where the viewed person is either endpoint.
type Relationship struct {
	ID     string           `json:"id" db:"id"`
	FromID string           `json:"fromId" db:"from_id"`
	ToID   string           `json:"toId" db:"to_id"`
	Type   RelationshipType `json:"type" db:"type"`
}

// Involves reports whether the given person is either endpoint.
func (r Relationship) Involves(personID string) bool {
	return r.FromID == personID || r.ToID == personID
}
