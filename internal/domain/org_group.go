package domain

// OrgGroup is a node in the two-level organization tree.
// A group without a parent is a division; a group with one is an office or team.
type OrgGroup struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ParentID string `json:"parent_id,omitempty"`

	// ParentTitle is filled by list queries for display ordering.
	ParentTitle string `json:"parent_title,omitempty"`
}

// IsDivision reports whether the group sits at the top of the tree.
func (g *OrgGroup) IsDivision() bool {
	return g.ParentID == ""
}
