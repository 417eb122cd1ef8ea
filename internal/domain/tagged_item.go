package domain

import "time"

// ContentTypePerson is the only target type the directory tags.
const ContentTypePerson = "person"

// TaggedItem links a tag to a target in one category.
// (TagID, ObjectID, ContentType, Category) is unique.
type TaggedItem struct {
	ID          string      `json:"id"`
	TagID       string      `json:"tag_id"`
	ObjectID    string      `json:"object_id"`
	ContentType string      `json:"content_type"`
	Category    TagCategory `json:"category"`
	CreatorID   string      `json:"creator_id,omitempty"` // empty once the creator account is gone
	CreatedAt   time.Time   `json:"created_at"`
}

// CreatedBy reports whether accountID created the association.
func (ti *TaggedItem) CreatedBy(accountID string) bool {
	return accountID != "" && ti.CreatorID == accountID
}
