package api

// Route prefixes.
const (
	apiPrefix    = "/api/v1"
	peoplePrefix = apiPrefix + "/people"
	tagsPrefix   = apiPrefix + "/tags"
	groupsPrefix = apiPrefix + "/groups"

	// tagEmailsPrefix sits apart from tagsPrefix so any slug can be filtered on.
	tagEmailsPrefix = apiPrefix + "/tag-emails"
)

// CacheNoStore is the Cache-Control value for live status responses.
const CacheNoStore = "no-store"

// Content types for non-JSON bodies.
const (
	contentTypeText = "text/plain; charset=utf-8"
)
