package domain

import "time"

// Person is a staff directory profile. Stub is the URL handle.
type Person struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	Stub         string    `json:"stub"`
	Title        string    `json:"title,omitempty"`
	HideProfile  bool      `json:"hide_profile"`
	AllowTagging bool      `json:"allow_tagging"`
	OrgGroupID   string    `json:"org_group_id,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`

	Contact Contact `json:"contact"`
	Bio     Bio     `json:"bio"`

	// Account is populated by store reads that join the owning account.
	Account *Account `json:"account,omitempty"`
}

// Contact holds office and phone details.
type Contact struct {
	OfficePhone    string `json:"office_phone,omitempty"`
	MobilePhone    string `json:"mobile_phone,omitempty"`
	OfficeLocation string `json:"office_location,omitempty"`
	RoomNumber     string `json:"room_number,omitempty"`
}

// Bio holds the free-text profile sections, stored as Markdown.
type Bio struct {
	AboutMe         string `json:"about_me,omitempty"`
	WhatIDo         string `json:"what_i_do,omitempty"`
	CurrentProjects string `json:"current_projects,omitempty"`
	StuffIveDone    string `json:"stuff_ive_done,omitempty"`
	ThingsImGoodAt  string `json:"things_im_good_at,omitempty"`
}

// FullName returns the owning account's display name, or the stub when the
// account was not loaded.
func (p *Person) FullName() string {
	if p.Account == nil {
		return p.Stub
	}
	return p.Account.FullName()
}

// Visible reports whether the profile shows up in browse and filter paths.
func (p *Person) Visible() bool {
	return p.Account != nil && p.Account.IsActive && !p.HideProfile
}

// OwnedBy reports whether accountID owns this profile.
func (p *Person) OwnedBy(accountID string) bool {
	return accountID != "" && p.AccountID == accountID
}

// TaggableBy reports whether accountID may add tags to this profile.
func (p *Person) TaggableBy(accountID string) bool {
	return p.AllowTagging || p.OwnedBy(accountID)
}

// Touch updates the UpdatedAt timestamp.
func (p *Person) Touch() {
	p.UpdatedAt = time.Now()
}
