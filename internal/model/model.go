// Package model defines payload types exchanged with the NoteNest API.
package model

// Credentials is the username/password pair sent on login and register.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair collects issued access/refresh tokens. The refresh endpoint
// returns only a new access token, so RefreshToken may be empty.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Entry is a single journal entry as stored by the journals resource.
type Entry struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Date     string `json:"date,omitempty"`
}

// CategoryCounts breaks stored entries down by category.
type CategoryCounts struct {
	PersonalDevelopment int `json:"PersonalDevelopment"`
	Work                int `json:"Work"`
	Travel              int `json:"Travel"`
}

// EntryPage is one page of entries plus the aggregate counters the
// dashboard renders.
type EntryPage struct {
	Entries        []Entry        `json:"entries"`
	TotalEntries   int            `json:"totalEntries"`
	TotalPages     int            `json:"totalPages"`
	HasNextPage    bool           `json:"hasNextPage"`
	CategoryCounts CategoryCounts `json:"categoryCounts"`
}

// Profile is the mutable account data sent to the profile endpoint.
type Profile struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
}
