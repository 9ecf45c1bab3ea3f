package models

// TelegramUser is the identity carried by verified WebApp init-data.
type TelegramUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`

	// StartParam is the hub invite code, nil when absent or not numeric.
	StartParam *int64 `json:"-"`
}

// BotInfo is what the bot platform knows about a user beyond init-data.
type BotInfo struct {
	About string
	// Photo is a bare reference (the user id) or empty when there is no photo.
	Photo string
}

// BotInfoResult tells enriched lookups apart from degraded ones.
type BotInfoResult struct {
	Info     BotInfo
	Enriched bool
	// PhotoKnown is set only when the profile photo lookup succeeded, so an
	// empty Info.Photo means the user really has no photo.
	PhotoKnown bool
	Reason     string
}
