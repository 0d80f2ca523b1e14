package response

import (
	"sessionstore/internal/domain/models"
)

// Session is the JSON form of models.Session. Expires is in milliseconds
// since epoch and omitted when the session never expires.
type Session struct {
	ID               string `json:"id"`
	Shop             string `json:"shop"`
	State            string `json:"state"`
	IsOnline         bool   `json:"isOnline"`
	Scope            string `json:"scope,omitempty"`
	Expires          int64  `json:"expires,omitempty"`
	OnlineAccessInfo string `json:"onlineAccessInfo,omitempty"`
	AccessToken      string `json:"accessToken,omitempty"`
}

func SessionFromModel(s models.Session) Session {
	var expires int64
	if !s.Expires.IsZero() {
		expires = s.Expires.UnixMilli()
	}

	return Session{
		ID:               s.ID,
		Shop:             s.Shop,
		State:            s.State,
		IsOnline:         s.IsOnline,
		Scope:            s.Scope,
		Expires:          expires,
		OnlineAccessInfo: s.OnlineAccessInfo,
		AccessToken:      s.AccessToken,
	}
}

func SessionsFromModels(sessions []models.Session) []Session {
	res := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		res = append(res, SessionFromModel(s))
	}
	return res
}
