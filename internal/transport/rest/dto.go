package rest

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"github.com/heartmarshall/gratitude-backend/internal/store"
)

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

type mediaRequest struct {
	Kind     string `json:"kind"`
	DataURL  string `json:"dataUrl"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	MIMEType string `json:"mimeType"`
}

type itemRequest struct {
	Text       string         `json:"text"`
	ContactIDs []uuid.UUID    `json:"contactIds"`
	Media      []mediaRequest `json:"media"`
}

type createSessionRequest struct {
	Date  string        `json:"date"`
	Mode  string        `json:"mode"`
	Items []itemRequest `json:"items"`
}

type updateSessionRequest struct {
	Items           []itemRequest `json:"items"`
	ExpectedVersion *int          `json:"expectedVersion"`
}

type contactRequest struct {
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Email    *string `json:"email"`
	Birthday *string `json:"birthday"`
	Photo    *string `json:"photo"`
}

type sendMessageRequest struct {
	To        string     `json:"to"`
	Body      string     `json:"body"`
	Channel   string     `json:"channel"`
	ContactID *uuid.UUID `json:"contactId"`
}

func (r createSessionRequest) toInput() (store.CreateSessionInput, error) {
	in := store.CreateSessionInput{Mode: domain.Mode(r.Mode)}
	if r.Date != "" {
		d, err := domain.ParseDate(r.Date)
		if err != nil {
			return in, err
		}
		in.Date = d
	}
	items, err := toItemInputs(r.Items)
	if err != nil {
		return in, err
	}
	in.Items = items
	return in, nil
}

func (r updateSessionRequest) toInput() (store.UpdateSessionInput, error) {
	items, err := toItemInputs(r.Items)
	if err != nil {
		return store.UpdateSessionInput{}, err
	}
	return store.UpdateSessionInput{Items: items, ExpectedVersion: r.ExpectedVersion}, nil
}

func toItemInputs(items []itemRequest) ([domain.ItemsPerSession]store.ItemInput, error) {
	var out [domain.ItemsPerSession]store.ItemInput
	if len(items) > domain.ItemsPerSession {
		return out, domain.NewValidationError("items", "a session has exactly three slots")
	}
	for i, it := range items {
		out[i] = store.ItemInput{Text: it.Text, ContactIDs: it.ContactIDs}
		for _, m := range it.Media {
			out[i].Media = append(out[i].Media, store.MediaInput{
				Kind:     domain.MediaKind(m.Kind),
				DataURL:  m.DataURL,
				FileName: m.FileName,
				FileSize: m.FileSize,
				MIMEType: m.MIMEType,
			})
		}
	}
	return out, nil
}

func (r contactRequest) toInput() store.ContactInput {
	return store.ContactInput{
		Name:     r.Name,
		Phone:    r.Phone,
		Email:    r.Email,
		Birthday: r.Birthday,
		Photo:    r.Photo,
	}
}

// ---------------------------------------------------------------------------
// Responses
// ---------------------------------------------------------------------------

type idResponse struct {
	ID uuid.UUID `json:"id"`
}

type mediaResponse struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	DataURL   string    `json:"dataUrl"`
	FileName  string    `json:"fileName"`
	FileSize  int64     `json:"fileSize"`
	MIMEType  string    `json:"mimeType"`
	CreatedAt time.Time `json:"createdAt"`
}

type taggedContact struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

type itemResponse struct {
	ID       uuid.UUID       `json:"id"`
	Order    int             `json:"order"`
	Text     string          `json:"text"`
	Contacts []taggedContact `json:"contacts"`
	Media    []mediaResponse `json:"media"`
}

type sessionResponse struct {
	ID        uuid.UUID      `json:"id"`
	Date      string         `json:"date"`
	Mode      string         `json:"mode"`
	Version   int            `json:"version"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Items     []itemResponse `json:"items,omitempty"`
}

type contactResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	Birthday  *string   `json:"birthday,omitempty"`
	Photo     *string   `json:"photo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type upcomingBirthdayResponse struct {
	Contact   contactResponse `json:"contact"`
	Date      string          `json:"date"`
	DaysUntil int             `json:"daysUntil"`
}

type sentMessageResponse struct {
	ID                uuid.UUID `json:"id"`
	Channel           string    `json:"channel"`
	Body              string    `json:"body"`
	ProviderMessageID string    `json:"providerMessageId,omitempty"`
	Status            string    `json:"status,omitempty"`
	SentAt            time.Time `json:"sentAt"`
}

type sendResultResponse struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
	To        string `json:"to"`
	Channel   string `json:"channel"`
}

type profileResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"displayName"`
	Phone       *string    `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Suspended   bool       `json:"suspended"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
	LoginCount  int        `json:"loginCount"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type userSummaryResponse struct {
	profileResponse
	SessionCount int `json:"sessionCount"`
	ContactCount int `json:"contactCount"`
}

type auditEntryResponse struct {
	ID           uuid.UUID      `json:"id"`
	UserID       string         `json:"userId"`
	Email        string         `json:"email"`
	Action       string         `json:"action"`
	TargetUserID *string        `json:"targetUserId,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func toSessionResponse(s domain.Session, names map[uuid.UUID]string) sessionResponse {
	resp := sessionResponse{
		ID:        s.ID,
		Date:      domain.FormatDate(s.Date),
		Mode:      s.Mode.String(),
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	for _, it := range s.Items {
		item := itemResponse{
			ID:       it.ID,
			Order:    it.Order,
			Text:     it.Text,
			Contacts: make([]taggedContact, 0, len(it.ContactIDs)),
			Media:    make([]mediaResponse, 0, len(it.Media)),
		}
		for _, cid := range it.ContactIDs {
			item.Contacts = append(item.Contacts, taggedContact{ID: cid, Name: names[cid]})
		}
		for _, m := range it.Media {
			item.Media = append(item.Media, mediaResponse{
				ID:        m.ID,
				Kind:      m.Kind.String(),
				DataURL:   m.DataURL,
				FileName:  m.FileName,
				FileSize:  m.FileSize,
				MIMEType:  m.MIMEType,
				CreatedAt: m.CreatedAt,
			})
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

func toSessionResponses(sessions []domain.Session) []sessionResponse {
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s, nil))
	}
	return out
}

func toContactResponse(c domain.Contact) contactResponse {
	resp := contactResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Photo:     c.Photo,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Birthday != nil {
		b := c.Birthday.String()
		resp.Birthday = &b
	}
	return resp
}

func toContactResponses(contacts []domain.Contact) []contactResponse {
	out := make([]contactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, toContactResponse(c))
	}
	return out
}

func toProfileResponse(p domain.Profile) profileResponse {
	return profileResponse{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Phone:       p.Phone,
		Role:        p.Role.String(),
		Suspended:   p.Suspended,
		LastLogin:   p.LastLogin,
		LoginCount:  p.LoginCount,
		CreatedAt:   p.CreatedAt,
	}
}
