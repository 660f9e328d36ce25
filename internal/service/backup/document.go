package backup

import (
	"time"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

const documentVersion = 1

type document struct {
	Version    int           `json:"version"`
	UserID     string        `json:"userId"`
	ExportedAt time.Time     `json:"exportedAt"`
	Sessions   []sessionJSON `json:"sessions"`
}

type sessionJSON struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"`
	Mode      string     `json:"mode"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Items     []itemJSON `json:"items"`
}

type itemJSON struct {
	Order      int         `json:"order"`
	Text       string      `json:"text"`
	ContactIDs []string    `json:"contactIds"`
	Media      []mediaJSON `json:"media"`
}

type mediaJSON struct {
	Kind     string `json:"type"`
	DataURL  string `json:"dataUrl"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	MIMEType string `json:"mimeType"`
}

func newDocument(userID string, at time.Time, sessions []domain.Session) document {
	doc := document{
		Version:    documentVersion,
		UserID:     userID,
		ExportedAt: at,
		Sessions:   make([]sessionJSON, 0, len(sessions)),
	}
	for _, s := range sessions {
		sj := sessionJSON{
			ID:        s.ID.String(),
			Date:      s.Date.Format(time.DateOnly),
			Mode:      s.Mode.String(),
			Version:   s.Version,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
			Items:     make([]itemJSON, 0, len(s.Items)),
		}
		for _, it := range s.Items {
			ij := itemJSON{Order: it.Order, Text: it.Text, ContactIDs: []string{}, Media: []mediaJSON{}}
			for _, id := range it.ContactIDs {
				ij.ContactIDs = append(ij.ContactIDs, id.String())
			}
			for _, m := range it.Media {
				ij.Media = append(ij.Media, mediaJSON{
					Kind:     m.Kind.String(),
					DataURL:  m.DataURL,
					FileName: m.FileName,
					FileSize: m.FileSize,
					MIMEType: m.MIMEType,
				})
			}
			sj.Items = append(sj.Items, ij)
		}
		doc.Sessions = append(doc.Sessions, sj)
	}
	return doc
}
