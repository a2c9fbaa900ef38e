package user

import (
	"strings"
	"time"

	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
)

type Profile struct {
	UID       string    `json:"uid"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	IsAdmin   bool      `json:"isAdmin"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfileUpdate carries the user-editable fields. Admin rights are never
// set through it.
type ProfileUpdate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

func (u ProfileUpdate) Validate() error {
	if strings.TrimSpace(u.FirstName) == "" || strings.TrimSpace(u.LastName) == "" {
		return domainErrors.ErrProfileNameMissing
	}
	return nil
}

func NewProfile(uid, email string) *Profile {
	return &Profile{UID: uid, Email: email}
}

// Apply merges u into the profile. Empty optional fields keep their value.
func (p *Profile) Apply(u ProfileUpdate, now time.Time) error {
	if err := u.Validate(); err != nil {
		return err
	}

	p.FirstName = strings.TrimSpace(u.FirstName)
	p.LastName = strings.TrimSpace(u.LastName)
	if email := strings.TrimSpace(u.Email); email != "" {
		p.Email = email
	}
	if phone := strings.TrimSpace(u.Phone); phone != "" {
		p.Phone = phone
	}
	if address := strings.TrimSpace(u.Address); address != "" {
		p.Address = address
	}
	p.UpdatedAt = now
	return nil
}

func (p *Profile) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
