package petsapi

import (
	"strings"

	"github.com/samvad-hq/pawfinder/pkg/httpclient"
	"github.com/samvad-hq/pawfinder/pkg/validate"
)

// Multipart field names of the listing form.
const (
	FieldName                 = "name"
	FieldPhone                = "phone"
	FieldEmail                = "email"
	FieldKind                 = "kind"
	FieldDistrict             = "district"
	FieldDescription          = "description"
	FieldMark                 = "mark"
	FieldConfirm              = "confirm"
	FieldRegister             = "register"
	FieldPassword             = "password"
	FieldPasswordConfirmation = "password_confirmation"
	FieldPhoto1               = "photo1"
	FieldPhoto2               = "photo2"
	FieldPhoto3               = "photo3"
)

// PetForm is the listing submission. Register asks the server to create an
// account for the poster, in which case the password fields are sent too.
type PetForm struct {
	Name                 string           `json:"name" validate:"required_if=Register true,cyrname"`
	Phone                string           `json:"phone" validate:"required,phone"`
	Email                string           `json:"email" validate:"required,email"`
	Kind                 string           `json:"kind" validate:"required"`
	District             string           `json:"district" validate:"required"`
	Description          string           `json:"description"`
	Mark                 string           `json:"mark"`
	Confirm              bool             `json:"confirm" validate:"required"`
	Register             bool             `json:"register"`
	Password             string           `json:"password" validate:"required_if=Register true,password"`
	PasswordConfirmation string           `json:"password_confirmation" validate:"eqfield=Password"`
	Photo1               *httpclient.File `json:"photo1" validate:"required"`
	Photo2               *httpclient.File `json:"photo2"`
	Photo3               *httpclient.File `json:"photo3"`
}

// updateRules are the checks that still apply when only some fields change.
type updateRules struct {
	Name  string `json:"name" validate:"cyrname"`
	Phone string `json:"phone" validate:"phone"`
	Email string `json:"email" validate:"omitempty,email"`
}

// Validate applies the rules for a new listing.
func (f PetForm) Validate() error {
	return validate.Struct(f)
}

// ValidateUpdate applies format rules to the fields that are set.
func (f PetForm) ValidateUpdate() error {
	return validate.Struct(updateRules{Name: f.Name, Phone: f.Phone, Email: f.Email})
}

// Multipart encodes a new listing: every text field is sent.
func (f PetForm) Multipart() *httpclient.Multipart {
	return f.encode(false)
}

// UpdateMultipart encodes a partial update: empty text fields are omitted.
func (f PetForm) UpdateMultipart() *httpclient.Multipart {
	return f.encode(true)
}

func (f PetForm) encode(partial bool) *httpclient.Multipart {
	m := httpclient.NewMultipart()
	set := func(name, value string) {
		value = strings.TrimSpace(value)
		if partial && value == "" {
			return
		}
		m.SetField(name, value)
	}

	set(FieldName, f.Name)
	set(FieldPhone, f.Phone)
	set(FieldEmail, f.Email)
	set(FieldKind, f.Kind)
	set(FieldDistrict, f.District)
	set(FieldDescription, f.Description)
	set(FieldMark, f.Mark)
	if !partial || f.Confirm {
		m.SetField(FieldConfirm, flag(f.Confirm))
	}
	if !partial || f.Register {
		m.SetField(FieldRegister, flag(f.Register))
	}
	if f.Register {
		m.SetField(FieldPassword, f.Password)
		m.SetField(FieldPasswordConfirmation, f.PasswordConfirmation)
	}

	for field, file := range map[string]*httpclient.File{
		FieldPhoto1: f.Photo1,
		FieldPhoto2: f.Photo2,
		FieldPhoto3: f.Photo3,
	} {
		if file != nil {
			m.SetFile(field, *file)
		}
	}
	return m
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
