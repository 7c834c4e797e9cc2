package petsapi

import (
	"reflect"
	"strings"
	"testing"

	"github.com/samvad-hq/pawfinder/pkg/httpclient"
	"github.com/samvad-hq/pawfinder/pkg/validate"
)

func validForm() PetForm {
	return PetForm{
		Name:     "Иван",
		Phone:    "+79991234567",
		Email:    "ivan@example.com",
		Kind:     "dog",
		District: "Василеостровский",
		Mark:     "collar",
		Confirm:  true,
		Photo1:   &httpclient.File{Name: "dog.jpg", Reader: strings.NewReader("jpg")},
	}
}

func TestPetFormValidate(t *testing.T) {
	if err := validForm().Validate(); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}

	f := validForm()
	f.Photo1 = nil
	f.Confirm = false
	f.Phone = "8 999"
	fields := validate.Fields(f.Validate())
	for _, name := range []string{"photo1", "confirm", "phone"} {
		if len(fields[name]) == 0 {
			t.Fatalf("expected %s to fail, got %#v", name, fields)
		}
	}
}

func TestPetFormRegisterRequiresPassword(t *testing.T) {
	f := validForm()
	f.Register = true
	fields := validate.Fields(f.Validate())
	if len(fields["password"]) == 0 {
		t.Fatalf("expected password to be required, got %#v", fields)
	}

	f.Password = "Passw0rd"
	f.PasswordConfirmation = "Passw0rd"
	if err := f.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestValidateUpdateOnlyChecksFormats(t *testing.T) {
	if err := (PetForm{Description: "new text"}).ValidateUpdate(); err != nil {
		t.Fatalf("expected partial form to pass, got %v", err)
	}
	fields := validate.Fields(PetForm{Email: "bad"}.ValidateUpdate())
	if len(fields["email"]) == 0 {
		t.Fatalf("expected email format failure, got %#v", fields)
	}
}

func TestMultipartEncodesFlagsAndFiles(t *testing.T) {
	m := validForm().Multipart()

	if v, _ := m.Field(FieldConfirm); v != "1" {
		t.Fatalf("confirm = %q", v)
	}
	if v, _ := m.Field(FieldRegister); v != "0" {
		t.Fatalf("register = %q", v)
	}
	if _, ok := m.Field(FieldPassword); ok {
		t.Fatalf("password must not be sent without register")
	}
	if v, ok := m.Field(FieldDescription); !ok || v != "" {
		t.Fatalf("description should be sent empty, got %q %v", v, ok)
	}
	if got := m.FileNames(); !reflect.DeepEqual(got, []string{FieldPhoto1}) {
		t.Fatalf("files = %v", got)
	}
}

func TestUpdateMultipartOmitsEmptyFields(t *testing.T) {
	m := PetForm{Description: " found near park ", Photo2: &httpclient.File{Name: "b.png", Reader: strings.NewReader("b")}}.UpdateMultipart()

	if got := m.FieldNames(); !reflect.DeepEqual(got, []string{FieldDescription}) {
		t.Fatalf("fields = %v", got)
	}
	if v, _ := m.Field(FieldDescription); v != "found near park" {
		t.Fatalf("description = %q", v)
	}
	if got := m.FileNames(); !reflect.DeepEqual(got, []string{FieldPhoto2}) {
		t.Fatalf("files = %v", got)
	}
}
