package petsapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samvad-hq/pawfinder/pkg/imageurl"
)

// Pet is a listing ("pet card") as returned under data.pet and data.orders.
type Pet struct {
	ID          int       `json:"id" yaml:"id"`
	Kind        string    `json:"kind" yaml:"kind"`
	Name        string    `json:"name,omitempty" yaml:"name,omitempty"`
	Phone       string    `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email       string    `json:"email,omitempty" yaml:"email,omitempty"`
	District    string    `json:"district,omitempty" yaml:"district,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Mark        string    `json:"mark,omitempty" yaml:"mark,omitempty"`
	Date        string    `json:"date,omitempty" yaml:"date,omitempty"`
	Status      string    `json:"status,omitempty" yaml:"status,omitempty"`
	Registered  bool      `json:"registered,omitempty" yaml:"registered,omitempty"`
	Photos      PhotoList `json:"photos,omitempty" yaml:"photos,omitempty"`
	Photo1      string    `json:"photo1,omitempty" yaml:"photo1,omitempty"`
	Photo2      string    `json:"photo2,omitempty" yaml:"photo2,omitempty"`
	Photo3      string    `json:"photo3,omitempty" yaml:"photo3,omitempty"`
}

// PhotoList decodes "photos" sent either as an array or as a single string.
type PhotoList []string

func (p *PhotoList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = nil
		return nil
	}
	if data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		if strings.TrimSpace(single) == "" {
			*p = nil
			return nil
		}
		*p = PhotoList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("photos: %w", err)
	}
	*p = list
	return nil
}

// PhotoRefs returns the listing's photo references: the photos array first,
// then photo1..photo3, without empties or duplicates.
func (p Pet) PhotoRefs() []string {
	seen := make(map[string]struct{}, len(p.Photos)+3)
	out := make([]string, 0, len(p.Photos)+3)
	for _, ref := range append(append([]string(nil), p.Photos...), p.Photo1, p.Photo2, p.Photo3) {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	return out
}

// PhotoURLs resolves every photo of the listing. A listing without photos
// yields the placeholder alone.
func (p Pet) PhotoURLs(r imageurl.Resolver) []string {
	urls := r.ResolveAll(p.PhotoRefs())
	if len(urls) == 0 {
		return []string{r.Placeholder()}
	}
	return urls
}

// CoverURL is the first photo URL, or the placeholder.
func (p Pet) CoverURL(r imageurl.Resolver) string {
	return p.PhotoURLs(r)[0]
}

// SliderPet is one entry of the front-page slider.
type SliderPet struct {
	ID          int    `json:"id" yaml:"id"`
	Kind        string `json:"kind" yaml:"kind"`
	Image       string `json:"image" yaml:"image"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Slider is the slider collection. Pets is never nil.
type Slider struct {
	Pets []SliderPet `json:"pets" yaml:"pets"`
}

// CreateResult is the data object returned by create/update calls.
type CreateResult struct {
	ID     int    `json:"id,omitempty" yaml:"id,omitempty"`
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
}

// SearchFilter narrows the advanced search. Empty fields are not sent.
type SearchFilter struct {
	District string
	Kind     string
}
