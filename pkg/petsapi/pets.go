// Package petsapi exposes the listing endpoints of the pets API with a
// typed result per endpoint.
package petsapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/samvad-hq/pawfinder/pkg/httpclient"
)

const (
	pathPets         = "/pets"
	pathSlider       = "/pets/slider"
	pathSearch       = "/search"
	pathSearchOrder  = "/search/order"
	pathUsers        = "/users"
	pathUserOrders   = "/users/orders"
	pathSubscription = "/subscription"
)

// Client calls the pets endpoints through an API.
type Client struct {
	api API
}

// New returns a Client backed by api.
func New(api API) (*Client, error) {
	if api == nil {
		return nil, errors.New("petsapi: api is required")
	}
	return &Client{api: api}, nil
}

// GetPet fetches one listing (data.pet).
func (c *Client) GetPet(ctx context.Context, id int) (*Pet, error) {
	resp, err := c.api.Get(ctx, petPath(id))
	if err != nil {
		return nil, err
	}
	pet, err := httpclient.DecodeField[Pet](resp, "pets.get", "pet")
	if err != nil {
		return nil, err
	}
	return &pet, nil
}

// AddPet submits a new listing as multipart form data. The form is not
// validated here; call PetForm.Validate first.
func (c *Client) AddPet(ctx context.Context, form PetForm) (*CreateResult, error) {
	resp, err := c.api.PostMultipart(ctx, pathPets, form.Multipart())
	if err != nil {
		return nil, err
	}
	return createResult(resp, "pets.add")
}

// UpdatePet patches an existing listing. Only the non-empty fields of form
// are sent.
func (c *Client) UpdatePet(ctx context.Context, id int, form PetForm) (*CreateResult, error) {
	resp, err := c.api.PatchMultipart(ctx, petPath(id), form.UpdateMultipart())
	if err != nil {
		return nil, err
	}
	return createResult(resp, "pets.update")
}

// Search runs the quick search (data.orders).
func (c *Client) Search(ctx context.Context, query string) ([]Pet, error) {
	v := url.Values{}
	v.Set("query", query)
	return c.list(ctx, pathSearch+"?"+v.Encode(), "pets.search")
}

// SearchOrders runs the advanced search by district and kind (data.orders).
func (c *Client) SearchOrders(ctx context.Context, f SearchFilter) ([]Pet, error) {
	v := url.Values{}
	if d := strings.TrimSpace(f.District); d != "" {
		v.Set("district", d)
	}
	if k := strings.TrimSpace(f.Kind); k != "" {
		v.Set("kind", k)
	}
	path := pathSearchOrder
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	return c.list(ctx, path, "pets.search_orders")
}

// GetRecentPets lists the latest listings (data.orders).
func (c *Client) GetRecentPets(ctx context.Context) ([]Pet, error) {
	return c.list(ctx, pathPets, "pets.recent")
}

// GetUserOrders lists the listings posted by a user (data.orders).
func (c *Client) GetUserOrders(ctx context.Context, userID int) ([]Pet, error) {
	return c.list(ctx, fmt.Sprintf("%s/%d/orders", pathUsers, userID), "pets.user_orders")
}

// GetSlider returns the front-page slider. A 404 or an empty response is
// an empty slider, not an error.
func (c *Client) GetSlider(ctx context.Context) (*Slider, error) {
	resp, err := c.api.Get(ctx, pathSlider)
	if err != nil {
		if httpclient.IsNotFound(err) {
			return &Slider{Pets: []SliderPet{}}, nil
		}
		return nil, err
	}
	if resp == nil {
		return &Slider{Pets: []SliderPet{}}, nil
	}
	pets, err := httpclient.DecodeField[[]SliderPet](resp, "pets.slider", "pets")
	if err != nil {
		return nil, err
	}
	if pets == nil {
		pets = []SliderPet{}
	}
	return &Slider{Pets: pets}, nil
}

// DeleteOrder removes one of the current user's listings.
func (c *Client) DeleteOrder(ctx context.Context, id int) error {
	_, err := c.api.Delete(ctx, pathUserOrders+"/"+strconv.Itoa(id))
	return err
}

// Subscribe adds email to the newsletter.
func (c *Client) Subscribe(ctx context.Context, email string) error {
	_, err := c.api.Post(ctx, pathSubscription, map[string]string{"email": email})
	return err
}

func (c *Client) list(ctx context.Context, path, endpoint string) ([]Pet, error) {
	resp, err := c.api.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return []Pet{}, nil
	}
	pets, err := httpclient.DecodeField[[]Pet](resp, endpoint, "orders")
	if err != nil {
		return nil, err
	}
	if pets == nil {
		pets = []Pet{}
	}
	return pets, nil
}

func createResult(resp *httpclient.Response, endpoint string) (*CreateResult, error) {
	if resp == nil || resp.Data == nil {
		return &CreateResult{}, nil
	}
	res, err := httpclient.DecodeData[CreateResult](resp, endpoint)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func petPath(id int) string {
	return pathPets + "/" + strconv.Itoa(id)
}
