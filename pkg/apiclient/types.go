package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Wire shapes. Timestamps stay ISO-8601 on the wire; time.Time parses them.

type School struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Admin       []string  `json:"admin"`
}

type User struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Image          string    `json:"image"`
	School         *string   `json:"school,omitempty"`
	Grade          int       `json:"grade"`
	Labels         []string  `json:"labels"`
	PreviousEvents []string  `json:"previousEvents"`
}

type Event struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Labels      []string  `json:"labels"`
	Image       *string   `json:"image,omitempty"`
	SchoolID    string    `json:"schoolID"`
}

type SchoolGraph struct {
	School
	EventsArr []Event `json:"eventsArr"`
	AdminsArr []User  `json:"adminsArr"`
}

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

// --- auth ---

type tokenResponse struct {
	Token string `json:"token"`
}

// Login authenticates against the local credential endpoint and adopts
// the returned session token.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp tokenResponse
	err := c.Post(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return err
	}
	c.Token = resp.Token
	return nil
}

// RefreshToken reissues the session token with up-to-date claims and
// adopts it. Called after onboarding completes.
func (c *Client) RefreshToken(ctx context.Context) error {
	var resp tokenResponse
	if err := c.Post(ctx, "/auth/refresh", nil, &resp); err != nil {
		return err
	}
	c.Token = resp.Token
	return nil
}

type AccountInput struct {
	Grade          int      `json:"grade"`
	School         string   `json:"school,omitempty"`
	Labels         []string `json:"labels"`
	PreviousEvents []string `json:"previousEvents"`
}

func (c *Client) CreateAccount(ctx context.Context, input AccountInput) error {
	return c.Post(ctx, "/auth/account", input, nil)
}

// --- schools ---

type CreateSchoolInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

type createResponse struct {
	ID string `json:"id"`
}

func (c *Client) CreateSchool(ctx context.Context, input CreateSchoolInput) (string, error) {
	var resp createResponse
	if err := c.Post(ctx, "/school", input, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// UpdateSchoolAdmins replaces the school's admin set. Callers must send
// the full current list plus additions; SchoolView.AddAdmins does the
// merge for you.
func (c *Client) UpdateSchoolAdmins(ctx context.Context, schoolID string, admin []string) (*School, error) {
	var school School
	err := c.Post(ctx, "/school", map[string]interface{}{
		"id":    schoolID,
		"admin": admin,
	}, &school)
	if err != nil {
		return nil, err
	}
	return &school, nil
}

func (c *Client) Schools(ctx context.Context) ([]School, error) {
	var resp dataEnvelope[[]School]
	if err := c.Get(ctx, "/school", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// SchoolGraph fetches the school projection. iter is a cache-buster only;
// the server ignores it, but it makes the request URL a pure function of
// (schoolID, iter).
func (c *Client) SchoolGraph(ctx context.Context, schoolID string, iter int) (*SchoolGraph, error) {
	params := url.Values{}
	params.Set("id", schoolID)
	params.Set("iter", strconv.Itoa(iter))

	var resp dataEnvelope[SchoolGraph]
	if err := c.Get(ctx, "/school", params, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// --- events ---

type CreateEventInput struct {
	School      string   `json:"school"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Image       string   `json:"image,omitempty"`
}

func (c *Client) CreateEvent(ctx context.Context, input CreateEventInput) (string, error) {
	var resp createResponse
	if err := c.Post(ctx, "/event", input, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	return c.Delete(ctx, fmt.Sprintf("/event/%s", eventID), nil)
}

// --- users ---

func (c *Client) UsersBySchool(ctx context.Context, schoolID string, removeAdmins bool) ([]User, error) {
	params := url.Values{}
	params.Set("school", schoolID)
	params.Set("removeAdmins", strconv.FormatBool(removeAdmins))

	var resp dataEnvelope[[]User]
	if err := c.Get(ctx, "/user", params, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
