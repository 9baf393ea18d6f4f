package client

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type loginResponse struct {
	AccessToken string      `json:"access_token"`
	User        UserProfile `json:"user"`
}

// Login authenticates and, on success, stores the token and the user
// snapshot together.
func (c *Client) Login(username, password string) (*UserProfile, error) {
	var resp loginResponse
	err := c.do(requestConfig{
		method:   http.MethodPost,
		path:     "/login",
		jsonBody: map[string]string{"username": username, "password": password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.setSession(resp.AccessToken, &resp.User)
	return &resp.User, nil
}

// Logout tells the server (best effort) and clears the session. Calling it
// while logged out is a no-op.
func (c *Client) Logout() error {
	if c.IsAuthenticated() {
		// A 401 here already cleared the session; ignore it.
		if err := c.do(requestConfig{method: http.MethodPost, path: "/logout", auth: true}, nil); err != nil && !errors.Is(err, ErrSessionExpired) {
			c.clearSession()
			return err
		}
	}
	c.clearSession()
	return nil
}

func (c *Client) Register(form url.Values) (*UserProfile, error) {
	var u UserProfile
	err := c.do(requestConfig{
		method:   http.MethodPost,
		path:     "/register",
		formBody: form,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Profile() (*UserProfile, error) {
	var u UserProfile
	if err := c.do(requestConfig{method: http.MethodGet, path: "/profile", auth: true}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateProfile(form url.Values) (*UserProfile, error) {
	var u UserProfile
	err := c.do(requestConfig{
		method:   http.MethodPut,
		path:     "/profile",
		formBody: form,
		auth:     true,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Admin user management.

func (c *Client) ListUsers() ([]UserProfile, error) {
	var users []UserProfile
	if err := c.do(requestConfig{method: http.MethodGet, path: "/admin/users", auth: true}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

type CreateUserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

func (c *Client) CreateUser(in CreateUserInput) (*UserProfile, error) {
	var u UserProfile
	err := c.do(requestConfig{
		method:   http.MethodPost,
		path:     "/admin/users",
		jsonBody: in,
		auth:     true,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) GetUser(id uint) (*UserProfile, error) {
	var u UserProfile
	path := fmt.Sprintf("/admin/users/%d", id)
	if err := c.do(requestConfig{method: http.MethodGet, path: path, auth: true}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

type UpdateUserInput struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (c *Client) UpdateUser(id uint, in UpdateUserInput) (*UserProfile, error) {
	var u UserProfile
	path := fmt.Sprintf("/admin/users/%d", id)
	err := c.do(requestConfig{
		method:   http.MethodPut,
		path:     path,
		jsonBody: in,
		auth:     true,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(id uint) error {
	path := fmt.Sprintf("/admin/users/%d", id)
	return c.do(requestConfig{method: http.MethodDelete, path: path, auth: true}, nil)
}

// SOP activities.

type Activity struct {
	ID              uint      `json:"id"`
	UserID          uint      `json:"user_id"`
	SOPType         string    `json:"sop_type"`
	TaskID          string    `json:"task_id"`
	TaskDescription string    `json:"task_description"`
	Timestamp       time.Time `json:"timestamp"`
}

func (c *Client) LogActivity(sopType, taskID, description string) (*Activity, error) {
	var a Activity
	err := c.do(requestConfig{
		method: http.MethodPost,
		path:   "/sop/activity",
		jsonBody: map[string]string{
			"sop_type":         sopType,
			"task_id":          taskID,
			"task_description": description,
		},
		auth: true,
	}, &a)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) Activities(sopType string) ([]Activity, error) {
	query := url.Values{}
	if sopType != "" {
		query.Set("sop_type", sopType)
	}
	var activities []Activity
	err := c.do(requestConfig{
		method: http.MethodGet,
		path:   "/sop/activities",
		query:  query,
		auth:   true,
	}, &activities)
	if err != nil {
		return nil, err
	}
	return activities, nil
}

// ActivityQuery holds the admin-side filters; zero values are omitted.
type ActivityQuery struct {
	Days    int
	SOPType string
	UserID  uint
}

func (q ActivityQuery) values() url.Values {
	v := url.Values{}
	if q.Days > 0 {
		v.Set("days", strconv.Itoa(q.Days))
	}
	if q.SOPType != "" {
		v.Set("sop_type", q.SOPType)
	}
	if q.UserID != 0 {
		v.Set("user_id", strconv.FormatUint(uint64(q.UserID), 10))
	}
	return v
}

func (c *Client) AdminActivities(q ActivityQuery) ([]Activity, error) {
	var activities []Activity
	err := c.do(requestConfig{
		method: http.MethodGet,
		path:   "/admin/sop/activities",
		query:  q.values(),
		auth:   true,
	}, &activities)
	if err != nil {
		return nil, err
	}
	return activities, nil
}

// DownloadReport streams the CSV report into w.
func (c *Client) DownloadReport(w io.Writer, q ActivityQuery) error {
	query := q.values()
	query.Set("format", "csv")
	return c.doRaw(requestConfig{
		method: http.MethodGet,
		path:   "/admin/sop/report",
		query:  query,
		auth:   true,
	}, w)
}

type Summary struct {
	Total  int64 `json:"total"`
	ByType []struct {
		SOPType string `json:"sop_type"`
		Count   int64  `json:"count"`
	} `json:"by_type"`
	ByUser []struct {
		UserID uint  `json:"user_id"`
		Count  int64 `json:"count"`
	} `json:"by_user"`
}

func (c *Client) SOPSummary(q ActivityQuery) (*Summary, error) {
	var s Summary
	err := c.do(requestConfig{
		method: http.MethodGet,
		path:   "/admin/sop/summary",
		query:  q.values(),
		auth:   true,
	}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
