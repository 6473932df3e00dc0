package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"vitalplan/internal/domain"
)

// flexID accepts both numeric and string identifiers. The backend uses
// integer keys while the client models ids as opaque strings.
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", b, err)
	}
	*id = flexID(n.String())
	return nil
}

// pathID renders an id for use in a URL path.
func pathID(id string) string {
	return url.PathEscape(id)
}

type userDTO struct {
	domain.User
	ID    flexID    `json:"id"`
	Goals []goalDTO `json:"goals"`
}

func (d userDTO) toDomain() domain.User {
	u := d.User
	u.ID = string(d.ID)
	u.Goals = nil
	for _, g := range d.Goals {
		u.Goals = append(u.Goals, g.toDomain())
	}
	return u
}

type goalDTO struct {
	domain.Goal
	ID flexID `json:"id"`
}

func (d goalDTO) toDomain() domain.Goal {
	g := d.Goal
	g.ID = string(d.ID)
	return g
}

type planDTO struct {
	domain.DietPlan
	ID        flexID    `json:"id"`
	UserID    flexID    `json:"user_id"`
	Goals     []goalDTO `json:"goals"`
	CreatedAt time.Time `json:"created_at"`
}

func (d planDTO) toDomain() domain.DietPlan {
	p := d.DietPlan
	p.ID = string(d.ID)
	p.UserID = string(d.UserID)
	p.Goals = nil
	for _, g := range d.Goals {
		p.Goals = append(p.Goals, g.toDomain())
	}
	if p.GeneratedAt.IsZero() {
		p.GeneratedAt = d.CreatedAt
	}
	return p
}

type orderDTO struct {
	domain.Order
	ID     flexID `json:"id"`
	UserID flexID `json:"user_id"`
}

func (d orderDTO) toDomain() domain.Order {
	o := d.Order
	o.ID = string(d.ID)
	o.UserID = string(d.UserID)
	return o
}

// scanDTO covers both the analysis result and a history entry.
type scanDTO struct {
	domain.ScannedFood
	ID       flexID `json:"id"`
	FoodName string `json:"food_name"`
}

func (d scanDTO) toDomain() domain.ScannedFood {
	f := d.ScannedFood
	f.ID = string(d.ID)
	if f.Name == "" {
		f.Name = d.FoodName
	}
	return f
}

func mapSlice[T any, D any](in []T, fn func(T) D) []D {
	out := make([]D, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
