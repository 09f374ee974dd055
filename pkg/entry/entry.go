package entry

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Kind discriminates the three entry variants. The stored document still
// distinguishes variants by shape (walks/meals/snacks live in separate
// sequences); Kind exists so callers can name a sequence explicitly instead
// of sniffing fields.
type Kind string

const (
	KindWalk  Kind = "walk"
	KindMeal  Kind = "meal"
	KindSnack Kind = "snack"
)

// KindForAlias maps user input to a Kind.
func KindForAlias(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "walk", "walks":
		return KindWalk, nil
	case "meal", "meals":
		return KindMeal, nil
	case "snack", "snacks":
		return KindSnack, nil
	}
	return "", errors.New("entry: unknown kind " + s)
}

type Walk struct {
	Time Timestamp `json:"time"`
}

type Meal struct {
	Time   Timestamp `json:"time"`
	Weight int       `json:"weight"`
}

type Snack struct {
	Time     Timestamp `json:"time"`
	Type     string    `json:"type"`
	Quantity int       `json:"quantity"`
}

func NewWalk(at time.Time) Walk {
	return Walk{Time: Timestamp{Time: at}}
}

func NewMeal(at time.Time, weight int) Meal {
	return Meal{Time: Timestamp{Time: at}, Weight: weight}
}

func NewSnack(at time.Time, typ string, quantity int) Snack {
	return Snack{Time: Timestamp{Time: at}, Type: typ, Quantity: quantity}
}

var (
	ErrWeight    = errors.New("entry: meal weight must be a positive number of grams")
	ErrQuantity  = errors.New("entry: snack quantity must be a positive number")
	ErrSnackType = errors.New("entry: snack type must not be empty")
)

// Validate rejects meals without a positive gram weight.
func (m Meal) Validate() error {
	if m.Weight <= 0 {
		return ErrWeight
	}
	return nil
}

// Validate rejects snacks without a type or a positive quantity.
func (s Snack) Validate() error {
	if strings.TrimSpace(s.Type) == "" {
		return ErrSnackType
	}
	if s.Quantity <= 0 {
		return ErrQuantity
	}
	return nil
}

// SortWalks orders walks ascending by time, in place. Walks whose time failed
// to parse compare as the zero time, so they sort ahead of every real
// timestamp. The sort is stable so equal (or equally broken) walks keep
// their stored order.
func SortWalks(walks []Walk) {
	sort.SliceStable(walks, func(i, j int) bool {
		return walks[i].Time.Time.Before(walks[j].Time.Time)
	})
}
