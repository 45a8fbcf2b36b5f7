// Package model holds the pantry entities.
//
// Ownership is explicit: the owned side carries the foreign key
// (Fridge.UserID, FridgeItem.FridgeID) and callers link an aggregate
// with User.LinkFridge before persisting it.
package model

import (
	"encoding/json"
	"strings"
)

// User is a profile. Interests are shared records referenced by id and
// Fridge is owned by the user.
//
// Scalar fields are pointers so null round-trips. A User decoded from JSON
// also remembers which keys the payload carried, so ApplyProfile can tell
// an explicit null from a key that was left out.
type User struct {
	ID       int64    `json:"id"`
	Email    *string  `json:"email"`
	Password *string  `json:"password"`
	Name     *string  `json:"name"`
	Weight   *float64 `json:"weight"`
	Height   *float64 `json:"height"`
	Gender   *string  `json:"gender"`

	Interests []Interest `json:"interests"`
	Fridge    *Fridge    `json:"fridge"`

	present map[string]struct{}
}

// UnmarshalJSON decodes u and records the top level keys present in data.
func (u *User) UnmarshalJSON(data []byte) error {
	type user User

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	var decoded user
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	decoded.present = make(map[string]struct{}, len(keys))
	for key := range keys {
		decoded.present[strings.ToLower(key)] = struct{}{}
	}

	*u = User(decoded)
	return nil
}

// provided reports whether the field named key should be copied. Decoded
// users answer from the payload keys; users built in code answer set.
func (u *User) provided(key string, set bool) bool {
	if u.present == nil {
		return set
	}
	_, ok := u.present[key]
	return ok
}

// Unbind drops the decoded key set, leaving u as if it were built in code.
func (u *User) Unbind() {
	u.present = nil
}

// Interest is a tag shared by many users.
type Interest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LinkFridge points the fridge back at u and every item at the fridge.
// It is a no-op when u carries no fridge.
func (u *User) LinkFridge() {
	if u.Fridge == nil {
		return
	}

	u.Fridge.UserID = u.ID
	for i := range u.Fridge.Items {
		u.Fridge.Items[i].FridgeID = u.Fridge.ID
	}
}

// InterestIDs returns the distinct non-zero interest ids in payload order.
func (u *User) InterestIDs() []int64 {
	seen := make(map[int64]struct{}, len(u.Interests))
	ids := make([]int64, 0, len(u.Interests))
	for _, interest := range u.Interests {
		if interest.ID == 0 {
			continue
		}
		if _, ok := seen[interest.ID]; ok {
			continue
		}
		seen[interest.ID] = struct{}{}
		ids = append(ids, interest.ID)
	}
	return ids
}

// ApplyProfile copies the scalar fields carried by src onto u.
//
// For a src decoded from JSON every key in the payload is copied, an
// explicit null included, and missing keys keep u's value. For a src built
// in code the non-nil fields are copied. Identity, interests and fridge
// are left alone.
func (u *User) ApplyProfile(src *User) {
	if src.provided("name", src.Name != nil) {
		u.Name = src.Name
	}
	if src.provided("email", src.Email != nil) {
		u.Email = src.Email
	}
	if src.provided("password", src.Password != nil) {
		u.Password = src.Password
	}
	if src.provided("height", src.Height != nil) {
		u.Height = src.Height
	}
	if src.provided("weight", src.Weight != nil) {
		u.Weight = src.Weight
	}
	if src.provided("gender", src.Gender != nil) {
		u.Gender = src.Gender
	}
}

// Normalize replaces nil collections with empty ones so they encode as [].
func (u *User) Normalize() {
	if u.Interests == nil {
		u.Interests = []Interest{}
	}
	if u.Fridge != nil && u.Fridge.Items == nil {
		u.Fridge.Items = []FridgeItem{}
	}
}
