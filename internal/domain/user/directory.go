package user

import "fmt"

// Directory is a read-mostly, ordered set of users keyed by ID.
type Directory struct {
	users []User
	index map[string]int
}

// NewDirectory builds a directory. Later entries replace earlier ones with the same ID.
func NewDirectory(users []User) *Directory {
	d := &Directory{index: make(map[string]int, len(users))}
	for _, u := range users {
		d.put(u)
	}
	return d
}

func (d *Directory) put(u User) {
	if i, ok := d.index[u.ID]; ok {
		d.users[i] = u
		return
	}
	d.index[u.ID] = len(d.users)
	d.users = append(d.users, u)
}

// Find returns the user with the given ID.
func (d *Directory) Find(id string) (User, bool) {
	i, ok := d.index[id]
	if !ok {
		return User{}, false
	}
	return d.users[i], true
}

// List returns users in insertion order.
func (d *Directory) List() []User {
	out := make([]User, len(d.users))
	copy(out, d.users)
	return out
}

// Resolve maps IDs to users keeping the first occurrence of each ID.
func (d *Directory) Resolve(ids []string) ([]User, error) {
	out := make([]User, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		u, ok := d.Find(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
		}
		seen[id] = struct{}{}
		out = append(out, u)
	}
	return out, nil
}

// Len reports how many users are known.
func (d *Directory) Len() int {
	return len(d.users)
}
