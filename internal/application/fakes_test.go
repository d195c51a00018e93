package application

import (
	"errors"
	"strconv"
	"sync"

	"github.com/dorpsplein/dorpsplein-api/internal/domain/entity"
	repo "github.com/dorpsplein/dorpsplein-api/internal/domain/repository"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*entity.User // by id

	createErr error
	lookupErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	u.ID = "user-" + strconv.Itoa(r.seq)
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, errors.New("not found")
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeUserRepo) GetByUsername(username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeUserRepo) UsernameExists(username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupErr != nil {
		return false, r.lookupErr
	}
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) EmailExists(email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupErr != nil {
		return false, r.lookupErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return errors.New("not found")
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

var _ repo.UserRepository = (*fakeUserRepo)(nil)

// fakeListingRepo is an in-memory ListingRepository.
type fakeListingRepo struct {
	mu       sync.Mutex
	seq      int
	listings map[string]*entity.Listing

	createCalls int
	updateCalls int
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: map[string]*entity.Listing{}}
}

func (r *fakeListingRepo) Create(l *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	r.seq++
	l.ID = "listing-" + strconv.Itoa(r.seq)
	cp := *l
	r.listings[l.ID] = &cp
	return nil
}

func (r *fakeListingRepo) GetByID(id string) (*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.listings[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeListingRepo) List(f repo.ListingFilter) ([]*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.Listing{}
	for _, l := range r.listings {
		if f.UserID != "" && l.UserID != f.UserID {
			continue
		}
		if f.Category != "" && l.Category != f.Category {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if f.View == "dorpsplein" && !l.Sellable() {
			continue
		}
		if f.View == "inspiratie" && !l.Inspiration() {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeListingRepo) Update(l *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	if _, ok := r.listings[l.ID]; !ok {
		return errors.New("not found")
	}
	cp := *l
	r.listings[l.ID] = &cp
	return nil
}

func (r *fakeListingRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.listings, id)
	return nil
}

var _ repo.ListingRepository = (*fakeListingRepo)(nil)

// fakeNotificationRepo is an in-memory NotificationRepository.
type fakeNotificationRepo struct {
	mu      sync.Mutex
	records map[string]*entity.NotificationPreferences
	getErr  error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{records: map[string]*entity.NotificationPreferences{}}
}

func (r *fakeNotificationRepo) Get(userID string) (*entity.NotificationPreferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	if p, ok := r.records[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeNotificationRepo) Put(p *entity.NotificationPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.records[p.UserID] = &cp
	return nil
}

var _ repo.NotificationRepository = (*fakeNotificationRepo)(nil)
