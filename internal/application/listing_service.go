package application

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dorpsplein/dorpsplein-api/internal/domain/entity"
	repo "github.com/dorpsplein/dorpsplein-api/internal/domain/repository"
	"github.com/dorpsplein/dorpsplein-api/pkg/helpers"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrNotOwner        = errors.New("listing belongs to another user")
	ErrUnknownCategory = errors.New("unknown category")
	ErrDraftNotFound   = errors.New("draft not found or expired")
)

// SaveError aggregates every violated save rule; nothing is written when
// it is returned.
type SaveError struct {
	Violations []string
}

func (e *SaveError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// ListingService is the single manager behind the recipe, garden and
// design resources, parameterized by category.
type ListingService struct {
	Repo     repo.ListingRepository
	Redis    *redis.Client
	Logger   *logrus.Logger
	ES       *elasticsearch.Client
	ESIndex  string
	DraftTTL time.Duration
}

func NewListingService(r repo.ListingRepository, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esIndex string, draftTTL time.Duration) *ListingService {
	return &ListingService{Repo: r, Redis: rdb, Logger: logger, ES: es, ESIndex: esIndex, DraftTTL: draftTTL}
}

func draftKey(id string) string { return "listing:draft:" + id }

// validate runs the shared save guard plus the category-specific checks.
// Violations are aggregated; a non-empty result blocks the store write.
func (s *ListingService) validate(l *entity.Listing) error {
	var violations []string

	d, ok := DescriptorFor(l.Category)
	if !ok {
		return ErrUnknownCategory
	}

	if strings.TrimSpace(l.Title) == "" {
		violations = append(violations, "titel is verplicht")
	}
	if len(l.MainPhotos()) == 0 {
		violations = append(violations, "minimaal één hoofdfoto is verplicht")
	}
	if l.PriceCents < 0 {
		violations = append(violations, "prijs kan niet negatief zijn")
	}
	if l.PriceCents > 0 && l.MaxStock > 0 && l.Stock > l.MaxStock {
		violations = append(violations, "voorraad kan niet boven het maximum liggen")
	}
	for _, err := range d.ValidateDetails(l) {
		violations = append(violations, err.Error())
	}

	if len(violations) > 0 {
		return &SaveError{Violations: violations}
	}
	return nil
}

// normalizePhotos re-indexes the hero photos 0..n keeping their relative
// order, forces exactly one main flag, and leaves process photos keyed by
// their step/phase number.
func normalizePhotos(l *entity.Listing) {
	sort.SliceStable(l.Photos, func(i, j int) bool {
		pi, pj := l.Photos[i], l.Photos[j]
		if pi.IsProcess() != pj.IsProcess() {
			return !pi.IsProcess()
		}
		return pi.Index < pj.Index
	})
	idx := 0
	mainSeen := false
	for i := range l.Photos {
		if l.Photos[i].IsProcess() {
			l.Photos[i].IsMain = false
			continue
		}
		l.Photos[i].Index = idx
		idx++
		if l.Photos[i].IsMain {
			if mainSeen {
				l.Photos[i].IsMain = false
			}
			mainSeen = true
		}
	}
	// No explicit main: first hero photo becomes main.
	if !mainSeen {
		for i := range l.Photos {
			if !l.Photos[i].IsProcess() {
				l.Photos[i].IsMain = true
				break
			}
		}
	}
}

// Create validates and stores a new listing for userID.
func (s *ListingService) Create(ctx context.Context, userID string, l *entity.Listing) (*entity.Listing, error) {
	l.UserID = userID
	if l.Status == "" {
		l.Status = entity.StatusPrivate
	}
	if err := s.validate(l); err != nil {
		return nil, err
	}
	normalizePhotos(l)
	if err := s.Repo.Create(l); err != nil {
		return nil, err
	}
	s.index(ctx, l)
	return l, nil
}

// Update validates and stores changes to an existing listing. Only the
// owner may update.
func (s *ListingService) Update(ctx context.Context, userID, id string, apply func(*entity.Listing)) (*entity.Listing, error) {
	l, err := s.Repo.GetByID(id)
	if err != nil || l == nil {
		return nil, ErrListingNotFound
	}
	if l.UserID != userID {
		return nil, ErrNotOwner
	}
	apply(l)
	if err := s.validate(l); err != nil {
		return nil, err
	}
	normalizePhotos(l)
	if err := s.Repo.Update(l); err != nil {
		return nil, err
	}
	s.index(ctx, l)
	return l, nil
}

// Get returns a listing, hiding PRIVATE listings from non-owners.
func (s *ListingService) Get(ctx context.Context, viewerID, id string) (*entity.Listing, error) {
	l, err := s.Repo.GetByID(id)
	if err != nil || l == nil {
		return nil, ErrListingNotFound
	}
	if l.Status != entity.StatusPublished && l.UserID != viewerID {
		return nil, ErrListingNotFound
	}
	return l, nil
}

// List returns listings for the filter. Non-owners only see published
// listings regardless of the requested status.
func (s *ListingService) List(ctx context.Context, viewerID string, f repo.ListingFilter) ([]*entity.Listing, error) {
	if f.UserID != viewerID {
		f.Status = entity.StatusPublished
	}
	return s.Repo.List(f)
}

// Delete removes a listing owned by userID and drops its search document.
func (s *ListingService) Delete(ctx context.Context, userID, id string) error {
	l, err := s.Repo.GetByID(id)
	if err != nil || l == nil {
		return ErrListingNotFound
	}
	if l.UserID != userID {
		return ErrNotOwner
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.deindex(ctx, id)
	return nil
}

// SetActive toggles a sellable listing between PUBLISHED and PRIVATE.
func (s *ListingService) SetActive(ctx context.Context, userID, id string, active bool) (*entity.Listing, error) {
	return s.Update(ctx, userID, id, func(l *entity.Listing) {
		if active {
			l.Status = entity.StatusPublished
		} else {
			l.Status = entity.StatusPrivate
		}
	})
}

// ProductDraft is the one-shot handoff payload for promoting a listing to
// a sellable product. It lives in Redis with a TTL instead of browser
// storage, which removes the stale-read race of the old flow.
type ProductDraft struct {
	SourceListingID string         `json:"sourceListingId"`
	UserID          string         `json:"userId"`
	Category        string         `json:"category"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Photos          []entity.Photo `json:"photos"`
	Tags            []string       `json:"tags"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// Promote copies a listing's fields into a server-side draft and returns
// the draft id for the product-creation flow to consume.
func (s *ListingService) Promote(ctx context.Context, userID, id string) (string, *ProductDraft, error) {
	l, err := s.Repo.GetByID(id)
	if err != nil || l == nil {
		return "", nil, ErrListingNotFound
	}
	if l.UserID != userID {
		return "", nil, ErrNotOwner
	}
	draftID, err := helpers.GenToken(16)
	if err != nil {
		return "", nil, err
	}
	draft := &ProductDraft{
		SourceListingID: l.ID,
		UserID:          userID,
		Category:        l.Category,
		Title:           l.Title,
		Description:     l.Description,
		Photos:          l.MainPhotos(),
		Tags:            l.Tags,
		CreatedAt:       time.Now().UTC(),
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, draftKey(draftID), draft, s.DraftTTL); err != nil {
		return "", nil, err
	}
	return draftID, draft, nil
}

// ConsumeDraft reads and deletes a product draft in one atomic GETDEL,
// so concurrent consumers of the same id cannot both succeed. A consume
// by the wrong user puts the draft back for its owner.
func (s *ListingService) ConsumeDraft(ctx context.Context, userID, draftID string) (*ProductDraft, error) {
	val, err := s.Redis.GetDel(ctx, draftKey(draftID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	var draft ProductDraft
	if err := json.Unmarshal([]byte(val), &draft); err != nil {
		return nil, err
	}
	if draft.UserID != userID {
		_ = s.Redis.Set(ctx, draftKey(draftID), val, s.DraftTTL).Err()
		return nil, ErrDraftNotFound
	}
	return &draft, nil
}

// Stats are the per-user listing counts shown on the profile page.
type Stats struct {
	Total       int            `json:"total"`
	Published   int            `json:"published"`
	Dorpsplein  int            `json:"dorpsplein"`
	Inspiratie  int            `json:"inspiratie"`
	PerCategory map[string]int `json:"perCategory"`
}

// StatsFor aggregates listing counts for a user. Viewers other than the
// owner only see published listings in the counts.
func (s *ListingService) StatsFor(ctx context.Context, viewerID, userID string) (*Stats, error) {
	f := repo.ListingFilter{UserID: userID}
	if viewerID != userID {
		f.Status = entity.StatusPublished
	}
	all, err := s.Repo.List(f)
	if err != nil {
		return nil, err
	}
	st := &Stats{PerCategory: map[string]int{}}
	for _, l := range all {
		st.Total++
		st.PerCategory[l.Category]++
		if l.Status == entity.StatusPublished {
			st.Published++
		}
		if l.Sellable() {
			st.Dorpsplein++
		}
		if l.Inspiration() {
			st.Inspiratie++
		}
	}
	return st, nil
}

// index pushes published listings into Elasticsearch; private listings
// are removed from the index instead.
func (s *ListingService) index(ctx context.Context, l *entity.Listing) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	if l.Status != entity.StatusPublished {
		s.deindex(ctx, l.ID)
		return
	}
	doc := map[string]any{
		"id":          l.ID,
		"user_id":     l.UserID,
		"category":    l.Category,
		"title":       l.Title,
		"description": l.Description,
		"tags":        l.Tags,
		"sellable":    l.Sellable(),
		"price_cents": l.PriceCents,
		"updated_at":  l.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: l.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("listing_id", l.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("listing_id", l.ID).Warn("es index response error")
	}
}

func (s *ListingService) deindex(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		return
	}
	_ = res.Body.Close()
}

// Search runs a multi_match query over title, description and tags.
func (s *ListingService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "tags^2", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
