package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dorpsplein/dorpsplein-api/pkg/helpers"
)

var (
	ErrInvalidPostcode    = errors.New("postcode must be 4 digits followed by 2 letters")
	ErrInvalidHouseNumber = errors.New("house number must be numeric")
	ErrAddressNotFound    = errors.New("address not found")
)

// Dutch postal code: 4 digits + 2 uppercase letters, e.g. 1012AB.
var dutchPostcodeRe = regexp.MustCompile(`^\d{4}[A-Z]{2}$`)

// Address is the discovered-address preview returned by both lookups.
type Address struct {
	Street      string  `json:"street,omitempty"`
	HouseNumber string  `json:"houseNumber,omitempty"`
	PostalCode  string  `json:"postalCode,omitempty"`
	City        string  `json:"city,omitempty"`
	Country     string  `json:"country,omitempty"`
	DisplayName string  `json:"displayName"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// GeocodingService resolves addresses via the PDOK Locatieserver for
// Dutch postcode+huisnummer lookups and a Nominatim-compatible endpoint
// for everything else. Results are cached in Redis; upstream failures are
// returned as-is without retries.
type GeocodingService struct {
	DutchURL  string
	GlobalURL string
	Client    *http.Client
	Redis     *redis.Client
	CacheTTL  time.Duration
	Logger    *logrus.Logger
}

func NewGeocodingService(dutchURL, globalURL string, timeout time.Duration, rdb *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) *GeocodingService {
	return &GeocodingService{
		DutchURL:  dutchURL,
		GlobalURL: globalURL,
		Client:    &http.Client{Timeout: timeout},
		Redis:     rdb,
		CacheTTL:  cacheTTL,
		Logger:    logger,
	}
}

// NormalizeDutchPostcode uppercases and strips spaces ("1012 ab" -> "1012AB").
func NormalizeDutchPostcode(postcode string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(postcode), " ", ""))
}

// ValidateDutchInput checks postcode and huisnummer before any upstream
// call. Lookup must only run when both are present and well-formed.
func ValidateDutchInput(postcode, huisnummer string) (string, int, error) {
	pc := NormalizeDutchPostcode(postcode)
	if !dutchPostcodeRe.MatchString(pc) {
		return "", 0, ErrInvalidPostcode
	}
	nr, err := strconv.Atoi(strings.TrimSpace(huisnummer))
	if err != nil || nr <= 0 {
		return "", 0, ErrInvalidHouseNumber
	}
	return pc, nr, nil
}

func geoCacheKey(parts ...string) string {
	return "geo:" + strings.Join(parts, ":")
}

// LookupDutch resolves a Dutch postcode + house number pair.
func (s *GeocodingService) LookupDutch(ctx context.Context, postcode, huisnummer string) (*Address, error) {
	pc, nr, err := ValidateDutchInput(postcode, huisnummer)
	if err != nil {
		return nil, err
	}

	key := geoCacheKey("nl", pc, strconv.Itoa(nr))
	if s.Redis != nil {
		var cached Address
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	q := url.Values{}
	q.Set("q", fmt.Sprintf("postcode:%s and huisnummer:%d", pc, nr))
	q.Set("fq", "type:adres")
	q.Set("rows", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.DutchURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dutch geocoding upstream status %d", resp.StatusCode)
	}

	var parsed struct {
		Response struct {
			Docs []struct {
				Weergavenaam string `json:"weergavenaam"`
				Straatnaam   string `json:"straatnaam"`
				Huisnummer   int    `json:"huisnummer"`
				Postcode     string `json:"postcode"`
				Woonplaats   string `json:"woonplaatsnaam"`
				Centroide    string `json:"centroide_ll"` // "POINT(lon lat)"
			} `json:"docs"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Response.Docs) == 0 {
		return nil, ErrAddressNotFound
	}
	doc := parsed.Response.Docs[0]
	lat, lon := parseCentroide(doc.Centroide)
	addr := &Address{
		Street:      doc.Straatnaam,
		HouseNumber: strconv.Itoa(doc.Huisnummer),
		PostalCode:  doc.Postcode,
		City:        doc.Woonplaats,
		Country:     "NL",
		DisplayName: doc.Weergavenaam,
		Lat:         lat,
		Lon:         lon,
	}

	if s.Redis != nil {
		_ = helpers.RedisSetJSON(ctx, s.Redis, key, addr, s.CacheTTL)
	}
	return addr, nil
}

// parseCentroide extracts lat/lon from a "POINT(lon lat)" WKT string.
func parseCentroide(wkt string) (lat, lon float64) {
	wkt = strings.TrimSuffix(strings.TrimPrefix(wkt, "POINT("), ")")
	parts := strings.Fields(wkt)
	if len(parts) != 2 {
		return 0, 0
	}
	lon, _ = strconv.ParseFloat(parts[0], 64)
	lat, _ = strconv.ParseFloat(parts[1], 64)
	return lat, lon
}

// GlobalQuery is the free-form lookup input.
type GlobalQuery struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// LookupGlobal resolves a free-form address via the Nominatim-style
// upstream.
func (s *GeocodingService) LookupGlobal(ctx context.Context, in GlobalQuery) (*Address, error) {
	parts := make([]string, 0, 3)
	for _, p := range []string{in.Address, in.City, in.Country} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	if len(parts) == 0 {
		return nil, ErrAddressNotFound
	}
	full := strings.Join(parts, ", ")

	key := geoCacheKey("global", strings.ToLower(full))
	if s.Redis != nil {
		var cached Address
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	q := url.Values{}
	q.Set("q", full)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.GlobalURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "dorpsplein-api")
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("global geocoding upstream status %d", resp.StatusCode)
	}

	var parsed []struct {
		DisplayName string `json:"display_name"`
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		Address     struct {
			Road        string `json:"road"`
			HouseNumber string `json:"house_number"`
			Postcode    string `json:"postcode"`
			City        string `json:"city"`
			Town        string `json:"town"`
			Village     string `json:"village"`
			CountryCode string `json:"country_code"`
		} `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed) == 0 {
		return nil, ErrAddressNotFound
	}
	hit := parsed[0]
	lat, _ := strconv.ParseFloat(hit.Lat, 64)
	lon, _ := strconv.ParseFloat(hit.Lon, 64)
	city := hit.Address.City
	if city == "" {
		city = hit.Address.Town
	}
	if city == "" {
		city = hit.Address.Village
	}
	addr := &Address{
		Street:      hit.Address.Road,
		HouseNumber: hit.Address.HouseNumber,
		PostalCode:  hit.Address.Postcode,
		City:        city,
		Country:     strings.ToUpper(hit.Address.CountryCode),
		DisplayName: hit.DisplayName,
		Lat:         lat,
		Lon:         lon,
	}

	if s.Redis != nil {
		_ = helpers.RedisSetJSON(ctx, s.Redis, key, addr, s.CacheTTL)
	}
	return addr, nil
}
