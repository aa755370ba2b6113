package apify

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrMalformedItem marks dataset records that cannot be parsed. Callers skip
// these and keep processing the rest of the batch.
var ErrMalformedItem = errors.New("malformed dataset item")

// PlaceItem is one place record from the actor dataset. Field names vary
// between actor versions, so several carry aliases resolved in ParseItem.
type PlaceItem struct {
	Title            string   `json:"title"`
	Name             string   `json:"name"`
	CategoryName     string   `json:"categoryName"`
	Address          string   `json:"address"`
	Street           string   `json:"street"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	PostalCode       string   `json:"postalCode"`
	Phone            string   `json:"phone"`
	PhoneUnformatted string   `json:"phoneUnformatted"`
	Website          string   `json:"website"`
	Description      string   `json:"description"`
	TotalScore       *float64 `json:"totalScore"`
	ReviewsCount     *int     `json:"reviewsCount"`
	Reviews          []PlaceReview `json:"reviews"`
	ImageURLs        []string      `json:"imageUrls"`
	Location         *PlaceLatLng  `json:"location"`
	PlaceID          string        `json:"placeId"`
	// Category -> list of {label: true/false} attribute maps, kept raw so
	// Amenities can walk the groups in payload order.
	AdditionalInfo json.RawMessage `json:"additionalInfo"`
}

type PlaceReview struct {
	Name          string   `json:"name"`
	Stars         *float64 `json:"stars"`
	Text          string   `json:"text"`
	PublishedDate string   `json:"publishedAtDate"`
}

type PlaceLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ParseItem decodes one raw dataset record and resolves field aliases.
// A record with no usable name is malformed.
func ParseItem(raw json.RawMessage) (*PlaceItem, error) {
	var item PlaceItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, ErrMalformedItem
	}

	if item.Title == "" {
		item.Title = item.Name
	}
	if item.Address == "" {
		item.Address = item.Street
	}
	if item.Phone == "" {
		item.Phone = item.PhoneUnformatted
	}
	if item.Title == "" {
		return nil, ErrMalformedItem
	}
	return &item, nil
}

// Amenities flattens additionalInfo into the labels marked true, in the
// order groups and entries appear in the payload. Labels are not deduped.
func (p *PlaceItem) Amenities() []string {
	if len(p.AdditionalInfo) == 0 {
		return nil
	}

	// A map decode would lose the group order, so walk the object with a
	// token stream and decode each group's entry list in place.
	dec := json.NewDecoder(bytes.NewReader(p.AdditionalInfo))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}

	var out []string
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return out
		}
		var entries []map[string]bool
		if err := dec.Decode(&entries); err != nil {
			return out
		}
		for _, entry := range entries {
			for label, enabled := range entry {
				if enabled {
					out = append(out, label)
				}
			}
		}
	}
	return out
}
