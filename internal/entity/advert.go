package entity

import (
	"strconv"
	"strings"
	"time"
)

type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyRUB Currency = "RUB"
)

// Photo is one gallery image of an advert. SortOrder controls client-side
// ordering; new uploads get a high sort order so they land at the end.
type Photo struct {
	ID        int64  `json:"id" bson:"id"`
	Uploads   string `json:"uploads" bson:"uploads"`
	SortOrder int    `json:"sort_order" bson:"sort_order"`
}

// Advert is a single marketplace listing. IDs are assigned from a monotonic
// sequence and never reused. Views, Top, Vip and Lifts are never negative.
type Advert struct {
	ID       int64    `json:"id" bson:"id"`
	Owner    string   `json:"owner" bson:"owner"`
	Category Category `json:"db_category" bson:"db_category"`

	Title         string `json:"title" bson:"title"`
	TitleEN       string `json:"title_en,omitempty" bson:"title_en,omitempty"`
	TitleRU       string `json:"title_ru,omitempty" bson:"title_ru,omitempty"`
	TitleTR       string `json:"title_tr,omitempty" bson:"title_tr,omitempty"`
	Description   string `json:"description" bson:"description"`
	DescriptionEN string `json:"description_en,omitempty" bson:"description_en,omitempty"`
	DescriptionRU string `json:"description_ru,omitempty" bson:"description_ru,omitempty"`
	DescriptionTR string `json:"description_tr,omitempty" bson:"description_tr,omitempty"`

	Price    float64  `json:"price" bson:"price"`
	Currency Currency `json:"currency" bson:"currency"`

	Address string `json:"address" bson:"address"`
	City    string `json:"city" bson:"city"`
	// Geocode is the raw "lat lng" pair as submitted by the client.
	Geocode string `json:"geocode" bson:"geocode"`
	// GeoIndexed is [lng, lat], the order MongoDB geo queries expect.
	GeoIndexed []float64 `json:"geo_indexed,omitempty" bson:"geo_indexed,omitempty"`

	Upload     string  `json:"upload" bson:"upload"`
	FullUpload []Photo `json:"full_upload" bson:"full_upload"`

	Views int64 `json:"views" bson:"views"`
	Top   int64 `json:"top" bson:"top"`
	Vip   int64 `json:"vip" bson:"vip"`
	Lifts int64 `json:"lifts" bson:"lifts"`

	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" bson:"updated_at"`

	// Realty
	Square    *float64 `json:"square,omitempty" bson:"square,omitempty"`
	TypeSell  *string  `json:"type_sell,omitempty" bson:"type_sell,omitempty"`
	Rooms     *string  `json:"rooms,omitempty" bson:"rooms,omitempty"`
	Floor     *int     `json:"floor,omitempty" bson:"floor,omitempty"`
	Condition *string  `json:"condition,omitempty" bson:"condition,omitempty"`
	IsMonth   *bool    `json:"isMonth,omitempty" bson:"is_month,omitempty"`

	// Vehicles
	Brand        *string `json:"brand,omitempty" bson:"brand,omitempty"`
	Model        *string `json:"model,omitempty" bson:"model,omitempty"`
	Year         *int    `json:"year,omitempty" bson:"year,omitempty"`
	Mileage      *int    `json:"mileage,omitempty" bson:"mileage,omitempty"`
	Gas          *string `json:"gas,omitempty" bson:"gas,omitempty"`
	Transmission *bool   `json:"transmission,omitempty" bson:"transmission,omitempty"`
	IsUsed       *bool   `json:"isUsed,omitempty" bson:"is_used,omitempty"`

	// Jobs
	Employment *string `json:"employment,omitempty" bson:"employment,omitempty"`
	WorkType   *bool   `json:"workType,omitempty" bson:"work_type,omitempty"`
}

// ParseGeocode converts a "lat lng" string into the [lng, lat] order used by
// GeoIndexed. Returns nil if the string does not hold two numbers.
func ParseGeocode(geocode string) []float64 {
	parts := strings.Fields(geocode)
	if len(parts) != 2 {
		return nil
	}
	lat, errLat := strconv.ParseFloat(parts[0], 64)
	lng, errLng := strconv.ParseFloat(parts[1], 64)
	if errLat != nil || errLng != nil {
		return nil
	}
	return []float64{lng, lat}
}

// AdvertPatch holds the fields a client may change on edit. Nil pointers mean
// "leave as stored". Upload and FullUpload are never editable through a patch;
// photos go through their own endpoints.
type AdvertPatch struct {
	Title         *string   `json:"title"`
	TitleEN       *string   `json:"title_en"`
	TitleRU       *string   `json:"title_ru"`
	TitleTR       *string   `json:"title_tr"`
	Description   *string   `json:"description"`
	DescriptionEN *string   `json:"description_en"`
	DescriptionRU *string   `json:"description_ru"`
	DescriptionTR *string   `json:"description_tr"`
	Price         *float64  `json:"price"`
	Currency      *Currency `json:"currency"`
	Address       *string   `json:"address"`
	City          *string   `json:"city"`
	Geocode       *string   `json:"geocode"`

	Square       *float64 `json:"square"`
	TypeSell     *string  `json:"type_sell"`
	Rooms        *string  `json:"rooms"`
	Floor        *int     `json:"floor"`
	Condition    *string  `json:"condition"`
	IsMonth      *bool    `json:"isMonth"`
	Brand        *string  `json:"brand"`
	Model        *string  `json:"model"`
	Year         *int     `json:"year"`
	Mileage      *int     `json:"mileage"`
	Gas          *string  `json:"gas"`
	Transmission *bool    `json:"transmission"`
	IsUsed       *bool    `json:"isUsed"`
	Employment   *string  `json:"employment"`
	WorkType     *bool    `json:"workType"`
}

// ApplyPatch merges the patch into the stored advert and refreshes UpdatedAt.
// Only fields present in the patch are copied; id, owner, category, counters
// and photo fields are never touched here.
func (a *Advert) ApplyPatch(patch AdvertPatch, now time.Time) {
	if patch.Title != nil {
		a.Title = *patch.Title
	}
	if patch.TitleEN != nil {
		a.TitleEN = *patch.TitleEN
	}
	if patch.TitleRU != nil {
		a.TitleRU = *patch.TitleRU
	}
	if patch.TitleTR != nil {
		a.TitleTR = *patch.TitleTR
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}
	if patch.DescriptionEN != nil {
		a.DescriptionEN = *patch.DescriptionEN
	}
	if patch.DescriptionRU != nil {
		a.DescriptionRU = *patch.DescriptionRU
	}
	if patch.DescriptionTR != nil {
		a.DescriptionTR = *patch.DescriptionTR
	}
	if patch.Price != nil {
		a.Price = *patch.Price
	}
	if patch.Currency != nil {
		a.Currency = *patch.Currency
	}
	if patch.Address != nil {
		a.Address = *patch.Address
	}
	if patch.City != nil {
		a.City = *patch.City
	}
	if patch.Geocode != nil {
		a.Geocode = *patch.Geocode
		a.GeoIndexed = ParseGeocode(*patch.Geocode)
	}
	if patch.Square != nil {
		a.Square = patch.Square
	}
	if patch.TypeSell != nil {
		a.TypeSell = patch.TypeSell
	}
	if patch.Rooms != nil {
		a.Rooms = patch.Rooms
	}
	if patch.Floor != nil {
		a.Floor = patch.Floor
	}
	if patch.Condition != nil {
		a.Condition = patch.Condition
	}
	if patch.IsMonth != nil {
		a.IsMonth = patch.IsMonth
	}
	if patch.Brand != nil {
		a.Brand = patch.Brand
	}
	if patch.Model != nil {
		a.Model = patch.Model
	}
	if patch.Year != nil {
		a.Year = patch.Year
	}
	if patch.Mileage != nil {
		a.Mileage = patch.Mileage
	}
	if patch.Gas != nil {
		a.Gas = patch.Gas
	}
	if patch.Transmission != nil {
		a.Transmission = patch.Transmission
	}
	if patch.IsUsed != nil {
		a.IsUsed = patch.IsUsed
	}
	if patch.Employment != nil {
		a.Employment = patch.Employment
	}
	if patch.WorkType != nil {
		a.WorkType = patch.WorkType
	}
	a.UpdatedAt = &now
}
