package filters

import (
	"fmt"
	"time"
)

type Filter struct {
	Id          string    `json:"id"`
	Brand       string    `json:"brand"`
	Series      *string   `json:"series"`
	NominalW    int       `json:"nominalW"`
	NominalH    int       `json:"nominalH"`
	Thickness   int       `json:"thickness"`
	Merv        *int      `json:"merv"`
	Sku         string    `json:"sku"`
	Upc         *string   `json:"upc"`
	ProductName string    `json:"productName"`
	Url         *string   `json:"url"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`

	Aliases []Alias `json:"aliases,omitempty"`
}

func (f Filter) GetSize() Size {
	return Size{W: f.NominalW, H: f.NominalH, T: f.Thickness}
}

type Alias struct {
	Id       string `json:"id"`
	Alias    string `json:"alias"`
	FilterId string `json:"filterId"`
}

type Size struct {
	W int `json:"w"`
	H int `json:"h"`
	T int `json:"t"`
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%dx%d", s.W, s.H, s.T)
}
