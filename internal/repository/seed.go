package repository

import (
	"fmt"
	"os"

	"github.com/anisurarzu/hotelseashore/internal/domain"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Hotels []seedHotel `yaml:"hotels"`
}

type seedHotel struct {
	ID         int64          `yaml:"id"`
	Name       string         `yaml:"name"`
	Address    string         `yaml:"address"`
	Categories []seedCategory `yaml:"categories"`
}

type seedCategory struct {
	ID             int64    `yaml:"id"`
	Name           string   `yaml:"name"`
	BasePriceCents int64    `yaml:"base_price_cents"`
	Rooms          []string `yaml:"rooms"`
}

// LoadSeed reads a hotel inventory from a YAML file for the memory store.
func LoadSeed(path string) ([]domain.Hotel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) ([]domain.Hotel, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	hotels := make([]domain.Hotel, 0, len(f.Hotels))
	for _, h := range f.Hotels {
		hotel := domain.Hotel{ID: h.ID, Name: h.Name, Address: h.Address}
		for _, c := range h.Categories {
			category := domain.RoomCategory{ID: c.ID, HotelID: h.ID, Name: c.Name, BasePriceCents: c.BasePriceCents}
			seen := make(map[string]bool, len(c.Rooms))
			for _, room := range c.Rooms {
				if seen[room] {
					return nil, fmt.Errorf("duplicate room %q in category %d", room, c.ID)
				}
				seen[room] = true
				category.Rooms = append(category.Rooms, domain.RoomNumber{ID: room, CategoryID: c.ID})
			}
			hotel.Categories = append(hotel.Categories, category)
		}
		hotels = append(hotels, hotel)
	}
	return hotels, nil
}
