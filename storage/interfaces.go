package storage

import "earring-market/models"

// ListingReader loads the raw rows of a listing export.
type ListingReader interface {
	Read() ([]*models.RawListing, error)
}

// ListingWriter persists derived listings.
type ListingWriter interface {
	Write(listings []*models.Listing) error
	Close() error
}

// DocumentWriter persists a rendered document.
type DocumentWriter interface {
	WriteDocument(content []byte) error
}
