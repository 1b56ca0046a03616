package filestorage

import "mime/multipart"

// PhotoStorage persists uploaded card photos and yields the URL the card
// record will carry.
type PhotoStorage interface {
	// SavePhoto stores an uploaded photo and returns its accessible URL.
	SavePhoto(fileHeader *multipart.FileHeader) (string, error)

	// DeletePhoto removes a previously stored photo. Passing a URL that was
	// never stored here (e.g. a base64 data URI) is a no-op.
	DeletePhoto(photoURL string) error
}
