package models

// Stamp is one collectible image of the pool. Data holds the raw file bytes.
type Stamp struct {
	ID   string `json:"id" msgpack:"id"`
	Path string `json:"path" msgpack:"path"`
	Data []byte `json:"-" msgpack:"-"`
}
