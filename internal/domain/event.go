package domain

// MediaType enumerates the kinds of media an event may reference.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Valid reports whether t is one of the known media types.
func (t MediaType) Valid() bool {
	return t == MediaTypeImage || t == MediaTypeVideo
}

// Geo is a latitude/longitude pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location describes where an event takes place.
type Location struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Geo     *Geo   `json:"geo,omitempty"`
}

// OrganizerInfo describes who runs an event.
type OrganizerInfo struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email,omitempty"`
	Website      string `json:"website,omitempty"`
}

// Media references an image or video for the event.
type Media struct {
	Type  MediaType `json:"type"`
	Value string    `json:"value"`
}

// ActionLink is the primary call-to-action of an event.
type ActionLink struct {
	URL  string `json:"url"`
	Text string `json:"text"`
	Type string `json:"type,omitempty"` // e.g. purchase, rsvp, register, info
}

// RelatedLink is a general-purpose link attached to an event.
type RelatedLink struct {
	URL  string `json:"url"`
	Text string `json:"text"`
	Type string `json:"type,omitempty"`
}

// Event is the canonical event document held in the search index.
// ID, Version, Signature and VectorEmbedding are assigned by the ingest service.
type Event struct {
	Version         string        `json:"version"`
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	StartTime       string        `json:"start_time"`
	EndTime         string        `json:"end_time,omitempty"`
	Location        Location      `json:"location"`
	OrganizerInfo   OrganizerInfo `json:"organizer_info"`
	ActionLink      *ActionLink   `json:"action_link,omitempty"`
	Signature       string        `json:"signature"`
	Media           *Media        `json:"media,omitempty"`
	RelatedLinks    []RelatedLink `json:"related_links,omitempty"`
	VectorEmbedding []float64     `json:"vector_embedding,omitempty"`
}

// StoredEvent is an Event as read back from the index, carrying the
// index-assigned document identifier alongside the document's own ID.
type StoredEvent struct {
	DocID string `json:"_id"`
	Event
}

// EventPayload is the user-controlled subset of an Event. It is what the
// form normalizer produces and what is sent to the ingest service or used as
// a partial update. It has no fields for id, version, signature or
// vector_embedding, so it can never overwrite them.
type EventPayload struct {
	Title         string        `json:"title"`
	Description   *string       `json:"description,omitempty"`
	StartTime     string        `json:"start_time"`
	EndTime       string        `json:"end_time,omitempty"`
	Location      Location      `json:"location"`
	OrganizerInfo OrganizerInfo `json:"organizer_info"`
	Media         *Media        `json:"media,omitempty"`
	ActionLink    *ActionLink   `json:"action_link,omitempty"`
	RelatedLinks  []RelatedLink `json:"related_links,omitempty"`
}

// ImageFile is an uploaded image buffered in memory for the lifetime of a
// single create request.
type ImageFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
