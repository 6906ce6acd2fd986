package domain

// Form field names shared by the upload and edit forms.
const (
	FieldTitle                 = "title"
	FieldDescription           = "description"
	FieldStartTime             = "start_time"
	FieldEndTime               = "end_time"
	FieldLocationName          = "location_name"
	FieldLocationAddress       = "location_address"
	FieldLocationLatitude      = "location_geo_latitude"
	FieldLocationLongitude     = "location_geo_longitude"
	FieldOrganizerName         = "organizer_name"
	FieldOrganizerContactEmail = "organizer_contact_email"
	FieldOrganizerWebsite      = "organizer_website"
	FieldMediaType             = "media_type"
	FieldMediaValue            = "media_value"
	FieldActionLinkURL         = "action_link_url"
	FieldActionLinkText        = "action_link_text"
	FieldActionLinkType        = "action_link_type"

	// FieldImageFile is the multipart part carrying an optional image.
	FieldImageFile = "imageFile"
)

// FormFields is the flat field-name to value mapping submitted by the forms.
// A key that is present with an empty value is distinct from a missing key.
type FormFields map[string]string

// Get returns the value of key, or "" when absent.
func (f FormFields) Get(key string) string {
	return f[key]
}

// Has reports whether key was submitted at all.
func (f FormFields) Has(key string) bool {
	_, ok := f[key]
	return ok
}
