package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/V4T54L/event-admin/internal/domain"
)

// ErrInvalidMediaType is reported when media_type is not image or video.
var ErrInvalidMediaType = errors.New("invalid media_type")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	return v
}

type requiredFields struct {
	Title         string `form:"title" validate:"required"`
	StartTime     string `form:"start_time" validate:"required"`
	LocationName  string `form:"location_name" validate:"required"`
	OrganizerName string `form:"organizer_name" validate:"required"`
}

// CheckRequired fails with a *domain.ValidationError naming every missing
// required field.
func CheckRequired(f domain.FormFields) error {
	err := validate.Struct(requiredFields{
		Title:         f.Get(domain.FieldTitle),
		StartTime:     f.Get(domain.FieldStartTime),
		LocationName:  f.Get(domain.FieldLocationName),
		OrganizerName: f.Get(domain.FieldOrganizerName),
	})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return &domain.ValidationError{Missing: missing, Message: domain.RequiredFieldsMessage}
}

// GeoFromForm returns coordinates only when both latitude and longitude
// parse as finite numbers.
func GeoFromForm(f domain.FormFields) *domain.Geo {
	lat, ok := parseCoordinate(f.Get(domain.FieldLocationLatitude))
	if !ok {
		return nil
	}
	lon, ok := parseCoordinate(f.Get(domain.FieldLocationLongitude))
	if !ok {
		return nil
	}
	return &domain.Geo{Lat: lat, Lon: lon}
}

func parseCoordinate(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// LocationFromForm builds the location sub-object.
func LocationFromForm(f domain.FormFields) domain.Location {
	return domain.Location{
		Name:    f.Get(domain.FieldLocationName),
		Address: f.Get(domain.FieldLocationAddress),
		Geo:     GeoFromForm(f),
	}
}

// OrganizerFromForm builds the organizer sub-object.
func OrganizerFromForm(f domain.FormFields) domain.OrganizerInfo {
	return domain.OrganizerInfo{
		Name:         f.Get(domain.FieldOrganizerName),
		ContactEmail: f.Get(domain.FieldOrganizerContactEmail),
		Website:      f.Get(domain.FieldOrganizerWebsite),
	}
}

// MediaFromForm returns media only when both type and value are present.
// A present but unknown type yields nil and an error wrapping
// ErrInvalidMediaType; callers drop the media and carry on.
func MediaFromForm(f domain.FormFields) (*domain.Media, error) {
	mediaType := f.Get(domain.FieldMediaType)
	value := f.Get(domain.FieldMediaValue)
	if mediaType == "" || value == "" {
		return nil, nil
	}
	t := domain.MediaType(mediaType)
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMediaType, mediaType)
	}
	return &domain.Media{Type: t, Value: value}, nil
}

// ActionLinkFromForm returns the action link only when url and text are both present.
func ActionLinkFromForm(f domain.FormFields) *domain.ActionLink {
	url := f.Get(domain.FieldActionLinkURL)
	text := f.Get(domain.FieldActionLinkText)
	if url == "" || text == "" {
		return nil
	}
	return &domain.ActionLink{URL: url, Text: text, Type: f.Get(domain.FieldActionLinkType)}
}

// Normalizer turns flat form fields into event payloads.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	return &Normalizer{logger: logger.With("component", "normalizer")}
}

// Create builds the payload for a new event. A missing description becomes "".
func (n *Normalizer) Create(f domain.FormFields) (domain.EventPayload, error) {
	if err := CheckRequired(f); err != nil {
		return domain.EventPayload{}, err
	}
	p := n.build(f)
	description := f.Get(domain.FieldDescription)
	p.Description = &description
	return p, nil
}

// Update builds a partial update. Description is only included when submitted.
func (n *Normalizer) Update(f domain.FormFields) (domain.EventPayload, error) {
	if err := CheckRequired(f); err != nil {
		return domain.EventPayload{}, err
	}
	p := n.build(f)
	if f.Has(domain.FieldDescription) {
		description := f.Get(domain.FieldDescription)
		p.Description = &description
	}
	return p, nil
}

func (n *Normalizer) build(f domain.FormFields) domain.EventPayload {
	media, err := MediaFromForm(f)
	if err != nil {
		n.logger.Error("dropping media from event payload", "error", err)
	}
	return domain.EventPayload{
		Title:         f.Get(domain.FieldTitle),
		StartTime:     f.Get(domain.FieldStartTime),
		EndTime:       f.Get(domain.FieldEndTime),
		Location:      LocationFromForm(f),
		OrganizerInfo: OrganizerFromForm(f),
		Media:         media,
		ActionLink:    ActionLinkFromForm(f),
	}
}

// FormFromEvent maps a stored event back to the flat form fields used to
// prefill the edit form.
func FormFromEvent(e domain.Event) domain.FormFields {
	f := domain.FormFields{
		domain.FieldTitle:                 e.Title,
		domain.FieldDescription:           e.Description,
		domain.FieldStartTime:             e.StartTime,
		domain.FieldEndTime:               e.EndTime,
		domain.FieldLocationName:          e.Location.Name,
		domain.FieldLocationAddress:       e.Location.Address,
		domain.FieldOrganizerName:         e.OrganizerInfo.Name,
		domain.FieldOrganizerContactEmail: e.OrganizerInfo.ContactEmail,
		domain.FieldOrganizerWebsite:      e.OrganizerInfo.Website,
	}
	if g := e.Location.Geo; g != nil {
		f[domain.FieldLocationLatitude] = strconv.FormatFloat(g.Lat, 'f', -1, 64)
		f[domain.FieldLocationLongitude] = strconv.FormatFloat(g.Lon, 'f', -1, 64)
	}
	if m := e.Media; m != nil {
		f[domain.FieldMediaType] = string(m.Type)
		f[domain.FieldMediaValue] = m.Value
	}
	if a := e.ActionLink; a != nil {
		f[domain.FieldActionLinkURL] = a.URL
		f[domain.FieldActionLinkText] = a.Text
		f[domain.FieldActionLinkType] = a.Type
	}
	return f
}
