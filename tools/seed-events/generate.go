package main

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var actionTypes = []string{"purchase", "rsvp", "register", "info", ""}

// randomFields builds a complete create form starting within the next 30 days of now.
func randomFields(rng *rand.Rand, now time.Time) map[string]string {
	tag := uuid.NewString()[:8]
	start := now.UTC().Add(time.Duration(rng.IntN(30*24*60)+60) * time.Minute).Truncate(time.Minute)
	end := start.Add(time.Duration(rng.IntN(5)+1) * time.Hour)

	fields := map[string]string{
		"title":                   "Random Event " + tag,
		"description":             "This is a randomly generated event: " + uuid.NewString() + ".",
		"start_time":              start.Format(time.RFC3339),
		"end_time":                end.Format(time.RFC3339),
		"location_name":           fmt.Sprintf("Random Location %d", rng.IntN(100)+1),
		"location_address":        fmt.Sprintf("%d Random St, City %s", rng.IntN(1000)+1, tag[:3]),
		"location_geo_latitude":   strconv.FormatFloat(rng.Float64()*180-90, 'f', 6, 64),
		"location_geo_longitude":  strconv.FormatFloat(rng.Float64()*360-180, 'f', 6, 64),
		"organizer_name":          "Random Org " + tag[:3],
		"organizer_contact_email": tag + "@example.com",
		"organizer_website":       "http://" + tag + ".example.com",
		"action_link_url":         "http://example.com/action/" + tag,
		"action_link_text":        "Click Here " + tag[:4],
	}
	if t := actionTypes[rng.IntN(len(actionTypes))]; t != "" {
		fields["action_link_type"] = t
	}
	if rng.IntN(2) == 0 {
		fields["media_type"] = "image"
		fields["media_value"] = "https://picsum.photos/seed/" + tag + "/640/360"
	}
	return fields
}
