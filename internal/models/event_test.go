package models

import "testing"

func TestEventIdentityKey(t *testing.T) {
	withURL := Event{
		Title:      "Night Shift",
		Location:   "Death Disco",
		DetailsURL: "https://example.com/events/night-shift",
	}

	key, byDetailsURL := withURL.IdentityKey()
	if !byDetailsURL || key != withURL.DetailsURL {
		t.Errorf("IdentityKey() = %q, %v; want details URL identity", key, byDetailsURL)
	}

	withoutURL := Event{Title: "Night Shift", Location: "Death Disco"}

	key, byDetailsURL = withoutURL.IdentityKey()
	if byDetailsURL || key != "Night Shift|Death Disco" {
		t.Errorf("IdentityKey() = %q, %v; want title and location composite", key, byDetailsURL)
	}
}
