package utils

import "testing"

func TestPublicIDFromURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"versioned", "https://res.cloudinary.com/demo/image/upload/v1234567890/events/abc123.jpg", "events/abc123"},
		{"unversioned", "https://res.cloudinary.com/demo/image/upload/testimonials/face.png", "testimonials/face"},
		{"nested folder", "https://res.cloudinary.com/demo/image/upload/v1/a/b/c.webp", "a/b/c"},
		{"no extension", "https://res.cloudinary.com/demo/image/upload/v99/achievements/trophy", "achievements/trophy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PublicIDFromURL(tc.url)
			if err != nil {
				t.Fatalf("PublicIDFromURL() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("PublicIDFromURL() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPublicIDFromURLRejectsForeignURLs(t *testing.T) {
	for _, raw := range []string{"https://example.com/picture.jpg", "https://res.cloudinary.com/demo/image/upload/"} {
		if _, err := PublicIDFromURL(raw); err == nil {
			t.Fatalf("PublicIDFromURL(%q) succeeded, want error", raw)
		}
	}
}

func TestUploadAndDestroyShareResourceType(t *testing.T) {
	up := uploadParams("events")
	del := destroyParams("events/abc123")
	if up.Folder != "events" || del.PublicID != "events/abc123" {
		t.Fatalf("params = %+v / %+v", up, del)
	}
	if up.ResourceType != "image" || del.ResourceType != up.ResourceType {
		t.Fatalf("resource types = %q / %q, want both %q", up.ResourceType, del.ResourceType, "image")
	}
}
