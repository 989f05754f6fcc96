package minio

import (
	"testing"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
)

func TestObjectKeyStripsStoragePrefix(t *testing.T) {
	if got := ObjectKey("/storage/universities/um.png", catalog.EntityUniversity); got != "universities/um.png" {
		t.Errorf("ObjectKey = %q", got)
	}
}

func TestObjectKeyPassthroughWithoutPrefix(t *testing.T) {
	if got := ObjectKey("projects/p1.jpg", catalog.EntityProject); got != "projects/p1.jpg" {
		t.Errorf("ObjectKey = %q", got)
	}
}

func TestObjectKeyDefaultsPerEntityType(t *testing.T) {
	cases := map[catalog.EntityType]string{
		catalog.EntityUniversity: "defaults/university.png",
		catalog.EntityProject:    "defaults/project.png",
		catalog.EntityPartner:    "defaults/partner.png",
		catalog.EntityResearcher: "defaults/researcher.png",
		catalog.EntityEvent:      "defaults/event.png",
	}
	for entityType, want := range cases {
		if got := ObjectKey("", entityType); got != want {
			t.Errorf("ObjectKey(\"\", %s) = %q, want %q", entityType, got, want)
		}
	}
}

func TestObjectKeyUnknownTypeEmpty(t *testing.T) {
	if got := ObjectKey("", catalog.EntityType("widget")); got != "" {
		t.Errorf("unknown type key = %q", got)
	}
}
